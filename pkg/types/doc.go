// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the mrs-penman
// stages: semantic graphs as handed over by a parser, the triple form the
// stages pass between each other, corpus items, and configuration.
package types
