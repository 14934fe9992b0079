// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ParserConfig holds settings for the external parser process used when
// the input is raw sentences.
type ParserConfig struct {
	// Binary is the parser executable (e.g. "ace").
	Binary string `json:"binary" yaml:"binary"`

	// Args are extra arguments passed before the per-run options
	// (typically the grammar image: ["-g", "erg.dat"]).
	Args []string `json:"args,omitempty" yaml:"args,omitempty"`

	// Timeout bounds the parse of one sentence. Zero means no limit.
	Timeout time.Duration `json:"timeout" yaml:"timeout" validate:"gte=0"`

	// ResultsFlag, when set, is passed with the per-item result cap so the
	// parser stops after that many results (ACE: "-n").
	ResultsFlag string `json:"results_flag,omitempty" yaml:"results_flag,omitempty"`

	// TimeoutFlag, when set, is passed with Timeout in whole seconds so the
	// parser enforces the limit itself (ACE: "--timeout").
	TimeoutFlag string `json:"timeout_flag,omitempty" yaml:"timeout_flag,omitempty"`
}

// ProfileConfig holds settings for the SQLite profile store.
type ProfileConfig struct {
	// Path is the profile database file.
	Path string `json:"path" yaml:"path"`
}

// ConvertConfig holds settings for the convert stage.
type ConvertConfig struct {
	// MaxResults is the number of candidate graphs converted per item (default 1).
	MaxResults int `json:"max_results" yaml:"max_results" validate:"gte=0"`

	// Properties includes variable properties as attribute triples.
	Properties bool `json:"properties" yaml:"properties"`

	// Lnk includes surface alignment triples.
	Lnk bool `json:"lnk" yaml:"lnk"`

	// Indent is the number of spaces per nesting level (default 2).
	Indent int `json:"indent" yaml:"indent" validate:"gte=0"`

	// Compact writes each graph on a single line.
	Compact bool `json:"compact" yaml:"compact"`

	// RulesPath is the rule set document; empty disables filtering and
	// substitution.
	RulesPath string `json:"rules" yaml:"rules"`

	Parser  ParserConfig  `json:"parser" yaml:"parser"`
	Profile ProfileConfig `json:"profile" yaml:"profile"`
}
