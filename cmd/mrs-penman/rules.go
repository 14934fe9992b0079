// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mrs-penman/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Work with rule set documents",
}

var rulesCheckCmd = &cobra.Command{
	Use:   "check PATH",
	Short: "Validate a rule set and print a summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rs, err := rules.Load(args[0])
		if err != nil {
			return err
		}
		printRuleSummary(cmd.OutOrStdout(), args[0], rs.Summarize())
		return nil
	},
}

func printRuleSummary(w io.Writer, path string, sum rules.Summary) {
	fmt.Fprintf(w, "%s: ok\n", path)
	fmt.Fprintf(w, "  drop_nodes:          %d\n", sum.DropNodes)
	fmt.Fprintf(w, "  global relations:    %d\n", sum.GlobalRelations)

	sorts := make([]string, 0, len(sum.SortRelations))
	for s := range sum.SortRelations {
		sorts = append(sorts, s)
	}
	sort.Strings(sorts)
	for _, s := range sorts {
		fmt.Fprintf(w, "  %s relations:         %d\n", s, sum.SortRelations[s])
	}

	fmt.Fprintf(w, "  predicate scopes:    %d\n", sum.PredicateScopes)
	if len(sum.RewriteRelations) > 0 {
		fmt.Fprintf(w, "  substitutions:       %s\n", strings.Join(sum.RewriteRelations, ", "))
	}
}

func init() {
	rulesCmd.AddCommand(rulesCheckCmd)
	rootCmd.AddCommand(rulesCmd)
}
