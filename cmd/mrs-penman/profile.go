// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/mrs-penman/internal/profile"
	"github.com/pdiddy/mrs-penman/internal/reader"
	"github.com/pdiddy/mrs-penman/pkg/types"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage SQLite profiles of parsed items",
}

var profileImportCmd = &cobra.Command{
	Use:   "import DB [FILE]",
	Short: "Import JSON-lines items into a profile",
	Long: `Import reads items as JSON lines from FILE (or stdin) and stores them with
their candidate graphs in the profile database DB, creating it if needed.
Items with an existing id are replaced.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runProfileImport,
}

func runProfileImport(cmd *cobra.Command, args []string) error {
	store, err := profile.Open(types.ProfileConfig{Path: args[0]})
	if err != nil {
		return err
	}
	defer store.Close()

	var r io.Reader = cmd.InOrStdin()
	if len(args) == 2 && args[1] != "-" {
		f, err := os.Open(args[1])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	n, err := store.Import(cmd.Context(), reader.NewJSONLines(r))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d item(s) into %s\n", n, args[0])
	return nil
}

func init() {
	profileCmd.AddCommand(profileImportCmd)
	rootCmd.AddCommand(profileCmd)
}
