// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/mrs-penman/internal/parser"
	"github.com/pdiddy/mrs-penman/internal/pipeline"
	"github.com/pdiddy/mrs-penman/internal/profile"
	"github.com/pdiddy/mrs-penman/internal/reader"
	"github.com/pdiddy/mrs-penman/internal/rules"
	"github.com/pdiddy/mrs-penman/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert parsed items to PENMAN",
	Long: `Convert reads items and writes one PENMAN block per item to stdout:

  # ::id 1
  # ::snt Kim sleeps.
  (10002 / _sleep_v_1
    :ARG1-NEQ (10001 / named
      :carg "Kim"))

Input is JSON lines (one item per line), a SQLite profile (a path ending in
.db), or, with --sentences, one raw sentence per line handed to the parser
configured by --parser-binary. Without --input, stdin is read.

A graph that cannot be encoded is written as "()" and reported on stderr;
the run continues. An invalid rule set stops the run before any output.`,
	RunE: runConvert,
}

// convertInput describes where items come from.
type convertInput struct {
	Path      string
	Sentences bool
	Store     bool
}

func convertConfig() types.ConvertConfig {
	return types.ConvertConfig{
		MaxResults: viper.GetInt("max_results"),
		Properties: viper.GetBool("properties"),
		Lnk:        viper.GetBool("lnk"),
		Indent:     viper.GetInt("indent"),
		Compact:    viper.GetBool("compact"),
		RulesPath:  viper.GetString("rules"),
		Parser: types.ParserConfig{
			Binary:      viper.GetString("parser.binary"),
			Args:        viper.GetStringSlice("parser.args"),
			Timeout:     viper.GetDuration("parser.timeout"),
			ResultsFlag: viper.GetString("parser.results_flag"),
			TimeoutFlag: viper.GetString("parser.timeout_flag"),
		},
	}
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := convertConfig()
	in := convertInput{}
	in.Path, _ = cmd.Flags().GetString("input")
	in.Sentences, _ = cmd.Flags().GetBool("sentences")
	in.Store, _ = cmd.Flags().GetBool("store")

	sum, err := convert(cmd.Context(), cfg, in, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if sum.HasFailures() {
		logger.Warn("some graphs could not be encoded", "failed", sum.Failed, "graphs", sum.Graphs)
	}
	return nil
}

// convert runs the batch described by cfg and in, writing PENMAN to out.
func convert(ctx context.Context, cfg types.ConvertConfig, in convertInput, stdin io.Reader, out io.Writer) (pipeline.Summary, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := validator.New().Struct(cfg); err != nil {
		return pipeline.Summary{}, fmt.Errorf("invalid configuration: %w", err)
	}

	// Rule set errors are fatal before any item is read.
	var rs *rules.Set
	if cfg.RulesPath != "" {
		var err error
		if rs, err = rules.Load(cfg.RulesPath); err != nil {
			return pipeline.Summary{}, err
		}
		logger.Debug("loaded rule set", "path", cfg.RulesPath)
	}

	batch := &pipeline.Batch{
		Pipeline:   pipeline.New(rs, cfg),
		MaxResults: cfg.MaxResults,
		Out:        out,
		Logger:     logger,
	}

	if isProfile(in.Path) {
		if in.Sentences {
			return pipeline.Summary{}, errors.New("--sentences cannot be used with a profile")
		}
		store, err := profile.OpenExisting(types.ProfileConfig{Path: in.Path})
		if err != nil {
			return pipeline.Summary{}, err
		}
		defer store.Close()

		src, err := store.Items(ctx)
		if err != nil {
			return pipeline.Summary{}, err
		}
		if in.Store {
			batch.Sink = store
		}
		return batch.Run(ctx, src)
	}
	if in.Store {
		return pipeline.Summary{}, errors.New("--store requires a profile input (.db)")
	}

	r := stdin
	if in.Path != "" && in.Path != "-" {
		f, err := os.Open(in.Path)
		if err != nil {
			return pipeline.Summary{}, fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if in.Sentences {
		limit := cfg.MaxResults
		if limit <= 0 {
			limit = pipeline.DefaultMaxResults
		}
		p := parser.New(cfg.Parser, limit)
		if err := p.Check(); err != nil {
			return pipeline.Summary{}, err
		}
		return batch.Run(ctx, reader.NewSentences(ctx, r, p, logger))
	}
	return batch.Run(ctx, reader.NewJSONLines(r))
}

func isProfile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".db")
}

func init() {
	f := convertCmd.Flags()
	f.String("input", "", "JSON lines file, .db profile, or - for stdin (default stdin)")
	f.Bool("sentences", false, "treat input as raw sentences and run the parser")
	f.Bool("store", false, "save outputs into the input profile")
	f.String("rules", "", "rule set YAML file")
	f.IntP("max-results", "n", pipeline.DefaultMaxResults, "number of results converted per item")
	f.Bool("properties", false, "include variable properties")
	f.Bool("lnk", false, "include surface alignments")
	f.Int("indent", 2, "spaces per nesting level")
	f.Bool("compact", false, "write each graph on one line")
	f.String("parser-binary", "", "parser executable for --sentences")
	f.StringSlice("parser-arg", nil, "argument passed to the parser (repeatable)")
	f.Duration("timeout", 0, "time limit for parsing one sentence (0 = none)")
	f.String("parser-results-flag", "", "parser option that takes the result cap (e.g. -n)")
	f.String("parser-timeout-flag", "", "parser option that takes the timeout in seconds (e.g. --timeout)")

	for key, flag := range map[string]string{
		"rules":               "rules",
		"max_results":         "max-results",
		"properties":          "properties",
		"lnk":                 "lnk",
		"indent":              "indent",
		"compact":             "compact",
		"parser.binary":       "parser-binary",
		"parser.args":         "parser-arg",
		"parser.timeout":      "timeout",
		"parser.results_flag": "parser-results-flag",
		"parser.timeout_flag": "parser-timeout-flag",
	} {
		_ = viper.BindPFlag(key, f.Lookup(flag))
	}

	rootCmd.AddCommand(convertCmd)
}
