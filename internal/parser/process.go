// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parser runs an external semantic parser and reads back its graphs.
//
// The parser is any executable that accepts one sentence on stdin and writes
// its candidate graphs to stdout as JSON, one graph per line, best first.
package parser

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/pdiddy/mrs-penman/pkg/types"
)

// ErrNoBinary is returned when no parser executable is configured.
var ErrNoBinary = errors.New("no parser binary configured")

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) RunPiped(ctx context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Process parses sentences by running Binary once per sentence.
type Process struct {
	Binary string
	Args   []string

	// MaxResults keeps at most this many graphs per sentence; zero keeps all.
	MaxResults int

	// Timeout bounds one parser run; zero means no limit beyond ctx.
	Timeout time.Duration

	// ResultsFlag and TimeoutFlag pass MaxResults and Timeout on the
	// command line when set.
	ResultsFlag string
	TimeoutFlag string

	exec executor
}

// timeoutGrace is added to the kill deadline when the parser enforces
// Timeout itself, so it can finish and report.
const timeoutGrace = time.Second

// New returns a Process from cfg.
func New(cfg types.ParserConfig, maxResults int) *Process {
	return &Process{
		Binary:      cfg.Binary,
		Args:        cfg.Args,
		MaxResults:  maxResults,
		Timeout:     cfg.Timeout,
		ResultsFlag: cfg.ResultsFlag,
		TimeoutFlag: cfg.TimeoutFlag,
		exec:        osExecutor{},
	}
}

func (p *Process) runner() executor {
	if p.exec == nil {
		return osExecutor{}
	}
	return p.exec
}

// Check verifies the parser binary is configured and on PATH.
func (p *Process) Check() error {
	if p.Binary == "" {
		return ErrNoBinary
	}
	if _, err := p.runner().LookPath(p.Binary); err != nil {
		return fmt.Errorf("parser %s not found: %w", p.Binary, err)
	}
	return nil
}

// Parse runs the parser on sentence and decodes its graphs.
func (p *Process) Parse(ctx context.Context, sentence string) ([]types.Graph, error) {
	if p.Binary == "" {
		return nil, ErrNoBinary
	}
	if p.Timeout > 0 {
		limit := p.Timeout
		if p.TimeoutFlag != "" {
			limit += timeoutGrace
		}
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, limit)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	stdin := strings.NewReader(sentence + "\n")
	if err := p.runner().RunPiped(ctx, p.Binary, p.args(), stdin, &stdout, &stderr); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("running %s: %w", p.Binary, ctx.Err())
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("running %s: %w: %s", p.Binary, err, msg)
		}
		return nil, fmt.Errorf("running %s: %w", p.Binary, err)
	}

	return decodeGraphs(&stdout, p.MaxResults)
}

// args returns Args followed by the result cap and timeout options that
// have a flag configured.
func (p *Process) args() []string {
	args := append([]string(nil), p.Args...)
	if p.ResultsFlag != "" && p.MaxResults > 0 {
		args = append(args, p.ResultsFlag, strconv.Itoa(p.MaxResults))
	}
	if p.TimeoutFlag != "" && p.Timeout > 0 {
		secs := int(math.Ceil(p.Timeout.Seconds()))
		args = append(args, p.TimeoutFlag, strconv.Itoa(secs))
	}
	return args
}

func decodeGraphs(r io.Reader, limit int) ([]types.Graph, error) {
	var graphs []types.Graph
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		if limit > 0 && len(graphs) == limit {
			break
		}
		var g types.Graph
		if err := json.Unmarshal(line, &g); err != nil {
			return nil, fmt.Errorf("decoding parser output line %d: %w", n, err)
		}
		graphs = append(graphs, g)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading parser output: %w", err)
	}
	return graphs, nil
}
