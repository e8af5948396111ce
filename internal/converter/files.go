package converter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mcncl/json2xml/internal/errors"
	"github.com/mcncl/json2xml/internal/parser"
	"golang.org/x/sync/errgroup"
)

// FileResult describes one converted file.
type FileResult struct {
	Input  string
	Output string
	Bytes  int
}

// OutputPath returns where the XML for input is written: outDir/<name>.xml, or
// next to input when outDir is empty.
func OutputPath(input, outDir string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".xml"
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	return filepath.Join(outDir, name)
}

// ConvertFiles converts every input file concurrently and writes each result
// with OutputPath. Inputs that would share an output file are rejected before
// anything is written. The first failure cancels files not yet started; results
// are returned in input order for the files that finished.
func (c *Converter) ConvertFiles(ctx context.Context, inputs []string, outDir string, logger *slog.Logger) ([]FileResult, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if err := checkOutputPaths(inputs, outDir); err != nil {
		return nil, err
	}
	if outDir != "" {
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return nil, errors.NewOutputError(fmt.Sprintf("failed to create output directory '%s'", outDir), err)
		}
	}

	results := make([]FileResult, len(inputs))
	done := make([]bool, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := c.convertFile(input, OutputPath(input, outDir))
			if err != nil {
				logger.Debug("conversion failed", "input", input, "error", err)
				return err
			}
			logger.Debug("converted file", "input", result.Input, "output", result.Output, "bytes", result.Bytes)
			results[i] = result
			done[i] = true
			return nil
		})
	}
	err := g.Wait()

	finished := make([]FileResult, 0, len(inputs))
	for i, ok := range done {
		if ok {
			finished = append(finished, results[i])
		}
	}
	return finished, err
}

// checkOutputPaths fails when two inputs resolve to the same output file.
func checkOutputPaths(inputs []string, outDir string) error {
	owners := make(map[string]string, len(inputs))
	for _, input := range inputs {
		output := filepath.Clean(OutputPath(input, outDir))
		if prev, taken := owners[output]; taken {
			return errors.NewOutputError(
				fmt.Sprintf("'%s' and '%s' would both be written to '%s'", prev, input, output),
				errors.ErrOutputConflict,
			)
		}
		owners[output] = input
	}
	return nil
}

func (c *Converter) convertFile(input, output string) (FileResult, error) {
	ir, err := parser.ParseFile(input, c.parseOptions()...)
	if err != nil {
		return FileResult{}, err
	}
	xml, err := c.ConvertValue(ir.Root)
	if err != nil {
		return FileResult{}, err
	}
	if err := os.WriteFile(output, []byte(xml+"\n"), 0o644); err != nil {
		return FileResult{}, errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", output), err)
	}
	return FileResult{Input: input, Output: output, Bytes: len(xml) + 1}, nil
}
