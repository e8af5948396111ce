package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mcncl/json2xml/internal/analyzer"
	"github.com/mcncl/json2xml/internal/config"
	"github.com/mcncl/json2xml/internal/converter"
	"github.com/mcncl/json2xml/internal/errors"
	"github.com/mcncl/json2xml/internal/models"
	"github.com/mcncl/json2xml/internal/parser"
	"github.com/mcncl/json2xml/internal/verify"
)

// CLI defines the command-line interface
var CLI struct {
	Inputs      []string `arg:"" optional:"" help:"Input JSON files. If none are given, reads from stdin." type:"path"`
	Output      string   `help:"Output XML file, or directory when several inputs are given. Defaults to stdout." short:"o" type:"path"`
	Root        string   `help:"Name of the root element." short:"r" default:"root"`
	Pretty      bool     `help:"Indent the XML output." default:"true" negatable:""`
	Config      string   `help:"Path to a config file. Defaults to the nearest .json2xml.yml." short:"c" type:"path"`
	MaxDepth    int      `help:"Maximum JSON nesting depth. Defaults to the configured limit; 0 means the built-in cap." default:"0"`
	Strict      bool     `help:"Fail when an object key is not a valid XML element name."`
	Verify      bool     `help:"Parse the produced XML to check it is well-formed."`
	Debug       bool     `help:"Enable debug logging." short:"d"`
	Version     bool     `help:"Show version information." short:"v"`
	Interactive bool     `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Config *config.Config
	Logger *slog.Logger
	Stdin  io.Reader
	Stdout io.Writer
}

// flagsSet holds the names of flags given on the command line
var flagsSet = map[string]bool{}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	app := kong.Must(&CLI,
		kong.Name("json2xml"),
		kong.Description("A tool to convert JSON documents to XML"),
		kong.UsageOnError(),
	)

	// With no arguments on a terminal, prompt for JSON
	if len(os.Args) == 1 && isatty.IsTerminal(os.Stdin.Fd()) {
		CLI.Interactive = true
	}

	kctx, err := app.Parse(os.Args[1:])
	if err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}
	flagsSet = explicitFlags(kctx)

	if CLI.Version {
		fmt.Printf("json2xml version %s\n", Version)
		return
	}

	color.NoColor = !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd())
	errColor := color.New(color.FgRed, color.Bold)

	ctx, err := newContext()
	if err == nil {
		err = run(ctx)
	}
	if err != nil {
		errColor.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: json2xml --help\n")
		os.Exit(1)
	}
}

// newContext loads configuration and sets up logging for a run
func newContext() (*Context, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	overrides := config.CLIOverrides{
		Verify: CLI.Verify,
		Strict: CLI.Strict,
		Debug:  CLI.Debug,
	}
	if flagsSet["root"] {
		overrides.RootElement = &CLI.Root
	}
	if flagsSet["pretty"] {
		overrides.Pretty = &CLI.Pretty
	}
	if flagsSet["max-depth"] {
		overrides.MaxDepth = &CLI.MaxDepth
	}

	cfg, err := config.LoadConfigWithCLI(configPath, overrides)
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}

	ctx := &Context{
		Config: cfg,
		Logger: newLogger(os.Stderr, cfg.Dev.Debug),
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
	}
	if configPath != "" {
		ctx.Logger.Debug("loaded config", "path", configPath)
	}
	return ctx, nil
}

// explicitFlags returns the names of the flags kong parsed from the arguments,
// leaving out those that only took their default
func explicitFlags(kctx *kong.Context) map[string]bool {
	set := make(map[string]bool)
	for _, path := range kctx.Path {
		if path.Flag != nil {
			set[path.Flag.Name] = true
		}
	}
	return set
}

// newLogger returns a text logger writing to w
func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run executes the main program logic
func run(ctx *Context) error {
	conv := converter.NewFromConfig(ctx.Config)

	if len(CLI.Inputs) > 1 {
		return runBatch(ctx, conv)
	}

	// 1. Parse JSON input
	ir, err := parseInput(ctx)
	if err != nil {
		return err
	}

	// 2. Check element names when asked to
	if err := analyze(ctx, ir.Root); err != nil {
		return err
	}

	// 3. Convert to XML
	xml, err := conv.ConvertValue(ir.Root)
	if err != nil {
		return err
	}

	// 4. Verify the document if requested
	if ctx.Config.Output.Verify {
		summary, err := verify.WellFormed(xml)
		if err != nil {
			return err
		}
		ctx.Logger.Debug("verified output", "root", summary.Root, "elements", summary.Elements)
	}

	// 5. Output the result
	return writeOutput(ctx, xml)
}

// runBatch converts several files, writing one XML file per input
func runBatch(ctx *Context, conv *converter.Converter) error {
	if ctx.Config.Output.Strict {
		for _, input := range CLI.Inputs {
			ir, err := parser.ParseFile(input, parser.WithMaxDepth(ctx.Config.Limits.MaxDepth))
			if err != nil {
				return err
			}
			if err := analyze(ctx, ir.Root); err != nil {
				return err
			}
		}
	}

	results, err := conv.ConvertFiles(context.Background(), CLI.Inputs, CLI.Output, ctx.Logger)
	for _, result := range results {
		if ctx.Config.Output.Verify {
			data, readErr := os.ReadFile(result.Output)
			if readErr != nil {
				return errors.NewOutputError(fmt.Sprintf("failed to read back '%s'", result.Output), readErr)
			}
			if _, verr := verify.WellFormed(string(data)); verr != nil {
				return verr
			}
		}
		fmt.Fprintf(os.Stderr, "Converted %s -> %s\n", result.Input, result.Output)
	}
	return err
}

// analyze logs the structure of value and enforces strict element names
func analyze(ctx *Context, value models.JSONValue) error {
	var namer func(string) string
	if ctx.Config.HasNaming() {
		namer = ctx.Config.ElementName
	}
	report := analyzer.NewAnalyzer(namer).Analyze(value, ctx.Config.RootElement)
	ctx.Logger.Debug("analyzed input",
		"elements", report.Elements,
		"leaves", report.Leaves,
		"depth", report.MaxDepth,
		"invalid_names", len(report.InvalidNames),
	)

	if len(report.InvalidNames) == 0 {
		return nil
	}
	issues := make([]string, len(report.InvalidNames))
	for i, issue := range report.InvalidNames {
		issues[i] = issue.String()
		ctx.Logger.Warn("invalid element name", "path", issue.Path, "name", issue.Name)
	}
	if !ctx.Config.Output.Strict {
		return nil
	}
	return errors.NewAnalysisError(
		fmt.Sprintf("invalid element names: %s", strings.Join(issues, "; ")),
		errors.ErrInvalidElementName,
	)
}

// parseInput reads JSON from file or stdin
func parseInput(ctx *Context) (models.IntermediateRepresentation, error) {
	if len(CLI.Inputs) == 1 {
		return parser.ParseFile(CLI.Inputs[0], parser.WithMaxDepth(ctx.Config.Limits.MaxDepth))
	}

	if CLI.Interactive {
		return readInteractiveInput(ctx)
	}

	if f, ok := ctx.Stdin.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		// Nothing piped in and not in interactive mode
		return models.IntermediateRepresentation{}, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	jsonData, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return models.IntermediateRepresentation{}, errors.NewInputError("failed to read from stdin", err)
	}

	return parser.ParseString(string(jsonData), parser.WithMaxDepth(ctx.Config.Limits.MaxDepth))
}

// writeOutput writes xml to file or stdout
func writeOutput(ctx *Context, xml string) error {
	if CLI.Output != "" {
		err := os.WriteFile(CLI.Output, []byte(xml+"\n"), 0o644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "XML written to %s\n", CLI.Output)
		return nil
	}

	_, err := fmt.Fprintln(ctx.Stdout, xml)
	if err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput lets users paste JSON and signal completion with Ctrl+D (EOF)
func readInteractiveInput(ctx *Context) (models.IntermediateRepresentation, error) {
	fmt.Fprintln(os.Stderr, "json2xml Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(ctx.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			break
		}
		if err != nil {
			return models.IntermediateRepresentation{}, errors.NewInputError("error reading input", err)
		}
	}

	fmt.Fprintln(os.Stderr, "\nProcessing JSON...")
	return parser.ParseString(jsonBuilder.String(), parser.WithMaxDepth(ctx.Config.Limits.MaxDepth))
}
