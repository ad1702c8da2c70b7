package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/mcncl/phparray/internal/config"
	"github.com/mcncl/phparray/internal/converter"
	"github.com/mcncl/phparray/internal/errors"
)

// CLI defines the command-line interface
var CLI struct {
	Input           string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output          string `help:"Path to output PHP file. If not specified, writes to stdout." short:"o" type:"path"`
	Config          string `help:"Path to config file. If not specified, searches for .phparray.yml in the current and parent directories." short:"c" type:"path"`
	ArraySyntax     string `help:"Array syntax: legacy for array( ) or short for [ ]." short:"s" placeholder:"legacy|short"`
	Quotes          string `help:"String quote style: single or double." short:"q" placeholder:"single|double"`
	Indent          int    `help:"Spaces per indentation level."`
	Tabs            bool   `help:"Indent with tabs instead of spaces."`
	NoTrailingComma bool   `help:"Omit the comma after the last element of multi-line arrays."`
	Align           bool   `help:"Align the => of each array."`
	Wrap            string `help:"Wrap the literal in a statement: none, return or assign." placeholder:"none|return|assign"`
	Variable        string `help:"Variable name for --wrap=assign. Implies assign when --wrap is not given."`
	PHPTag          bool   `help:"Start the output with an opening <?php tag." name:"php-tag"`
	KeyCase         string `help:"Rewrite object keys: none, snake, camel, lower_camel, kebab or screaming_snake." placeholder:"CASE"`
	Duplicates      string `help:"Duplicate object keys: keep, last or reject." placeholder:"keep|last|reject"`
	ErrorFormat     string `help:"Error output format." enum:"text,json" default:"text"`
	Debug           bool   `help:"Enable debug logging." short:"d"`
	Version         bool   `help:"Show version information." short:"v"`
	Interactive     bool   `help:"Run in interactive mode, allowing direct JSON input with Ctrl+D to process." short:"I"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *log.Logger
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	// Parse CLI arguments with Kong
	parser := kong.Must(&CLI,
		kong.Name("phparray"),
		kong.Description("A tool to convert JSON to PHP array literals"),
		kong.UsageOnError(),
	)

	// Check if no arguments provided and set interactive mode by default
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	// Parse the command line arguments
	if _, err := parser.Parse(os.Args[1:]); err != nil {
		// If there's an error parsing arguments, the usage will already be shown by kong.UsageOnError()
		os.Exit(1)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("phparray version %s\n", Version)
		return
	}

	ctx, err := newContext(os.Stdin, os.Stdout, os.Stderr)
	if err == nil {
		err = run(ctx)
	}
	if err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// newContext loads configuration and builds the logger for one run
func newContext(stdin io.Reader, stdout, stderr io.Writer) (*Context, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	debug := CLI.Debug || cfg.Dev.Debug
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}

	return &Context{
		Debug:  debug,
		Config: cfg,
		Logger: newLogger(stderr, level),
		Stdin:  stdin,
		Stdout: stdout,
		Stderr: stderr,
	}, nil
}

// loadConfig applies defaults, then the config file, then command-line flags
func loadConfig() (*config.Config, error) {
	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}

	cfg, err := config.LoadConfigWithCLI(configPath, cliOverrides())
	if err != nil {
		return nil, errors.NewConfigError("failed to load configuration", err)
	}
	return cfg, nil
}

func cliOverrides() config.Overrides {
	return config.Overrides{
		ArraySyntax:     CLI.ArraySyntax,
		Quotes:          CLI.Quotes,
		Indent:          CLI.Indent,
		Tabs:            CLI.Tabs,
		NoTrailingComma: CLI.NoTrailingComma,
		Align:           CLI.Align,
		KeyCase:         CLI.KeyCase,
		Duplicates:      CLI.Duplicates,
		Wrap:            CLI.Wrap,
		Variable:        CLI.Variable,
		PHPTag:          CLI.PHPTag,
		Debug:           CLI.Debug,
	}
}

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// run executes the main program logic
func run(ctx *Context) error {
	conv := converter.New(ctx.Config, ctx.Logger)

	var (
		code string
		err  error
	)
	if CLI.Input != "" {
		ctx.Logger.Debug("reading input file", "path", CLI.Input)
		code, err = conv.ConvertFile(CLI.Input)
	} else {
		var data []byte
		data, err = readInput(ctx)
		if err != nil {
			return err
		}
		code, err = conv.ConvertBytes(data)
	}
	if err != nil {
		// Nothing is written on failure
		return err
	}

	return writeOutput(ctx, code)
}

// readInput reads JSON from stdin, prompting for it when stdin is a terminal
func readInput(ctx *Context) ([]byte, error) {
	if isTerminal(ctx.Stdin) {
		if CLI.Interactive {
			return readInteractiveInput(ctx)
		}
		// No data provided on stdin and not in interactive mode
		return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	// Read from stdin (piped input)
	jsonData, err := io.ReadAll(ctx.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}

	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	ctx.Logger.Debug("read stdin", "bytes", len(jsonData))

	return jsonData, nil
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeOutput writes code to file or stdout
func writeOutput(ctx *Context, code string) error {
	if CLI.Output != "" {
		// Write to file
		err := os.WriteFile(CLI.Output, []byte(code), 0o644)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		_, _ = fmt.Fprintf(ctx.Stderr, "PHP array written to %s\n", CLI.Output)
		return nil
	}

	// Write to stdout
	if _, err := io.WriteString(ctx.Stdout, code); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste JSON
// and signal completion with Ctrl+D (EOF)
func readInteractiveInput(ctx *Context) ([]byte, error) {
	_, _ = fmt.Fprintln(ctx.Stderr, "phparray Interactive Mode")
	_, _ = fmt.Fprintln(ctx.Stderr, "Paste your JSON below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	// Read all input until EOF (Ctrl+D)
	reader := bufio.NewReader(ctx.Stdin)
	var jsonBuilder strings.Builder

	for {
		line, err := reader.ReadString('\n')
		jsonBuilder.WriteString(line)
		if err == io.EOF {
			// End of input
			break
		}
		if err != nil {
			return nil, errors.NewInputError("error reading input", err)
		}
	}

	jsonData := jsonBuilder.String()
	if len(jsonData) == 0 {
		return nil, errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	_, _ = fmt.Fprintln(ctx.Stderr, "\nConverting JSON...")
	return []byte(jsonData), nil
}

// reportError prints err in the format selected by --error-format
func reportError(w io.Writer, err error) {
	if CLI.ErrorFormat == "json" {
		report, jsonErr := errors.JSONReport(err)
		if jsonErr == nil {
			_, _ = fmt.Fprintf(w, "%s\n", report)
			return
		}
	}

	// Use our custom error handling to provide user-friendly error messages
	_, _ = fmt.Fprintf(w, "%s\n", errors.UserFriendlyError(err))

	// Show help on error
	_, _ = fmt.Fprintf(w, "\nFor help, run: phparray --help\n")
}
