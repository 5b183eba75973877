// Command quill runs a single source file: lex, parse, evaluate, exit
// non-zero on any of the three error kinds in pkg/errs.
//
// main is os.Exit(run(os.Args[1:])), wrapping a run(args) int that
// prints at most one diagnostic line and returns a code, so the bulk of
// the command's logic stays testable without touching os.Exit itself.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"quill/pkg/config"
	"quill/pkg/context"
	"quill/pkg/errs"
	"quill/pkg/interpreter"
	"quill/pkg/lexer"
	"quill/pkg/parser"
)

const cliToolVersion = "quill 0.0.0-dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	}

	scriptPath, cfgPath := parseArgs(args)
	if scriptPath == "" {
		printUsage()
		return 1
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := newLogger(cfg)

	src, err := os.ReadFile(scriptPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "quill:", err)
		return 1
	}

	return runSource(src, cfg, logger, os.Stdout, os.Stderr)
}

// runSource is the core of run once the script is read: given source
// bytes and output sinks, it returns the process exit code that main
// would use.
func runSource(src []byte, cfg config.Config, logger *slog.Logger, stdout, stderr *os.File) int {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return reportError(err, stderr)
	}
	if cfg.TraceTokens {
		for _, t := range tokens {
			logger.Debug("token", "value", t.String())
		}
	}

	program, err := parser.Parse(tokens)
	if err != nil {
		return reportError(err, stderr)
	}
	if cfg.TraceAST {
		logger.Debug("parsed program", "statements", len(program))
	}

	ctx := context.New(stdout)
	in := interpreter.New()
	runErr := in.Run(program, ctx)
	// Output already produced by print is flushed regardless of whether
	// the run succeeded, so a mid-program failure never swallows it.
	if flushErr := ctx.Flush(); flushErr != nil && runErr == nil {
		runErr = flushErr
	}
	if runErr != nil {
		return reportError(runErr, stderr)
	}
	return 0
}

func reportError(err error, stderr *os.File) int {
	var lexErr *errs.LexError
	var parseErr *errs.ParseError
	var runtimeErr *errs.RuntimeError
	switch {
	case errors.As(err, &lexErr):
		fmt.Fprintln(stderr, "quill:", lexErr.Error())
	case errors.As(err, &parseErr):
		fmt.Fprintln(stderr, "quill:", parseErr.Error())
	case errors.As(err, &runtimeErr):
		fmt.Fprintln(stderr, "quill:", runtimeErr.Error())
	default:
		fmt.Fprintln(stderr, "quill:", err)
	}
	return 1
}

func newLogger(cfg config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.TraceTokens || cfg.TraceAST {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// parseArgs recognizes `quill [-config path] <script>`. It deliberately
// does not use the flag package: the surface is small enough, and a
// hand-rolled loop reads the -config/script rule more directly than a
// flag.FlagSet would.
func parseArgs(args []string) (scriptPath, cfgPath string) {
	cfgPath = "quill.yaml"
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-config":
			if i+1 < len(args) {
				cfgPath = args[i+1]
				i++
			}
		default:
			if scriptPath == "" {
				scriptPath = args[i]
			}
		}
	}
	if scriptPath != "" && cfgPath == "quill.yaml" {
		sibling := filepath.Join(filepath.Dir(scriptPath), "quill.yaml")
		cfgPath = sibling
	}
	return scriptPath, cfgPath
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: quill [-config quill.yaml] <script>")
	fmt.Fprintln(os.Stderr, "       quill --version")
}
