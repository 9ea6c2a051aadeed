// Package main is the entry point of the bean-transformer mapping tool.
//
// The tool works on YAML mapping files, the declarative form of a
// transformer's field mappings, skip list and flags:
//
//	bean-transformer check mapping.yaml
//	bean-transformer print mapping.yaml
//	bean-transformer watch mapping.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"bean-transformer/internal/mapping"
	"bean-transformer/options"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// cliFlags holds command line flags.
type cliFlags struct {
	logLevel    string
	logFormat   string
	showVersion bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bean-transformer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { usage(fs) }

	var flags cliFlags
	fs.StringVar(&flags.logLevel, "log-level", getEnvOrDefault("BEAN_TRANSFORMER_LOG_LEVEL", "info"),
		"Log level (debug, info, warn, error)")
	fs.StringVar(&flags.logFormat, "log-format", getEnvOrDefault("BEAN_TRANSFORMER_LOG_FORMAT", "console"),
		"Log format (json, console)")
	fs.BoolVar(&flags.showVersion, "version", false, "Show version information")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		return exitUsage
	}

	if flags.showVersion {
		printVersion(stdout)
		return exitOK
	}

	if fs.NArg() != 2 {
		usage(fs)
		return exitUsage
	}

	logger, err := newLogger(flags, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return exitUsage
	}
	defer func() { _ = logger.Sync() }()

	command, path := fs.Arg(0), fs.Arg(1)

	switch command {
	case "check":
		return check(path, stdout, stderr)
	case "print":
		return printSettings(path, stdout, stderr)
	case "watch":
		return watch(ctx, path, stdout, logger)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", command)
		usage(fs)

		return exitUsage
	}
}

func usage(fs *flag.FlagSet) {
	out := fs.Output()
	fmt.Fprintln(out, "Usage: bean-transformer [flags] <command> <mapping.yaml>")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  check   validate a mapping file")
	fmt.Fprintln(out, "  print   print the settings a mapping file produces")
	fmt.Fprintln(out, "  watch   print the settings on every change of a mapping file")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Flags:")
	fs.PrintDefaults()
}

// printVersion prints version information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, "bean-transformer version %s\n", version)
	fmt.Fprintf(w, "  Build time: %s\n", buildTime)
	fmt.Fprintf(w, "  Git commit: %s\n", gitCommit)
}

// newLogger builds a zap logger writing to w.
func newLogger(flags cliFlags, w io.Writer) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(flags.logLevel)); err != nil {
		return nil, err
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
	}

	var encoder zapcore.Encoder
	if flags.logFormat == "console" {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	}

	return zap.New(zapcore.NewCore(encoder, zapcore.AddSync(w), level)), nil
}

// check reports the diagnostics of the mapping file at path.
func check(path string, stdout, stderr io.Writer) int {
	mf, err := mapping.LoadFile(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	res := mapping.Validate(mf)

	for _, d := range res.Warnings {
		fmt.Fprintf(stdout, "%s: %s\n", d.Severity, d)
	}

	for _, d := range res.Errors {
		fmt.Fprintf(stdout, "%s: %s\n", d.Severity, d)
	}

	if res.HasErrors() {
		fmt.Fprintf(stderr, "%s: %d error(s)\n", path, len(res.Errors))
		return exitFailure
	}

	fmt.Fprintf(stdout, "%s: ok, %d mapping(s), %d skipped field(s)\n", path, len(mf.Entries()), len(mf.Skip))

	return exitOK
}

func printSettings(path string, stdout, stderr io.Writer) int {
	mf, err := mapping.LoadFile(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	out, err := render(mf)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitFailure
	}

	_, _ = stdout.Write(out)

	return exitOK
}

// watch prints the settings of the mapping file at path on start and after
// every change, until ctx is done.
func watch(ctx context.Context, path string, stdout io.Writer, logger *zap.Logger) int {
	onReload := func(mf *mapping.MappingFile) {
		out, err := render(mf)
		if err != nil {
			logger.Error("failed to render settings", zap.String("path", path), zap.Error(err))
			return
		}

		fmt.Fprintf(stdout, "---\n%s", out)
	}

	w, err := mapping.NewWatcher(path, onReload, mapping.WithWatchLogger(logger))
	if err != nil {
		logger.Error("failed to create watcher", zap.Error(err))
		return exitFailure
	}

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start watcher", zap.Error(err))
		_ = w.Stop()

		return exitFailure
	}

	<-ctx.Done()

	if err := w.Stop(); err != nil {
		logger.Warn("failed to stop watcher", zap.Error(err))
	}

	return exitOK
}

// effectiveSettings is the YAML view of the settings a mapping file produces
// on a fresh transformer.
type effectiveSettings struct {
	Flags    map[string]bool   `yaml:"flags"`
	Mappings map[string]string `yaml:"mappings,omitempty"`
	Skip     []string          `yaml:"skip,omitempty"`
}

func render(mf *mapping.MappingFile) ([]byte, error) {
	s := options.NewSettings()
	if err := mf.Apply(s); err != nil {
		return nil, err
	}

	view := effectiveSettings{
		Flags:    make(map[string]bool, options.FlagTotal-1),
		Mappings: s.FieldsNameMapping,
	}

	for f := options.Flag(1); int(f) < options.FlagTotal; f++ {
		view.Flags[f.String()] = s.Flag(f)
	}

	for p := range s.FieldsToSkip {
		view.Skip = append(view.Skip, p)
	}

	slices.Sort(view.Skip)

	return yaml.Marshal(view)
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}
