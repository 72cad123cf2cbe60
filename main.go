package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"cpscan/pkg/classpath"
	"cpscan/pkg/config"
	"cpscan/pkg/discoverer"
)

const version = "1.0.0"

type Globals struct {
	Version  kong.VersionFlag `short:"v" help:"Show version information"`
	Parallel int              `short:"j" help:"Number of classpath locations scanned concurrently (defaults to the configured value, then 1)"`
	Dir      string           `help:"Directory to start looking for cpscan.conf.json (defaults to current directory)"`
	EnvFile  string           `help:"Load variables such as CLASSPATH from this .env file first"`
	Verbose  bool             `help:"Log every scanned location to stderr"`
}

type CLI struct {
	Globals

	Classes ClassesCmd `cmd:"" help:"List every class on the classpath"`
	Scan    ScanCmd    `cmd:"" help:"List the classes in the given directories and archives"`
	Tests   TestsCmd   `cmd:"" help:"List the JUnit test classes on the classpath"`
}

type ClassesCmd struct {
	Classpath string `short:"c" help:"Classpath to scan (defaults to the configured classpath, then $CLASSPATH, then the current directory)"`
	JSON      bool   `help:"Print a JSON array instead of one class per line"`
}

type ScanCmd struct {
	Locations []string `arg:"" help:"Directories or archives to scan, in order"`
	JSON      bool     `help:"Print a JSON array instead of one class per line"`
}

type TestsCmd struct {
	Classpath string   `short:"c" help:"Classpath to scan (defaults to the configured classpath, then $CLASSPATH, then the current directory)"`
	Include   []string `help:"Class name patterns to include, e.g. **/*Spec (replaces the defaults)"`
	Exclude   []string `help:"Class name patterns to exclude (replaces the defaults)"`
	JSON      bool     `help:"Print a JSON array instead of one class per line"`
}

var errorLabel = lipgloss.NewRenderer(os.Stderr).NewStyle().
	Foreground(lipgloss.Color("1")).
	Bold(true)

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cpscan"),
		kong.Description("Enumerate the class names available on a JVM classpath."),
		kong.Vars{"version": "cpscan version " + version},
	)

	var err error
	switch ctx.Command() {
	case "classes":
		err = runClasses(cli.Globals, cli.Classes, os.Stdout)
	case "scan <locations>":
		err = runScan(cli.Globals, cli.Scan, os.Stdout)
	case "tests":
		err = runTests(cli.Globals, cli.Tests, os.Stdout)
	default:
		err = fmt.Errorf("unknown command %q", ctx.Command())
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", errorLabel.Render("Error:"), err)
		os.Exit(1)
	}
}

// environment is the resolved configuration shared by all commands
type environment struct {
	config   *config.Config
	platform classpath.Platform
	scanner  *classpath.Scanner
	logger   *slog.Logger
}

func newEnvironment(globals Globals) (*environment, error) {
	if globals.EnvFile != "" {
		if err := godotenv.Load(globals.EnvFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", globals.EnvFile, err)
		}
	}

	// Determine the directory to load configuration from
	configDir := globals.Dir
	if configDir == "" {
		var err error
		configDir, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	absDir, err := filepath.Abs(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	cfg, err := config.LoadConfiguration(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	platform, err := classpath.HostPlatform().WithListSeparator(cfg.ListSeparator)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	workers := cfg.Workers
	if globals.Parallel > 0 {
		workers = globals.Parallel
	}
	if workers < 1 {
		workers = 1
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if globals.Verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	scanner := classpath.NewScanner(
		classpath.WithPlatform(platform),
		classpath.WithWorkers(workers),
		classpath.WithLogger(logger),
	)

	return &environment{
		config:   cfg,
		platform: platform,
		scanner:  scanner,
		logger:   logger,
	}, nil
}

// classpath picks the classpath to scan: the flag value, then the
// configuration files, then the environment.
func (e *environment) classpath(flag string) classpath.Classpath {
	if flag != "" {
		return classpath.ParseClasspath(flag, e.platform)
	}
	if len(e.config.Classpath) > 0 {
		return classpath.Classpath(e.config.Classpath)
	}
	return e.scanner.Classpath()
}

func runClasses(globals Globals, cmd ClassesCmd, out io.Writer) error {
	env, err := newEnvironment(globals)
	if err != nil {
		return err
	}

	cp := env.classpath(cmd.Classpath)
	env.logger.Debug("scanning classpath", "classpath", cp.Join(env.platform))

	classes, err := env.scanner.Scan(context.Background(), cp)
	if err != nil {
		return err
	}
	return printClasses(out, classes, cmd.JSON)
}

func runScan(globals Globals, cmd ScanCmd, out io.Writer) error {
	env, err := newEnvironment(globals)
	if err != nil {
		return err
	}

	classes, err := env.scanner.Scan(context.Background(), classpath.Classpath(cmd.Locations))
	if err != nil {
		return err
	}
	return printClasses(out, classes, cmd.JSON)
}

func runTests(globals Globals, cmd TestsCmd, out io.Writer) error {
	env, err := newEnvironment(globals)
	if err != nil {
		return err
	}

	junitConfig := &discoverer.JunitConfig{}
	if _, err := env.config.LoadDiscovererConfig(junitConfig); err != nil {
		return err
	}
	if len(cmd.Include) > 0 {
		junitConfig.Include = cmd.Include
	}
	if len(cmd.Exclude) > 0 {
		junitConfig.Exclude = cmd.Exclude
	}

	junit, err := discoverer.NewJunitDiscoverer(junitConfig)
	if err != nil {
		return err
	}

	ctx := context.Background()
	classes, err := env.scanner.Scan(ctx, env.classpath(cmd.Classpath))
	if err != nil {
		return err
	}

	result, err := discoverer.NewMultiDiscoverer(junit).Discover(ctx, classes)
	if err != nil {
		return fmt.Errorf("failed to discover test classes: %w", err)
	}
	for _, discoveryErr := range result.Errors {
		env.logger.Warn("test discovery problem", "error", discoveryErr)
	}
	env.logger.Debug("discovered test classes", "classes", len(classes), "tests", len(result.Classes))

	return printClasses(out, result.Classes, cmd.JSON)
}

// printClasses writes one class per line, or a JSON array
func printClasses(out io.Writer, classes []string, asJSON bool) error {
	if asJSON {
		if classes == nil {
			classes = []string{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(classes)
	}

	for _, class := range classes {
		if _, err := fmt.Fprintln(out, class); err != nil {
			return err
		}
	}
	return nil
}
