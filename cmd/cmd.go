package cmd

import (
	"context"
	"errors"
	"fmt"
	"go/scanner"
	"io"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/rubiojr/jnigen/compiler"
	"github.com/rubiojr/jnigen/jnirt"
)

// Execute runs the jnigen CLI with the given version string.
func Execute(version string) {
	if err := NewApp(version).Run(context.Background(), os.Args); err != nil {
		printError(os.Stderr, err, useColor(os.Stderr))
		os.Exit(1)
	}
}

// NewApp builds the command tree.
func NewApp(version string) *cli.Command {
	return &cli.Command{
		Name:                   "jnigen",
		Usage:                  "Generate JNI bridges and Java wrappers for Go packages",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Configuration file (default: nearest " + ConfigFile + ")",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Log what is being generated",
			},
		},
		Before: configureLogging,
		Commands: []*cli.Command{
			{
				Name:      "generate",
				Usage:     "Write the Go bridge and Java sources of each package",
				ArgsUsage: "<dir>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "java-out",
						Aliases: []string{"o"},
						Usage:   "Root directory of the generated Java sources",
						Sources: cli.EnvVars("JNIGEN_JAVA_OUT"),
					},
					&cli.BoolFlag{
						Name:    "debug",
						Aliases: []string{"d"},
						Usage:   "Also print every generated file",
						Sources: cli.EnvVars("JNIGEN_DEBUG"),
					},
				},
				Action: generateAction,
			},
			{
				Name:      "check",
				Usage:     "Report every declaration that cannot be bridged",
				ArgsUsage: "<dir>...",
				Action:    checkAction,
			},
			{
				Name:      "emit",
				Usage:     "Print the generated Go bridge and Java sources",
				ArgsUsage: "<dir>",
				Action:    emitAction,
			},
			{
				Name:      "runtime",
				Usage:     "Write the Java support classes",
				ArgsUsage: "<dir>",
				Action:    runtimeAction,
			},
			{
				Name:      "hash",
				Usage:     "Print the type hash of a native type",
				ArgsUsage: "<importpath.Type>",
				Action:    hashAction,
			},
		},
	}
}

func configureLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := loadConfig(cmd, ".")
	if err != nil {
		return ctx, err
	}
	verbosity := cfg.Log.Verbosity
	if cmd.Bool("verbose") && verbosity < 1 {
		verbosity = 1
	}
	commonlog.Configure(verbosity, nil)
	return ctx, nil
}

// loadConfig returns the --config file when given, the nearest
// jnigen.toml above dir otherwise.
func loadConfig(cmd *cli.Command, dir string) (*Config, error) {
	if path := cmd.String("config"); path != "" {
		return LoadConfig(path)
	}
	return FindConfig(dir)
}

func dirs(cmd *cli.Command) ([]string, error) {
	if cmd.NArg() < 1 {
		return nil, fmt.Errorf("usage: jnigen %s %s", cmd.Name, cmd.ArgsUsage)
	}
	return cmd.Args().Slice(), nil
}

// compilerFor merges configuration sources for dir: the file, then the
// environment and flags.
func compilerFor(cmd *cli.Command, dir string) (*compiler.Compiler, error) {
	file, err := loadConfig(cmd, dir)
	if err != nil {
		return nil, err
	}
	cfg := file.Compiler()
	if cmd.IsSet("java-out") {
		cfg.JavaOut = cmd.String("java-out")
	}
	if cmd.IsSet("debug") {
		cfg.Debug = cmd.Bool("debug")
	}
	cfg.Stdout = cmd.Root().Writer
	return compiler.New(cfg), nil
}

func generateAction(ctx context.Context, cmd *cli.Command) error {
	targets, err := dirs(cmd)
	if err != nil {
		return err
	}
	var errs []error
	for _, dir := range targets {
		comp, err := compilerFor(cmd, dir)
		if err != nil {
			return err
		}
		if _, err := comp.Generate(dir); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	targets, err := dirs(cmd)
	if err != nil {
		return err
	}
	comp := compiler.New(compiler.Config{})
	var errs []error
	for _, dir := range targets {
		pkg, err := comp.Check(dir)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(cmd.Root().Writer, "%s: ok (%d classes, %d interfaces)\n",
			pkg.Path, len(pkg.Classes), len(pkg.Interfaces))
	}
	return errors.Join(errs...)
}

func emitAction(ctx context.Context, cmd *cli.Command) error {
	targets, err := dirs(cmd)
	if err != nil {
		return err
	}
	comp, err := compilerFor(cmd, targets[0])
	if err != nil {
		return err
	}
	out, err := comp.Emit(targets[0])
	if err != nil {
		return err
	}
	w := cmd.Root().Writer
	for _, f := range out.Files() {
		fmt.Fprintf(w, "// %s\n%s\n", f.Path, f.Source)
	}
	return nil
}

func runtimeAction(ctx context.Context, cmd *cli.Command) error {
	targets, err := dirs(cmd)
	if err != nil {
		return err
	}
	written, err := compiler.WriteRuntime(targets[0])
	if err != nil {
		return err
	}
	for _, p := range written {
		fmt.Fprintln(cmd.Root().Writer, p)
	}
	return nil
}

func hashAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("usage: jnigen hash <importpath.Type>")
	}
	fmt.Fprintln(cmd.Root().Writer, jnirt.TypeHash(cmd.Args().First()))
	return nil
}

// useColor reports whether diagnostics written to f may be colored.
func useColor(f *os.File) bool {
	return os.Getenv("NO_COLOR") == "" && term.IsTerminal(int(f.Fd()))
}

// printError writes err with one "error:" line per diagnostic.
func printError(w io.Writer, err error, color bool) {
	prefix := "error:"
	if color {
		prefix = "\033[31merror:\033[0m"
	}
	for _, e := range flatten(err) {
		fmt.Fprintf(w, "%s %v\n", prefix, e)
	}
}

// flatten expands joined errors and diagnostic lists.
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	var list scanner.ErrorList
	if errors.As(err, &list) {
		out := make([]error, len(list))
		for i, e := range list {
			out[i] = e
		}
		return out
	}
	return []error{err}
}
