package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/phobologic/extractclass/internal/config"
	"github.com/phobologic/extractclass/internal/discover"
	"github.com/phobologic/extractclass/internal/graph"
	"github.com/phobologic/extractclass/internal/lang"
	"github.com/phobologic/extractclass/internal/logging"
	"github.com/phobologic/extractclass/internal/model"
	"github.com/phobologic/extractclass/internal/parse"
	"github.com/phobologic/extractclass/internal/refactor"
	"github.com/phobologic/extractclass/internal/toon"
	"github.com/phobologic/extractclass/internal/typescript"
)

var errNoMembers = errors.New("no members to extract")

// app carries per-invocation state shared by the subcommands.
type app struct {
	stdout, stderr io.Writer

	cfgFile  string
	logLevel string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "extractclass",
		Short:         "Extract class refactoring for TypeScript",
		Long:          "extractclass moves members of a TypeScript class, together with everything they depend on, into a new class that the original delegates to.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is .extractclass.yaml in the working or home directory)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "override log.level (debug, info, warn, error)")

	root.AddCommand(
		a.classesCmd(),
		a.membersCmd(),
		a.graphCmd(),
		a.extractCmd(),
		a.versionCmd(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.Load(a.cfgFile, ".")
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := logging.New(a.stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	return nil
}

func (a *app) warnf(format string, args ...any) {
	_, _ = color.New(color.FgYellow).Fprintf(a.stderr, "Warning: "+format+"\n", args...)
}

func (a *app) classesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classes [root]",
		Short: "List the classes declared under root",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) > 0 {
				root = args[0]
			}
			root, err := filepath.Abs(root)
			if err != nil {
				return fmt.Errorf("resolving root: %w", err)
			}
			info, err := os.Stat(root)
			if err != nil {
				return fmt.Errorf("root path: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("%s: not a directory", root)
			}

			files, err := discover.Files(root, discover.Options{
				Exclude:     a.cfg.Discover.Exclude,
				MaxFileSize: a.cfg.Discover.MaxFileSize,
				SkipTests:   a.cfg.Discover.SkipTests,
			})
			if err != nil {
				return fmt.Errorf("discovering files: %w", err)
			}
			if len(files) == 0 {
				return fmt.Errorf("no TypeScript files found")
			}
			a.logger.Debug("discovered files", "root", root, "count", len(files))

			classes := a.scanConcurrent(root, files)
			_, _ = fmt.Fprintln(a.stdout, toon.EncodeClasses(filepath.Base(root), classes))
			return nil
		},
	}
}

func (a *app) membersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "members <file> <class>",
		Short: "List the extractable members of a class with their dependencies",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadClass(args[0], args[1])
			if err != nil {
				return err
			}
			report := &model.ClassReport{
				File:    args[0],
				Class:   c.Name(),
				Members: refactor.NewHandle(c).Candidates(),
			}
			_, _ = fmt.Fprintln(a.stdout, toon.EncodeMembers(report))
			return nil
		},
	}
}

func (a *app) graphCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "graph <file> <class>",
		Short: "Print the member dependency graph of a class in DOT",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadClass(args[0], args[1])
			if err != nil {
				return err
			}
			cycles, err := graph.Cycles(c)
			if err != nil {
				return err
			}
			for _, cycle := range cycles {
				a.warnf("dependency cycle: %v", cycle)
			}
			return graph.WriteDOT(c, a.stdout)
		},
	}
}

func (a *app) extractCmd() *cobra.Command {
	var (
		name  string
		write bool
	)
	cmd := &cobra.Command{
		Use:   "extract <file> <class> <member>...",
		Short: "Extract members into a new class",
		Long:  "Extract moves the named members and everything they depend on into a new class, rewrites the original to delegate to it, and prints the resulting file (or rewrites it with --write).",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, className, members := args[0], args[1], args[2:]
			if len(members) == 0 {
				return errNoMembers
			}
			if name == "" {
				name = a.cfg.ClassName
			}
			if !config.IsValidClassName(name) {
				return fmt.Errorf("%w: %q", config.ErrInvalidClassName, name)
			}
			if name == className {
				return fmt.Errorf("%w: %q names the source class", config.ErrInvalidClassName, name)
			}

			c, source, err := loadClass(file, className)
			if err != nil {
				return err
			}
			if declared(c, source, name) {
				a.warnf("%s already declares a class named %s", file, name)
			}

			extracted, err := refactor.ExtractClass(c, name, members, refactor.WithLogger(a.logger))
			if err != nil {
				return err
			}
			out := typescript.Splice(source, c, c, extracted.(*typescript.Class))

			if !write {
				_, err := a.stdout.Write(out)
				return err
			}
			info, err := os.Stat(file)
			if err != nil {
				return err
			}
			if err := os.WriteFile(file, out, info.Mode().Perm()); err != nil {
				return fmt.Errorf("writing %s: %w", file, err)
			}
			a.logger.Info("extracted class", "file", file, "source", className, "target", name, "members", members)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "name of the new class (default from class_name)")
	cmd.Flags().BoolVar(&write, "write", false, "rewrite the file in place instead of printing it")
	return cmd
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _ = fmt.Fprintf(a.stdout, "extractclass %s\n", version)
			return nil
		},
	}
}

// loadClass reads file and parses the named class declaration.
func loadClass(file, className string) (*typescript.Class, []byte, error) {
	l := lang.ForPath(file)
	if l == nil {
		return nil, nil, fmt.Errorf("%s: unsupported file type", file)
	}
	source, err := os.ReadFile(file)
	if err != nil {
		return nil, nil, err
	}
	c, err := typescript.Parse(l, source, className)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", file, err)
	}
	return c, source, nil
}

// declared reports whether source declares a class named name.
func declared(c *typescript.Class, source []byte, name string) bool {
	query, err := c.Language().GetTagQuery()
	if err != nil {
		return false
	}
	for _, t := range parse.Classes(parse.ExtractTags(c.Language(), c.Language().NewParser(), query, source, "")) {
		if t.Name == name {
			return true
		}
	}
	return false
}
