// identref replaces the identifiers of a source tree with shared numeric
// word references and writes a combined source file plus a JSON index.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/phobologic/identref/internal/config"
	"github.com/phobologic/identref/internal/refs"
	"github.com/phobologic/identref/internal/scan"
	"github.com/phobologic/identref/internal/toon"
)

var version = "dev"

const defaultConfigFile = "config.json"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identref [flags] [root]",
		Short: "Encode source identifiers as shared numeric word references",
		Long: `identref walks a source tree, splits every declared identifier into its
camel-case words and replaces each distinct word with a numeric reference
shared across the whole project. It writes the concatenated sources and a
JSON index of the encoded declarations to the output directory.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), cmd.Flags(), args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetVersionTemplate("identref {{.Version}}\n")
	registerFlags(cmd.Flags())
	return cmd
}

func registerFlags(flags *pflag.FlagSet) {
	flags.StringP("config", "c", defaultConfigFile, "config file (JSON)")
	flags.String("root", "", "project root to scan (overrides root_path)")
	flags.StringP("output", "o", "", "output directory (overrides output_directory)")
	flags.StringP("language", "l", "", "source language: java, python, go or ruby")
	flags.StringSlice("include", nil, "directory names to descend into (comma-separated)")
	flags.StringSlice("exclude", nil, "directory names never descended into (comma-separated)")
	flags.Bool("gitignore", false, "skip files ignored by git")
	flags.Bool("write-references", false, "also write the word to id table")
	flags.Bool("summary", false, "print a TOON summary of the scan to stdout")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
}

func runScan(ctx context.Context, flags *pflag.FlagSet, args []string, stdout, stderr io.Writer) error {
	logger, err := newLogger(flags, stderr)
	if err != nil {
		return err
	}

	if len(args) > 0 {
		if err := flags.Set("root", args[0]); err != nil {
			return err
		}
	}

	configPath, err := resolveConfigPath(flags)
	if err != nil {
		return err
	}
	cfg, err := config.Load(configPath, flags)
	if err != nil {
		return err
	}
	config.LogWithLogger(cfg, logger)

	table := refs.NewTable()
	res, err := scan.Project(ctx, cfg, table, logger)
	if err != nil {
		return err
	}

	if summary, _ := flags.GetBool("summary"); summary {
		root, _ := filepath.Abs(cfg.RootPath)
		outputs := map[string]string{
			"combined": res.CombinedPath,
			"index":    res.IndexPath,
		}
		if res.ReferencesPath != "" {
			outputs["references"] = res.ReferencesPath
		}
		_, _ = fmt.Fprintln(stdout, toon.Encode(&toon.Summary{
			Root:     filepath.Base(root),
			Language: res.Language,
			Words:    res.Words,
			Files:    res.Files,
			Index:    res.Index,
			Outputs:  outputs,
		}))
	}
	return nil
}

// resolveConfigPath returns the config file to read. A file named
// explicitly must exist. The default file may only be missing when the
// root directory is given another way.
func resolveConfigPath(flags *pflag.FlagSet) (string, error) {
	path, err := flags.GetString("config")
	if err != nil {
		return "", err
	}
	if flags.Changed("config") || path == "" {
		return path, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if !flags.Changed("root") && os.Getenv(config.EnvPrefix+"_ROOT_PATH") == "" {
			return "", &config.Error{
				Path: path,
				Err:  fmt.Errorf("%w: pass --config or a root directory", os.ErrNotExist),
			}
		}
		return "", nil
	}
	return path, nil
}

func newLogger(flags *pflag.FlagSet, stderr io.Writer) (*slog.Logger, error) {
	levelName, err := flags.GetString("log-level")
	if err != nil {
		return nil, err
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(levelName)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", levelName, err)
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})), nil
}
