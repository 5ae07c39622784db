// Package config loads scan settings from a config file, environment
// variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/phobologic/identref/internal/lang"
)

// EnvPrefix prefixes environment overrides, e.g. IDENTREF_ROOT_PATH.
const EnvPrefix = "IDENTREF"

// Config holds the settings of one scan.
type Config struct {
	RootPath         string   `mapstructure:"root_path"`
	IncludeFolders   []string `mapstructure:"include_folders"`
	ExcludeFolders   []string `mapstructure:"exclude_folders"`
	OutputDirectory  string   `mapstructure:"output_directory"`
	Language         string   `mapstructure:"language"`
	RespectGitignore bool     `mapstructure:"respect_gitignore"`
	WriteReferences  bool     `mapstructure:"write_references"`
}

// Error reports a missing, malformed or invalid configuration.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// flagKeys maps config keys to the CLI flags that override them.
var flagKeys = map[string]string{
	"root_path":         "root",
	"include_folders":   "include",
	"exclude_folders":   "exclude",
	"output_directory":  "output",
	"language":          "language",
	"respect_gitignore": "gitignore",
	"write_references":  "write-references",
}

// Load reads settings from the config file at path, if path is not empty.
// Priority: CLI flags > environment variables > config file > defaults.
// Flags that are not defined on flags are ignored; flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("root_path", ".")
	v.SetDefault("include_folders", []string{})
	v.SetDefault("exclude_folders", []string{})
	v.SetDefault("output_directory", ".")
	v.SetDefault("language", "java")
	v.SetDefault("respect_gitignore", false)
	v.SetDefault("write_references", false)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				_ = v.BindPFlag(key, f)
			}
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if filepath.Ext(path) == "" {
			v.SetConfigType("json")
		}
		if err := v.ReadInConfig(); err != nil {
			return nil, &Error{Path: path, Err: err}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	cfg.IncludeFolders = trimAll(cfg.IncludeFolders)
	cfg.ExcludeFolders = trimAll(cfg.ExcludeFolders)

	if err := Validate(&cfg); err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return &cfg, nil
}

// Validate checks that cfg names a root, an output directory and a
// supported language.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.RootPath) == "" {
		return errors.New("root_path must not be empty")
	}
	if strings.TrimSpace(cfg.OutputDirectory) == "" {
		return errors.New("output_directory must not be empty")
	}
	if _, err := lang.Lookup(cfg.Language); err != nil {
		return err
	}
	return nil
}

// trimAll trims names and drops empty ones; env overrides arrive as
// comma-separated strings.
func trimAll(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
