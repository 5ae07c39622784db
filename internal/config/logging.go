package config

import (
	"context"
	"log/slog"
)

// LogWithLogger logs the resolved settings.
func LogWithLogger(cfg *Config, logger *slog.Logger) {
	ctx := context.Background()
	logger.DebugContext(ctx, "Config: root_path", "value", cfg.RootPath)
	logger.DebugContext(ctx, "Config: language", "value", cfg.Language)
	logger.DebugContext(ctx, "Config: include_folders", "value", cfg.IncludeFolders)
	logger.DebugContext(ctx, "Config: exclude_folders", "value", cfg.ExcludeFolders)
	logger.DebugContext(ctx, "Config: output_directory", "value", cfg.OutputDirectory)
	if cfg.RespectGitignore {
		logger.DebugContext(ctx, "Config: respect_gitignore", "value", true)
	}
	if cfg.WriteReferences {
		logger.DebugContext(ctx, "Config: write_references", "value", true)
	}
}
