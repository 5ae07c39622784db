// Package scan runs a project scan: it discovers source files, walks their
// declarations against a shared reference table, and writes the combined
// source text and the JSON index.
package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phobologic/identref/internal/config"
	"github.com/phobologic/identref/internal/discover"
	"github.com/phobologic/identref/internal/lang"
	"github.com/phobologic/identref/internal/model"
	"github.com/phobologic/identref/internal/refs"
	"github.com/phobologic/identref/internal/walk"
)

// Output file stems; the language's primary extension is appended.
const (
	combinedStem   = "combined"
	indexStem      = "index"
	referencesStem = "references"
)

// indent matches the index format consumed downstream.
const indent = "    "

// Result describes a completed scan.
type Result struct {
	Language string
	Index    model.Index
	// Files lists the relative paths in scan order.
	Files          []string
	Words          int
	CombinedPath   string
	IndexPath      string
	ReferencesPath string
}

// Project scans the tree described by cfg, registering every identifier in
// table, and writes the outputs under cfg.OutputDirectory. Files are
// processed one at a time in walk order, so ids follow first-encounter
// order. Nothing is written unless every file was read and parsed.
func Project(ctx context.Context, cfg *config.Config, table *refs.Table, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}

	l, err := lang.Lookup(cfg.Language)
	if err != nil {
		return nil, err
	}

	root, err := filepath.Abs(cfg.RootPath)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("root path: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s: not a directory", root)
	}

	files, err := discover.Files(root, discover.Filter{
		Language:         l.Name,
		Include:          cfg.IncludeFolders,
		Exclude:          cfg.ExcludeFolders,
		RespectGitignore: cfg.RespectGitignore,
	})
	if err != nil {
		return nil, fmt.Errorf("discovering files: %w", err)
	}
	logger.Info("scanning project", "root", root, "language", l.Name, "files", len(files))

	res := &Result{
		Language: l.Name,
		Index:    make(model.Index, len(files)),
		Files:    make([]string, 0, len(files)),
	}

	var combined bytes.Buffer
	newlines := 0
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rel := filepath.ToSlash(f.Path)
		source, err := os.ReadFile(filepath.Join(root, f.Path))
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}

		marker := FileMarker(l, rel)
		combined.WriteString(marker)
		newlines += strings.Count(marker, "\n")
		startLine := newlines + 1
		combined.Write(source)
		newlines += bytes.Count(source, []byte{'\n'})

		types, err := walk.File(ctx, l, source, table, startLine)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rel, err)
		}
		res.Index[rel] = &model.FileIndex{
			Language:  l.Name,
			StartLine: startLine,
			Types:     types,
		}
		res.Files = append(res.Files, rel)
		logger.Debug("scanned file", "path", rel, "start_line", startLine, "types", len(types), "words", table.Len())
	}
	res.Words = table.Len()

	if err := res.write(cfg, l, combined.Bytes(), table); err != nil {
		return nil, err
	}
	logger.Info("scan complete",
		"files", len(res.Files),
		"words", res.Words,
		"combined", res.CombinedPath,
		"index", res.IndexPath,
	)
	return res, nil
}

// FileMarker returns the line introducing a file in the combined text,
// preceded by a blank-line separator: "\n// File: src/App.java\n".
func FileMarker(l *lang.Language, rel string) string {
	return fmt.Sprintf("\n%s File: %s\n", l.CommentPrefix, rel)
}

// write persists the outputs. Every payload is encoded before the first
// file is written, and files already written are removed if a later write
// fails.
func (r *Result) write(cfg *config.Config, l *lang.Language, combined []byte, table *refs.Table) error {
	outDir := cfg.OutputDirectory
	ext := l.Extensions[0]

	index, err := marshalJSON(r.Index)
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}
	outputs := []output{
		{path: filepath.Join(outDir, combinedStem+ext), data: combined, what: "combined source"},
		{path: filepath.Join(outDir, indexStem+ext+".json"), data: index, what: "index"},
	}
	if cfg.WriteReferences {
		references, err := marshalJSON(table.Entries())
		if err != nil {
			return fmt.Errorf("encoding references: %w", err)
		}
		outputs = append(outputs, output{
			path: filepath.Join(outDir, referencesStem+ext+".json"),
			data: references,
			what: "references",
		})
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	for i, o := range outputs {
		if err := os.WriteFile(o.path, o.data, 0o644); err != nil {
			for _, done := range outputs[:i] {
				_ = os.Remove(done.path)
			}
			return fmt.Errorf("writing %s: %w", o.what, err)
		}
	}

	r.CombinedPath = outputs[0].path
	r.IndexPath = outputs[1].path
	if cfg.WriteReferences {
		r.ReferencesPath = outputs[2].path
	}
	return nil
}

type output struct {
	path string
	data []byte
	what string
}

func marshalJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", indent)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
