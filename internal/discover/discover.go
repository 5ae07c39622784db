// Package discover finds the source files of one language in a project tree.
package discover

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/phobologic/identref/internal/lang"
)

// FileEntry represents a discovered source file.
type FileEntry struct {
	Path     string // Relative to the project root
	Language string
}

// Filter selects the directories and files Files visits.
type Filter struct {
	// Language restricts results to files of this registered language.
	Language string
	// Include lists the directory names that may be descended into. When
	// empty, only files directly in the root are returned.
	Include []string
	// Exclude lists directory names that are never descended into. It wins
	// over Include, as do the default skip list and hidden directories.
	Exclude []string
	// RespectGitignore skips files ignored by git (git ls-files, or the
	// root .gitignore when the tree is not a git checkout).
	RespectGitignore bool
}

var skipDirs = map[string]struct{}{
	"__pycache__":   {},
	"node_modules":  {},
	".git":          {},
	".hg":           {},
	".svn":          {},
	"venv":          {},
	".venv":         {},
	"build":         {},
	"dist":          {},
	"target":        {},
	".gradle":       {},
	".idea":         {},
	".mypy_cache":   {},
	".pytest_cache": {},
}

// Files discovers source files under root in walk order: entries of a
// directory are visited in lexical order, depth first. Files directly in
// root are always considered; a subdirectory at any depth is descended
// into only if allowed by f.
func Files(root string, f Filter) ([]FileEntry, error) {
	include := toSet(f.Include)
	exclude := toSet(f.Exclude)

	var gitFiles map[string]struct{}
	var gi *ignore.GitIgnore
	if f.RespectGitignore {
		gitFiles = gitLsFiles(root)
		if gitFiles == nil {
			gi = loadGitignore(root)
		}
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if !descend(name, include, exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}

		// Skip symlinks
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		langName := lang.ForExtension(filepath.Ext(name))
		if langName == "" || (f.Language != "" && langName != f.Language) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}

		if gitFiles != nil {
			if _, ok := gitFiles[filepath.ToSlash(rel)]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		results = append(results, FileEntry{Path: rel, Language: langName})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return results, nil
}

// descend reports whether a directory called name may be walked. Only
// included directories are descended into; exclusions always win.
func descend(name string, include, exclude map[string]struct{}) bool {
	if _, ok := exclude[name]; ok {
		return false
	}
	if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
		return false
	}
	_, ok := include[name]
	return ok
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			set[n] = struct{}{}
		}
	}
	return set
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
