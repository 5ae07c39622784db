// Package toon implements TOON (Token-Oriented Object Notation) encoding of
// scan summaries.
package toon

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/phobologic/identref/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Summary is the console view of a finished scan.
type Summary struct {
	Root     string
	Language string
	Words    int
	// Files lists relative paths in scan order; each must be in Index.
	Files   []string
	Index   model.Index
	Outputs map[string]string
}

// Encode converts a scan Summary into TOON format.
func Encode(s *Summary) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(s.Root)))
	parts = append(parts, fmt.Sprintf("language: %s", encodeValue(s.Language)))
	parts = append(parts, fmt.Sprintf("words: %d", s.Words))

	var fileRows, typeRows [][]string
	for _, path := range s.Files {
		fi := s.Index[path]
		if fi == nil {
			continue
		}
		var methods, fields int
		for i := range fi.Types {
			te := &fi.Types[i]
			methods += len(te.Methods)
			fields += len(te.Fields)
			typeRows = append(typeRows, []string{
				path,
				string(te.Kind),
				te.Name,
				fmt.Sprintf("%d", te.Line),
				fmt.Sprintf("%d", te.CombinedLine),
			})
		}
		fileRows = append(fileRows, []string{
			path,
			fmt.Sprintf("%d", fi.StartLine),
			fmt.Sprintf("%d", len(fi.Types)),
			fmt.Sprintf("%d", methods),
			fmt.Sprintf("%d", fields),
		})
	}
	parts = append(parts, formatTabular("files", []string{"path", "start_line", "types", "methods", "fields"}, fileRows))
	parts = append(parts, formatTabular("types", []string{"file", "kind", "name", "line", "combined_line"}, typeRows))

	if len(s.Outputs) > 0 {
		kinds := make([]string, 0, len(s.Outputs))
		for k := range s.Outputs {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		var outRows [][]string
		for _, k := range kinds {
			outRows = append(outRows, []string{k, s.Outputs[k]})
		}
		parts = append(parts, formatTabular("outputs", []string{"kind", "path"}, outRows))
	}

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
