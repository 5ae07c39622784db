// Package lang provides a language registry mapping configuration tags and
// file extensions to tree-sitter grammars and their declaration extractors.
package lang

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/identref/internal/model"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// ErrUnsupported is returned by Lookup for unknown language tags.
var ErrUnsupported = errors.New("unsupported language")

// ParseError reports a source file that tree-sitter could not parse
// cleanly. Line and Column are 1-based and locate the first error node.
type ParseError struct {
	Language string
	Line     int
	Column   int
	Near     string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s syntax error at line %d, column %d", e.Language, e.Line, e.Column)
	if e.Near != "" {
		msg += fmt.Sprintf(" near %q", e.Near)
	}
	return msg
}

// Language holds tree-sitter configuration for a supported language.
type Language struct {
	Name       string
	Extensions []string
	// CommentPrefix starts a line comment; used for file markers in the
	// combined output.
	CommentPrefix string
	lang          *sitter.Language

	// extract turns a syntax tree into type declarations in source order.
	extract func(root *sitter.Node, source []byte) []model.TypeDecl
}

// GetLanguage returns the tree-sitter Language pointer.
func (l *Language) GetLanguage() *sitter.Language {
	return l.lang
}

// NewParser creates a fresh tree-sitter parser for this language.
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.GetLanguage())
	return p
}

// Parse parses source and returns its type declarations. Sources containing
// syntax errors fail with a *ParseError; nothing is extracted from them.
func (l *Language) Parse(ctx context.Context, source []byte) ([]model.TypeDecl, error) {
	if len(source) == 0 {
		return nil, nil
	}

	parser := l.NewParser()
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing %s source: %w", l.Name, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, l.parseError(root, source)
	}
	return l.extract(root, source), nil
}

func (l *Language) parseError(root *sitter.Node, source []byte) *ParseError {
	pe := &ParseError{Language: l.Name, Line: 1, Column: 1}
	bad := firstErrorNode(root)
	if bad == nil {
		return pe
	}
	pt := bad.StartPoint()
	pe.Line = int(pt.Row) + 1
	pe.Column = int(pt.Column) + 1
	near := CollapseWhitespace(NodeText(bad, source))
	if len(near) > 40 {
		near = near[:40]
	}
	pe.Near = near
	return pe
}

// firstErrorNode returns the first ERROR or missing node in document order.
func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Type() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !(child.HasError() || child.IsMissing()) {
			continue
		}
		if found := firstErrorNode(child); found != nil {
			return found
		}
	}
	return nil
}

// Languages maps language names to their configuration.
// Populated by init() functions in per-language files.
var Languages = map[string]*Language{}

// extensionMap is built lazily after all init() functions have run.
var extensionMap map[string]string
var extensionOnce sync.Once

func getExtensionMap() map[string]string {
	extensionOnce.Do(func() {
		extensionMap = make(map[string]string)
		for _, l := range Languages {
			for _, ext := range l.Extensions {
				extensionMap[ext] = l.Name
			}
		}
	})
	return extensionMap
}

// ForExtension returns the language name for a file extension, or "" if unsupported.
func ForExtension(ext string) string {
	return getExtensionMap()[ext]
}

// Lookup returns the language registered under tag, ignoring case, so that
// "Java" and "java" select the same scanner.
func Lookup(tag string) (*Language, error) {
	l, ok := Languages[strings.ToLower(strings.TrimSpace(tag))]
	if !ok {
		return nil, fmt.Errorf("%w %q (supported: %s)", ErrUnsupported, tag, strings.Join(Names(), ", "))
	}
	return l, nil
}

// Names returns the registered language names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Languages))
	for name := range Languages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NodeText returns the source text of a tree-sitter node.
func NodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// CollapseWhitespace replaces runs of whitespace with a single space and trims.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// BaseTypeName reduces a type expression to its base name by dropping
// pointer, slice and variadic decoration, generic arguments and package
// qualifiers: "List<String>" -> "List", "*pkg.T" -> "T", "int[]" -> "int".
func BaseTypeName(s string) string {
	s = trimTypeDecoration(CollapseWhitespace(s))
	if i := strings.IndexAny(s, "<[({ |,"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		s = s[i+1:]
	}
	return strings.Trim(s, `"'`)
}

func trimTypeDecoration(s string) string {
	for {
		switch {
		case strings.HasPrefix(s, "*"), strings.HasPrefix(s, "&"):
			s = s[1:]
		case strings.HasPrefix(s, "..."):
			s = s[3:]
		case strings.HasPrefix(s, "["):
			end := strings.IndexByte(s, ']')
			if end < 0 {
				return ""
			}
			s = s[end+1:]
		default:
			return strings.TrimSpace(s)
		}
	}
}

// line returns the 1-based line a node starts on.
func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

// fieldText returns the text of the named field child, or "".
func fieldText(n *sitter.Node, field string, source []byte) string {
	child := n.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return NodeText(child, source)
}

// namedChildren returns the named children of n.
func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}
