package lang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"

	"github.com/phobologic/identref/internal/model"
)

func init() {
	Languages["ruby"] = &Language{
		Name:          "ruby",
		Extensions:    []string{".rb"},
		CommentPrefix: "#",
		lang:          ruby.GetLanguage(),
		extract:       rubyExtract,
	}
}

const rubyConstructor = "initialize"

// rubyMixins are the calls whose constant arguments are recorded as
// interfaces of the enclosing class or module.
var rubyMixins = map[string]bool{
	"include": true,
	"extend":  true,
	"prepend": true,
}

// rubyAccessors are the calls whose symbol arguments declare fields.
var rubyAccessors = map[string]bool{
	"attr_accessor": true,
	"attr_reader":   true,
	"attr_writer":   true,
}

func rubyExtract(root *sitter.Node, source []byte) []model.TypeDecl {
	var decls []model.TypeDecl
	for _, child := range namedChildren(root) {
		switch child.Type() {
		case "class", "module":
			decls = append(decls, rubyTypeDecl(child, source))
		}
	}
	return decls
}

func rubyTypeDecl(node *sitter.Node, source []byte) model.TypeDecl {
	decl := model.TypeDecl{
		Kind: model.Class,
		Name: rubyConstName(rubyClassName(node, source)),
		Line: line(node),
	}
	if node.Type() == "module" {
		decl.Kind = model.Module
	}

	// class Invoice < Billing::Document
	if sc := node.ChildByFieldName("superclass"); sc != nil {
		for _, c := range namedChildren(sc) {
			if c.Type() == "constant" || c.Type() == "scope_resolution" {
				decl.Supertypes = append(decl.Supertypes, rubyConstName(NodeText(c, source)))
			}
		}
	}

	for _, stmt := range namedChildren(node.ChildByFieldName("body")) {
		switch stmt.Type() {
		case "method", "singleton_method":
			name := fieldText(stmt, "name", source)
			params := rubyParams(stmt.ChildByFieldName("parameters"), source)
			if stmt.Type() == "method" && name == rubyConstructor {
				decl.Constructors = append(decl.Constructors, model.Constructor{
					Name:   name,
					Params: params,
					Line:   line(stmt),
				})
				continue
			}
			decl.Methods = append(decl.Methods, model.Method{
				Name:   name,
				Params: params,
				Line:   line(stmt),
			})
		case "call":
			rubyCall(&decl, stmt, source)
		case "assignment":
			// MAX_LINES = 50
			left := stmt.ChildByFieldName("left")
			if left != nil && left.Type() == "constant" {
				decl.Fields = append(decl.Fields, model.FieldGroup{
					Names: []string{NodeText(left, source)},
					Line:  line(stmt),
				})
			}
		case "class", "module":
			decl.Nested = append(decl.Nested, rubyTypeDecl(stmt, source))
		}
	}
	return decl
}

// rubyCall handles the class-body calls that declare identifiers: mixins
// and attribute accessors. Other calls are ignored.
func rubyCall(decl *model.TypeDecl, call *sitter.Node, source []byte) {
	if call.ChildByFieldName("receiver") != nil {
		return
	}
	method := fieldText(call, "method", source)
	args := namedChildren(call.ChildByFieldName("arguments"))

	switch {
	case rubyMixins[method]:
		for _, a := range args {
			if a.Type() == "constant" || a.Type() == "scope_resolution" {
				decl.Interfaces = append(decl.Interfaces, rubyConstName(NodeText(a, source)))
			}
		}
	case rubyAccessors[method]:
		fg := model.FieldGroup{Line: line(call)}
		for _, a := range args {
			if a.Type() == "simple_symbol" {
				fg.Names = append(fg.Names, strings.TrimPrefix(NodeText(a, source), ":"))
			}
		}
		if len(fg.Names) > 0 {
			decl.Fields = append(decl.Fields, fg)
		}
	}
}

// rubyParams returns the parameters of a method_parameters node. Ruby
// parameters are untyped.
func rubyParams(params *sitter.Node, source []byte) []model.Param {
	var out []model.Param
	for _, p := range namedChildren(params) {
		switch p.Type() {
		case "identifier":
			out = append(out, model.Param{Name: NodeText(p, source)})
		case "optional_parameter", "keyword_parameter", "splat_parameter",
			"hash_splat_parameter", "block_parameter":
			// Anonymous splats (*, **, &) have no name.
			if name := fieldText(p, "name", source); name != "" {
				out = append(out, model.Param{Name: name})
			}
		}
	}
	return out
}

// rubyClassName extracts the name from a class or module node.
func rubyClassName(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "constant" || child.Type() == "scope_resolution" {
			return NodeText(child, source)
		}
	}
	return ""
}

// rubyConstName drops the namespace of a constant path: "Billing::Invoice"
// -> "Invoice".
func rubyConstName(s string) string {
	return BaseTypeName(strings.ReplaceAll(s, "::", "."))
}
