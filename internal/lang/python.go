package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/phobologic/identref/internal/model"
)

func init() {
	Languages["python"] = &Language{
		Name:          "python",
		Extensions:    []string{".py"},
		CommentPrefix: "#",
		lang:          python.GetLanguage(),
		extract:       pythonExtract,
	}
}

const pythonConstructor = "__init__"

func pythonExtract(root *sitter.Node, source []byte) []model.TypeDecl {
	var decls []model.TypeDecl
	for _, child := range namedChildren(root) {
		if cls := pythonUndecorate(child); cls != nil && cls.Type() == "class_definition" {
			decls = append(decls, pythonClass(cls, source))
		}
	}
	return decls
}

// pythonUndecorate returns the definition wrapped by a decorated_definition,
// or node itself.
func pythonUndecorate(node *sitter.Node) *sitter.Node {
	if node.Type() == "decorated_definition" {
		return node.ChildByFieldName("definition")
	}
	return node
}

func pythonClass(node *sitter.Node, source []byte) model.TypeDecl {
	decl := model.TypeDecl{
		Kind: model.Class,
		Name: fieldText(node, "name", source),
		Line: line(node),
	}

	// class Foo(Base, abc.ABC, metaclass=Meta): keyword arguments are not bases.
	for _, arg := range namedChildren(node.ChildByFieldName("superclasses")) {
		switch arg.Type() {
		case "identifier", "attribute", "subscript":
			decl.Supertypes = append(decl.Supertypes, BaseTypeName(NodeText(arg, source)))
		}
	}

	for _, stmt := range namedChildren(node.ChildByFieldName("body")) {
		def := pythonUndecorate(stmt)
		if def == nil {
			continue
		}
		switch def.Type() {
		case "function_definition":
			name := fieldText(def, "name", source)
			params := pythonParams(def.ChildByFieldName("parameters"), source)
			if name == pythonConstructor {
				decl.Constructors = append(decl.Constructors, model.Constructor{
					Name:   name,
					Params: params,
					Line:   line(def),
				})
				continue
			}
			decl.Methods = append(decl.Methods, model.Method{
				Name:       name,
				ReturnType: pythonTypeName(def.ChildByFieldName("return_type"), source),
				Params:     params,
				Line:       line(def),
			})
		case "expression_statement":
			if fg, ok := pythonField(def, source); ok {
				decl.Fields = append(decl.Fields, fg)
			}
		case "class_definition":
			decl.Nested = append(decl.Nested, pythonClass(def, source))
		}
	}
	return decl
}

// pythonField extracts a class-level attribute. In this grammar version,
// annotated assignments (x: Type = val) are represented as an assignment
// node with a "type" child.
func pythonField(stmt *sitter.Node, source []byte) (model.FieldGroup, bool) {
	for _, child := range namedChildren(stmt) {
		if child.Type() != "assignment" {
			continue
		}
		left := child.ChildByFieldName("left")
		if left == nil || left.Type() != "identifier" {
			return model.FieldGroup{}, false
		}
		return model.FieldGroup{
			Type:  pythonTypeName(child.ChildByFieldName("type"), source),
			Names: []string{NodeText(left, source)},
			Line:  line(child),
		}, true
	}
	return model.FieldGroup{}, false
}

func pythonParams(params *sitter.Node, source []byte) []model.Param {
	var out []model.Param
	for _, p := range namedChildren(params) {
		switch p.Type() {
		case "identifier":
			out = append(out, model.Param{Name: NodeText(p, source)})
		case "typed_parameter":
			// The name is the first named child; *args and **kwargs wrap it.
			var name string
			if first := p.NamedChild(0); first != nil {
				name = pythonParamName(first, source)
			}
			out = append(out, model.Param{
				Name: name,
				Type: pythonTypeName(p.ChildByFieldName("type"), source),
			})
		case "default_parameter", "typed_default_parameter":
			out = append(out, model.Param{
				Name: fieldText(p, "name", source),
				Type: pythonTypeName(p.ChildByFieldName("type"), source),
			})
		case "list_splat_pattern", "dictionary_splat_pattern":
			out = append(out, model.Param{Name: pythonParamName(p, source)})
		}
	}
	return out
}

func pythonParamName(n *sitter.Node, source []byte) string {
	switch n.Type() {
	case "identifier":
		return NodeText(n, source)
	case "list_splat_pattern", "dictionary_splat_pattern":
		for _, c := range namedChildren(n) {
			if c.Type() == "identifier" {
				return NodeText(c, source)
			}
		}
	}
	return ""
}

func pythonTypeName(t *sitter.Node, source []byte) string {
	if t == nil {
		return ""
	}
	name := BaseTypeName(NodeText(t, source))
	if name == "None" {
		return ""
	}
	return name
}
