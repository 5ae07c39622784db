package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"

	"github.com/phobologic/identref/internal/model"
)

func init() {
	Languages["go"] = &Language{
		Name:          "go",
		Extensions:    []string{".go"},
		CommentPrefix: "//",
		lang:          golang.GetLanguage(),
		extract:       goExtract,
	}
}

// goExtract returns the file's type declarations with their methods
// attached. Methods whose receiver type is declared in another file are
// dropped.
func goExtract(root *sitter.Node, source []byte) []model.TypeDecl {
	var decls []model.TypeDecl
	byName := make(map[string]int)

	for _, child := range namedChildren(root) {
		if child.Type() != "type_declaration" {
			continue
		}
		for _, spec := range namedChildren(child) {
			switch spec.Type() {
			case "type_spec", "type_alias":
				d := goTypeDecl(spec, source)
				byName[d.Name] = len(decls)
				decls = append(decls, d)
			}
		}
	}

	for _, child := range namedChildren(root) {
		if child.Type() != "method_declaration" {
			continue
		}
		idx, ok := byName[goFindReceiverType(child, source)]
		if !ok {
			continue
		}
		decls[idx].Methods = append(decls[idx].Methods, goMethod(child, source))
	}
	return decls
}

func goTypeDecl(spec *sitter.Node, source []byte) model.TypeDecl {
	decl := model.TypeDecl{
		Kind: model.Alias,
		Name: fieldText(spec, "name", source),
		Line: line(spec),
	}

	typ := spec.ChildByFieldName("type")
	if typ == nil {
		return decl
	}
	switch typ.Type() {
	case "struct_type":
		decl.Kind = model.Struct
		for _, list := range namedChildren(typ) {
			if list.Type() != "field_declaration_list" {
				continue
			}
			for _, f := range namedChildren(list) {
				if f.Type() == "field_declaration" {
					goField(&decl, f, source)
				}
			}
		}
	case "interface_type":
		decl.Kind = model.Interface
		for _, elem := range namedChildren(typ) {
			switch elem.Type() {
			case "method_elem", "method_spec":
				decl.Methods = append(decl.Methods, goMethod(elem, source))
			case "type_elem", "constraint_elem":
				for _, t := range namedChildren(elem) {
					decl.Interfaces = append(decl.Interfaces, BaseTypeName(NodeText(t, source)))
				}
			case "type_identifier", "qualified_type", "interface_type_name":
				decl.Interfaces = append(decl.Interfaces, BaseTypeName(NodeText(elem, source)))
			}
		}
	default:
		// type Celsius float64: the underlying type is the supertype.
		decl.Supertypes = append(decl.Supertypes, BaseTypeName(NodeText(typ, source)))
	}
	return decl
}

// goField adds a struct field declaration. Embedded fields have a type but
// no name and are recorded as supertypes.
func goField(decl *model.TypeDecl, f *sitter.Node, source []byte) {
	typeName := BaseTypeName(fieldText(f, "type", source))
	var names []string
	for _, c := range namedChildren(f) {
		if c.Type() == "field_identifier" {
			names = append(names, NodeText(c, source))
		}
	}
	if len(names) == 0 {
		decl.Supertypes = append(decl.Supertypes, typeName)
		return
	}
	decl.Fields = append(decl.Fields, model.FieldGroup{
		Type:  typeName,
		Names: names,
		Line:  line(f),
	})
}

// goMethod builds a method from a method_declaration or interface method
// element. A multi-value result reports its first type.
func goMethod(node *sitter.Node, source []byte) model.Method {
	m := model.Method{
		Name:   fieldText(node, "name", source),
		Params: goParams(node.ChildByFieldName("parameters"), source),
		Line:   line(node),
	}
	if result := node.ChildByFieldName("result"); result != nil {
		if result.Type() == "parameter_list" {
			if params := goParams(result, source); len(params) > 0 {
				m.ReturnType = params[0].Type
			}
		} else {
			m.ReturnType = BaseTypeName(NodeText(result, source))
		}
	}
	return m
}

// goParams flattens a parameter_list; "a, b int" yields two parameters and
// unnamed parameters have an empty name.
func goParams(list *sitter.Node, source []byte) []model.Param {
	var out []model.Param
	for _, p := range namedChildren(list) {
		switch p.Type() {
		case "parameter_declaration", "variadic_parameter_declaration":
		default:
			continue
		}
		typeName := BaseTypeName(fieldText(p, "type", source))
		var names []string
		for _, c := range namedChildren(p) {
			if c.Type() == "identifier" {
				names = append(names, NodeText(c, source))
			}
		}
		if len(names) == 0 {
			out = append(out, model.Param{Type: typeName})
			continue
		}
		for _, n := range names {
			out = append(out, model.Param{Name: n, Type: typeName})
		}
	}
	return out
}

// goFindReceiverType extracts the receiver type name from a method_declaration node.
// Navigates: method_declaration → parameter_list (receiver) → parameter_declaration → type.
func goFindReceiverType(node *sitter.Node, source []byte) string {
	receiver := node.ChildByFieldName("receiver")
	for _, param := range namedChildren(receiver) {
		if param.Type() == "parameter_declaration" {
			return goExtractTypeName(param, source)
		}
	}
	return ""
}

// goExtractTypeName extracts the type name from a parameter_declaration,
// unwrapping pointer_type and generic_type if present.
func goExtractTypeName(param *sitter.Node, source []byte) string {
	for i := 0; i < int(param.ChildCount()); i++ {
		child := param.Child(i)
		switch child.Type() {
		case "type_identifier":
			return NodeText(child, source)
		case "pointer_type", "generic_type":
			return BaseTypeName(NodeText(child, source))
		}
	}
	return ""
}
