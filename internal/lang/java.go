package lang

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/phobologic/identref/internal/model"
)

func init() {
	Languages["java"] = &Language{
		Name:          "java",
		Extensions:    []string{".java"},
		CommentPrefix: "//",
		lang:          java.GetLanguage(),
		extract:       javaExtract,
	}
}

var javaTypeKinds = map[string]model.TypeKind{
	"class_declaration":     model.Class,
	"interface_declaration": model.Interface,
	"enum_declaration":      model.Enum,
	"record_declaration":    model.Record,
}

func javaExtract(root *sitter.Node, source []byte) []model.TypeDecl {
	var decls []model.TypeDecl
	for _, child := range namedChildren(root) {
		if _, ok := javaTypeKinds[child.Type()]; ok {
			decls = append(decls, javaTypeDecl(child, source))
		}
	}
	return decls
}

func javaTypeDecl(node *sitter.Node, source []byte) model.TypeDecl {
	decl := model.TypeDecl{
		Kind: javaTypeKinds[node.Type()],
		Name: fieldText(node, "name", source),
		Line: line(node),
	}

	// class Foo extends Bar
	if sc := node.ChildByFieldName("superclass"); sc != nil {
		for _, t := range namedChildren(sc) {
			decl.Supertypes = append(decl.Supertypes, javaTypeName(t, source))
		}
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "super_interfaces":
			// class/enum/record Foo implements A, B
			decl.Interfaces = append(decl.Interfaces, javaTypeList(child, source)...)
		case "extends_interfaces":
			// interface Foo extends A, B
			decl.Supertypes = append(decl.Supertypes, javaTypeList(child, source)...)
		}
	}

	// Record components are both fields and canonical constructor parameters.
	if node.Type() == "record_declaration" {
		for _, p := range javaParams(node.ChildByFieldName("parameters"), source) {
			decl.Fields = append(decl.Fields, model.FieldGroup{
				Type:  p.Type,
				Names: []string{p.Name},
				Line:  line(node),
			})
		}
	}

	javaMembers(&decl, node.ChildByFieldName("body"), source)
	return decl
}

// javaMembers collects the members of a class, interface, enum or record body.
func javaMembers(decl *model.TypeDecl, body *sitter.Node, source []byte) {
	for _, member := range namedChildren(body) {
		switch member.Type() {
		case "enum_body_declarations":
			javaMembers(decl, member, source)
		case "enum_constant":
			javaEnumConstant(decl, member, source)
		case "method_declaration":
			decl.Methods = append(decl.Methods, model.Method{
				Name:       fieldText(member, "name", source),
				ReturnType: javaTypeName(member.ChildByFieldName("type"), source),
				Params:     javaParams(member.ChildByFieldName("parameters"), source),
				Line:       line(member),
			})
		case "field_declaration", "constant_declaration":
			fg := model.FieldGroup{
				Type: javaTypeName(member.ChildByFieldName("type"), source),
				Line: line(member),
			}
			for _, d := range namedChildren(member) {
				if d.Type() == "variable_declarator" {
					fg.Names = append(fg.Names, fieldText(d, "name", source))
				}
			}
			decl.Fields = append(decl.Fields, fg)
		case "constructor_declaration", "compact_constructor_declaration":
			decl.Constructors = append(decl.Constructors, model.Constructor{
				Name:   fieldText(member, "name", source),
				Params: javaParams(member.ChildByFieldName("parameters"), source),
				Line:   line(member),
			})
		default:
			if _, ok := javaTypeKinds[member.Type()]; ok {
				decl.Nested = append(decl.Nested, javaTypeDecl(member, source))
			}
		}
	}
}

// javaEnumConstant records an enum constant as a field of the enum's own
// type. Constants precede every other enum member, so they share the first
// field group.
func javaEnumConstant(decl *model.TypeDecl, c *sitter.Node, source []byte) {
	name := fieldText(c, "name", source)
	if len(decl.Fields) == 0 {
		decl.Fields = append(decl.Fields, model.FieldGroup{Type: decl.Name, Line: line(c)})
	}
	decl.Fields[0].Names = append(decl.Fields[0].Names, name)
}

// javaParams returns the parameters of a formal_parameters node in order.
func javaParams(params *sitter.Node, source []byte) []model.Param {
	var out []model.Param
	for _, p := range namedChildren(params) {
		switch p.Type() {
		case "formal_parameter":
			out = append(out, model.Param{
				Name: fieldText(p, "name", source),
				Type: javaTypeName(p.ChildByFieldName("type"), source),
			})
		case "spread_parameter":
			// Type ... name: neither child carries a field name.
			var param model.Param
			for _, c := range namedChildren(p) {
				switch c.Type() {
				case "modifiers":
				case "variable_declarator":
					param.Name = fieldText(c, "name", source)
				default:
					if param.Type == "" {
						param.Type = javaTypeName(c, source)
					}
				}
			}
			out = append(out, param)
		}
	}
	return out
}

// javaTypeList returns the type names under a super_interfaces or
// extends_interfaces node.
func javaTypeList(node *sitter.Node, source []byte) []string {
	var names []string
	for _, child := range namedChildren(node) {
		if child.Type() != "type_list" {
			continue
		}
		for _, t := range namedChildren(child) {
			names = append(names, javaTypeName(t, source))
		}
	}
	return names
}

// javaTypeName returns the base name of a type node; "" for void.
func javaTypeName(t *sitter.Node, source []byte) string {
	if t == nil || t.Type() == "void_type" {
		return ""
	}
	return BaseTypeName(NodeText(t, source))
}
