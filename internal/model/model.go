// Package model defines core data structures for identref.
package model

// TypeKind indicates the syntactic kind of a type declaration.
type TypeKind string

const (
	Class     TypeKind = "class"
	Interface TypeKind = "interface"
	Enum      TypeKind = "enum"
	Record    TypeKind = "record"
	Struct    TypeKind = "struct"
	Alias     TypeKind = "type"
	Module    TypeKind = "module"
)

// Param is a method or constructor parameter. Type is empty when the
// language allows untyped parameters.
type Param struct {
	Name string
	Type string
}

// Method is a method declaration. ReturnType is empty for void methods.
type Method struct {
	Name       string
	ReturnType string
	Params     []Param
	Line       int
}

// FieldGroup is one field declaration, which may declare several names of
// the same type.
type FieldGroup struct {
	Type  string
	Names []string
	Line  int
}

// Constructor is a constructor declaration.
type Constructor struct {
	Name   string
	Params []Param
	Line   int
}

// TypeDecl is a type declaration as produced by a language parser.
// Line numbers are 1-based within the source file.
type TypeDecl struct {
	Kind         TypeKind
	Name         string
	Line         int
	Supertypes   []string
	Interfaces   []string
	Methods      []Method
	Fields       []FieldGroup
	Constructors []Constructor
	Nested       []TypeDecl
}

// Index maps repo-relative file paths to their entries.
type Index map[string]*FileIndex

// FileIndex holds the encoded declarations of one source file.
// StartLine is the line of the combined text where the file content begins.
type FileIndex struct {
	Language  string      `json:"language"`
	StartLine int         `json:"start_line"`
	Types     []TypeEntry `json:"types"`
}

// ParamEntry is an encoded parameter.
type ParamEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Position locates a declaration in its file and in the combined text.
type Position struct {
	Line         int `json:"line"`
	CombinedLine int `json:"combined_line"`
}

// MethodEntry is an encoded method.
type MethodEntry struct {
	Name       string       `json:"name"`
	ReturnType string       `json:"return_type"`
	Parameters []ParamEntry `json:"parameters"`
	Position
}

// FieldEntry is an encoded field declarator.
type FieldEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Position
}

// ConstructorEntry is an encoded constructor.
type ConstructorEntry struct {
	Name       string       `json:"name"`
	Parameters []ParamEntry `json:"parameters"`
	Position
}

// TypeEntry is an encoded type declaration. Every name is an encoded
// identifier.
type TypeEntry struct {
	Kind         TypeKind           `json:"kind"`
	Name         string             `json:"name"`
	Extends      []string           `json:"extends,omitempty"`
	Implements   []string           `json:"implements,omitempty"`
	Methods      []MethodEntry      `json:"methods,omitempty"`
	Fields       []FieldEntry       `json:"fields,omitempty"`
	Constructors []ConstructorEntry `json:"constructors,omitempty"`
	Nested       []TypeEntry        `json:"nested,omitempty"`
	Position
}
