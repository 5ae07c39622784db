// Package walk registers and encodes every identifier of a source file's
// declarations against a shared reference table.
package walk

import (
	"context"

	"github.com/phobologic/identref/internal/lang"
	"github.com/phobologic/identref/internal/model"
	"github.com/phobologic/identref/internal/refs"
)

// voidType stands in for a method without a declared return type.
const voidType = "void"

// File parses source with l and walks its declarations. startLine is the
// line of the combined text where source begins; it only affects
// CombinedLine. Parse errors are returned unchanged.
func File(ctx context.Context, l *lang.Language, source []byte, table *refs.Table, startLine int) ([]model.TypeEntry, error) {
	decls, err := l.Parse(ctx, source)
	if err != nil {
		return nil, err
	}
	return Types(decls, table, startLine)
}

// Types walks parsed declarations in order. For each type it registers and
// encodes, in this order: the type name, supertypes, interfaces, methods
// (name, return type, then each parameter name and type), fields (each
// declarator name, then the field type), constructors (name, then each
// parameter name and type) and the names of nested types. Nested type
// members are walked after all nested names are registered.
func Types(decls []model.TypeDecl, table *refs.Table, startLine int) ([]model.TypeEntry, error) {
	w := &walker{table: table, startLine: startLine}
	entries := make([]model.TypeEntry, 0, len(decls))
	for i := range decls {
		e, err := w.typeDecl(&decls[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

type walker struct {
	table     *refs.Table
	startLine int
}

func (w *walker) encode(identifier string) (string, error) {
	return w.table.RegisterEncode(identifier)
}

func (w *walker) position(line int) model.Position {
	p := model.Position{Line: line}
	if w.startLine > 0 && line > 0 {
		p.CombinedLine = w.startLine + line - 1
	}
	return p
}

func (w *walker) typeDecl(d *model.TypeDecl) (model.TypeEntry, error) {
	e, err := w.typeHeader(d)
	if err != nil {
		return e, err
	}
	if err := w.members(d, &e); err != nil {
		return e, err
	}
	return e, nil
}

// typeHeader encodes only the name of d.
func (w *walker) typeHeader(d *model.TypeDecl) (model.TypeEntry, error) {
	name, err := w.encode(d.Name)
	if err != nil {
		return model.TypeEntry{}, err
	}
	return model.TypeEntry{Kind: d.Kind, Name: name, Position: w.position(d.Line)}, nil
}

func (w *walker) members(d *model.TypeDecl, e *model.TypeEntry) error {
	var err error
	if e.Extends, err = w.names(d.Supertypes); err != nil {
		return err
	}
	if e.Implements, err = w.names(d.Interfaces); err != nil {
		return err
	}

	for _, m := range d.Methods {
		me, err := w.method(m)
		if err != nil {
			return err
		}
		e.Methods = append(e.Methods, me)
	}

	for _, fg := range d.Fields {
		for _, name := range fg.Names {
			fe := model.FieldEntry{Position: w.position(fg.Line)}
			if fe.Name, err = w.encode(name); err != nil {
				return err
			}
			if fe.Type, err = w.encode(fg.Type); err != nil {
				return err
			}
			e.Fields = append(e.Fields, fe)
		}
	}

	for _, c := range d.Constructors {
		ce := model.ConstructorEntry{Position: w.position(c.Line)}
		if ce.Name, err = w.encode(c.Name); err != nil {
			return err
		}
		if ce.Parameters, err = w.params(c.Params); err != nil {
			return err
		}
		e.Constructors = append(e.Constructors, ce)
	}

	for i := range d.Nested {
		ne, err := w.typeHeader(&d.Nested[i])
		if err != nil {
			return err
		}
		e.Nested = append(e.Nested, ne)
	}
	for i := range d.Nested {
		if err := w.members(&d.Nested[i], &e.Nested[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) method(m model.Method) (model.MethodEntry, error) {
	var err error
	me := model.MethodEntry{Position: w.position(m.Line)}
	if me.Name, err = w.encode(m.Name); err != nil {
		return me, err
	}
	returnType := m.ReturnType
	if returnType == "" {
		returnType = voidType
	}
	if me.ReturnType, err = w.encode(returnType); err != nil {
		return me, err
	}
	if me.Parameters, err = w.params(m.Params); err != nil {
		return me, err
	}
	return me, nil
}

func (w *walker) params(params []model.Param) ([]model.ParamEntry, error) {
	out := make([]model.ParamEntry, 0, len(params))
	for _, p := range params {
		var pe model.ParamEntry
		var err error
		if pe.Name, err = w.encode(p.Name); err != nil {
			return nil, err
		}
		if pe.Type, err = w.encode(p.Type); err != nil {
			return nil, err
		}
		out = append(out, pe)
	}
	return out, nil
}

func (w *walker) names(names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		enc, err := w.encode(n)
		if err != nil {
			return nil, err
		}
		out = append(out, enc)
	}
	return out, nil
}
