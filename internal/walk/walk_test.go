package walk

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/identref/internal/lang"
	"github.com/phobologic/identref/internal/model"
	"github.com/phobologic/identref/internal/refs"
)

func TestTypesRegistrationOrder(t *testing.T) {
	t.Parallel()

	decls := []model.TypeDecl{{
		Kind:       model.Class,
		Name:       "OrderService",
		Line:       3,
		Supertypes: []string{"BaseService"},
		Interfaces: []string{"Auditable"},
		Methods: []model.Method{{
			Name:       "placeOrder",
			ReturnType: "Receipt",
			Params:     []model.Param{{Name: "itemCount", Type: "int"}},
			Line:       10,
		}},
		Fields: []model.FieldGroup{{Type: "Clock", Names: []string{"clock", "backupClock"}, Line: 5}},
		Constructors: []model.Constructor{{
			Name:   "OrderService",
			Params: []model.Param{{Name: "clock", Type: "Clock"}},
			Line:   7,
		}},
		Nested: []model.TypeDecl{
			{Kind: model.Class, Name: "Cache", Line: 20, Methods: []model.Method{{Name: "evictAll", Line: 21}}},
			{Kind: model.Interface, Name: "Hook", Line: 24},
		},
	}}

	tbl := refs.NewTable()
	entries, err := Types(decls, tbl, 100)
	require.NoError(t, err)

	want := []string{
		"order", "service",     // type name
		"base",                 // supertype
		"auditable",            // interface
		"place",                // method name
		"receipt",              // return type
		"item", "count", "int", // parameter
		"clock", "backup",      // fields
		"cache", "hook",        // nested names
		"evict", "all", "void", // nested members
	}
	var got []string
	for _, e := range tbl.Entries() {
		got = append(got, e.Word)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, len(want)+1, tbl.Next())

	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "^1^2", e.Name)
	assert.Equal(t, model.Position{Line: 3, CombinedLine: 102}, e.Position)
	assert.Equal(t, []string{"^3^2"}, e.Extends)
	assert.Equal(t, []string{"^4"}, e.Implements)

	require.Len(t, e.Methods, 1)
	assert.Equal(t, "~5^1", e.Methods[0].Name)
	assert.Equal(t, "^6", e.Methods[0].ReturnType)
	assert.Equal(t, []model.ParamEntry{{Name: "~7^8", Type: "~9"}}, e.Methods[0].Parameters)
	assert.Equal(t, 109, e.Methods[0].CombinedLine)

	require.Len(t, e.Fields, 2)
	assert.Equal(t, "~10", e.Fields[0].Name)
	assert.Equal(t, "^10", e.Fields[0].Type)
	assert.Equal(t, "~11^10", e.Fields[1].Name)

	require.Len(t, e.Constructors, 1)
	assert.Equal(t, "^1^2", e.Constructors[0].Name)
	assert.Equal(t, []model.ParamEntry{{Name: "~10", Type: "^10"}}, e.Constructors[0].Parameters)

	require.Len(t, e.Nested, 2)
	assert.Equal(t, "^12", e.Nested[0].Name)
	assert.Equal(t, "^13", e.Nested[1].Name)
	require.Len(t, e.Nested[0].Methods, 1)
	assert.Equal(t, "~14^15", e.Nested[0].Methods[0].Name)
	assert.Equal(t, "~16", e.Nested[0].Methods[0].ReturnType)
}

func TestMissingReturnTypeIsVoid(t *testing.T) {
	t.Parallel()

	tbl := refs.NewTable()
	entries, err := Types([]model.TypeDecl{{
		Name:    "Runner",
		Methods: []model.Method{{Name: "run"}},
	}}, tbl, 0)
	require.NoError(t, err)

	id, ok := tbl.Lookup("void")
	require.True(t, ok, "void must be registered")
	assert.Equal(t, 3, id)
	assert.Equal(t, "~3", entries[0].Methods[0].ReturnType)
	assert.Equal(t, model.Position{}, entries[0].Position)
}

func TestEmptyNamesAreSkipped(t *testing.T) {
	t.Parallel()

	tbl := refs.NewTable()
	entries, err := Types([]model.TypeDecl{{
		Name:    "Handler",
		Methods: []model.Method{{Name: "serve", ReturnType: "error", Params: []model.Param{{Type: "Request"}}}},
		Fields:  []model.FieldGroup{{Names: []string{"label"}}},
	}}, tbl, 1)
	require.NoError(t, err)

	assert.Equal(t, []model.ParamEntry{{Name: "", Type: "^4"}}, entries[0].Methods[0].Parameters)
	assert.Equal(t, "", entries[0].Fields[0].Type)
	_, ok := tbl.Lookup("")
	assert.False(t, ok)
}

func TestFileSharesTableAcrossFiles(t *testing.T) {
	t.Parallel()

	java, err := lang.Lookup("Java")
	require.NoError(t, err)
	ctx := context.Background()
	tbl := refs.NewTable()

	first, err := File(ctx, java, []byte("class UserAccount {\n    int getId() { return 1; }\n}\n"), tbl, 1)
	require.NoError(t, err)
	second, err := File(ctx, java, []byte("class userAccount {\n    int getId() { return 2; }\n}\n"), tbl, 5)
	require.NoError(t, err)

	assert.Equal(t, "^1^2", first[0].Name)
	assert.Equal(t, "~1^2", second[0].Name)
	assert.Equal(t, first[0].Methods[0].Name, second[0].Methods[0].Name)
	assert.Equal(t, "~3^4", second[0].Methods[0].Name)
	assert.Equal(t, "~5", second[0].Methods[0].ReturnType)
	assert.Equal(t, 6, second[0].Methods[0].CombinedLine)
	assert.Equal(t, 6, tbl.Next())
}

func TestFileEncodesEnumConstants(t *testing.T) {
	t.Parallel()

	java, err := lang.Lookup("java")
	require.NoError(t, err)
	tbl := refs.NewTable()

	entries, err := File(context.Background(), java, []byte("enum Status {\n    OPEN, CLOSED;\n}\n"), tbl, 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, model.Enum, e.Kind)
	assert.Equal(t, "^1", e.Name)
	require.Len(t, e.Fields, 2)
	assert.Equal(t, "~2", e.Fields[0].Name)
	assert.Equal(t, "^1", e.Fields[0].Type)
	assert.Equal(t, "~3", e.Fields[1].Name)
	assert.Equal(t, 2, e.Fields[1].Line)

	id, ok := tbl.Lookup("closed")
	require.True(t, ok)
	assert.Equal(t, 3, id)
}

func TestFileParseErrorPropagates(t *testing.T) {
	t.Parallel()

	java, err := lang.Lookup("java")
	require.NoError(t, err)
	tbl := refs.NewTable()

	_, err = File(context.Background(), java, []byte("class {{{ nope"), tbl, 1)
	require.Error(t, err)
	var pe *lang.ParseError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, 0, tbl.Len(), "nothing is registered for unparseable files")
}
