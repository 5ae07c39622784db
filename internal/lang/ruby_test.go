package lang

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/identref/internal/model"
)

func TestRubyClassMembers(t *testing.T) {
	t.Parallel()

	decls := parse(t, "ruby", `require "json"

module Billing
  module Auditable
    def audit_trail
    end
  end

  class Invoice < Base::Document
    include Auditable
    include Comparable
    attr_reader :total_amount, :due_date
    MAX_LINES = 50

    def initialize(customer_id, lines = [], *notes, currency:, **options, &block)
      @customer_id = customer_id
    end

    def self.build(params)
    end

    def add_line(item)
      validate!(item)
    end

    class LineItem
    end
  end
end
`)
	require.Len(t, decls, 1)
	billing := decls[0]
	assert.Equal(t, model.Module, billing.Kind)
	assert.Equal(t, "Billing", billing.Name)
	assert.Equal(t, 3, billing.Line)
	require.Len(t, billing.Nested, 2)

	auditable := billing.Nested[0]
	assert.Equal(t, model.Module, auditable.Kind)
	require.Len(t, auditable.Methods, 1)
	assert.Equal(t, model.Method{Name: "audit_trail", Line: 5}, auditable.Methods[0])

	d := billing.Nested[1]
	assert.Equal(t, model.Class, d.Kind)
	assert.Equal(t, "Invoice", d.Name)
	assert.Equal(t, []string{"Document"}, d.Supertypes)
	assert.Equal(t, []string{"Auditable", "Comparable"}, d.Interfaces)

	require.Len(t, d.Fields, 2)
	assert.Equal(t, model.FieldGroup{Names: []string{"total_amount", "due_date"}, Line: 12}, d.Fields[0])
	assert.Equal(t, model.FieldGroup{Names: []string{"MAX_LINES"}, Line: 13}, d.Fields[1])

	require.Len(t, d.Constructors, 1)
	assert.Equal(t, "initialize", d.Constructors[0].Name)
	assert.Equal(t, []model.Param{
		{Name: "customer_id"},
		{Name: "lines"},
		{Name: "notes"},
		{Name: "currency"},
		{Name: "options"},
		{Name: "block"},
	}, d.Constructors[0].Params)

	require.Len(t, d.Methods, 2)
	assert.Equal(t, model.Method{Name: "build", Params: []model.Param{{Name: "params"}}, Line: 19}, d.Methods[0])
	assert.Equal(t, "add_line", d.Methods[1].Name)
	assert.Empty(t, d.Methods[1].ReturnType)

	require.Len(t, d.Nested, 1)
	assert.Equal(t, "LineItem", d.Nested[0].Name)
}

func TestRubyScopedClassName(t *testing.T) {
	t.Parallel()

	decls := parse(t, "ruby", "class Admin::User < ApplicationRecord\n  extend Searchable\nend\n")
	require.Len(t, decls, 1)
	assert.Equal(t, "User", decls[0].Name)
	assert.Equal(t, []string{"ApplicationRecord"}, decls[0].Supertypes)
	assert.Equal(t, []string{"Searchable"}, decls[0].Interfaces)
}
