package sync

import (
	"testing"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileFilterEmpty(t *testing.T) {
	assert.Nil(t, CompileFilter(nil))
	assert.Nil(t, CompileFilter([]domain.RowFilter{}))
}

func TestCompileFilterSingleLeaf(t *testing.T) {
	filter := CompileFilter([]domain.RowFilter{
		{FilterKind: domain.FilterKindPropertyMatch, PropertyName: "Status", PropertyType: "select", Operator: "equals", Value: "Active"},
	})

	require.NotNil(t, filter)
	assert.Equal(t, "Status", filter["property"])
	condition, ok := filter["select"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Active", condition["equals"])
	assert.NotContains(t, filter, "and", "single filter is not wrapped")
}

func TestCompileFilterConjunction(t *testing.T) {
	filter := CompileFilter([]domain.RowFilter{
		{FilterKind: domain.FilterKindPropertyMatch, PropertyName: "Status", PropertyType: "select", Operator: "equals", Value: "Active"},
		{FilterKind: domain.FilterKindPropertyMatch, PropertyName: "Priority", PropertyType: "number", Operator: "greater_than", Value: "3"},
	})

	require.NotNil(t, filter)
	conjuncts, ok := filter["and"].([]interface{})
	require.True(t, ok)
	assert.Len(t, conjuncts, 2)
}

func TestCompileFilterDefaultsPropertyType(t *testing.T) {
	filter := CompileFilter([]domain.RowFilter{
		{FilterKind: domain.FilterKindPropertyMatch, PropertyName: "Notes", Operator: "contains", Value: "urgent"},
	})

	require.NotNil(t, filter)
	assert.Contains(t, filter, domain.DefaultFilterPropertyType)
}

func TestCompileFilterEmptyValueBecomesTrue(t *testing.T) {
	filter := CompileFilter([]domain.RowFilter{
		{FilterKind: domain.FilterKindPropertyMatch, PropertyName: "Done", PropertyType: "checkbox", Operator: "equals"},
	})

	require.NotNil(t, filter)
	condition, ok := filter["checkbox"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, condition["equals"])
}

func TestCompileFilterSkipsNonExecutable(t *testing.T) {
	tests := []struct {
		name    string
		filters []domain.RowFilter
	}{
		{"formula kind", []domain.RowFilter{{FilterKind: domain.FilterKindFormula, Formula: "prop(\"x\") > 1"}}},
		{"manual select kind", []domain.RowFilter{{FilterKind: domain.FilterKindManualSelect}}},
		{"missing property name", []domain.RowFilter{{FilterKind: domain.FilterKindPropertyMatch, Operator: "equals", Value: "x"}}},
		{"missing operator", []domain.RowFilter{{FilterKind: domain.FilterKindPropertyMatch, PropertyName: "Status", Value: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, CompileFilter(tt.filters))
		})
	}
}

func TestCompileFilterMixedKindsKeepsExecutable(t *testing.T) {
	filter := CompileFilter([]domain.RowFilter{
		{FilterKind: domain.FilterKindFormula, Formula: "prop(\"x\") > 1"},
		{FilterKind: domain.FilterKindPropertyMatch, PropertyName: "Status", PropertyType: "select", Operator: "equals", Value: "Active"},
	})

	require.NotNil(t, filter)
	assert.Equal(t, "Status", filter["property"], "skipped kinds must not leave a wrapper behind")
}
