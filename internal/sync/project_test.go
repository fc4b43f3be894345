package sync

import (
	"encoding/json"
	"testing"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/calderw/mirrorsync/internal/notion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProps() map[string]json.RawMessage {
	return rawProps(map[string]string{
		"Name":   `{"title":[{"plain_text":"Task"}]}`,
		"Status": `{"select":{"name":"Active"}}`,
		"Budget": `{"number":5000}`,
	})
}

func TestProjectVisibleNoMappingsPassesAll(t *testing.T) {
	props := sampleProps()

	projected := ProjectVisible(props, nil)

	assert.Len(t, projected, 3)
}

func TestProjectVisibleZeroVisiblePassesAll(t *testing.T) {
	mappings := []domain.PropertyMapping{
		{PropertyName: "Budget", Visible: false},
		{PropertyName: "Status", Visible: false},
	}

	projected := ProjectVisible(sampleProps(), mappings)

	assert.Len(t, projected, 3, "all-hidden mask fails open")
}

func TestProjectVisibleRestricts(t *testing.T) {
	mappings := []domain.PropertyMapping{
		{PropertyName: "Name", Visible: true},
		{PropertyName: "Status", Visible: true},
		{PropertyName: "Budget", Visible: false},
	}

	projected := ProjectVisible(sampleProps(), mappings)

	assert.Len(t, projected, 2)
	assert.Contains(t, projected, "Name")
	assert.Contains(t, projected, "Status")
	assert.NotContains(t, projected, "Budget")
}

func TestProjectVisibleUnmappedPropertyHidden(t *testing.T) {
	// A mask naming one visible property hides everything it does not name,
	// including properties with no mapping row at all.
	mappings := []domain.PropertyMapping{
		{PropertyName: "Name", Visible: true},
	}

	projected := ProjectVisible(sampleProps(), mappings)

	assert.Len(t, projected, 1)
	assert.Contains(t, projected, "Name")
}

func TestWritableNames(t *testing.T) {
	mappings := []domain.PropertyMapping{
		{PropertyName: "Status", Writable: true},
		{PropertyName: "Name", Writable: false},
	}

	writable := WritableNames(mappings)

	assert.True(t, writable["Status"])
	assert.False(t, writable["Name"])
	assert.False(t, writable["Unmapped"], "no fail-open for writability")
	assert.Empty(t, WritableNames(nil))
}

func TestMirrorSchemaPropertiesStripIDs(t *testing.T) {
	schema := &notion.Schema{
		Properties: []notion.PropertySchema{
			{Name: "Status", Type: "select", Config: json.RawMessage(`{"id":"abc","select":{"options":[]}}`)},
		},
	}

	props, err := MirrorSchemaProperties(schema, nil)

	require.NoError(t, err)
	require.Contains(t, props, "Status")
	var config map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(props["Status"], &config))
	assert.NotContains(t, config, "id")
	assert.Contains(t, config, "select")
}

func TestMirrorSchemaPropertiesRespectsVisibility(t *testing.T) {
	schema := &notion.Schema{
		Properties: []notion.PropertySchema{
			{Name: "Status", Type: "select", Config: json.RawMessage(`{"select":{}}`)},
			{Name: "Budget", Type: "number", Config: json.RawMessage(`{"number":{}}`)},
		},
	}
	mappings := []domain.PropertyMapping{
		{PropertyName: "Status", Visible: true},
		{PropertyName: "Budget", Visible: false},
	}

	props, err := MirrorSchemaProperties(schema, mappings)

	require.NoError(t, err)
	assert.Contains(t, props, "Status")
	assert.NotContains(t, props, "Budget")
}
