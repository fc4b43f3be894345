package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSharedPageTitle(t *testing.T) {
	title := SharedPageTitle("Project Tracker", "viewer@example.com")

	assert.Equal(t, "Shared: Project Tracker - viewer@example.com", title)
}

func TestSharedPageTitleHumanizesConfigName(t *testing.T) {
	title := SharedPageTitle("project_tracker", "viewer@example.com")

	assert.Equal(t, "Shared: Project Tracker - viewer@example.com", title)
}

func TestSharedPageTitleDeterministic(t *testing.T) {
	first := SharedPageTitle("Roadmap", "a@example.com")
	second := SharedPageTitle("Roadmap", "a@example.com")

	assert.Equal(t, first, second)
}

func TestMirrorDatabaseTitle(t *testing.T) {
	tests := []struct {
		name        string
		sourceTitle string
		fallback    string
		want        string
	}{
		{"uses source title", "Tasks", "Untitled", "Tasks"},
		{"trims whitespace", "  Tasks  ", "Untitled", "Tasks"},
		{"falls back when empty", "", "Untitled", "Untitled"},
		{"falls back when blank", "   ", "Untitled", "Untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MirrorDatabaseTitle(tt.sourceTitle, tt.fallback))
		})
	}
}

func TestHumanize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"project_tracker", "Project Tracker"},
		{"road-map", "Road Map"},
		{"tasks", "Tasks"},
		{"", ""},
		{"  ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Humanize(tt.input))
	}
}
