// Package naming builds the deterministic titles used for provisioned
// pages and mirror databases. Re-running provisioning for the same
// viewer always produces the same names.
package naming

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const SharedPagePrefix = "Shared"

var titleCaser = cases.Title(language.English)

// SharedPageTitle is the title of a viewer's dedicated subpage. The config
// name is humanized first so identifier-style names read as titles.
func SharedPageTitle(configName, viewerEmail string) string {
	return fmt.Sprintf("%s: %s - %s", SharedPagePrefix, Humanize(configName), viewerEmail)
}

// MirrorDatabaseTitle is the title of a viewer's mirror database. It
// follows the source database's title so the mirror is recognizable.
func MirrorDatabaseTitle(sourceTitle, fallback string) string {
	title := strings.TrimSpace(sourceTitle)
	if title == "" {
		return fallback
	}
	return title
}

// Humanize turns an identifier-like name into a display title, e.g.
// "project_tracker" becomes "Project Tracker".
func Humanize(name string) string {
	cleaned := strings.NewReplacer("_", " ", "-", " ").Replace(strings.TrimSpace(name))
	if cleaned == "" {
		return ""
	}
	return titleCaser.String(cleaned)
}
