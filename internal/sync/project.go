package sync

import (
	"encoding/json"

	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/calderw/mirrorsync/internal/notion"
)

// ProjectVisible returns the properties a mirror is allowed to carry.
//
// The visibility mask fails open: with no property mappings at all, or with
// mappings that mark nothing visible, every property passes through. Only a
// mapping set that names at least one visible property restricts the output.
func ProjectVisible(properties map[string]json.RawMessage, mappings []domain.PropertyMapping) map[string]json.RawMessage {
	visible := visibleNames(mappings)
	if visible == nil {
		return properties
	}

	projected := make(map[string]json.RawMessage, len(visible))
	for name, value := range properties {
		if visible[name] {
			projected[name] = value
		}
	}
	return projected
}

// visibleNames returns the set of visible property names, or nil when the
// mask fails open.
func visibleNames(mappings []domain.PropertyMapping) map[string]bool {
	if len(mappings) == 0 {
		return nil
	}

	visible := make(map[string]bool)
	for _, pm := range mappings {
		if pm.Visible {
			visible[pm.PropertyName] = true
		}
	}
	if len(visible) == 0 {
		return nil
	}
	return visible
}

// WritableNames returns the property names eligible for reverse
// propagation. Unlike visibility there is no fail-open: a property with no
// mapping row is never writable.
func WritableNames(mappings []domain.PropertyMapping) map[string]bool {
	writable := make(map[string]bool)
	for _, pm := range mappings {
		if pm.Writable {
			writable[pm.PropertyName] = true
		}
	}
	return writable
}

// MirrorSchemaProperties builds the property schema for a new mirror
// database from the source schema, restricted to visible properties. The
// remote rejects schema payloads carrying property ids, so the id key is
// stripped from each property config.
func MirrorSchemaProperties(source *notion.Schema, mappings []domain.PropertyMapping) (map[string]json.RawMessage, error) {
	visible := visibleNames(mappings)

	target := make(map[string]json.RawMessage)
	for _, prop := range source.Properties {
		if visible != nil && !visible[prop.Name] {
			continue
		}

		var config map[string]json.RawMessage
		if err := json.Unmarshal(prop.Config, &config); err != nil {
			return nil, err
		}
		delete(config, "id")

		cleaned, err := json.Marshal(config)
		if err != nil {
			return nil, err
		}
		target[prop.Name] = cleaned
	}
	return target, nil
}
