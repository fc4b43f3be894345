package sync

import (
	"github.com/calderw/mirrorsync/internal/domain"
	"github.com/calderw/mirrorsync/internal/notion"
)

// CompileFilter translates row filters into one remote query filter.
//
// Only property_match filters are executable; other kinds are skipped, as
// are property_match rows missing a property name or operator. An empty
// value compiles to the boolean operand true (checkbox-style operators).
// Zero executable filters yields nil, one yields the bare leaf, two or
// more are wrapped in a conjunction.
func CompileFilter(filters []domain.RowFilter) notion.Filter {
	var leaves []map[string]interface{}

	for _, rf := range filters {
		if rf.FilterKind != domain.FilterKindPropertyMatch {
			continue
		}
		if rf.PropertyName == "" || rf.Operator == "" {
			continue
		}

		propType := rf.PropertyType
		if propType == "" {
			propType = domain.DefaultFilterPropertyType
		}

		var operand interface{} = true
		if rf.Value != "" {
			operand = rf.Value
		}

		leaves = append(leaves, map[string]interface{}{
			"property": rf.PropertyName,
			propType: map[string]interface{}{
				rf.Operator: operand,
			},
		})
	}

	switch len(leaves) {
	case 0:
		return nil
	case 1:
		return notion.Filter(leaves[0])
	}

	conjuncts := make([]interface{}, 0, len(leaves))
	for _, leaf := range leaves {
		conjuncts = append(conjuncts, leaf)
	}
	return notion.Filter{"and": conjuncts}
}
