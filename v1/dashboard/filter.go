package dashboard

import (
	"strings"

	"github.com/hariram-suresh/loom-harmony/v1/models"
)

// SareeFilter holds the user-editable browse criteria. It is a value
// type: callers replace the whole record on every edit or reset rather
// than mutating fields in place, and re-derive the view from the new
// value. The zero value passes everything.
type SareeFilter struct {
	Variety  string `json:"variety"`
	Material string `json:"material"`
	Color    string `json:"color"`
	Design   string `json:"design"`
}

// IsEmpty reports whether no criterion is set
func (f SareeFilter) IsEmpty() bool {
	return f.Variety == "" && f.Material == "" && f.Color == "" && f.Design == ""
}

// FilterSarees derives the filtered view of a snapshot. Each non-empty
// criterion is a conjunctive narrowing pass: variety and material match
// exactly, color and design match by case-insensitive substring. The
// result preserves the snapshot's relative order and is never re-sorted.
// An empty criteria record returns the snapshot unchanged.
func FilterSarees(snapshot []models.SareeResponse, criteria SareeFilter) []models.SareeResponse {
	if criteria.IsEmpty() {
		return snapshot
	}

	filtered := make([]models.SareeResponse, 0, len(snapshot))
	for _, saree := range snapshot {
		if criteria.Variety != "" && string(saree.Variety) != criteria.Variety {
			continue
		}
		if criteria.Material != "" && string(saree.Material) != criteria.Material {
			continue
		}
		if criteria.Color != "" && !containsFold(saree.Color, criteria.Color) {
			continue
		}
		if criteria.Design != "" && !containsFold(saree.Design, criteria.Design) {
			continue
		}
		filtered = append(filtered, saree)
	}
	return filtered
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
