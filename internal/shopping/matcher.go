package shopping

import (
	"strings"

	"github.com/fekuna/wlpl-service/internal/model"
)

type MatchType string

const (
	MatchNone  MatchType = "none"
	MatchExact MatchType = "exact"
	MatchName  MatchType = "name"
)

type Match struct {
	Type MatchType
	Item *model.ShoppingItem
}

func (m Match) Found() bool { return m.Type != MatchNone }

// CheckForDuplicates finds an existing item for a scanned or typed product.
//
// Step one compares barcodes exactly and only when barcode is non-empty. Step
// two runs only if step one found nothing: the trimmed names are compared
// case-insensitively and match when either contains the other. The first
// matching item in slice order wins within each step.
func CheckForDuplicates(items []model.ShoppingItem, name, barcode string) Match {
	barcode = strings.TrimSpace(barcode)
	if barcode != "" {
		for i := range items {
			if items[i].Barcode != nil && strings.TrimSpace(*items[i].Barcode) == barcode {
				return Match{Type: MatchExact, Item: &items[i]}
			}
		}
	}

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return Match{Type: MatchNone}
	}
	for i := range items {
		existing := strings.ToLower(strings.TrimSpace(items[i].ProductName))
		if existing == "" {
			continue
		}
		if strings.Contains(existing, needle) || strings.Contains(needle, existing) {
			return Match{Type: MatchName, Item: &items[i]}
		}
	}
	return Match{Type: MatchNone}
}
