package support

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(faqs []FAQ) []string {
	out := make([]string, len(faqs))
	for i, f := range faqs {
		out[i] = f.ID
	}
	return out
}

func TestDefaultCatalogLoads(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)
	assert.Equal(t, []string{"shopping", "orders", "perks", "tracking", "nutrition", "account"}, c.Categories())
	assert.Len(t, c.Search("", ""), 15)
}

func TestSearch(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Equal(t, []string{"delivery-pin"}, ids(c.Search("PIN", "")))
	assert.Equal(t, []string{"orphaned-items"}, ids(c.Search("repair", "")))
	assert.Equal(t, []string{"perk-tiers"}, ids(c.Search("champion", "PERKS")))
	assert.Empty(t, c.Search("champion", "orders"))
	assert.Equal(t, []string{"order-status", "delivery-pin", "cancel-order", "order-fees"}, ids(c.Search("", "orders")))
	assert.Equal(t, []string{"scan-existing-item"}, ids(c.Search("barcode duplicate", "")))
}

func TestNewCatalogRejectsBadEntries(t *testing.T) {
	_, err := NewCatalog([]byte("- id: a\n  category: x\n  question: q\n- id: a\n  category: x\n  question: q2\n"))
	assert.ErrorContains(t, err, "duplicate id")

	_, err = NewCatalog([]byte("- id: a\n  question: q\n"))
	assert.Error(t, err)

	_, err = NewCatalog([]byte("not: [a list"))
	assert.Error(t, err)
}

func TestSearchMatchesWordPrefixes(t *testing.T) {
	c, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Equal(t, []string{"delivery-pin"}, ids(c.Search("pin?", "")), "pin is not matched inside shopping")
	assert.Equal(t, []string{"orphaned-items"}, ids(c.Search("orph", "")))
}
