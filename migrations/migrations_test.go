package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaCreatesEveryTable(t *testing.T) {
	last := -1
	for _, table := range Tables {
		idx := strings.Index(Schema, "CREATE TABLE IF NOT EXISTS "+table+" (")
		if assert.GreaterOrEqual(t, idx, 0, table) {
			assert.Greater(t, idx, last, "%s is created out of order", table)
			last = idx
		}
	}
	assert.Equal(t, len(Tables), strings.Count(Schema, "CREATE TABLE"))
}
