package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeColumnName(t *testing.T) {
	assert.Equal(t, "full_name", SanitizeColumnName("Full Name!"))
	assert.Equal(t, "owner", SanitizeColumnName("Owner!"))
	assert.Equal(t, "owner", SanitizeColumnName("owner?"))
	assert.Equal(t, "price_eur", SanitizeColumnName("Price (EUR)"))
	assert.Equal(t, "a1_b2", SanitizeColumnName("A1 b2"))
}

func TestSanitizeColumnNameDeterministic(t *testing.T) {
	inputs := []string{"Full Name!", "owner", "Ünïcode Näme", "  spaced  "}
	for _, in := range inputs {
		assert.Equal(t, SanitizeColumnName(in), SanitizeColumnName(in))
	}
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "entity_abc_def_123", TableName("abc-def-123"))
	assert.Equal(t, "entity_plain", TableName("plain"))

	// Same class id always yields the same table name.
	id := "550e8400-e29b-41d4-a716-446655440000"
	assert.Equal(t, TableName(id), TableName(id))
	assert.Equal(t, "entity_550e8400_e29b_41d4_a716_446655440000", TableName(id))
}
