package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/supernova/supernova/internal/core/schema"
)

func taskProperties() []*schema.Property {
	return []*schema.Property{
		{Name: "Owner", Type: schema.PropertyText, IsRequired: true},
		{Name: "Budget", Type: schema.PropertyCurrency},
		{Name: "Attachments", Type: schema.PropertyFiles},
		{Name: "Points", Type: schema.PropertyNumber},
	}
}

func TestBuildSchema(t *testing.T) {
	doc := BuildSchema(taskProperties())

	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []string{"Owner"}, doc["required"])
	assert.Equal(t, false, doc["additionalProperties"])

	props := doc["properties"].(map[string]interface{})
	assert.Len(t, props, 4)
}

func TestValidateAcceptsWellTypedData(t *testing.T) {
	v := NewValidator()
	doc := BuildSchema(taskProperties())

	err := v.Validate(map[string]interface{}{
		"Owner":       "Daniel",
		"Budget":      19.99,
		"Attachments": []string{"/tmp/a.pdf"},
		"Points":      3,
	}, doc)
	assert.NoError(t, err)
}

func TestValidateRejectsMissingRequired(t *testing.T) {
	v := NewValidator()
	doc := BuildSchema(taskProperties())

	err := v.Validate(map[string]interface{}{"Budget": 5.0}, doc)
	require.Error(t, err)
	require.True(t, IsValidationError(err))

	ve := GetValidationErrors(err)
	require.NotNil(t, ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidateRejectsUnknownProperty(t *testing.T) {
	v := NewValidator()
	doc := BuildSchema(taskProperties())

	err := v.Validate(map[string]interface{}{
		"Owner": "Daniel",
		"Ghost": "boo",
	}, doc)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestValidateRejectsWrongType(t *testing.T) {
	v := NewValidator()
	doc := BuildSchema(taskProperties())

	err := v.Validate(map[string]interface{}{
		"Owner":  "Daniel",
		"Points": "not a number",
	}, doc)
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestValidatePartialSkipsRequired(t *testing.T) {
	v := NewValidator()
	doc := BuildSchema(taskProperties())

	// No Owner: fine for a partial update.
	err := v.ValidatePartial(map[string]interface{}{"Budget": 7.5}, doc)
	assert.NoError(t, err)

	// Types are still enforced.
	err = v.ValidatePartial(map[string]interface{}{"Budget": "free"}, doc)
	assert.Error(t, err)
}

func TestValidateEmptySchemaAllowsAnything(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(map[string]interface{}{"anything": 1}, nil))
}
