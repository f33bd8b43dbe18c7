package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/supernova/supernova/internal/core/schema"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	var msgs []string
	for _, err := range e.Errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(msgs, "; ")
}

type Validator struct{}

func NewValidator() *Validator {
	return &Validator{}
}

// BuildSchema derives a JSON Schema document from a class's property list.
// Required properties become schema-required; unknown property names are
// rejected because they would have no physical column.
func BuildSchema(props []*schema.Property) map[string]interface{} {
	properties := make(map[string]interface{}, len(props))
	var required []string

	for _, p := range props {
		properties[p.Name] = map[string]interface{}{"type": jsonType(p.Type)}
		if p.IsRequired {
			required = append(required, p.Name)
		}
	}

	doc := map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func jsonType(t schema.PropertyType) interface{} {
	if t.IsList() {
		return "array"
	}
	switch t {
	case schema.PropertyNumber:
		return "integer"
	case schema.PropertyCurrency:
		return "number"
	default:
		return "string"
	}
}

// Validate checks an object's property values against a schema document.
func (v *Validator) Validate(data map[string]interface{}, schemaDoc map[string]interface{}) error {
	if len(schemaDoc) == 0 {
		return nil
	}

	schemaJSON, err := json.Marshal(schemaDoc)
	if err != nil {
		return err
	}

	dataJSON, err := json.Marshal(data)
	if err != nil {
		return err
	}

	schemaLoader := gojsonschema.NewBytesLoader(schemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(dataJSON)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return err
	}

	if !result.Valid() {
		var validationErrors []ValidationError
		for _, desc := range result.Errors() {
			validationErrors = append(validationErrors, ValidationError{
				Field:   desc.Field(),
				Message: desc.Description(),
			})
		}
		return &ValidationErrors{Errors: validationErrors}
	}

	return nil
}

// ValidatePartial validates an update payload: types are checked but
// required properties may be absent.
func (v *Validator) ValidatePartial(data map[string]interface{}, schemaDoc map[string]interface{}) error {
	if len(schemaDoc) == 0 {
		return nil
	}

	partialSchema := make(map[string]interface{})
	for k, val := range schemaDoc {
		if k != "required" {
			partialSchema[k] = val
		}
	}

	return v.Validate(data, partialSchema)
}

func IsValidationError(err error) bool {
	var ve *ValidationErrors
	return errors.As(err, &ve)
}

func GetValidationErrors(err error) *ValidationErrors {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve
	}
	return nil
}
