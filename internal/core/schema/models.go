package schema

import "time"

// PropertyType is the closed set of user-facing property types. The storage
// primitive for each is derived by SQLType.
type PropertyType string

const (
	PropertyText     PropertyType = "text"
	PropertyLongText PropertyType = "longText"
	PropertyNumber   PropertyType = "number"
	PropertyCurrency PropertyType = "currency"
	PropertyDate     PropertyType = "date"
	PropertyDateTime PropertyType = "datetime"
	PropertyDuration PropertyType = "duration"
	PropertyLocation PropertyType = "location"

	PropertyImages PropertyType = "images"
	PropertyFiles  PropertyType = "files"
	PropertyAudios PropertyType = "audios"

	PropertyReferenceUnique   PropertyType = "referenceUnique"
	PropertyReferenceMultiple PropertyType = "referenceMultiple"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyText, PropertyLongText, PropertyNumber, PropertyCurrency,
		PropertyDate, PropertyDateTime, PropertyDuration, PropertyLocation,
		PropertyImages, PropertyFiles, PropertyAudios,
		PropertyReferenceUnique, PropertyReferenceMultiple:
		return true
	}
	return false
}

// IsList reports whether values of this type are stored as a JSON array.
func (t PropertyType) IsList() bool {
	switch t {
	case PropertyImages, PropertyFiles, PropertyAudios, PropertyReferenceMultiple:
		return true
	}
	return false
}

// StateType classifies a lifecycle state.
type StateType string

const (
	StateInactive   StateType = "inactive"
	StateActive     StateType = "active"
	StateInProgress StateType = "in_progress"
)

func (t StateType) Valid() bool {
	switch t {
	case StateInactive, StateActive, StateInProgress:
		return true
	}
	return false
}

// ActionTriggerType says how an action fires.
type ActionTriggerType string

const (
	TriggerManual    ActionTriggerType = "manual"
	TriggerAutomatic ActionTriggerType = "automatic"
)

func (t ActionTriggerType) Valid() bool {
	return t == TriggerManual || t == TriggerAutomatic
}

// EntityClass is a user-defined type. It owns properties, states, actions
// and exactly one physical table.
type EntityClass struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Property is a typed field definition. It maps to exactly one column in
// its class's physical table.
type Property struct {
	ID                     string       `json:"id"`
	EntityClassID          string       `json:"entity_class_id"`
	Name                   string       `json:"name"`
	Type                   PropertyType `json:"type"`
	IsRequired             bool         `json:"is_required"`
	Order                  int          `json:"order"`
	ReferenceTargetClassID string       `json:"reference_target_class_id,omitempty"`
}

// State is a named lifecycle value; every object occupies exactly one.
type State struct {
	ID            string    `json:"id"`
	EntityClassID string    `json:"entity_class_id"`
	Name          string    `json:"name"`
	Type          StateType `json:"type"`
	Icon          string    `json:"icon,omitempty"`
	Color         string    `json:"color,omitempty"`
	Order         int       `json:"order"`
}

// Action is a named operation gated by the object's current state.
type Action struct {
	ID             string            `json:"id"`
	EntityClassID  string            `json:"entity_class_id"`
	Name           string            `json:"name"`
	Icon           string            `json:"icon,omitempty"`
	Description    string            `json:"description,omitempty"`
	TriggerType     ActionTriggerType `json:"trigger_type"`
	Order           int               `json:"order"`
	TriggerStateID  string            `json:"trigger_state_id,omitempty"`
	AllowedStateIDs []string          `json:"allowed_state_ids"`
}

type CreateClassRequest struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type UpdateClassRequest struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

type CreatePropertyRequest struct {
	Name                   string       `json:"name"`
	Type                   PropertyType `json:"type"`
	IsRequired             bool         `json:"is_required"`
	Order                  int          `json:"order"`
	ReferenceTargetClassID string       `json:"reference_target_class_id"`
}

type UpdatePropertyRequest struct {
	Name                   string       `json:"name"`
	Type                   PropertyType `json:"type"`
	IsRequired             *bool        `json:"is_required"`
	ReferenceTargetClassID string       `json:"reference_target_class_id"`
}

type CreateStateRequest struct {
	Name  string    `json:"name"`
	Type  StateType `json:"type"`
	Icon  string    `json:"icon"`
	Color string    `json:"color"`
	Order int       `json:"order"`
}

type CreateActionRequest struct {
	Name            string            `json:"name"`
	Icon            string            `json:"icon"`
	Description     string            `json:"description"`
	TriggerType     ActionTriggerType `json:"trigger_type"`
	Order           int               `json:"order"`
	TriggerStateID  string            `json:"trigger_state_id"`
	AllowedStateIDs []string          `json:"allowed_state_ids"`
}
