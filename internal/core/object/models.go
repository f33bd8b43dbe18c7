package object

// SearchMatchType selects how a search term matches a property column.
type SearchMatchType string

const (
	MatchExact      SearchMatchType = "exact"
	MatchContains   SearchMatchType = "contains"
	MatchStartsWith SearchMatchType = "startsWith"
	MatchEndsWith   SearchMatchType = "endsWith"
)

func (m SearchMatchType) Valid() bool {
	switch m {
	case MatchExact, MatchContains, MatchStartsWith, MatchEndsWith:
		return true
	}
	return false
}

type CreateObjectRequest struct {
	Name       string                 `json:"name"`
	Icon       string                 `json:"icon"`
	StateID    string                 `json:"state_id"`
	Properties map[string]interface{} `json:"properties"`
}

type UpdateObjectRequest struct {
	Name       string                 `json:"name"`
	Icon       string                 `json:"icon"`
	Properties map[string]interface{} `json:"properties"`
}
