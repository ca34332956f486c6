package view

type Ruleset struct {
	Version     string         `json:"version"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Status      RulesetStatus  `json:"status"`
	Checks      []RulesetCheck `json:"checks"`
}

type RulesetCheck struct {
	Id       string   `json:"id"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Weight   float64  `json:"weight,omitempty"`
	Critical bool     `json:"critical,omitempty"`
	Manual   bool     `json:"manual,omitempty"`
}

type RulesetStatus string

const (
	RulesetStatusActive   RulesetStatus = "active"
	RulesetStatusInactive RulesetStatus = "inactive"
)
