package view

type Status string

const (
	StatusPass   Status = "pass"
	StatusWarn   Status = "warn"
	StatusFail   Status = "fail"
	StatusManual Status = "manual"
)

type Category string

const (
	CategoryAutomated   Category = "Automated Technical Checks"
	CategoryStructure   Category = "Site Structure & Accessibility"
	CategoryContent     Category = "Content Quality Indicators"
	CategoryPerformance Category = "Performance & SEO"
)

type Outcome struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

func Pass(msg string) Outcome   { return Outcome{Status: StatusPass, Message: msg} }
func Warn(msg string) Outcome   { return Outcome{Status: StatusWarn, Message: msg} }
func Fail(msg string) Outcome   { return Outcome{Status: StatusFail, Message: msg} }
func Manual(msg string) Outcome { return Outcome{Status: StatusManual, Message: msg} }

type CheckResult struct {
	Name     string   `json:"name"`
	Category Category `json:"category"`
	Weight   float64  `json:"weight,omitempty"`
	Critical bool     `json:"critical,omitempty"`
	Status   Status   `json:"status"`
	Message  string   `json:"message"`
}

type ScoreReport struct {
	Score            int           `json:"score"`
	Checks           []CheckResult `json:"checks"`
	FinalResolvedUrl string        `json:"finalResolvedUrl"`
	Penalties        []string      `json:"penalties,omitempty"`
	Recommendations  []string      `json:"recommendations,omitempty"`
	Ruleset          string        `json:"ruleset,omitempty"`
}

// check names referenced outside of the rule catalogue
const (
	CheckNameHttps         = "Secure Connection (HTTPS/SSL)"
	CheckNamePrivacyPolicy = "Privacy Policy Page"
	CheckNameContentVolume = "Content Volume"
	CheckNameRobots        = "Robots.txt Configuration"
	CheckNameContentReview = "AI Content Review"
)
