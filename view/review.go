package view

type ContentReviewInput struct {
	Url             string
	Title           string
	MetaDescription string
	BodyExcerpt     string
}

type ContentReview struct {
	Verdict     string   `json:"verdict" jsonschema:"enum=ready,enum=needs_work,enum=not_ready"`
	Summary     string   `json:"summary"`
	Suggestions []string `json:"suggestions"`
}
