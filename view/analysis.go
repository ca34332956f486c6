package view

import (
	"net/http"
	"time"
)

type AnalyzeRequest struct {
	Url     string `json:"url"`
	Ruleset string `json:"ruleset,omitempty"`
}

// Resolution is the outcome of following redirects for one URL.
type Resolution struct {
	InitialUrl  string
	FinalUrl    string
	StatusCode  int
	ContentType string
	Header      http.Header
	Body        []byte
	Hops        []Hop
	Latency     time.Duration
}

func (r Resolution) Ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type Hop struct {
	Url      string `json:"url"`
	Status   int    `json:"status"`
	Location string `json:"location"`
}

type ErrorResponse struct {
	Status int    `json:"status"`
	Code   string `json:"code,omitempty"`
	Error  string `json:"error"`
	Debug  string `json:"debug,omitempty"`
}
