package view

import "time"

// Signals is the read-only projection of a parsed page that rules evaluate.
type Signals struct {
	Title              string
	HasTitle           bool
	MetaDescription    string
	HasMetaDescription bool
	Viewport           string
	HasViewport        bool
	HasResponsiveStyle bool
	Links              []Link
	NavigationLinks    int
	Headings           HeadingCounts
	Images             []Image
	WordCount          int
	BodyText           string
	Lang               string
	HasFavicon         bool
}

type Link struct {
	Href string
	Text string
}

type Image struct {
	Src    string
	HasAlt bool
}

type HeadingCounts [6]int

func (h HeadingCounts) Level(n int) int {
	if n < 1 || n > 6 {
		return 0
	}
	return h[n-1]
}

func (h HeadingCounts) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

func (s Signals) ImagesWithAlt() int {
	count := 0
	for _, img := range s.Images {
		if img.HasAlt {
			count++
		}
	}
	return count
}

// EvaluationContext carries facts about the retrieval that are not part of the markup.
type EvaluationContext struct {
	InitialUrl   string
	FinalUrl     string
	ResponseTime time.Duration
}
