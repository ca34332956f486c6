package service

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/Netcracker/qubership-site-readiness-service/exception"
	"github.com/Netcracker/qubership-site-readiness-service/view"
	"github.com/PuerkitoBio/goquery"
)

type DocumentExtractor interface {
	Extract(rawHtml []byte) (*view.Signals, error)
}

func NewDocumentExtractor() DocumentExtractor {
	return &documentExtractorImpl{}
}

type documentExtractorImpl struct {
}

const navigationSelector = "nav, header nav, .nav, .navigation, .menu"
const navigationFallbackSelector = "header a, .menu a"

var faviconRels = map[string]struct{}{
	"icon":             {},
	"shortcut icon":    {},
	"apple-touch-icon": {},
}

func (d documentExtractorImpl) Extract(rawHtml []byte) (*view.Signals, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(rawHtml))
	if err != nil {
		return nil, &exception.CustomError{
			Status:  http.StatusInternalServerError,
			Code:    exception.HtmlParseFailed,
			Message: exception.HtmlParseFailedMsg,
			Debug:   err.Error(),
		}
	}

	signals := view.Signals{}

	if title := doc.Find("title").First(); title.Length() > 0 {
		signals.Title = strings.TrimSpace(title.Text())
		signals.HasTitle = signals.Title != ""
	}

	if desc, exists := doc.Find(`meta[name="description"]`).First().Attr("content"); exists {
		signals.MetaDescription = strings.TrimSpace(desc)
		signals.HasMetaDescription = signals.MetaDescription != ""
	}

	if viewport := doc.Find(`meta[name="viewport"]`).First(); viewport.Length() > 0 {
		signals.HasViewport = true
		signals.Viewport = viewport.AttrOr("content", "")
	}
	signals.HasResponsiveStyle = hasResponsiveStyle(doc)

	doc.Find("a").Each(func(_ int, a *goquery.Selection) {
		signals.Links = append(signals.Links, view.Link{
			Href: strings.TrimSpace(a.AttrOr("href", "")),
			Text: strings.TrimSpace(a.Text()),
		})
	})
	signals.NavigationLinks = countNavigationLinks(doc)

	for level := 1; level <= 6; level++ {
		signals.Headings[level-1] = doc.Find(fmt.Sprintf("h%d", level)).Length()
	}

	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		signals.Images = append(signals.Images, view.Image{
			Src:    img.AttrOr("src", ""),
			HasAlt: strings.TrimSpace(img.AttrOr("alt", "")) != "",
		})
	})

	bodyText := visibleBodyText(doc)
	signals.WordCount = countWords(bodyText)
	signals.BodyText = strings.ToLower(bodyText)

	signals.Lang = strings.TrimSpace(doc.Find("html").First().AttrOr("lang", ""))
	signals.HasFavicon = hasFavicon(doc)

	return &signals, nil
}

func countNavigationLinks(doc *goquery.Document) int {
	if nav := doc.Find(navigationSelector).First(); nav.Length() > 0 {
		return nav.Find("a").Length()
	}
	return doc.Find(navigationFallbackSelector).Length()
}

func hasResponsiveStyle(doc *goquery.Document) bool {
	responsive := false
	doc.Find("style").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(strings.ToLower(s.Text()), "@media") {
			responsive = true
		}
		return !responsive
	})
	if responsive {
		return true
	}
	doc.Find("link").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(s.AttrOr("rel", "")), "stylesheet") {
			return true
		}
		if _, hasMedia := s.Attr("media"); hasMedia || strings.Contains(strings.ToLower(s.AttrOr("href", "")), "media") {
			responsive = true
		}
		return !responsive
	})
	return responsive
}

func hasFavicon(doc *goquery.Document) bool {
	found := false
	doc.Find("link[rel]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		rel := strings.ToLower(strings.TrimSpace(s.AttrOr("rel", "")))
		if _, ok := faviconRels[rel]; ok && strings.TrimSpace(s.AttrOr("href", "")) != "" {
			found = true
		}
		return !found
	})
	return found
}

// visibleBodyText returns body text without script, style and noscript content. The document
// itself is left untouched.
func visibleBodyText(doc *goquery.Document) string {
	body := doc.Find("body").First().Clone()
	body.Find("script, style, noscript, template").Remove()
	return body.Text()
}

// countWords counts whitespace separated tokens longer than two characters.
func countWords(text string) int {
	count := 0
	for _, token := range strings.Fields(text) {
		if utf8.RuneCountInString(token) > 2 {
			count++
		}
	}
	return count
}
