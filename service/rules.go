package service

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/Netcracker/qubership-site-readiness-service/entity"
	"github.com/Netcracker/qubership-site-readiness-service/view"
)

// Rule is one named, weighted check. Evaluate must be a pure function of its arguments.
type Rule struct {
	Id       string
	Name     string
	Category view.Category
	Weight   float64
	Critical bool
	Manual   bool
	Evaluate func(s view.Signals, c view.EvaluationContext) view.Outcome
}

const (
	RuleHttps            = "https"
	RuleHttpsRedirect    = "httpsRedirect"
	RuleTitle            = "title"
	RuleMetaDescription  = "metaDescription"
	RuleNavigation       = "navigation"
	RulePrivacyPolicy    = "privacyPolicy"
	RuleTermsOfService   = "termsOfService"
	RuleAboutContact     = "aboutContact"
	RuleMobileViewport   = "mobileViewport"
	RuleContentVolume    = "contentVolume"
	RuleHeadingStructure = "headingStructure"
	RuleImageAlt         = "imageAlt"
	RuleLanguage         = "language"
	RuleFavicon          = "favicon"
	RuleResponseTime     = "responseTime"
	RuleErrorPage        = "errorPage"
	RuleSocialLinks      = "socialLinks"
)

// buildRules returns the fixed, ordered rule catalogue parametrized by a rule set.
func buildRules(rs entity.Ruleset) []Rule {
	t := rs.Thresholds
	k := rs.Keywords

	rules := []Rule{
		{Id: RuleHttps, Name: view.CheckNameHttps, Category: view.CategoryAutomated, Evaluate: checkHttps},
		{Id: RuleHttpsRedirect, Name: "HTTPS Redirect Check", Category: view.CategoryAutomated, Evaluate: checkHttpsRedirect},
		{Id: RuleTitle, Name: "SEO Title Tag", Category: view.CategoryPerformance, Evaluate: titleRule(t.Title)},
		{Id: RuleMetaDescription, Name: "Meta Description", Category: view.CategoryPerformance, Evaluate: metaDescriptionRule(t.MetaDescription)},
		{Id: RuleNavigation, Name: "Navigation Structure", Category: view.CategoryStructure, Evaluate: navigationRule(t.Navigation)},
		{Id: RulePrivacyPolicy, Name: view.CheckNamePrivacyPolicy, Category: view.CategoryStructure, Evaluate: privacyPolicyRule(k.Privacy)},
		{Id: RuleTermsOfService, Name: "Terms of Service/Use Page", Category: view.CategoryStructure, Evaluate: termsRule(k.Terms)},
		{Id: RuleAboutContact, Name: "About Us & Contact Information", Category: view.CategoryStructure, Evaluate: aboutContactRule(k.About, k.Contact)},
		{Id: RuleMobileViewport, Name: "Mobile Responsiveness", Category: view.CategoryStructure, Evaluate: checkMobileViewport},
		{Id: RuleContentVolume, Name: view.CheckNameContentVolume, Category: view.CategoryContent, Evaluate: contentVolumeRule(t.ContentVolume)},
		{Id: RuleHeadingStructure, Name: "Heading Structure (SEO)", Category: view.CategoryPerformance, Evaluate: headingRule(t.Headings)},
		{Id: RuleImageAlt, Name: "Image Optimization", Category: view.CategoryPerformance, Evaluate: imageAltRule(t.ImageAlt)},
		{Id: RuleLanguage, Name: "Language Declaration", Category: view.CategoryStructure, Evaluate: checkLanguage},
		{Id: RuleFavicon, Name: "Favicon Present", Category: view.CategoryStructure, Evaluate: checkFavicon},
		{Id: RuleResponseTime, Name: "Page Load Speed Indicator", Category: view.CategoryPerformance, Evaluate: responseTimeRule(t.ResponseTime)},
		{Id: RuleErrorPage, Name: "Error Page Detection", Category: view.CategoryStructure, Evaluate: errorPageRule(k.ErrorIndicators)},
		{Id: RuleSocialLinks, Name: "Social Media Integration", Category: view.CategoryContent, Evaluate: socialLinksRule(t.SocialLinks, k.SocialPlatforms)},

		{Id: "contentOriginality", Name: "Content Originality & Quality", Category: view.CategoryContent, Manual: true,
			Evaluate: manual("Ensure all content is original, well-written, and provides value to users. No copied content allowed.")},
		{Id: "policyCompliance", Name: "Content Policy Compliance", Category: view.CategoryContent, Manual: true,
			Evaluate: manual("Verify content complies with AdSense policies: no adult content, violence, illegal activities, etc.")},
		{Id: "userExperience", Name: "User Experience & Site Design", Category: view.CategoryContent, Manual: true,
			Evaluate: manual("Ensure professional design, easy navigation, fast loading, and good user experience.")},
	}

	for i := range rules {
		if rules[i].Manual {
			continue
		}
		rules[i].Weight = rs.Weights[rules[i].Id]
		rules[i].Critical = rs.IsCritical(rules[i].Name)
	}
	return rules
}

func manual(msg string) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(view.Signals, view.EvaluationContext) view.Outcome {
		return view.Manual(msg)
	}
}

func checkHttps(_ view.Signals, c view.EvaluationContext) view.Outcome {
	if schemeOf(c.FinalUrl) == "https" {
		return view.Pass("Site uses HTTPS encryption.")
	}
	return view.Fail("Site does not use HTTPS. This is critical for AdSense approval.")
}

func checkHttpsRedirect(_ view.Signals, c view.EvaluationContext) view.Outcome {
	initial, err := url.Parse(c.InitialUrl)
	if err != nil {
		return view.Warn("Unable to compare the requested and final URLs.")
	}
	final, err := url.Parse(c.FinalUrl)
	if err != nil {
		return view.Warn("Unable to compare the requested and final URLs.")
	}

	initialScheme := strings.ToLower(initial.Scheme)
	finalScheme := strings.ToLower(final.Scheme)
	switch {
	case initialScheme == "http" && finalScheme == "https" && strings.EqualFold(initial.Hostname(), final.Hostname()):
		return view.Pass("HTTP correctly redirects to HTTPS.")
	case initialScheme == "https" && finalScheme == "https":
		return view.Pass("Site uses HTTPS.")
	case initialScheme == "https":
		// https was requested but only the plain http fallback answered.
		return view.Warn("HTTPS endpoint is unavailable, the page was only reachable over HTTP.")
	}
	return view.Warn("No HTTP to HTTPS redirect configured.")
}

func titleRule(r entity.LengthRange) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(s view.Signals, _ view.EvaluationContext) view.Outcome {
		if !s.HasTitle {
			return view.Fail("Missing title tag - critical for SEO.")
		}
		length := utf8.RuneCountInString(s.Title)
		if length < r.Min {
			return view.Fail(fmt.Sprintf("Title too short (%d chars). Should be %d-%d characters.", length, r.Min, r.Max))
		}
		if length > r.Max {
			return view.Warn(fmt.Sprintf("Title too long (%d chars). Consider shortening to under %d characters.", length, r.Max))
		}
		return view.Pass(fmt.Sprintf("Good title length: \"%s\" (%d chars)", s.Title, length))
	}
}

func metaDescriptionRule(r entity.LengthRange) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(s view.Signals, _ view.EvaluationContext) view.Outcome {
		if !s.HasMetaDescription {
			return view.Fail("Missing meta description - important for SEO.")
		}
		length := utf8.RuneCountInString(s.MetaDescription)
		if length < r.Min {
			return view.Warn(fmt.Sprintf("Meta description short (%d chars). Consider %d-%d characters.", length, r.Min, r.Max))
		}
		if length > r.Max {
			return view.Warn(fmt.Sprintf("Meta description long (%d chars). May be truncated in search results.", length))
		}
		return view.Pass(fmt.Sprintf("Good meta description length (%d chars).", length))
	}
}

func navigationRule(t entity.CountTiers) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(s view.Signals, _ view.EvaluationContext) view.Outcome {
		switch {
		case s.NavigationLinks >= t.Pass:
			return view.Pass(fmt.Sprintf("Clear navigation with %d links found.", s.NavigationLinks))
		case s.NavigationLinks >= t.Warn:
			return view.Warn(fmt.Sprintf("Navigation found with %d links. Consider adding more sections.", s.NavigationLinks))
		}
		return view.Fail("Insufficient navigation structure. Add clear menu with multiple sections.")
	}
}

func privacyPolicyRule(keywords []string) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(s view.Signals, _ view.EvaluationContext) view.Outcome {
		if hasLinkMatching(s.Links, keywords) {
			return view.Pass("Privacy Policy link found - required for AdSense.")
		}
		return view.Fail("Privacy Policy page missing - REQUIRED for AdSense approval.")
	}
}

func termsRule(keywords []string) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(s view.Signals, _ view.EvaluationContext) view.Outcome {
		if hasLinkMatching(s.Links, keywords) {
			return view.Pass("Terms of Service page found.")
		}
		return view.Warn("Terms of Service page recommended for trust signals.")
	}
}

func aboutContactRule(about []string, contact []string) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(s view.Signals, _ view.EvaluationContext) view.Outcome {
		hasAbout := hasLinkMatching(s.Links, about)
		hasContact := hasLinkMatching(s.Links, contact)
		switch {
		case hasAbout && hasContact:
			return view.Pass("Both About and Contact pages found.")
		case hasAbout:
			return view.Warn("Missing Contact page. Both recommended.")
		case hasContact:
			return view.Warn("Missing About page. Both recommended.")
		}
		return view.Fail("Both About and Contact pages missing - important for trust.")
	}
}

func checkMobileViewport(s view.Signals, _ view.EvaluationContext) view.Outcome {
	if s.HasViewport && strings.Contains(strings.ToLower(s.Viewport), "width=device-width") {
		if s.HasResponsiveStyle {
			return view.Pass("Mobile-optimized with viewport tag and responsive CSS.")
		}
		return view.Warn("Viewport tag found but responsive CSS unclear.")
	}
	return view.Fail("Missing viewport meta tag - essential for mobile users.")
}

func contentVolumeRule(t entity.ContentTiers) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(s view.Signals, _ view.EvaluationContext) view.Outcome {
		switch {
		case t.Excellent > 0 && s.WordCount > t.Excellent:
			return view.Pass(fmt.Sprintf("Extensive content detected (~%d words).", s.WordCount))
		case s.WordCount > t.Pass:
			return view.Pass(fmt.Sprintf("Substantial content detected (~%d words).", s.WordCount))
		case s.WordCount > t.Warn:
			return view.Warn(fmt.Sprintf("Moderate content (~%d words). Consider adding more quality content.", s.WordCount))
		}
		return view.Fail(fmt.Sprintf("Low content volume (~%d words). AdSense requires substantial content.", s.WordCount))
	}
}

func headingRule(t entity.HeadingTiers) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(s view.Signals, _ view.EvaluationContext) view.Outcome {
		h1 := s.Headings.Level(1)
		total := s.Headings.Total()
		switch {
		case h1 == 1 && total >= t.MinTotal:
			return view.Pass(fmt.Sprintf("Good heading structure: 1 H1, %d total headings.", total))
		case h1 == 1:
			return view.Warn("H1 found but consider adding more subheadings (H2, H3).")
		case h1 > 1:
			return view.Warn(fmt.Sprintf("Multiple H1 tags found (%d). Use only one H1 per page.", h1))
		}
		return view.Fail("No H1 heading found. Add proper heading structure.")
	}
}

func imageAltRule(t entity.PercentTiers) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(s view.Signals, _ view.EvaluationContext) view.Outcome {
		total := len(s.Images)
		if total == 0 {
			return view.Warn("No images found. Visual content improves user engagement.")
		}
		withAlt := s.ImagesWithAlt()
		// integer comparison keeps the percentage boundaries exact
		switch {
		case withAlt*100 >= t.PassPercent*total:
			return view.Pass(fmt.Sprintf("Good image accessibility: %d/%d images have alt text.", withAlt, total))
		case withAlt*100 >= t.WarnPercent*total:
			return view.Warn(fmt.Sprintf("Some images missing alt text: %d/%d. Add for accessibility.", withAlt, total))
		}
		return view.Fail(fmt.Sprintf("Poor image accessibility: only %d/%d images have alt text.", withAlt, total))
	}
}

func checkLanguage(s view.Signals, _ view.EvaluationContext) view.Outcome {
	if s.Lang != "" {
		return view.Pass(fmt.Sprintf("Language declared as \"%s\".", s.Lang))
	}
	return view.Warn("No language declaration. Add lang attribute to <html> tag.")
}

func checkFavicon(s view.Signals, _ view.EvaluationContext) view.Outcome {
	if s.HasFavicon {
		return view.Pass("Favicon found - good for branding.")
	}
	return view.Warn("Favicon missing. Add for professional appearance.")
}

func responseTimeRule(t entity.ResponseTimeMs) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(_ view.Signals, c view.EvaluationContext) view.Outcome {
		ms := c.ResponseTime.Milliseconds()
		switch {
		case ms < t.PassMs:
			return view.Pass(fmt.Sprintf("Good response time: %dms", ms))
		case ms < t.WarnMs:
			return view.Warn(fmt.Sprintf("Moderate response time: %dms. Consider optimization.", ms))
		}
		return view.Fail(fmt.Sprintf("Slow response time: %dms. Optimize for better user experience.", ms))
	}
}

func errorPageRule(indicators []string) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(s view.Signals, _ view.EvaluationContext) view.Outcome {
		for _, indicator := range indicators {
			if strings.Contains(s.BodyText, strings.ToLower(indicator)) {
				return view.Fail("Potential error page or broken content detected.")
			}
		}
		return view.Pass("No obvious error indicators found.")
	}
}

func socialLinksRule(t entity.CountTiers, platforms []string) func(view.Signals, view.EvaluationContext) view.Outcome {
	return func(s view.Signals, _ view.EvaluationContext) view.Outcome {
		count := 0
		for _, link := range s.Links {
			href := strings.ToLower(link.Href)
			for _, platform := range platforms {
				if strings.Contains(href, platform) {
					count++
					break
				}
			}
		}
		switch {
		case count >= t.Pass:
			return view.Pass(fmt.Sprintf("Social media links found (%d). Good for trust signals.", count))
		case count >= t.Warn && count > 0:
			return view.Warn("Limited social media presence. Consider adding more platforms.")
		}
		return view.Warn("No social media links found. Consider adding for trust signals.")
	}
}

func hasLinkMatching(links []view.Link, keywords []string) bool {
	for _, link := range links {
		href := strings.ToLower(link.Href)
		text := strings.ToLower(link.Text)
		for _, keyword := range keywords {
			keyword = strings.ToLower(keyword)
			if strings.Contains(href, keyword) || strings.Contains(text, keyword) {
				return true
			}
		}
	}
	return false
}

func schemeOf(u string) string {
	parsed, err := url.Parse(u)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Scheme)
}
