package repository

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Netcracker/qubership-site-readiness-service/entity"
	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed rulesets/*.yaml
var builtinRulesets embed.FS

type RulesetRepository interface {
	ListRulesets() []entity.Ruleset
	GetRulesetByVersion(version string) (*entity.Ruleset, error)
}

// NewRulesetRepository loads the built-in rule sets and, when overrideDir is set, every *.yaml file
// found there. A file from overrideDir replaces a built-in rule set with the same version.
func NewRulesetRepository(overrideDir string) (RulesetRepository, error) {
	rulesets := make(map[string]entity.Ruleset)

	builtin, err := fs.Sub(builtinRulesets, "rulesets")
	if err != nil {
		return nil, err
	}
	if err := loadRulesets(builtin, rulesets); err != nil {
		return nil, fmt.Errorf("failed to load built-in rulesets: %w", err)
	}

	if overrideDir != "" {
		if err := loadRulesets(os.DirFS(overrideDir), rulesets); err != nil {
			return nil, fmt.Errorf("failed to load rulesets from %s: %w", overrideDir, err)
		}
	}

	return &rulesetRepositoryImpl{rulesets: rulesets}, nil
}

type rulesetRepositoryImpl struct {
	rulesets map[string]entity.Ruleset
}

func (r rulesetRepositoryImpl) ListRulesets() []entity.Ruleset {
	result := make([]entity.Ruleset, 0, len(r.rulesets))
	for _, rs := range r.rulesets {
		result = append(result, rs)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Version < result[j].Version })
	return result
}

func (r rulesetRepositoryImpl) GetRulesetByVersion(version string) (*entity.Ruleset, error) {
	rs, exists := r.rulesets[version]
	if !exists {
		return nil, nil
	}
	return &rs, nil
}

func loadRulesets(fsys fs.FS, target map[string]entity.Ruleset) error {
	files, err := fs.Glob(fsys, "*.yaml")
	if err != nil {
		return err
	}
	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return err
		}
		rs, err := parseRuleset(data)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if rs.Version == "" {
			rs.Version = strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		}
		if _, exists := target[rs.Version]; exists {
			log.Infof("Ruleset %s is overridden by %s", rs.Version, file)
		}
		target[rs.Version] = *rs
	}
	return nil
}

func parseRuleset(data []byte) (*entity.Ruleset, error) {
	var rs entity.Ruleset
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("invalid ruleset yaml: %w", err)
	}
	if err := validateRuleset(rs); err != nil {
		return nil, err
	}
	return &rs, nil
}

func validateRuleset(rs entity.Ruleset) error {
	known := make(map[string]bool, len(entity.WeightedCheckIds))
	for _, id := range entity.WeightedCheckIds {
		known[id] = true
		weight, exists := rs.Weights[id]
		if !exists {
			return fmt.Errorf("ruleset %s: weight of %s is missing", rs.Version, id)
		}
		if weight <= 0 {
			return fmt.Errorf("ruleset %s: weight of %s must be positive, got %v", rs.Version, id, weight)
		}
	}
	for id := range rs.Weights {
		if !known[id] {
			return fmt.Errorf("ruleset %s: unknown check id %s in weights", rs.Version, id)
		}
	}
	if rs.Robots.Weight <= 0 {
		return fmt.Errorf("ruleset %s: robots weight must be positive", rs.Version)
	}
	if err := validateThresholds(rs.Thresholds); err != nil {
		return fmt.Errorf("ruleset %s: %w", rs.Version, err)
	}
	if rs.Scoring.CriticalCap < 0 || rs.Scoring.CriticalCap > 100 {
		return fmt.Errorf("ruleset %s: critical cap %d is out of range [0,100]", rs.Version, rs.Scoring.CriticalCap)
	}
	if rs.Scoring.Tiers.MediumFrom > rs.Scoring.Tiers.HighFrom {
		return fmt.Errorf("ruleset %s: medium tier starts above high tier", rs.Version)
	}
	return nil
}

func validateThresholds(t entity.Thresholds) error {
	switch {
	case t.Title.Max <= 0:
		return fmt.Errorf("title thresholds are missing")
	case t.Title.Min > t.Title.Max:
		return fmt.Errorf("title min %d is above max %d", t.Title.Min, t.Title.Max)
	case t.MetaDescription.Max <= 0:
		return fmt.Errorf("metaDescription thresholds are missing")
	case t.MetaDescription.Min > t.MetaDescription.Max:
		return fmt.Errorf("metaDescription min %d is above max %d", t.MetaDescription.Min, t.MetaDescription.Max)
	case t.Navigation.Pass <= 0:
		return fmt.Errorf("navigation thresholds are missing")
	case t.Navigation.Warn > t.Navigation.Pass:
		return fmt.Errorf("navigation warn tier is above pass tier")
	case t.ContentVolume.Pass <= 0:
		return fmt.Errorf("contentVolume thresholds are missing")
	case t.ContentVolume.Warn > t.ContentVolume.Pass:
		return fmt.Errorf("content volume warn tier is above pass tier")
	case t.Headings.MinTotal <= 0:
		return fmt.Errorf("headings thresholds are missing")
	case t.ImageAlt.PassPercent <= 0 || t.ImageAlt.PassPercent > 100:
		return fmt.Errorf("imageAlt pass percent must be in (0,100], got %d", t.ImageAlt.PassPercent)
	case t.ImageAlt.WarnPercent > t.ImageAlt.PassPercent:
		return fmt.Errorf("imageAlt warn percent is above pass percent")
	case t.ResponseTime.PassMs <= 0:
		return fmt.Errorf("responseTime thresholds are missing")
	case t.ResponseTime.PassMs > t.ResponseTime.WarnMs:
		return fmt.Errorf("responseTime pass limit is above warn limit")
	case t.SocialLinks.Pass <= 0:
		return fmt.Errorf("socialLinks thresholds are missing")
	case t.SocialLinks.Warn > t.SocialLinks.Pass:
		return fmt.Errorf("socialLinks warn tier is above pass tier")
	}
	return nil
}
