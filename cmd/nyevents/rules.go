// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/nyevents/internal/fields"
	"github.com/pdiddy/nyevents/internal/transform"
	"github.com/pdiddy/nyevents/internal/validate"
)

// ruleFile is the YAML shape of a keyword-table override file. Every
// section is optional; omitted tables keep their built-in defaults.
type ruleFile struct {
	Fields struct {
		Candidates   map[string][]string `yaml:"candidates"`
		Placeholders []string            `yaml:"placeholders"`
	} `yaml:"fields"`

	Region struct {
		CoreKeywords  []string `yaml:"core_keywords"`
		MetroKeywords []string `yaml:"metro_keywords"`
		RegionCodes   []string `yaml:"region_codes"`
	} `yaml:"region"`

	Boroughs []struct {
		Borough  string   `yaml:"borough"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"boroughs"`

	Seasons []struct {
		Season   string   `yaml:"season"`
		Keywords []string `yaml:"keywords"`
	} `yaml:"seasons"`

	Categories struct {
		Direct map[string]string `yaml:"direct"`
		Scored []struct {
			Category string   `yaml:"category"`
			Keywords []string `yaml:"keywords"`
		} `yaml:"scored"`
	} `yaml:"categories"`

	PriorityKeywords []string `yaml:"priority_keywords"`
}

// loadRuleFile parses a keyword-table override file. An empty path
// returns nil, meaning defaults everywhere.
func loadRuleFile(path string) (*ruleFile, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	var rules ruleFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("parsing rules file %s: %w", path, err)
	}
	return &rules, nil
}

func (r *ruleFile) fieldsConfig() fields.Config {
	if r == nil {
		return fields.Config{}
	}
	return fields.Config{
		Candidates:   r.Fields.Candidates,
		Placeholders: r.Fields.Placeholders,
	}
}

func (r *ruleFile) regionConfig() validate.RegionConfig {
	if r == nil {
		return validate.RegionConfig{}
	}
	return validate.RegionConfig{
		CoreKeywords:  r.Region.CoreKeywords,
		MetroKeywords: r.Region.MetroKeywords,
		RegionCodes:   r.Region.RegionCodes,
	}
}

func (r *ruleFile) boroughRules() []transform.BoroughRule {
	if r == nil || len(r.Boroughs) == 0 {
		return nil
	}
	rules := make([]transform.BoroughRule, 0, len(r.Boroughs))
	for _, b := range r.Boroughs {
		rules = append(rules, transform.BoroughRule{Borough: b.Borough, Keywords: b.Keywords})
	}
	return rules
}

func (r *ruleFile) seasonRules() []transform.SeasonRule {
	if r == nil || len(r.Seasons) == 0 {
		return nil
	}
	rules := make([]transform.SeasonRule, 0, len(r.Seasons))
	for _, s := range r.Seasons {
		rules = append(rules, transform.SeasonRule{Season: s.Season, Keywords: s.Keywords})
	}
	return rules
}

func (r *ruleFile) categoryRules() []transform.CategoryRule {
	if r == nil || len(r.Categories.Scored) == 0 {
		return nil
	}
	rules := make([]transform.CategoryRule, 0, len(r.Categories.Scored))
	for _, c := range r.Categories.Scored {
		rules = append(rules, transform.CategoryRule{Category: c.Category, Keywords: c.Keywords})
	}
	return rules
}

func (r *ruleFile) directCategories() map[string]string {
	if r == nil {
		return nil
	}
	return r.Categories.Direct
}

func (r *ruleFile) priorityKeywords() []string {
	if r == nil {
		return nil
	}
	return r.PriorityKeywords
}
