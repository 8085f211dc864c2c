// Package filter provides include filtering for calendar components.
package filter

import (
	"fmt"
	"regexp"
	"strings"

	ics "github.com/emersion/go-ical"

	"github.com/cpuguy83/vcalconv/internal/config"
)

// MatchType specifies how a filter rule matches.
type MatchType int

const (
	MatchContains MatchType = iota // Substring match (default)
	MatchExact                     // Exact string match
	MatchPrefix                    // Starts with
	MatchSuffix                    // Ends with
	MatchRegex                     // Regular expression
)

// Filter applies include rules to VEVENT and VTODO components.
type Filter struct {
	mode  string // "or" or "and"
	rules []rule
}

type rule struct {
	field           string
	matchType       MatchType
	pattern         string         // For non-regex matches
	regex           *regexp.Regexp // For regex matches
	caseInsensitive bool
}

// New creates a new filter from configuration.
func New(cfg config.FilterConfig) (*Filter, error) {
	f := &Filter{
		mode: cfg.Mode,
	}

	if f.mode == "" {
		f.mode = "or"
	}

	for i, r := range cfg.Rules {
		compiled, err := compileRule(r)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		f.rules = append(f.rules, compiled)
	}

	return f, nil
}

// compileRule converts a config FilterRule to an internal rule.
func compileRule(r config.FilterRule) (rule, error) {
	compiled := rule{
		field:           r.Field,
		caseInsensitive: r.CaseInsensitive,
	}

	switch {
	case r.Regex != "":
		compiled.matchType = MatchRegex
		pattern := r.Regex
		if r.CaseInsensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return compiled, fmt.Errorf("invalid regex %q: %w", r.Regex, err)
		}
		compiled.regex = re

	case r.Exact != "":
		compiled.matchType = MatchExact
		compiled.pattern = r.Exact
		if r.CaseInsensitive {
			compiled.pattern = strings.ToLower(compiled.pattern)
		}

	case r.Prefix != "":
		compiled.matchType = MatchPrefix
		compiled.pattern = r.Prefix
		if r.CaseInsensitive {
			compiled.pattern = strings.ToLower(compiled.pattern)
		}

	case r.Suffix != "":
		compiled.matchType = MatchSuffix
		compiled.pattern = r.Suffix
		if r.CaseInsensitive {
			compiled.pattern = strings.ToLower(compiled.pattern)
		}

	case r.Contains != "":
		compiled.matchType = MatchContains
		compiled.pattern = r.Contains
		if r.CaseInsensitive {
			compiled.pattern = strings.ToLower(compiled.pattern)
		}

	default:
		return compiled, fmt.Errorf("no match pattern specified (use contains, exact, prefix, suffix, or regex)")
	}

	return compiled, nil
}

// Match reports whether a component passes the filter. A nil filter or one
// without rules matches everything.
func (f *Filter) Match(comp *ics.Component) bool {
	if f == nil || len(f.rules) == 0 {
		return true
	}

	if f.mode == "and" {
		// All rules must match
		for _, r := range f.rules {
			if !r.matches(comp) {
				return false
			}
		}
		return true
	}

	// OR mode: any rule must match
	for _, r := range f.rules {
		if r.matches(comp) {
			return true
		}
	}
	return false
}

// matches checks if a component matches a single rule.
func (r *rule) matches(comp *ics.Component) bool {
	value := r.getFieldValue(comp)

	// Apply case insensitivity for non-regex matches
	if r.caseInsensitive && r.matchType != MatchRegex {
		value = strings.ToLower(value)
	}

	switch r.matchType {
	case MatchRegex:
		return r.regex.MatchString(value)
	case MatchExact:
		return value == r.pattern
	case MatchPrefix:
		return strings.HasPrefix(value, r.pattern)
	case MatchSuffix:
		return strings.HasSuffix(value, r.pattern)
	case MatchContains:
		fallthrough
	default:
		return strings.Contains(value, r.pattern)
	}
}

// getFieldValue extracts the field value from a component.
func (r *rule) getFieldValue(comp *ics.Component) string {
	switch r.field {
	case "component":
		return comp.Name
	case "title", "summary":
		return propValue(comp, ics.PropSummary)
	case "organizer":
		v := propValue(comp, ics.PropOrganizer)
		if len(v) > 7 && strings.EqualFold(v[:7], "mailto:") {
			v = v[7:]
		}
		return v
	case "uid":
		return propValue(comp, ics.PropUID)
	case "description":
		return propValue(comp, ics.PropDescription)
	case "location":
		return propValue(comp, ics.PropLocation)
	case "categories":
		return propValue(comp, ics.PropCategories)
	default:
		return ""
	}
}

func propValue(comp *ics.Component, name string) string {
	if prop := comp.Props.Get(name); prop != nil {
		return prop.Value
	}
	return ""
}
