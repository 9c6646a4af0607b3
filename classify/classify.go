// Package classify matches transaction descriptions against regex
// pattern rules.
package classify

import (
	"fmt"
	"regexp"
)

// Rule is one compiled pattern. Matching is case-insensitive.
type Rule struct {
	ID int
	re *regexp.Regexp
}

// NewRule compiles a pattern rule.
func NewRule(id int, pattern string) (Rule, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("compiling pattern %q: %w", pattern, err)
	}
	return Rule{ID: id, re: re}, nil
}

// Match reports whether the rule matches a description.
func (r Rule) Match(description string) bool {
	return r.re.MatchString(description)
}

// First returns the first rule matching the description, or nil. Rules
// should be ordered most-used first so common patterns win.
func First(rules []Rule, description string) *Rule {
	for i := range rules {
		if rules[i].Match(description) {
			return &rules[i]
		}
	}
	return nil
}
