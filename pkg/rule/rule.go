// Package rule matches commands and configuration fragments against
// allow, deny and dangerous lists.
//
// A rule is written either as a literal or as a regular expression wrapped
// in slashes:
//
//	show interface      literal, case-insensitive substring
//	/^show (ip )?route/ regex, compiled case-insensitive
//
// Parse distinguishes the two forms once, when a policy is saved, so that a
// malformed pattern is reported to the administrator instead of silently
// failing on every command.
package rule

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Kind tags the two rule variants.
//
//go:generate go run github.com/dmarkham/enumer -type Kind -trimprefix Kind -transform lower -output kind.gen.go
type Kind int

const (
	KindLiteral Kind = iota
	KindRegex
)

// ErrEmptyRule is returned by Parse for a blank rule.
var ErrEmptyRule = errors.New("rule is empty")

// Rule is a parsed match pattern.
type Rule struct {
	source  string
	kind    Kind
	literal string
	re      *regexp.Regexp
}

// Parse parses a single rule. Regex rules that fail to compile are returned
// as errors.
func Parse(s string) (Rule, error) {
	if strings.TrimSpace(s) == "" {
		return Rule{}, ErrEmptyRule
	}
	if isRegexForm(s) {
		re, err := regexp.Compile("(?i)" + s[1:len(s)-1])
		if err != nil {
			return Rule{}, fmt.Errorf("invalid regex rule %q: %w", s, err)
		}
		return Rule{source: s, kind: KindRegex, re: re}, nil
	}
	return Rule{source: s, kind: KindLiteral, literal: strings.ToLower(s)}, nil
}

// Compile parses s without reporting errors. A rule that cannot be parsed
// never matches.
func Compile(s string) Rule {
	r, err := Parse(s)
	if err != nil {
		return Rule{source: s, kind: KindRegex}
	}
	return r
}

func isRegexForm(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "/") && strings.HasSuffix(s, "/")
}

// Kind returns the variant of the rule.
func (r Rule) Kind() Kind { return r.kind }

// String returns the rule as it was written.
func (r Rule) String() string { return r.source }

// Match reports whether text matches the rule.
func (r Rule) Match(text string) bool {
	switch r.kind {
	case KindRegex:
		if r.re == nil {
			return false
		}
		return r.re.MatchString(text)
	default:
		if r.literal == "" {
			return false
		}
		return strings.Contains(strings.ToLower(text), r.literal)
	}
}

// Match parses rule and tests text against it in one step.
func Match(text, rule string) bool {
	return Compile(rule).Match(text)
}
