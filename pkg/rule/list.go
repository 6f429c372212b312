package rule

import (
	"errors"
	"fmt"
)

// List is an ordered set of rules. Matching is an OR over its members.
type List []Rule

// ParseList parses every pattern and reports all malformed ones together.
func ParseList(patterns []string) (List, error) {
	list := make(List, 0, len(patterns))
	var errs []error
	for i, p := range patterns {
		r, err := Parse(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("rule %d: %w", i, err))
			continue
		}
		list = append(list, r)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return list, nil
}

// CompileList parses patterns leniently. Malformed rules never match.
func CompileList(patterns []string) List {
	list := make(List, 0, len(patterns))
	for _, p := range patterns {
		list = append(list, Compile(p))
	}
	return list
}

// Any reports whether text matches at least one rule.
func (l List) Any(text string) bool {
	for _, r := range l {
		if r.Match(text) {
			return true
		}
	}
	return false
}

// Strings returns the source form of each rule.
func (l List) Strings() []string {
	out := make([]string, len(l))
	for i, r := range l {
		out[i] = r.source
	}
	return out
}

// IsAllowed reports whether text passes the allow list. An empty allow list
// admits nothing.
func IsAllowed(text string, allow List) bool {
	if len(allow) == 0 {
		return false
	}
	return allow.Any(text)
}

// IsDenied reports whether text matches the deny list.
func IsDenied(text string, deny List) bool {
	return deny.Any(text)
}

// IsDangerous reports whether text matches the dangerous list.
func IsDangerous(text string, dangerous List) bool {
	return dangerous.Any(text)
}

// Verdict is the outcome of evaluating text against a Set.
//
//go:generate go run github.com/dmarkham/enumer -type Verdict -transform snake -output verdict.gen.go
type Verdict int

const (
	Allowed Verdict = iota
	BlockedByAllowList
	BlockedByDenyList
)

// Set groups the three lists a policy is made of.
type Set struct {
	Allow     List
	Deny      List
	Dangerous List
}

// Evaluate checks text against the allow list first, then the deny list.
// The dangerous flag is reported independently and never blocks.
func (s Set) Evaluate(text string) (Verdict, bool) {
	dangerous := IsDangerous(text, s.Dangerous)
	if !IsAllowed(text, s.Allow) {
		return BlockedByAllowList, dangerous
	}
	if IsDenied(text, s.Deny) {
		return BlockedByDenyList, dangerous
	}
	return Allowed, dangerous
}
