package pattern

import (
	"fmt"
	"regexp"
	"strings"
)

// Matcher evaluates entry names against compiled filter expressions.
type Matcher struct {
	exprs    []string
	compiled []*regexp.Regexp
}

// Compile builds a matcher from the given expressions. An invalid expression
// fails the whole construction with an error wrapping ErrInvalidPattern.
func Compile(exprs []string) (*Matcher, error) {
	m := &Matcher{
		exprs:    make([]string, 0, len(exprs)),
		compiled: make([]*regexp.Regexp, 0, len(exprs)),
	}
	for i, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern %d %q: %v", ErrInvalidPattern, i+1, expr, err)
		}
		m.exprs = append(m.exprs, expr)
		m.compiled = append(m.compiled, re)
	}
	return m, nil
}

// MustCompile is like Compile but panics on error. Intended for tests and
// package-level defaults.
func MustCompile(exprs ...string) *Matcher {
	m, err := Compile(exprs)
	if err != nil {
		panic(err)
	}
	return m
}

// Match reports whether name is accepted. A nil matcher accepts everything.
func (m *Matcher) Match(name string) bool {
	if m == nil || len(m.compiled) == 0 {
		return true
	}
	for _, re := range m.compiled {
		if re.MatchString(name) {
			return true
		}
	}
	return false
}

// Len returns the number of compiled expressions.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.compiled)
}

// Patterns returns a copy of the source expressions in compile order.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.exprs))
	copy(out, m.exprs)
	return out
}

func (m *Matcher) String() string {
	if m.Len() == 0 {
		return "*"
	}
	return strings.Join(m.exprs, " | ")
}
