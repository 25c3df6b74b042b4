// Package sanitizer normalizes free-form request input before validation.
// Emails are the primary key of half the collections, so they are lowered and
// trimmed everywhere; names keep their casing but lose stray whitespace.
package sanitizer

import (
	"regexp"
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var reMultiSpace = regexp.MustCompile(`\s+`)

func trimAndLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func collapseSpaces(s string) string {
	return reMultiSpace.ReplaceAllString(s, " ")
}

// SanitizeEmail lowercases and trims an email address. Matching is exact in
// the store, so every path that touches an email must go through here.
func SanitizeEmail(input string) string {
	return trimAndLower(input)
}

// SanitizeName trims and collapses internal whitespace, keeping case.
func SanitizeName(input string) string {
	p := Pipeline{
		strings.TrimSpace,
		collapseSpaces,
	}
	return p.Apply(input)
}

// SanitizeSlot trims a slot label. Labels are matched verbatim against the
// treatment template, so nothing beyond trimming is safe here.
func SanitizeSlot(input string) string {
	return strings.TrimSpace(input)
}

// SanitizeSlice applies a strategy to each element, dropping empties and
// duplicates while preserving first-seen order.
func SanitizeSlice(values []string, strategy Strategy) []string {
	seen := make(map[string]struct{})
	out := []string{}

	for _, v := range values {
		s := strategy(v)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	return out
}
