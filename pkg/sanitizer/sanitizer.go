package sanitizer

import (
	"net/url"
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

var (
	reCollapseSpaces = regexp.MustCompile(`\s+`)
	reControlChars   = regexp.MustCompile(`[\x00-\x1f\x7f]`)
)

func trim(s string) string {
	return strings.TrimSpace(s)
}

func collapseSpaces(s string) string {
	return reCollapseSpaces.ReplaceAllString(s, " ")
}

func stripControl(s string) string {
	return reControlChars.ReplaceAllString(s, "")
}

// SanitizeText normalizes free-form display text: titles, descriptions,
// locations, organizer names. Whitespace runs collapse to a single space.
func SanitizeText(input string) string {
	p := Pipeline{
		stripControl,
		collapseSpaces,
		trim,
	}
	return p.Apply(input)
}

// SanitizeTimeOfDay normalizes an HH:MM string, padding a single-digit
// hour ("9:00" becomes "09:00"). Anything else passes through trimmed and
// is left to validation.
func SanitizeTimeOfDay(input string) string {
	s := strings.TrimSpace(input)
	if len(s) == 4 && s[1] == ':' {
		return "0" + s
	}
	return s
}

// SanitizeImageURL validates and normalizes an optional image URL.
// Invalid or non-http inputs collapse to the empty string.
func SanitizeImageURL(input string) string {
	s := strings.TrimSpace(input)
	if s == "" {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return ""
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}
