package problems

import (
	"os"
	"strings"
)

// Base returns the base URL for problem type identifiers.
// Precedence: PROBLEM_BASE_URL, then ADMIN_PUBLIC_URL + "/problems",
// then a placeholder.
func Base() string {
	if b := os.Getenv("PROBLEM_BASE_URL"); b != "" {
		return strings.TrimRight(b, "/")
	}
	if b := os.Getenv("ADMIN_PUBLIC_URL"); b != "" {
		return strings.TrimRight(b, "/") + "/problems"
	}
	return "https://example.com/problems"
}

// Type builds a full problem type URL for the given slug.
func Type(slug string) string { return Base() + "/" + slug }
