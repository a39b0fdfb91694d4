// Package utils contains small helper functions used across the project.
//
// These are generic helpers that don't belong to a specific domain.
package utils

import "strings"

// SplitList splits a comma-separated setting into its entries.
//
// Entries are trimmed and empty entries are dropped, so "a, ,b," yields
// ["a", "b"] and "" or " , " yields an empty (nil) slice.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
