package httpmetrics

import "strings"

// NormalizePath replaces resource id segments with a placeholder so
// metric label cardinality stays bounded.
func NormalizePath(path string) string {
	const expensesPrefix = "/api/expenses/"

	if strings.HasPrefix(path, expensesPrefix) && len(path) > len(expensesPrefix) {
		return expensesPrefix + "{id}"
	}

	return path
}
