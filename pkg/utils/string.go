package utils

// Truncate is a simple string truncate
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// Pluralize returns the singular form when n is 1, otherwise singular + "s".
func Pluralize(n int, singular string) string {
	if n == 1 {
		return singular
	}
	return singular + "s"
}
