// Package redact strips secrets and personal data from error text before it
// reaches logs. Database and SMTP URLs, bearer tokens, JWTs, bcrypt hashes,
// email addresses and SQL literals are replaced with placeholders.
package redact

import "regexp"

// Placeholders written in place of redacted text.
const (
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	TokenPlaceholder      = "[REDACTED_TOKEN]"
	JWTPlaceholder        = "[REDACTED_JWT]"
	HashPlaceholder       = "[REDACTED_HASH]"
	EmailPlaceholder      = "[REDACTED_EMAIL]"
	PathPlaceholder       = "[REDACTED_PATH]"
	SQLValuesPlaceholder  = "[SQL_VALUES_REDACTED]"
	SQLWherePlaceholder   = "[SQL_WHERE_REDACTED]"
)

type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order; earlier rules may consume text later ones would match.
var rules = []rule{
	{
		regexp.MustCompile(`(?i)\b(postgres(?:ql)?|smtps?)://[^\s@/]+@`),
		"$1://" + CredentialPlaceholder + "@",
	},
	{regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]+`), "Bearer " + TokenPlaceholder},
	{regexp.MustCompile(`eyJ[\w-]+\.eyJ[\w-]+\.[\w-]+`), JWTPlaceholder},
	{
		regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|api[_-]?key)\s*[=:]\s*[^\s&,;]+`),
		"$1=" + CredentialPlaceholder,
	},
	{regexp.MustCompile(`\$2[aby]?\$\d{2}\$[./A-Za-z0-9]{53}`), HashPlaceholder},
	{regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`), EmailPlaceholder},
	{regexp.MustCompile(`(?i)\bVALUES\s*\([^)]*\)`), "VALUES " + SQLValuesPlaceholder},
	{regexp.MustCompile(`(?i)\bWHERE\b[^;]*`), "WHERE " + SQLWherePlaceholder},
	{regexp.MustCompile(`(/[\w.-]+){2,}`), PathPlaceholder},
}

// String redacts sensitive information from input.
func String(input string) string {
	if input == "" {
		return input
	}
	for _, r := range rules {
		input = r.pattern.ReplaceAllString(input, r.replacement)
	}
	return input
}

// Error redacts sensitive information from err.Error().
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
