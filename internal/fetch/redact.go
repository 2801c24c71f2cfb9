package fetch

import "regexp"

// secretPattern matches common API-key query/header encodings so logs never
// leak a provider key verbatim.
var secretPattern = regexp.MustCompile(`(?i)(api[_-]?key|token|secret|bearer)\s*=\s*[^&\s]+`)

// Redact replaces any recognized secret-bearing substring with [REDACTED].
// It is applied to every logged URL, header dump, and error message in the
// fetch layer before it reaches a log sink.
func Redact(s string) string {
	return secretPattern.ReplaceAllStringFunc(s, func(m string) string {
		idx := regexp.MustCompile(`=`).FindStringIndex(m)
		if idx == nil {
			return "[REDACTED]"
		}
		return m[:idx[1]] + "[REDACTED]"
	})
}
