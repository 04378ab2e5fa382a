package session

import (
	"strings"
	"unicode"
)

// suffixHints maps recognized filename suffixes to domain categories
var suffixHints = []struct {
	suffixes []string
	domain   string
}{
	{[]string{".py"}, "python"},
	{[]string{".go"}, "go"},
	{[]string{".ts", ".tsx"}, "typescript"},
	{[]string{".js", ".jsx"}, "javascript"},
	{[]string{".md"}, "documentation"},
	{[]string{".json"}, "configuration"},
	{[]string{".yaml", ".yml"}, "configuration"},
}

// keywordHints maps keywords found in paths or content to domain categories
var keywordHints = []struct {
	keyword string
	domain  string
}{
	{"test", "testing"},
	{"spec", "testing"},
	{"auth", "authentication"},
	{"api", "api-design"},
	{"hook", "hooks"},
	{"agent", "agents"},
	{"skill", "skills"},
	{"ui", "user-interface"},
	{"component", "components"},
	{"model", "data-modeling"},
	{"schema", "data-modeling"},
	{"migrat", "migrations"},
	{"deploy", "deployment"},
	{"docker", "containerization"},
	{"ci", "ci-cd"},
	{"workflow", "automation"},
	{"websocket", "networking"},
	{"database", "databases"},
	{"query", "databases"},
}

// ExtractDomainHints derives category labels from a source identifier and
// a content sample. The result is never empty: "general" is the fallback.
func ExtractDomainHints(source, content string) []string {
	var hints []string
	seen := map[string]bool{}

	add := func(domain string) {
		if !seen[domain] {
			seen[domain] = true
			hints = append(hints, domain)
		}
	}

	sourceLower := strings.ToLower(source)

	for _, entry := range suffixHints {
		for _, suffix := range entry.suffixes {
			if strings.HasSuffix(sourceLower, suffix) {
				add(entry.domain)
			}
		}
	}

	// Keywords match on word prefixes ("test" hits "testing" but not
	// "latest"), scanning both the identifier and the content sample
	tokens := strings.FieldsFunc(sourceLower+" "+strings.ToLower(content), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, entry := range keywordHints {
		for _, token := range tokens {
			if strings.HasPrefix(token, entry.keyword) {
				add(entry.domain)
				break
			}
		}
	}

	if len(hints) == 0 {
		return []string{"general"}
	}
	return hints
}
