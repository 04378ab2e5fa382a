package intent

import (
	"os"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// Detection is one inferred skill category with its confidence
type Detection struct {
	Skill      string
	Confidence float64
}

// Table maps skill categories to the phrasings that imply them. The table
// is data: a host can replace it from YAML without touching the boost
// consumption contract.
type Table struct {
	entries []tableEntry
}

type tableEntry struct {
	category string
	patterns []*regexp.Regexp
}

// baseConfidence and perMatchStep define the saturating confidence curve:
// min(0.5 + 0.2 * distinct matches, 1.0)
const (
	baseConfidence = 0.5
	perMatchStep   = 0.2
	maxConfidence  = 1.0
)

var defaultPatterns = []struct {
	category string
	patterns []string
}{
	{
		category: "document-generation",
		patterns: []string{
			`(?i)\b(create|build|generate|write|make)\b.{0,40}\b(document|presentation|pdf|report|slide|spreadsheet)s?\b`,
			`(?i)\bexport\b.{0,30}\b(pdf|docx|pptx)\b`,
		},
	},
	{
		category: "web-scraping",
		patterns: []string{
			`(?i)\b(scrape|crawl|extract|fetch)\b.{0,40}\b(website|web ?page|html|url|site)s?\b`,
			`(?i)\bparse\b.{0,30}\bhtml\b`,
		},
	},
	{
		category: "database-queries",
		patterns: []string{
			`(?i)\b(query|select|aggregate|join)\b.{0,40}\b(database|table|sql|schema|records?)\b`,
			`(?i)\b(run|execute|write)\b.{0,30}\b(sql|query|queries)\b`,
		},
	},
	{
		category: "api-integration",
		patterns: []string{
			`(?i)\b(call|integrate|consume|wire up)\b.{0,40}\b(api|endpoint|rest|webhook)s?\b`,
			`(?i)\bhttp\b.{0,30}\b(request|client)s?\b`,
		},
	},
	{
		category: "websocket-testing",
		patterns: []string{
			`(?i)\b(test|debug|verify)\b.{0,40}\bwebsockets?\b`,
			`(?i)\bwebsockets?\b.{0,40}\b(handshake|connection|testing)s?\b`,
		},
	},
	{
		category: "file-processing",
		patterns: []string{
			`(?i)\b(parse|convert|transform|process)\b.{0,40}\b(csv|json|yaml|xml|file)s?\b`,
		},
	},
	{
		category: "testing",
		patterns: []string{
			`(?i)\b(write|add|fix|run)\b.{0,40}\b(tests?|test suite|unit tests?)\b`,
			`(?i)\btest coverage\b`,
		},
	},
	{
		category: "deployment",
		patterns: []string{
			`(?i)\b(deploy|release|ship|roll ?out)\b.{0,40}\b(service|app|application|container|environment)s?\b`,
			`(?i)\b(docker|kubernetes|terraform)\b`,
		},
	},
}

// actionIntentPatterns flag first-person declarative phrasings. Only
// declared intent is persisted into the working-context history.
var actionIntentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\s*i('ll| will)( now)?\s+\w+`),
	regexp.MustCompile(`(?i)^\s*let me\s+\w+`),
	regexp.MustCompile(`(?i)^\s*i('m| am) going to\s+\w+`),
	regexp.MustCompile(`(?i)^\s*now i('ll| will)?\s+\w+`),
	regexp.MustCompile(`(?i)^\s*next,? i('ll| will)\s+\w+`),
}

// DefaultTable returns the built-in category table
func DefaultTable() *Table {
	entries := make([]tableEntry, 0, len(defaultPatterns))
	for _, p := range defaultPatterns {
		entry := tableEntry{category: p.category}
		for _, expr := range p.patterns {
			entry.patterns = append(entry.patterns, regexp.MustCompile(expr))
		}
		entries = append(entries, entry)
	}
	return &Table{entries: entries}
}

// tableConfig is the YAML shape for pattern overrides
type tableConfig struct {
	Categories []struct {
		Category string   `yaml:"category"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"categories"`
}

// LoadTable reads a replacement pattern table from a YAML file
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read pattern table", goerr.V("path", path))
	}

	var cfg tableConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, goerr.Wrap(err, "failed to parse pattern table", goerr.V("path", path))
	}
	if len(cfg.Categories) == 0 {
		return nil, goerr.New("pattern table has no categories", goerr.V("path", path))
	}

	var entries []tableEntry
	for _, cat := range cfg.Categories {
		if cat.Category == "" {
			return nil, goerr.New("pattern table entry has no category")
		}
		entry := tableEntry{category: cat.Category}
		for _, expr := range cat.Patterns {
			re, err := regexp.Compile(expr)
			if err != nil {
				return nil, goerr.Wrap(err, "invalid pattern",
					goerr.V("category", cat.Category),
					goerr.V("pattern", expr))
			}
			entry.patterns = append(entry.patterns, re)
		}
		entries = append(entries, entry)
	}

	return &Table{entries: entries}, nil
}

// ExtractSkills matches text against the table and returns detected skill
// categories in table order. Confidence saturates at 1.0.
func (t *Table) ExtractSkills(text string) []Detection {
	if text == "" {
		return nil
	}

	var detections []Detection
	for _, entry := range t.entries {
		matched := 0
		for _, re := range entry.patterns {
			if re.MatchString(text) {
				matched++
			}
		}
		if matched == 0 {
			continue
		}

		confidence := baseConfidence + perMatchStep*float64(matched)
		if confidence > maxConfidence {
			confidence = maxConfidence
		}
		detections = append(detections, Detection{
			Skill:      entry.category,
			Confidence: confidence,
		})
	}

	return detections
}

// HasActionIntent reports whether the text declares an imminent action
// ("I will now build...", "Let me create...")
func HasActionIntent(text string) bool {
	for _, re := range actionIntentPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
