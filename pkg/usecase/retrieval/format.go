package retrieval

import (
	"fmt"
	"sort"
	"strings"

	"github.com/m-mizutani/harrier/pkg/model"
)

const (
	suggestionDescLimit = 60
	catalogDescLimit    = 70
	reportPreviewLimit  = 80
)

func truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}

// FormatSuggestion renders the prompt-mode suggestion block shown to the
// user after a matching prompt
func FormatSuggestion(result *model.QueryResult, promptPreview string) string {
	if len(result.Surfaced) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n[SKILL SUGGESTIONS] Based on your request:\n")
	fmt.Fprintf(&b, "  %q\n\n", truncate(promptPreview, 60))

	for i, match := range result.Surfaced {
		fmt.Fprintf(&b, "  %d. %s (%d%% match)\n", i+1, match.Name, match.RelevancePct())
		if match.Description != "" {
			fmt.Fprintf(&b, "     %s\n", truncate(match.Description, suggestionDescLimit))
		}
		if match.Path != "" {
			fmt.Fprintf(&b, "     Path: %s\n", match.Path)
		}
	}

	b.WriteString("\n  Load: harrier show <skill_name>\n")
	b.WriteString("  Search: harrier search \"query\"\n")
	return b.String()
}

// FormatCatalog renders the file-mode catalog block emitted after a file
// read surfaces relevant skills
func FormatCatalog(result *model.QueryResult, filePath string) string {
	if len(result.Surfaced) == 0 {
		return ""
	}

	var b strings.Builder
	if len(result.Surfaced) == 1 {
		b.WriteString("\n[SKILL CATALOG] Relevant Resource Available\n")
	} else {
		fmt.Fprintf(&b, "\n[SKILL CATALOG] %d Relevant Resources Available\n", len(result.Surfaced))
	}
	fmt.Fprintf(&b, "\nAfter reading: %s\n\n", filePath)

	for i, match := range result.Surfaced {
		fmt.Fprintf(&b, "  %d. %s (%d%%)\n", i+1, match.Name, match.RelevancePct())
		if match.Description != "" {
			fmt.Fprintf(&b, "     %s\n", truncate(match.Description, catalogDescLimit))
		}
	}

	if len(result.Surfaced) == 1 {
		fmt.Fprintf(&b, "\n  Load: harrier show %q\n", result.Surfaced[0].Name)
	} else {
		b.WriteString("\n  Load: harrier show <skill_name>\n")
	}
	b.WriteString("  Search: harrier search \"your query\"\n")
	return b.String()
}

// FormatGapNotification renders the active gap notice emitted when no
// skill clears the relevance floor for a tracked source
func FormatGapNotification(result *model.QueryResult, source string, hints []string) string {
	best := result.BestMatch
	if best == "" {
		best = "none"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n[SKILL GAP] No relevant skills found (best match: %s @ %d%%)\n",
		best, result.BestRelevancePct())
	fmt.Fprintf(&b, "\nFor: %s\n", source)

	if len(hints) > 0 {
		shown := hints
		if len(shown) > 3 {
			shown = shown[:3]
		}
		fmt.Fprintf(&b, "Domain hints: %s\n", strings.Join(shown, ", "))
		fmt.Fprintf(&b, "\nConsider documenting: #SKILL_GAP: %s\n", hints[0])
	}
	b.WriteString("Or search: harrier search \"your specific need\"\n")
	return b.String()
}

// FormatEnrichment renders the agentic-mode markdown block injected into
// the prompt: an optional boost section, a compressed catalog of all
// matches, and the full documents of the auto-injected high-confidence
// skills. It returns the block and the names of the injected skills.
func FormatEnrichment(result *model.QueryResult, boosts map[string]float64) (string, []string) {
	if len(result.Matches) == 0 {
		return "", nil
	}

	var b strings.Builder

	if len(boosts) > 0 {
		type kv struct {
			name  string
			boost float64
		}
		sorted := make([]kv, 0, len(boosts))
		for name, boost := range boosts {
			sorted = append(sorted, kv{name, boost})
		}
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].boost != sorted[j].boost {
				return sorted[i].boost > sorted[j].boost
			}
			return sorted[i].name < sorted[j].name
		})

		b.WriteString("## Agentic Working Context\n")
		b.WriteString("Skills boosted based on recent activity:\n")
		for _, item := range sorted {
			fmt.Fprintf(&b, "  - %s (+%.0f%% relevance boost)\n", item.name, item.boost*100)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Available Skills and Tools (Top Matches)\n")
	b.WriteString("The following skills and tools are semantically relevant to your query:\n")
	for _, match := range result.Matches {
		fmt.Fprintf(&b, "  - %s (%s) [%d%%]: %s\n",
			match.Name, match.Type, match.RelevancePct(), truncate(match.Description, catalogDescLimit))
	}
	b.WriteString("\nUse the skill_load MCP tool or `harrier show <name>` to load any skill.\n")

	var injected []string
	for _, match := range result.Surfaceable {
		if len(injected) >= AutoInjectTopN {
			break
		}
		if match.Tier != model.TierHigh {
			continue
		}
		if len(injected) == 0 {
			b.WriteString("\n---\n")
			b.WriteString("## Auto-Loaded High-Confidence Skills\n")
			b.WriteString("The following skills are highly relevant (loaded automatically):\n\n")
		}
		fmt.Fprintf(&b, "### %s (%s) - %d%% match\n\n", match.Name, match.Type, match.RelevancePct())
		if match.Type == model.SkillTypeSkill && match.Document != "" {
			b.WriteString(match.Document)
			b.WriteString("\n\n---\n\n")
		} else {
			b.WriteString(match.Description)
			b.WriteString("\n\n")
		}
		injected = append(injected, match.Name)
	}

	return b.String(), injected
}

// FormatGapReport renders the end-of-session gap summary, grouped by
// domain with up to three entries per domain
func FormatGapReport(report *model.GapReport) string {
	if report == nil || report.TotalGaps == 0 {
		return ""
	}

	rule := strings.Repeat("=", 60)

	var b strings.Builder
	b.WriteString("\n" + rule + "\n")
	b.WriteString("SKILL GAP REPORT - Potential New Skills to Add\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Session: %s\n", report.SessionStart.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total gaps identified: %d\n\n", report.TotalGaps)
	b.WriteString("GAPS BY DOMAIN:\n")
	b.WriteString(strings.Repeat("-", 40) + "\n")

	domains := make([]string, 0, len(report.ByDomain))
	for domain := range report.ByDomain {
		domains = append(domains, domain)
	}
	sort.Strings(domains)

	for _, domain := range domains {
		gaps := report.ByDomain[domain]
		fmt.Fprintf(&b, "\n%s (%d gaps):\n", strings.ToUpper(domain), len(gaps))
		for i, gap := range gaps {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&b, "   - %s\n", gap.Source)
			best := gap.BestMatch
			if best == "" {
				best = "none"
			}
			fmt.Fprintf(&b, "     Closest skill: %s (%.0f%%)\n", best, gap.BestRelevance*100)
			if gap.ContentPreview != "" {
				preview := strings.ReplaceAll(gap.ContentPreview, "\n", " ")
				fmt.Fprintf(&b, "     Context: %q\n", truncate(preview, reportPreviewLimit))
			}
		}
	}

	b.WriteString("\n" + rule + "\n")
	return b.String()
}
