package intent

// BoostFactor is the distance reduction applied once per distinct
// occurrence of a skill across the working context and recent intents
const BoostFactor = 0.15

// Booster derives a per-skill distance reduction from the rolling session
// context. Boosts only ever increase relevance.
type Booster struct {
	table *Table
	ctx   *Context
}

// NewBooster creates a booster over the given pattern table and context
func NewBooster(table *Table, ctx *Context) *Booster {
	return &Booster{table: table, ctx: ctx}
}

// ObserveUserPrompt parses a user prompt for implied skills and records
// them into the session context
func (b *Booster) ObserveUserPrompt(prompt string) error {
	detections := b.table.ExtractSkills(prompt)
	if len(detections) == 0 {
		return nil
	}

	skills := make([]string, 0, len(detections))
	for _, d := range detections {
		skills = append(skills, d.Skill)
	}

	if err := b.ctx.AddIntent("User prompt", skills); err != nil {
		return err
	}

	preview := prompt
	if len(preview) > 100 {
		preview = preview[:100]
	}
	return b.ctx.AddWorkingContext("User request: " + preview)
}

// ObserveAssistantText records implied skills from assistant output, but
// only when the text declares an action intent. Detections without a
// declared intent are discarded to keep the history low-noise.
func (b *Booster) ObserveAssistantText(text string) error {
	if !HasActionIntent(text) {
		return nil
	}

	detections := b.table.ExtractSkills(text)
	if len(detections) == 0 {
		return nil
	}

	skills := make([]string, 0, len(detections))
	for _, d := range detections {
		skills = append(skills, d.Skill)
	}

	if err := b.ctx.AddIntent("Declared intent", skills); err != nil {
		return err
	}

	preview := text
	if len(preview) > 100 {
		preview = preview[:100]
	}
	return b.ctx.AddWorkingContext(preview)
}

// RecordLoadedSkills marks skills as injected into the current prompt so
// later queries can account for them
func (b *Booster) RecordLoadedSkills(names []string) error {
	return b.ctx.UpdateLoadedSkills(names)
}

// Boosts sums BoostFactor per distinct occurrence of a skill across all
// working-context entries and the skills of the last 3 recorded intents.
// Occurrences accumulate additively, uncapped.
func (b *Booster) Boosts() map[string]float64 {
	boosts := map[string]float64{}

	for _, entry := range b.ctx.WorkingContext() {
		for _, d := range b.table.ExtractSkills(entry.Text) {
			boosts[d.Skill] += BoostFactor
		}
	}

	for _, it := range b.ctx.RecentIntents(recentIntentCount) {
		for _, skill := range it.Skills {
			boosts[skill] += BoostFactor
		}
	}

	return boosts
}

// Apply reduces a distance by the given boost, never below zero
func Apply(distance, boost float64) float64 {
	boosted := distance - boost
	if boosted < 0 {
		return 0
	}
	return boosted
}
