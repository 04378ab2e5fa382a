package intent_test

import (
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/harrier/pkg/intent"
)

func TestBoostsAccumulate(t *testing.T) {
	ctx := intent.NewContext(t.TempDir())
	booster := intent.NewBooster(intent.DefaultTable(), ctx)

	// Two working-context entries implying the same skill
	gt.NoError(t, ctx.AddWorkingContext("I need to scrape the vendor website for prices"))
	gt.NoError(t, ctx.AddWorkingContext("still need to extract data from the website listing"))

	boosts := booster.Boosts()
	gt.Equal(t, boosts["web-scraping"], 0.30)
}

func TestBoostsIncludeRecentIntentsOnly(t *testing.T) {
	ctx := intent.NewContext(t.TempDir())
	booster := intent.NewBooster(intent.DefaultTable(), ctx)

	// Four intents: only the last three contribute
	gt.NoError(t, ctx.AddIntent("old", []string{"document-generation"}))
	gt.NoError(t, ctx.AddIntent("a", []string{"database-queries"}))
	gt.NoError(t, ctx.AddIntent("b", []string{"database-queries"}))
	gt.NoError(t, ctx.AddIntent("c", []string{"testing"}))

	boosts := booster.Boosts()
	gt.Equal(t, boosts["database-queries"], 0.30)
	gt.Equal(t, boosts["testing"], 0.15)
	gt.Equal(t, boosts["document-generation"], 0.0)
}

func TestApplyNeverNegative(t *testing.T) {
	gt.Equal(t, intent.Apply(0.5, 0.15), 0.35)
	gt.Equal(t, intent.Apply(0.1, 0.45), 0.0)
	gt.Equal(t, intent.Apply(0.0, 0.15), 0.0)
}

func TestObserveUserPrompt(t *testing.T) {
	ctx := intent.NewContext(t.TempDir())
	booster := intent.NewBooster(intent.DefaultTable(), ctx)

	gt.NoError(t, booster.ObserveUserPrompt("can you generate a PDF report for the quarter"))

	intents := ctx.RecentIntents(3)
	gt.A(t, intents).Length(1)
	gt.Equal(t, intents[0].Skills, []string{"document-generation"})
	gt.A(t, ctx.WorkingContext()).Length(1)
	gt.S(t, ctx.WorkingContext()[0].Text).Contains("User request:")
}

func TestObserveAssistantTextGatedOnActionIntent(t *testing.T) {
	ctx := intent.NewContext(t.TempDir())
	booster := intent.NewBooster(intent.DefaultTable(), ctx)

	// No declared intent: detection is discarded
	gt.NoError(t, booster.ObserveAssistantText("the scraper extracts data from the website"))
	gt.A(t, ctx.RecentIntents(3)).Length(0)

	// Declared intent: detection persists
	gt.NoError(t, booster.ObserveAssistantText("I will now scrape the vendor website for the data"))
	gt.A(t, ctx.RecentIntents(3)).Length(1)
}

func TestContextRollingCaps(t *testing.T) {
	ctx := intent.NewContext(t.TempDir())

	for i := 0; i < 15; i++ {
		gt.NoError(t, ctx.AddWorkingContext(fmt.Sprintf("entry %d", i)))
	}
	entries := ctx.WorkingContext()
	gt.A(t, entries).Length(10)
	gt.Equal(t, entries[0].Text, "entry 5")
	gt.Equal(t, entries[9].Text, "entry 14")

	for i := 0; i < 25; i++ {
		gt.NoError(t, ctx.AddIntent(fmt.Sprintf("intent %d", i), nil))
	}
	gt.A(t, ctx.RecentIntents(25)).Length(20)

	for i := 0; i < 60; i++ {
		gt.NoError(t, ctx.AddToolUsage("Read", fmt.Sprintf("file%d.go", i)))
	}
}

func TestContextReset(t *testing.T) {
	ctx := intent.NewContext(t.TempDir())

	gt.NoError(t, ctx.AddWorkingContext("something"))
	gt.NoError(t, ctx.AddIntent("intent", []string{"testing"}))
	gt.NoError(t, ctx.Reset())

	gt.A(t, ctx.WorkingContext()).Length(0)
	gt.A(t, ctx.RecentIntents(3)).Length(0)
}
