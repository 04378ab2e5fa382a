package intent_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/harrier/pkg/intent"
)

func TestExtractSkills(t *testing.T) {
	table := intent.DefaultTable()

	detections := table.ExtractSkills("please generate a PDF report from these figures")
	gt.A(t, detections).Longer(0)
	gt.Equal(t, detections[0].Skill, "document-generation")
	gt.Equal(t, detections[0].Confidence, 0.7)
}

func TestExtractSkillsConfidenceSaturates(t *testing.T) {
	table := intent.DefaultTable()

	// Both document-generation phrasings match: 0.5 + 0.2*2 = 0.9
	text := "generate a PDF report and export pdf for the summary"
	detections := table.ExtractSkills(text)
	gt.A(t, detections).Longer(0)
	gt.Equal(t, detections[0].Skill, "document-generation")
	gt.Equal(t, detections[0].Confidence, 0.9)

	// Confidence never exceeds 1.0 regardless of match count
	for _, d := range detections {
		gt.True(t, d.Confidence <= 1.0)
		gt.True(t, d.Confidence > 0)
	}
}

func TestExtractSkillsNoMatch(t *testing.T) {
	table := intent.DefaultTable()

	gt.A(t, table.ExtractSkills("what is the capital of France")).Length(0)
	gt.A(t, table.ExtractSkills("")).Length(0)
}

func TestHasActionIntent(t *testing.T) {
	positives := []string{
		"I will now build the importer",
		"Let me create a test harness for this",
		"I'm going to refactor the session store",
		"Now I'll wire up the endpoint",
	}
	for _, text := range positives {
		gt.True(t, intent.HasActionIntent(text))
	}

	negatives := []string{
		"The importer builds the catalog",
		"You should create a test harness",
		"what is a websocket",
	}
	for _, text := range negatives {
		gt.False(t, intent.HasActionIntent(text))
	}
}

func TestLoadTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yml")
	config := `categories:
  - category: game-combat
    patterns:
      - '(?i)\b(implement|balance)\b.*\bcombat\b'
`
	gt.NoError(t, os.WriteFile(path, []byte(config), 0o644))

	table, err := intent.LoadTable(path)
	gt.NoError(t, err)

	detections := table.ExtractSkills("implement the combat resolution loop")
	gt.A(t, detections).Length(1)
	gt.Equal(t, detections[0].Skill, "game-combat")
}

func TestLoadTableInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patterns.yml")
	gt.NoError(t, os.WriteFile(path, []byte(`categories: []`), 0o644))

	_, err := intent.LoadTable(path)
	gt.Error(t, err)

	_, err = intent.LoadTable(filepath.Join(t.TempDir(), "missing.yml"))
	gt.Error(t, err)
}
