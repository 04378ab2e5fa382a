package session_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/harrier/pkg/session"
)

func TestGapsDeduplicateBySource(t *testing.T) {
	gaps := session.NewGaps(t.TempDir())

	recorded, err := gaps.Record("fileA.txt", "some content", "closest-skill", 0.15)
	gt.NoError(t, err)
	gt.True(t, recorded)

	recorded, err = gaps.Record("fileA.txt", "other content", "closest-skill", 0.18)
	gt.NoError(t, err)
	gt.False(t, recorded)

	gt.A(t, gaps.List()).Length(1)
	gt.Equal(t, gaps.List()[0].Source, "fileA.txt")
}

func TestGapsContentPreviewTruncated(t *testing.T) {
	gaps := session.NewGaps(t.TempDir())

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}

	_, err := gaps.Record("big.txt", string(long), "", 0)
	gt.NoError(t, err)

	records := gaps.List()
	gt.A(t, records).Length(1)
	gt.True(t, len(records[0].ContentPreview) <= 200)
}

func TestGapsSummarizeByDomain(t *testing.T) {
	gaps := session.NewGaps(t.TempDir())

	_, err := gaps.Record("config.yaml", "retries: 3", "", 0.1)
	gt.NoError(t, err)
	_, err = gaps.Record("handler_test.go", "func TestHandler", "", 0.12)
	gt.NoError(t, err)

	report := gaps.Summarize()
	gt.Equal(t, report.TotalGaps, 2)
	gt.A(t, report.ByDomain["configuration"]).Length(1)
	gt.A(t, report.ByDomain["testing"]).Length(1)
}

func TestGapsResetIdempotent(t *testing.T) {
	gaps := session.NewGaps(t.TempDir())

	_, err := gaps.Record("a.txt", "", "", 0)
	gt.NoError(t, err)
	gt.NoError(t, gaps.Reset())

	report := gaps.Summarize()
	gt.Equal(t, report.TotalGaps, 0)

	gt.NoError(t, gaps.Reset())
	gt.Equal(t, gaps.Summarize().TotalGaps, 0)
}

func TestGapsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "skill_gaps.json"), []byte("[broken"), 0o644))

	gaps := session.NewGaps(dir)
	gt.Equal(t, gaps.Summarize().TotalGaps, 0)

	recorded, err := gaps.Record("a.txt", "", "", 0)
	gt.NoError(t, err)
	gt.True(t, recorded)
	gt.Equal(t, gaps.Summarize().TotalGaps, 1)
}

func hasHint(hints []string, want string) bool {
	for _, h := range hints {
		if h == want {
			return true
		}
	}
	return false
}

func TestExtractDomainHints(t *testing.T) {
	hints := session.ExtractDomainHints("src/auth/login_test.py", "def test_login():")
	gt.True(t, hasHint(hints, "python"))
	gt.True(t, hasHint(hints, "testing"))
	gt.True(t, hasHint(hints, "authentication"))

	// No recognized suffix or keyword falls back to general
	hints = session.ExtractDomainHints("notes.txt", "what is the capital of France")
	gt.Equal(t, hints, []string{"general"})
}
