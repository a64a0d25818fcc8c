package style_test

import (
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"

	"github.com/arthur-debert/relink/pkg/style"
)

func init() {
	// Deterministic output for assertions
	pterm.DisableColor()
}

func TestRenderPathLine(t *testing.T) {
	line := style.RenderPathLine(style.StatusOK, "gitconfig", "linked to /repo/git/gitconfig")
	assert.Equal(t, "OK      gitconfig        linked to /repo/git/gitconfig", line)
}

func TestRenderPathLineNoDetail(t *testing.T) {
	line := style.RenderPathLine(style.StatusInfo, "gnupg", "")
	assert.Equal(t, "INFO    gnupg", line)
}

func TestRenderSummaryIdempotent(t *testing.T) {
	out := style.RenderSummary(true, 0, "")
	assert.Contains(t, out, "nothing to do")
	assert.NotContains(t, out, "Backups:")
}

func TestRenderSummaryWithBackups(t *testing.T) {
	out := style.RenderSummary(true, 3, "/data/backups/20240315-103000")
	assert.Contains(t, out, "Reconciled 3 path(s)")
	assert.Contains(t, out, "Backups: /data/backups/20240315-103000")
}

func TestRenderSummaryFailure(t *testing.T) {
	out := style.RenderSummary(false, 1, "/data/backups/x")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "Backups: /data/backups/x")
}
