package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"nathanbeddoewebdev/actionrunner/internal/domain"
)

func TestRenderActionAlert(t *testing.T) {
	out := ansi.Strip(RenderActionAlert(domain.ActionAlert{
		Type:        domain.AlertError,
		Title:       "Command Failed",
		Description: "Failed To Execute Shell Command",
		Content:     "npm ERR! missing script: dev\n",
		Source:      domain.KindShell,
	}))

	for _, want := range []string{"Command Failed", "Failed To Execute Shell Command", "missing script: dev"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered alert missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDatabaseAlert_ShowsProject(t *testing.T) {
	out := ansi.Strip(RenderDatabaseAlert(domain.DatabaseAlert{
		Type:        domain.AlertInfo,
		Title:       "Supabase Query",
		Description: "Execute database query",
		Content:     "SELECT 1;",
		ProjectID:   "proj-1",
	}))

	for _, want := range []string{"Supabase Query", "SELECT 1;", "proj-1"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered alert missing %q:\n%s", want, out)
		}
	}
}

func TestRenderDeployAlert(t *testing.T) {
	out := ansi.Strip(RenderDeployAlert(domain.DeployAlert{
		Type:         domain.AlertSuccess,
		Title:        "Deployment Complete",
		Description:  "Deployment completed successfully",
		URL:          "https://example.netlify.app",
		BuildStatus:  domain.StatusComplete,
		DeployStatus: domain.StatusComplete,
	}))

	for _, want := range []string{"Deployment Complete", "Build:", "complete", "https://example.netlify.app"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered alert missing %q:\n%s", want, out)
		}
	}
}

func TestTail(t *testing.T) {
	if got := tail("a\nb", 5); got != "a\nb" {
		t.Errorf("tail() = %q, want unchanged", got)
	}

	lines := make([]string, 25)
	for i := range lines {
		lines[i] = "line"
	}
	got := tail(strings.Join(lines, "\n"), 20)
	if !strings.HasPrefix(got, "… 5 lines hidden\n") {
		t.Errorf("tail() = %q, want hidden-lines marker", got)
	}
	if strings.Count(got, "\n") != 20 {
		t.Errorf("tail() kept %d newlines, want 20", strings.Count(got, "\n"))
	}
	if plural(1, "line") != "1 line" {
		t.Errorf("plural(1) = %q", plural(1, "line"))
	}
}
