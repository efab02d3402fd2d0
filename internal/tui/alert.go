package tui

import (
	"strconv"
	"strings"

	"nathanbeddoewebdev/actionrunner/internal/domain"
	"nathanbeddoewebdev/actionrunner/internal/tui/styles"
)

// maxContentLines caps the output shown inside an alert panel.
const maxContentLines = 20

// RenderActionAlert renders a command failure as a panel with the error
// header and the tail of the captured output.
func RenderActionAlert(a domain.ActionAlert) string {
	return panel(a.Type, a.Title, a.Description, a.Content)
}

// RenderDatabaseAlert renders a database action announcement with its SQL.
func RenderDatabaseAlert(a domain.DatabaseAlert) string {
	desc := a.Description
	if a.ProjectID != "" {
		desc += "\n" + styles.Label.Render("Project: ") + styles.Value.Render(a.ProjectID)
	}
	return panel(a.Type, a.Title, desc, a.Content)
}

// RenderDeployAlert renders build and deploy progress.
func RenderDeployAlert(a domain.DeployAlert) string {
	var b strings.Builder
	b.WriteString(a.Description)
	b.WriteString("\n")
	b.WriteString(styles.Label.Render("Build: "))
	b.WriteString(styles.StatusIndicator(a.BuildStatus))
	b.WriteString("  ")
	b.WriteString(styles.Label.Render("Deploy: "))
	b.WriteString(styles.StatusIndicator(a.DeployStatus))
	if a.URL != "" {
		b.WriteString("\n")
		b.WriteString(styles.Label.Render("URL: "))
		b.WriteString(styles.Value.Render(a.URL))
	}
	return panel(a.Type, a.Title, b.String(), a.Content)
}

func panel(t domain.AlertType, title, description, content string) string {
	var b strings.Builder
	b.WriteString(styles.AlertTitle(t).Render(title))
	if description != "" {
		b.WriteString("\n")
		b.WriteString(description)
	}
	if content = strings.TrimRight(content, "\n"); content != "" {
		b.WriteString("\n\n")
		b.WriteString(styles.MutedText.Render(tail(content, maxContentLines)))
	}
	return styles.AlertCard(t).Render(b.String())
}

// tail keeps the last n lines of s, noting how many were dropped.
func tail(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= n {
		return s
	}
	dropped := len(lines) - n
	return "… " + plural(dropped, "line") + " hidden\n" + strings.Join(lines[dropped:], "\n")
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
