package domain

// AlertType classifies an alert for display.
type AlertType string

const (
	AlertError   AlertType = "error"
	AlertInfo    AlertType = "info"
	AlertSuccess AlertType = "success"
)

// ActionAlert surfaces a command-execution failure. Description carries the
// error header and Content the full output, for a collapsible panel.
type ActionAlert struct {
	Type        AlertType
	Title       string
	Description string
	Content     string
	Source      Kind
}

// DatabaseAlert announces a database action. For queries, ActionID is the
// id an acknowledger must pass back to the runner.
type DatabaseAlert struct {
	Type        AlertType
	Title       string
	Description string
	Content     string
	Source      string
	ActionID    string
	Operation   DatabaseOperation
	ProjectID   string
}

// DeployStage is the phase a deploy alert refers to.
type DeployStage string

const (
	StageBuilding  DeployStage = "building"
	StageDeploying DeployStage = "deploying"
	StageComplete  DeployStage = "complete"
)

// DeploySource names the hosting target.
type DeploySource string

const (
	SourceNetlify DeploySource = "netlify"
	SourceVercel  DeploySource = "vercel"
	SourceGitHub  DeploySource = "github"
)

// DeployAlert reports build and deploy progress.
type DeployAlert struct {
	Type         AlertType
	Title        string
	Description  string
	Content      string
	URL          string
	Stage        DeployStage
	BuildStatus  StatusCode
	DeployStatus StatusCode
	Source       DeploySource
}

// DeployDetails is the optional payload of a deploy notification.
type DeployDetails struct {
	URL    string
	Error  string
	Source DeploySource
}
