package alert

import "nathanbeddoewebdev/actionrunner/internal/domain"

// DeployAlertFor synthesises the alert for a deploy stage and status.
//
//	stage      status    type     buildStatus  deployStatus
//	building   any       by status  status     pending
//	deploying  any       by status  complete   status
//	complete   any       by status  complete   status
func DeployAlertFor(stage domain.DeployStage, status domain.StatusCode, details domain.DeployDetails) domain.DeployAlert {
	alertType := domain.AlertInfo
	switch status {
	case domain.StatusFailed:
		alertType = domain.AlertError
	case domain.StatusComplete:
		alertType = domain.AlertSuccess
	}

	title := "Deployment Complete"
	switch stage {
	case domain.StageBuilding:
		title = "Building Application"
	case domain.StageDeploying:
		title = "Deploying Application"
	}

	building := stage == domain.StageBuilding
	noun, verb, infinitive := "Deployment", "Deploying", "deploy"
	if building {
		noun, verb, infinitive = "Build", "Building", "build"
	}

	var description string
	switch status {
	case domain.StatusFailed:
		description = noun + " failed"
	case domain.StatusRunning:
		description = verb + " your application..."
	case domain.StatusComplete:
		description = noun + " completed successfully"
	default:
		description = "Preparing to " + infinitive + " your application"
	}

	buildStatus := domain.StatusComplete
	deployStatus := status
	if building {
		buildStatus = status
		deployStatus = domain.StatusPending
	}

	source := details.Source
	if source == "" {
		source = domain.SourceNetlify
	}

	return domain.DeployAlert{
		Type:         alertType,
		Title:        title,
		Description:  description,
		Content:      details.Error,
		URL:          details.URL,
		Stage:        stage,
		BuildStatus:  buildStatus,
		DeployStatus: deployStatus,
		Source:       source,
	}
}
