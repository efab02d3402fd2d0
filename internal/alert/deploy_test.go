package alert

import (
	"testing"

	"nathanbeddoewebdev/actionrunner/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func TestDeployAlertFor(t *testing.T) {
	tests := []struct {
		name    string
		stage   domain.DeployStage
		status  domain.StatusCode
		details domain.DeployDetails
		want    domain.DeployAlert
	}{
		{
			name:   "building running",
			stage:  domain.StageBuilding,
			status: domain.StatusRunning,
			want: domain.DeployAlert{
				Type:         domain.AlertInfo,
				Title:        "Building Application",
				Description:  "Building your application...",
				Stage:        domain.StageBuilding,
				BuildStatus:  domain.StatusRunning,
				DeployStatus: domain.StatusPending,
				Source:       domain.SourceNetlify,
			},
		},
		{
			name:    "building failed carries error",
			stage:   domain.StageBuilding,
			status:  domain.StatusFailed,
			details: domain.DeployDetails{Error: "exit 1"},
			want: domain.DeployAlert{
				Type:         domain.AlertError,
				Title:        "Building Application",
				Description:  "Build failed",
				Content:      "exit 1",
				Stage:        domain.StageBuilding,
				BuildStatus:  domain.StatusFailed,
				DeployStatus: domain.StatusPending,
				Source:       domain.SourceNetlify,
			},
		},
		{
			name:    "deploying pending",
			stage:   domain.StageDeploying,
			status:  domain.StatusPending,
			details: domain.DeployDetails{Source: domain.SourceVercel},
			want: domain.DeployAlert{
				Type:         domain.AlertInfo,
				Title:        "Deploying Application",
				Description:  "Preparing to deploy your application",
				Stage:        domain.StageDeploying,
				BuildStatus:  domain.StatusComplete,
				DeployStatus: domain.StatusPending,
				Source:       domain.SourceVercel,
			},
		},
		{
			name:    "complete with url",
			stage:   domain.StageComplete,
			status:  domain.StatusComplete,
			details: domain.DeployDetails{URL: "https://example.netlify.app"},
			want: domain.DeployAlert{
				Type:         domain.AlertSuccess,
				Title:        "Deployment Complete",
				Description:  "Deployment completed successfully",
				URL:          "https://example.netlify.app",
				Stage:        domain.StageComplete,
				BuildStatus:  domain.StatusComplete,
				DeployStatus: domain.StatusComplete,
				Source:       domain.SourceNetlify,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeployAlertFor(tt.stage, tt.status, tt.details)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("alert mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFuncs_NilCallbacksAreSafe(t *testing.T) {
	var f Funcs
	f.ActionAlert(domain.ActionAlert{})
	f.DatabaseAlert(domain.DatabaseAlert{})
	f.DeployAlert(domain.DeployAlert{})
	if f.HandlesDeploy() {
		t.Error("HandlesDeploy true without OnDeploy")
	}
}

func TestMulti_FansOut(t *testing.T) {
	var a, b Recorder
	m := Multi{&a, &b}

	m.ActionAlert(domain.ActionAlert{Title: "x"})

	if len(a.Actions()) != 1 || len(b.Actions()) != 1 {
		t.Errorf("got %d and %d alerts, want 1 each", len(a.Actions()), len(b.Actions()))
	}
}

func TestMulti_FansOutInOrder(t *testing.T) {
	var order []string
	m := Multi{
		Funcs{OnDatabase: func(domain.DatabaseAlert) { order = append(order, "print") }},
		Funcs{OnDatabase: func(domain.DatabaseAlert) { order = append(order, "ack") }},
	}

	m.DatabaseAlert(domain.DatabaseAlert{})

	if diff := cmp.Diff([]string{"print", "ack"}, order); diff != "" {
		t.Errorf("delivery order mismatch (-want +got):\n%s", diff)
	}
}

func TestMulti_HandlesDeploy(t *testing.T) {
	tests := []struct {
		name string
		m    Multi
		want bool
	}{
		{"empty", Multi{}, false},
		{"no deploy sinks", Multi{Funcs{}, Funcs{OnAction: func(domain.ActionAlert) {}}}, false},
		{"one deploy sink", Multi{Funcs{}, Funcs{OnDeploy: func(domain.DeployAlert) {}}}, true},
		{"unaware member", Multi{Funcs{}, &Recorder{}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.HandlesDeploy(); got != tt.want {
				t.Errorf("HandlesDeploy() = %v, want %v", got, tt.want)
			}
		})
	}
}
