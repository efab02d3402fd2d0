package config

import (
	"strings"
	"testing"
)

func TestLookup_Exists(t *testing.T) {
	spec := Lookup("build-command")
	if spec == nil {
		t.Fatal("expected to find key 'build-command', got nil")
	}
	if spec.Name != "build-command" {
		t.Errorf("expected Name %q, got %q", "build-command", spec.Name)
	}
}

func TestLookup_CaseInsensitive(t *testing.T) {
	spec := Lookup("  WORKDIR ")
	if spec == nil {
		t.Fatal("expected case-insensitive lookup to succeed")
	}
	if spec.Name != "workdir" {
		t.Errorf("expected Name %q, got %q", "workdir", spec.Name)
	}
}

func TestLookup_NotFound(t *testing.T) {
	if spec := Lookup("nonexistent-key"); spec != nil {
		t.Errorf("expected nil for unknown key, got %+v", spec)
	}
}

func TestKeys_AllHaveGetAndSet(t *testing.T) {
	for _, k := range Keys {
		if k.Get == nil {
			t.Errorf("key %q has nil Get function", k.Name)
		}
		if k.Set == nil {
			t.Errorf("key %q has nil Set function", k.Name)
		}
		if k.Description == "" {
			t.Errorf("key %q has empty Description", k.Name)
		}
	}
}

func TestKeys_DefaultsPassValidation(t *testing.T) {
	for _, k := range Keys {
		if k.Default == "" || k.Validate == nil {
			continue
		}
		if err := k.Validate(k.Default); err != nil {
			t.Errorf("key %q: default %q rejected: %v", k.Name, k.Default, err)
		}
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		wantErr bool
		want    string
	}{
		{key: "workdir", value: "/srv/app", want: "/srv/app"},
		{key: "workdir", value: "relative/dir", wantErr: true},
		{key: "build-command", value: "pnpm run build", want: "pnpm run build"},
		{key: "build-command", value: "   ", wantErr: true},
		{key: "start-grace", value: "3s", want: "3s"},
		{key: "start-grace", value: "-1s", wantErr: true},
		{key: "start-grace", value: "later", wantErr: true},
		{key: "log-level", value: "DEBUG", want: "debug"},
		{key: "log-level", value: "verbose", wantErr: true},
		{key: "log-file", value: "/tmp/actionrunner.log", want: "/tmp/actionrunner.log"},
		{key: "database-path", value: "/tmp/p.db", want: "/tmp/p.db"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			spec := Lookup(tt.key)
			if spec == nil {
				t.Fatalf("key %q not registered", tt.key)
			}
			cfg := &Config{}
			err := spec.Apply(cfg, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.value)
				}
				if got := spec.Get(cfg); got != "" {
					t.Errorf("rejected value was applied: %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply() error = %v", err)
			}
			if got := spec.Get(cfg); got != tt.want {
				t.Errorf("Get() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKeyNames(t *testing.T) {
	names := KeyNames()
	if len(names) != len(Keys) {
		t.Fatalf("expected %d names, got %d", len(Keys), len(names))
	}
	for i, name := range names {
		if name != Keys[i].Name {
			t.Errorf("index %d: expected %q, got %q", i, Keys[i].Name, name)
		}
	}
}

func TestKeysHelp_ContainsAllKeys(t *testing.T) {
	help := KeysHelp()
	if !strings.Contains(help, "Available keys:") {
		t.Error("expected 'Available keys:' header in help output")
	}
	for _, k := range Keys {
		if !strings.Contains(help, k.Name) {
			t.Errorf("expected key %q in help output", k.Name)
		}
		if !strings.Contains(help, k.Description) {
			t.Errorf("expected description %q in help output", k.Description)
		}
	}
	if !strings.Contains(help, "(default npm run build)") {
		t.Error("expected build-command default in help output")
	}
}
