package registry

import (
	"testing"

	"github.com/drewdunne/oscar/internal/config"
)

func TestRegistry_Get(t *testing.T) {
	cfg := &config.Config{
		Providers: config.ProvidersConfig{
			Default: "github",
			GitLab:  config.GitLabConfig{Enabled: true},
		},
	}

	reg := New(cfg)

	gh := reg.Get("github")
	if gh == nil {
		t.Fatal("Get(github) returned nil")
	}
	if gh.Name() != "github" {
		t.Errorf("github provider name = %q, want %q", gh.Name(), "github")
	}

	gl := reg.Get("gitlab")
	if gl == nil {
		t.Fatal("Get(gitlab) returned nil")
	}
	if gl.Name() != "gitlab" {
		t.Errorf("gitlab provider name = %q, want %q", gl.Name(), "gitlab")
	}

	unknown := reg.Get("unknown")
	if unknown != nil {
		t.Error("Get(unknown) should return nil")
	}
}

func TestRegistry_GetDefault(t *testing.T) {
	cfg := &config.Config{
		Providers: config.ProvidersConfig{
			Default: "gitlab",
			GitLab:  config.GitLabConfig{Enabled: true},
		},
	}

	reg := New(cfg)

	p := reg.Get("")
	if p == nil || p.Name() != "gitlab" {
		t.Errorf("Get(\"\") = %v, want gitlab provider", p)
	}
}

func TestRegistry_List(t *testing.T) {
	cfg := &config.Config{
		Providers: config.ProvidersConfig{Default: "github"},
	}

	reg := New(cfg)
	names := reg.List()

	if len(names) != 1 {
		t.Fatalf("List() returned %d providers, want 1", len(names))
	}
	if names[0] != "github" {
		t.Errorf("List()[0] = %q, want %q", names[0], "github")
	}
}
