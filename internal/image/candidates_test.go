package image

import (
	"testing"

	"github.com/devcontools/devcon/internal/config"
)

var testRegistry = config.RegistryConfig{
	Host:        "registry.lab.internal:5000",
	ReleaseRepo: "tools",
	DevRepo:     "tools-dev",
}

func TestCandidatesAliasDefaults(t *testing.T) {
	got, err := Candidates(Request{Alias: "qx"}, testRegistry)
	if err != nil {
		t.Fatalf("Candidates error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}

	if got[0].Ref != "registry.lab.internal:5000/tools/qx:latest" {
		t.Errorf("release candidate = %q", got[0].Ref)
	}
	if got[1].Ref != "registry.lab.internal:5000/tools-dev/qx:latest" {
		t.Errorf("dev candidate = %q", got[1].Ref)
	}
	for i, c := range got {
		if c.Host != testRegistry.Host {
			t.Errorf("candidate %d host = %q, want %q", i, c.Host, testRegistry.Host)
		}
	}
}

func TestCandidatesAliasVersion(t *testing.T) {
	got, err := Candidates(Request{Alias: "yocto_dunfell", Version: "2.1.0"}, testRegistry)
	if err != nil {
		t.Fatal(err)
	}

	if got[0].Ref != "registry.lab.internal:5000/tools/yocto_dunfell:2.1.0" {
		t.Errorf("release candidate = %q", got[0].Ref)
	}
}

func TestCandidatesExplicitPathWins(t *testing.T) {
	// --docker-path overrides --image entirely.
	got, err := Candidates(Request{
		Alias:        "qx",
		ExplicitPath: "registry.example.com/custom/env",
		Version:      "3.0",
	}, testRegistry)
	if err != nil {
		t.Fatal(err)
	}

	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].Ref != "registry.example.com/custom/env:3.0" {
		t.Errorf("Ref = %q", got[0].Ref)
	}
	if got[0].Host != "registry.example.com" {
		t.Errorf("Host = %q", got[0].Host)
	}
}

func TestCandidatesExplicitPathKeepsTag(t *testing.T) {
	got, err := Candidates(Request{
		ExplicitPath: "registry.example.com/custom/env:pinned",
		Version:      "9.9",
	}, testRegistry)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Ref != "registry.example.com/custom/env:pinned" {
		t.Errorf("Ref = %q, existing tag must not be replaced", got[0].Ref)
	}
}

func TestCandidatesExplicitLocalPath(t *testing.T) {
	// A bare name has no registry host component, so no login step.
	got, err := Candidates(Request{ExplicitPath: "mytools/env"}, testRegistry)
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Host != "" {
		t.Errorf("Host = %q, want empty for local reference", got[0].Host)
	}
	if got[0].Ref != "mytools/env:latest" {
		t.Errorf("Ref = %q", got[0].Ref)
	}
}

func TestCandidatesNoAliasNoPath(t *testing.T) {
	if _, err := Candidates(Request{}, testRegistry); err == nil {
		t.Error("expected error when neither alias nor path given")
	}
}
