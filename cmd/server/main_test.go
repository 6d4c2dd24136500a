package main

import (
	"errors"
	"testing"

	"github.com/iliyamo/codegate-events/internal/config"
)

func TestResolveCodeSecret(t *testing.T) {
	fixed := func(int) (string, error) { return "abc123", nil }
	broken := func(int) (string, error) { return "", errors.New("entropy exhausted") }

	got, generated, err := resolveCodeSecret(config.Config{CodeSecret: "configured"}, broken)
	if err != nil || got != "configured" || generated {
		t.Errorf("configured secret: got %q %v %v", got, generated, err)
	}

	got, generated, err = resolveCodeSecret(config.Config{Env: "development"}, fixed)
	if err != nil || got != "abc123" || !generated {
		t.Errorf("random secret: got %q %v %v", got, generated, err)
	}

	if _, _, err = resolveCodeSecret(config.Config{Env: "production"}, fixed); err == nil {
		t.Error("production without CODE_SECRET should fail")
	}

	if _, _, err = resolveCodeSecret(config.Config{Env: "development"}, broken); err == nil {
		t.Error("generator failure was swallowed")
	}
}
