package main

import (
	"testing"
)

func TestVersionInfo(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}
}

func TestNewCommand(t *testing.T) {
	cmd := newCommand()

	if cmd.Name != "relay-server" {
		t.Errorf("Expected command name relay-server, got %s", cmd.Name)
	}
	if cmd.Version != Version {
		t.Errorf("Expected version %s, got %s", Version, cmd.Version)
	}
	if cmd.Action == nil {
		t.Error("Command has no action")
	}

	want := []string{"port", "host", "allowed-origin", "debug", "ngrok", "ngrok-auth", "ngrok-domain"}
	have := make(map[string]bool)
	for _, f := range cmd.Flags {
		for _, name := range f.Names() {
			have[name] = true
		}
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("Missing flag %q", name)
		}
	}
}
