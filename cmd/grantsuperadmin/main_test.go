package main

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestExecute_MissingUID(t *testing.T) {
	var stderr bytes.Buffer
	if code := execute(nil, &stderr, zap.NewNop()); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "usage: grantsuperadmin -uid <uid>") {
		t.Errorf("expected usage, got %q", stderr.String())
	}
}

func TestExecute_UnknownFlag(t *testing.T) {
	var stderr bytes.Buffer
	if code := execute([]string{"-bogus"}, &stderr, zap.NewNop()); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestExecute_ConnectFailureReturnsError(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	var stderr bytes.Buffer
	code := execute([]string{"-uid", "u1", "-mongo-uri", "notmongo://localhost"}, &stderr, zap.New(core))
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if logs.FilterMessage("grant super admin failed").Len() != 1 {
		t.Error("expected the failure to be logged")
	}
}
