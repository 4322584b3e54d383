package tasks

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stokerbuild/stoker/pkg/pipeline"
)

func TestWriteTaskManifest(t *testing.T) {
	dir := t.TempDir()

	err := writeTaskManifest(dir, []string{"clean", "delegate", "rebuild"})
	if err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	data, err := ioutil.ReadFile(filepath.Join(dir, "precompiled_tasks.go"))
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}

	text := string(data)
	if !strings.Contains(text, "package main") {
		t.Errorf("expected a main package file, got:\n%s", text)
	}

	for _, name := range []string{`"clean"`, `"delegate"`, `"rebuild"`} {
		if !strings.Contains(text, name) {
			t.Errorf("expected the manifest to list %s, got:\n%s", name, text)
		}
	}
}

func TestCopyArtifact(t *testing.T) {
	os.Setenv("CI", "true")
	defer os.Unsetenv("CI")

	dir := t.TempDir()
	src := filepath.Join(dir, "artifact")
	dest := filepath.Join(dir, "out", "artifact")

	err := ioutil.WriteFile(src, []byte("binary payload"), 0o644)
	if err != nil {
		t.Fatalf("failed to create source file: %v", err)
	}

	err = os.Mkdir(filepath.Dir(dest), 0o755)
	if err != nil {
		t.Fatalf("failed to create output dir: %v", err)
	}

	err = copyArtifact(src, dest)
	if err != nil {
		t.Fatalf("failed to copy artifact: %v", err)
	}

	data, err := ioutil.ReadFile(dest)
	if err != nil {
		t.Fatalf("failed to read copy: %v", err)
	}

	if string(data) != "binary payload" {
		t.Errorf("copy differs from the source: %q", data)
	}
}

func TestCopyArtifactMissingSource(t *testing.T) {
	os.Setenv("CI", "true")
	defer os.Unsetenv("CI")

	dir := t.TempDir()

	err := copyArtifact(filepath.Join(dir, "absent"), filepath.Join(dir, "out"))
	if err == nil {
		t.Fatal("expected an error for a missing source file")
	}

	var ioFailure *pipeline.IOFailure
	if !errors.As(err, &ioFailure) {
		t.Fatalf("expected IOFailure, got %v", err)
	}
}

func TestRebuildRejectsExtraArguments(t *testing.T) {
	reg := Defaults()

	_, err := pipeline.Build(reg, []pipeline.Invocation{
		{Name: "rebuild", Args: []string{"out", "extra"}},
	})
	if err == nil {
		t.Fatal("expected an invocation error")
	}

	var invErr *pipeline.InvocationError
	if !errors.As(err, &invErr) {
		t.Fatalf("expected InvocationError, got %v", err)
	}
}
