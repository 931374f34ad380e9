package cmd

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestColorizeCommand(t *testing.T) {
	var gotModel, gotIntensity string
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("ParseMultipartForm: %v", err)
			return
		}
		gotModel = r.FormValue("model_choice")
		gotIntensity = r.FormValue("intensity")
		_, _ = io.WriteString(w, `{"message":"done","originalImageUrl":"/static/uploads/photo.png","colorizedImageUrl":"/static/results/photo.jpg"}`)
	}))
	defer backend.Close()

	dir := t.TempDir()
	out, err := run(t, "colorize", writePNG(t, dir),
		"--config", filepath.Join(dir, "config.yaml"),
		"--backend", backend.URL,
		"--model", "artistic",
		"--intensity", "9")
	if err != nil {
		t.Fatalf("colorize: %v", err)
	}
	if gotModel != "artistic" {
		t.Errorf("Expected model artistic, got %q", gotModel)
	}
	if gotIntensity != "2" {
		t.Errorf("Expected intensity clamped to 2, got %q", gotIntensity)
	}
	if !strings.Contains(out, "colorized: "+backend.URL+"/static/results/photo.jpg") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestColorizeCommandRejectsType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, "colorize", path, "--config", filepath.Join(dir, "config.yaml"))
	if err == nil || !strings.Contains(err.Error(), "Invalid file type") {
		t.Errorf("Expected invalid file type error, got %v", err)
	}
}

func TestColorizeCommandBackendError(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"Image too dark","warning":"Try another photo"}`)
	}))
	defer backend.Close()

	dir := t.TempDir()
	out, err := run(t, "colorize", writePNG(t, dir),
		"--config", filepath.Join(dir, "config.yaml"),
		"--backend", backend.URL)
	if err == nil || err.Error() != "Image too dark" {
		t.Errorf("Expected backend error, got %v", err)
	}
	if !strings.Contains(out, "warning: Try another photo") {
		t.Errorf("Expected warning in output, got %q", out)
	}
}
