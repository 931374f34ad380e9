package share

import (
	"bytes"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/chroma-ai/chroma-web/preview"
	"github.com/chroma-ai/chroma-web/types"
)

func selectPNG(t *testing.T, r *Registry, clientID string) {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	in := types.FileInput{FileName: "a.png", FileType: "image/png", Size: int64(buf.Len()), Data: buf.Bytes()}
	if _, err := r.Get(clientID).SelectFile(in); err != nil {
		t.Fatal(err)
	}
}

func TestRegistryGetIsStable(t *testing.T) {
	r := NewRegistry(preview.NewStore(time.Minute), 50, time.Minute)
	a := r.Get("a")
	if r.Get("a") != a {
		t.Error("expected the same workspace for the same client")
	}
	if r.Get("b") == a {
		t.Error("clients must not share a workspace")
	}
	if _, ok := r.Lookup("c"); ok {
		t.Error("lookup must not create")
	}
	if r.Len() != 2 {
		t.Errorf("Expected 2 workspaces, got %d", r.Len())
	}
}

func TestSweepReleasesPreviews(t *testing.T) {
	store := preview.NewStore(time.Minute)
	r := NewRegistry(store, 50, time.Minute)
	selectPNG(t, r, "a")
	selectPNG(t, r, "b")

	if n := r.Sweep(time.Now()); n != 0 {
		t.Errorf("Expected nothing swept, got %d", n)
	}
	if n := r.Sweep(time.Now().Add(2 * time.Minute)); n != 2 {
		t.Errorf("Expected 2 swept, got %d", n)
	}
	if store.Len() != 0 || r.Len() != 0 {
		t.Errorf("Expected empty registry and store, got %d/%d", r.Len(), store.Len())
	}
}

func TestCloseTearsDownAll(t *testing.T) {
	store := preview.NewStore(time.Minute)
	r := NewRegistry(store, 50, time.Minute)
	selectPNG(t, r, "a")
	r.Close()
	r.Close()
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d", store.Len())
	}
}
