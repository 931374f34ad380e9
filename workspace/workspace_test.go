package workspace

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/chroma-ai/chroma-web/intake"
	"github.com/chroma-ai/chroma-web/params"
	"github.com/chroma-ai/chroma-web/preview"
	"github.com/chroma-ai/chroma-web/transfer"
	"github.com/chroma-ai/chroma-web/types"
)

func pngInput(t *testing.T, name string) types.FileInput {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
	return types.FileInput{FileName: name, FileType: "image/png", Size: int64(buf.Len()), Data: buf.Bytes()}
}

func newWorkspace(t *testing.T) (*Workspace, *preview.Store) {
	t.Helper()
	store := preview.NewStore(time.Minute)
	return New("client-1", store, 50), store
}

type stubColorizer struct {
	res   *types.ColorizeResponse
	cerr  *types.ColorizeError
	calls int
	seen  *types.ColorizePayload
}

func (s *stubColorizer) Colorize(ctx context.Context, p *types.ColorizePayload) (*types.ColorizeResponse, *types.ColorizeError) {
	s.calls++
	s.seen = p
	return s.res, s.cerr
}

func TestSubmitWithoutFile(t *testing.T) {
	w, _ := newWorkspace(t)
	c := &stubColorizer{}
	if err := w.Submit(context.Background(), c); !errors.Is(err, ErrNoFile) {
		t.Fatalf("Expected ErrNoFile, got %v", err)
	}
	if c.calls != 0 {
		t.Error("no network call expected without a file")
	}
	if got := w.Snapshot().Error; got != MsgNoFile {
		t.Errorf("Expected %q, got %q", MsgNoFile, got)
	}
}

func TestRejectedFileLeavesIdle(t *testing.T) {
	w, store := newWorkspace(t)
	if _, err := w.SelectFile(pngInput(t, "a.png")); err != nil {
		t.Fatal(err)
	}
	_, err := w.SelectFile(types.FileInput{FileName: "a.bmp", FileType: "image/bmp", Size: 4, Data: []byte("BM..")})
	if err == nil {
		t.Fatal("expected rejection")
	}
	snap := w.Snapshot()
	if snap.State != "idle" || snap.HasFile || snap.IntakeError == "" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty preview store, got %d", store.Len())
	}
}

func TestSubmitSuccessSupersedesPreview(t *testing.T) {
	w, store := newWorkspace(t)
	sel, err := w.SelectFile(pngInput(t, "old.png"))
	if err != nil {
		t.Fatal(err)
	}
	if got := w.Snapshot().OriginalURL; got != sel.Preview.URL {
		t.Errorf("Expected preview url, got %q", got)
	}

	c := &stubColorizer{res: &types.ColorizeResponse{
		Message:           "done",
		OriginalImageUrl:  "/static/o.png",
		ColorizedImageUrl: "/static/c.jpg",
		Warning:           "low res",
	}}
	if err := w.Submit(context.Background(), c); err != nil {
		t.Fatal(err)
	}

	want := map[string]string{
		types.FieldModelChoice:       "standard",
		types.FieldDetailEnhancement: "0.25",
		types.FieldIntensity:         "1",
		types.FieldHueShift:          "0",
		types.FieldSaturationScale:   "1",
		types.FieldAutoColorCorrect:  "true",
	}
	if diff := cmp.Diff(want, c.seen.Fields); diff != "" {
		t.Errorf("payload fields mismatch (-want +got):\n%s", diff)
	}

	snap := w.Snapshot()
	if snap.State != "succeeded" || snap.ColorizedURL != "/static/c.jpg" || snap.OriginalURL != "/static/o.png" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.Warning != "low res" || snap.Error != "" {
		t.Errorf("unexpected warning/error %q %q", snap.Warning, snap.Error)
	}
	if store.Len() != 0 {
		t.Errorf("superseded preview must be released, store has %d", store.Len())
	}
}

func TestSubmitFailure(t *testing.T) {
	tests := []struct {
		name        string
		cerr        *types.ColorizeError
		wantError   string
		wantWarning string
	}{
		{"server error with warning", &types.ColorizeError{Reason: "Bad image", Warning: "w"}, "Bad image", "w"},
		{"empty server error", &types.ColorizeError{}, transfer.MsgUnknownError, ""},
		{"transport", &types.ColorizeError{Reason: transfer.MsgNoResponse}, transfer.MsgNoResponse, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newWorkspace(t)
			_, _ = w.SelectFile(pngInput(t, "a.png"))
			if err := w.Submit(context.Background(), &stubColorizer{cerr: tt.cerr}); err != nil {
				t.Fatal(err)
			}
			snap := w.Snapshot()
			if snap.State != "failed" || snap.Error != tt.wantError || snap.Warning != tt.wantWarning {
				t.Errorf("unexpected snapshot %+v", snap)
			}
			if !snap.HasFile {
				t.Error("failed submission keeps the file for a retry")
			}
		})
	}
}

func TestSecondSubmitRejected(t *testing.T) {
	w, _ := newWorkspace(t)
	_, _ = w.SelectFile(pngInput(t, "a.png"))
	t1, err := w.BeginSubmit()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.BeginSubmit(); !errors.Is(err, ErrSubmitInProgress) {
		t.Errorf("Expected ErrSubmitInProgress, got %v", err)
	}
	if _, err := w.SelectFile(pngInput(t, "b.png")); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy, got %v", err)
	}
	if !w.Snapshot().IsLoading {
		t.Error("expected loading while submitting")
	}
	if !w.CompleteSubmit(t1, &types.ColorizeResponse{ColorizedImageUrl: "/c.jpg"}, nil) {
		t.Error("expected completion to apply")
	}
}

func TestResetDuringSubmitDropsResult(t *testing.T) {
	w, store := newWorkspace(t)
	_, _ = w.SelectFile(pngInput(t, "a.png"))
	_ = w.SetParams(params.Parameters{ModelChoice: params.ModelArtistic, Intensity: 2})

	ticket, err := w.BeginSubmit()
	if err != nil {
		t.Fatal(err)
	}
	if err := w.ResetPage(); err != nil {
		t.Fatal(err)
	}
	if w.CompleteSubmit(ticket, &types.ColorizeResponse{ColorizedImageUrl: "/late.jpg"}, nil) {
		t.Error("completion after reset must be ignored")
	}

	snap := w.Snapshot()
	if snap.State != "idle" || snap.ColorizedURL != "" || snap.HasFile {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if diff := cmp.Diff(params.Defaults(), snap.Params); diff != "" {
		t.Errorf("params not reset (-want +got):\n%s", diff)
	}
	if store.Len() != 0 {
		t.Errorf("Expected empty store, got %d", store.Len())
	}
}

func TestNewFileAfterResultClearsIt(t *testing.T) {
	w, store := newWorkspace(t)
	_, _ = w.SelectFile(pngInput(t, "a.png"))
	_ = w.Submit(context.Background(), &stubColorizer{res: &types.ColorizeResponse{ColorizedImageUrl: "/c.jpg", Warning: "w"}})

	if _, err := w.SelectFile(pngInput(t, "b.png")); err != nil {
		t.Fatal(err)
	}
	snap := w.Snapshot()
	if snap.State != "file_selected" || snap.ColorizedURL != "" || snap.Warning != "" || snap.FileName != "b.png" {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if store.Len() != 1 {
		t.Errorf("Expected one live preview, got %d", store.Len())
	}
}

func TestRemoveAndClose(t *testing.T) {
	w, store := newWorkspace(t)
	_, _ = w.SelectFile(pngInput(t, "a.png"))
	if err := w.RemoveFile(); err != nil {
		t.Fatal(err)
	}
	if _, ok := w.State().(Idle); !ok || store.Len() != 0 {
		t.Error("remove should return to idle and release the preview")
	}

	_, _ = w.SelectFile(pngInput(t, "b.png"))
	w.Close()
	if store.Len() != 0 {
		t.Errorf("close must release the preview, store has %d", store.Len())
	}
	if _, err := w.SelectFile(pngInput(t, "c.png")); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

func TestResetParamsDuringSubmit(t *testing.T) {
	w, _ := newWorkspace(t)
	_, _ = w.SelectFile(pngInput(t, "a.png"))
	_, _ = w.BeginSubmit()
	if err := w.ResetParams(); !errors.Is(err, ErrBusy) {
		t.Errorf("Expected ErrBusy, got %v", err)
	}
}

func TestConcurrentSubmitOnlyOneWins(t *testing.T) {
	w, _ := newWorkspace(t)
	_, _ = w.SelectFile(pngInput(t, "a.png"))

	var wg sync.WaitGroup
	var mu sync.Mutex
	started := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := w.BeginSubmit(); err == nil {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if started != 1 {
		t.Errorf("Expected exactly one submission, got %d", started)
	}
}

func TestTouchKeepsPreviewAlive(t *testing.T) {
	store := preview.NewStore(400 * time.Millisecond)
	w := New("client-1", store, 50)
	sel, err := w.SelectFile(pngInput(t, "a.png"))
	if err != nil {
		t.Fatal(err)
	}
	time.Sleep(250 * time.Millisecond)
	w.Touch()
	time.Sleep(250 * time.Millisecond)
	if _, err := store.Get(sel.Preview.ID); err != nil {
		t.Errorf("Expected the preview of a used workspace to stay, got %v", err)
	}
}

func TestRejectFile(t *testing.T) {
	w, store := newWorkspace(t)
	if _, err := w.SelectFile(pngInput(t, "a.png")); err != nil {
		t.Fatal(err)
	}
	key := w.Snapshot().InputKey
	if err := w.RejectFile(intake.TooLarge(50)); err != nil {
		t.Fatal(err)
	}
	snap := w.Snapshot()
	if snap.State != "idle" || snap.HasFile || snap.IntakeError != "File is too large. Max size is 50MB." {
		t.Errorf("unexpected snapshot %+v", snap)
	}
	if snap.InputKey == key {
		t.Error("rejection should empty the file input")
	}
	if store.Len() != 0 {
		t.Errorf("Expected preview released, got %d", store.Len())
	}
}
