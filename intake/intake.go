// Package intake validates picked or dropped images and owns the preview of the current selection.
package intake

import (
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/chroma-ai/chroma-web/preview"
	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/types"
)

const DefaultMaxMB = 50

// AllowedTypes is the accept list of the file input.
var AllowedTypes = []string{"image/png", "image/jpeg", "image/jpg"}

// Rejection is a human readable reason a file was not accepted.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

// TooLarge is the rejection for a file over maxMB.
func TooLarge(maxMB int) *Rejection {
	return &Rejection{Reason: fmt.Sprintf("File is too large. Max size is %dMB.", maxMB)}
}

// Intake holds at most one selection. It is not safe for concurrent use; the owning
// workspace serializes access.
type Intake struct {
	store    *preview.Store
	maxMB    int
	selected *types.SelectedFile

	lastSignal int
	inputKey   int
}

func New(store *preview.Store, maxMB int) *Intake {
	if maxMB <= 0 {
		maxMB = DefaultMaxMB
	}
	return &Intake{store: store, maxMB: maxMB}
}

func (in *Intake) MaxMB() int {
	return in.maxMB
}

func (in *Intake) maxBytes() int64 {
	return int64(in.maxMB) * 1024 * 1024
}

// Select validates f. A rejection clears the prior selection; an acceptance replaces it,
// releasing the old preview first.
func (in *Intake) Select(f types.FileInput) (*types.SelectedFile, error) {
	fileType := ResolveType(f.FileType, f.Data)
	if !IsAllowed(fileType) {
		in.Remove()
		return nil, &Rejection{Reason: "Invalid file type. Please upload: " + strings.Join(AllowedTypes, ", ") + "."}
	}
	size := f.Size
	if size <= 0 {
		size = int64(len(f.Data))
	}
	if size > in.maxBytes() {
		in.Remove()
		return nil, TooLarge(in.maxMB)
	}

	in.release()
	ref, err := in.store.Acquire(f.Data, fileType)
	if err != nil {
		in.selected = nil
		return nil, fmt.Errorf("create preview for %s: %w", f.FileName, err)
	}
	in.selected = &types.SelectedFile{
		FileName: f.FileName,
		FileType: fileType,
		Size:     size,
		Data:     f.Data,
		Preview:  ref,
	}
	tool.DefaultLogger.Infof("[Intake] accepted %s (%s, %d bytes)", f.FileName, fileType, size)
	return in.selected, nil
}

// Remove clears the selection, releases its preview and empties the rendered input.
func (in *Intake) Remove() {
	in.release()
	in.selected = nil
	in.inputKey++
}

// ObserveReset runs Remove when signal has increased since the last observation.
func (in *Intake) ObserveReset(signal int) bool {
	if signal <= in.lastSignal {
		return false
	}
	in.lastSignal = signal
	in.Remove()
	return true
}

// ReleasePreview drops the preview while keeping the file bytes selected.
func (in *Intake) ReleasePreview() {
	in.release()
}

// KeepAlive pushes back the expiry of the held preview.
func (in *Intake) KeepAlive() {
	if in.selected == nil || in.selected.Preview.IsZero() {
		return
	}
	in.store.Refresh(in.selected.Preview)
}

func (in *Intake) Selected() *types.SelectedFile {
	return in.selected
}

// InputKey changes every time the file input has to be rendered empty.
func (in *Intake) InputKey() int {
	return in.inputKey
}

func (in *Intake) release() {
	if in.selected == nil || in.selected.Preview.IsZero() {
		return
	}
	in.store.Release(in.selected.Preview)
	in.selected.Preview = types.PreviewRef{}
}

// ResolveType returns the declared type, or the sniffed one when nothing useful was declared.
func ResolveType(declared string, data []byte) string {
	declared = strings.ToLower(strings.TrimSpace(declared))
	if i := strings.IndexByte(declared, ';'); i >= 0 {
		declared = strings.TrimSpace(declared[:i])
	}
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if len(data) == 0 {
		return declared
	}
	return mimetype.Detect(data).String()
}

func IsAllowed(fileType string) bool {
	for _, t := range AllowedTypes {
		if t == fileType {
			return true
		}
	}
	return false
}
