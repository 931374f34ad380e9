// Package workspace implements the upload, submit and result cycle of one browser.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chroma-ai/chroma-web/intake"
	"github.com/chroma-ai/chroma-web/params"
	"github.com/chroma-ai/chroma-web/preview"
	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/transfer"
	"github.com/chroma-ai/chroma-web/types"
)

const MsgNoFile = "Please select an image file first."

var (
	ErrSubmitInProgress = errors.New("a colorization is already in progress")
	ErrNoFile           = errors.New("no file selected")
	ErrBusy             = errors.New("workspace is busy")
	ErrClosed           = errors.New("workspace is closed")
)

// Colorizer runs one colorization job.
type Colorizer interface {
	Colorize(ctx context.Context, payload *types.ColorizePayload) (*types.ColorizeResponse, *types.ColorizeError)
}

// Ticket is handed out by BeginSubmit and must be passed back to CompleteSubmit.
type Ticket struct {
	Generation uint64
	Payload    *types.ColorizePayload
}

// Workspace is guarded by one mutex. The remote call runs between BeginSubmit and
// CompleteSubmit without holding it.
type Workspace struct {
	mu sync.Mutex

	id     string
	intake *intake.Intake
	params params.Parameters
	state  State

	originalURL string
	notice      string // local validation message
	intakeError string
	warning     string

	resetSignal int
	generation  uint64
	closed      bool
	lastUsed    time.Time
}

func New(id string, store *preview.Store, maxMB int) *Workspace {
	return &Workspace{
		id:       id,
		intake:   intake.New(store, maxMB),
		params:   params.Defaults(),
		state:    Idle{},
		lastUsed: time.Now(),
	}
}

func (w *Workspace) ID() string {
	return w.id
}

// SelectFile validates f and, when accepted, moves to FileSelected.
// A rejection leaves the workspace Idle with the reason in IntakeError.
func (w *Workspace) SelectFile(f types.FileInput) (*types.SelectedFile, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.usable(); err != nil {
		return nil, err
	}
	if _, ok := w.state.(Submitting); ok {
		return nil, ErrBusy
	}

	w.clearOutcome()
	sel, err := w.intake.Select(f)
	if err != nil {
		w.state = Idle{}
		w.originalURL = ""
		var rej *intake.Rejection
		if errors.As(err, &rej) {
			w.intakeError = rej.Reason
		}
		return nil, err
	}
	w.intakeError = ""
	w.originalURL = sel.Preview.URL
	w.state = FileSelected{File: sel}
	return sel, nil
}

// RejectFile records a file refused before it could reach the intake, such as an
// upload cut off at the body limit. The prior selection is cleared like any rejection.
func (w *Workspace) RejectFile(rej *intake.Rejection) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.usable(); err != nil {
		return err
	}
	if _, ok := w.state.(Submitting); ok {
		return ErrBusy
	}
	w.clearOutcome()
	w.intake.Remove()
	w.state = Idle{}
	w.originalURL = ""
	w.intakeError = rej.Reason
	return nil
}

// RemoveFile clears the selection and returns to Idle.
func (w *Workspace) RemoveFile() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.usable(); err != nil {
		return err
	}
	if _, ok := w.state.(Submitting); ok {
		return ErrBusy
	}
	w.intake.Remove()
	w.clearOutcome()
	w.intakeError = ""
	w.originalURL = ""
	w.state = Idle{}
	return nil
}

// SetParams replaces the parameters.
func (w *Workspace) SetParams(p params.Parameters) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.usable(); err != nil {
		return err
	}
	if _, ok := w.state.(Submitting); ok {
		return ErrBusy
	}
	w.params = p
	return nil
}

// ResetParams restores every parameter to its default at once.
func (w *Workspace) ResetParams() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.usable(); err != nil {
		return err
	}
	if _, ok := w.state.(Submitting); ok {
		return ErrBusy
	}
	w.params.Reset()
	return nil
}

func (w *Workspace) Params() params.Parameters {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.params
}

// BeginSubmit snapshots the payload and moves to Submitting.
func (w *Workspace) BeginSubmit() (Ticket, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.usable(); err != nil {
		return Ticket{}, err
	}

	var file *types.SelectedFile
	switch s := w.state.(type) {
	case Submitting:
		return Ticket{}, ErrSubmitInProgress
	case Idle:
		w.notice = MsgNoFile
		return Ticket{}, ErrNoFile
	case FileSelected, Succeeded, Failed:
		file = s.file()
	default:
		panic(fmt.Sprintf("workspace: unknown state %T", s))
	}
	if file == nil {
		w.notice = MsgNoFile
		return Ticket{}, ErrNoFile
	}

	w.clearOutcome()
	w.generation++
	w.state = Submitting{File: file, Generation: w.generation}
	ticket := Ticket{
		Generation: w.generation,
		Payload: &types.ColorizePayload{
			FileName: file.FileName,
			MimeType: file.FileType,
			Data:     file.Data,
			Fields:   w.params.Fields(),
		},
	}
	tool.DefaultLogger.Infof("[Workspace] %s submitting %s (generation %d)", w.id, file.FileName, w.generation)
	return ticket, nil
}

// CompleteSubmit applies the outcome of the job behind t. It reports false when the
// outcome was dropped because the workspace moved on.
func (w *Workspace) CompleteSubmit(t Ticket, res *types.ColorizeResponse, cerr *types.ColorizeError) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	s, ok := w.state.(Submitting)
	if w.closed || !ok || s.Generation != t.Generation || w.generation != t.Generation {
		tool.DefaultLogger.Debugf("[Workspace] %s dropping stale result for generation %d", w.id, t.Generation)
		return false
	}

	if cerr == nil && res != nil {
		w.warning = res.Warning
		if res.OriginalImageUrl != "" && res.OriginalImageUrl != w.originalURL {
			w.intake.ReleasePreview()
			w.originalURL = res.OriginalImageUrl
		}
		w.state = Succeeded{File: s.File, Message: res.Message, ColorizedURL: res.ColorizedImageUrl}
		return true
	}

	reason := transfer.MsgUnknownError
	if cerr != nil {
		if cerr.Reason != "" {
			reason = cerr.Reason
		}
		w.warning = cerr.Warning
	}
	w.state = Failed{File: s.File, Reason: reason}
	return true
}

// Submit runs BeginSubmit, the remote call and CompleteSubmit in one go.
func (w *Workspace) Submit(ctx context.Context, c Colorizer) error {
	t, err := w.BeginSubmit()
	if err != nil {
		return err
	}
	res, cerr := c.Colorize(ctx, t.Payload)
	w.CompleteSubmit(t, res, cerr)
	return nil
}

// ResetPage returns everything to the initial state. An in-flight job is not cancelled,
// its outcome is dropped.
func (w *Workspace) ResetPage() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.usable(); err != nil {
		return err
	}
	w.params.Reset()
	w.resetSignal++
	w.intake.ObserveReset(w.resetSignal)
	w.clearOutcome()
	w.intakeError = ""
	w.originalURL = ""
	w.generation++
	w.state = Idle{}
	return nil
}

// Close releases the preview. The workspace refuses further use.
func (w *Workspace) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.intake.Remove()
	w.generation++
	w.closed = true
	w.state = Idle{}
}

// Touch marks the workspace as used now and keeps its preview alive with it.
func (w *Workspace) Touch() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastUsed = time.Now()
	if !w.closed {
		w.intake.KeepAlive()
	}
}

func (w *Workspace) LastUsed() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastUsed
}

func (w *Workspace) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Workspace) usable() error {
	if w.closed {
		return ErrClosed
	}
	w.lastUsed = time.Now()
	return nil
}

func (w *Workspace) clearOutcome() {
	w.notice = ""
	w.warning = ""
}
