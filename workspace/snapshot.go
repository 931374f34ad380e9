package workspace

import "github.com/chroma-ai/chroma-web/params"

// Snapshot is a consistent copy of everything the colorize page renders.
type Snapshot struct {
	State        string            `json:"state"`
	HasFile      bool              `json:"hasFile"`
	FileName     string            `json:"fileName,omitempty"`
	FileType     string            `json:"fileType,omitempty"`
	FileSize     int64             `json:"fileSize,omitempty"`
	Params       params.Parameters `json:"params"`
	IsLoading    bool              `json:"isLoading"`
	OriginalURL  string            `json:"originalImageUrl,omitempty"`
	ColorizedURL string            `json:"colorizedImageUrl,omitempty"`
	Message      string            `json:"message,omitempty"`
	Error        string            `json:"error,omitempty"`
	Warning      string            `json:"warning,omitempty"`
	IntakeError  string            `json:"intakeError,omitempty"`
	InputKey     int               `json:"inputKey"`
	MaxMB        int               `json:"maxMB"`
	Generation   uint64            `json:"generation"`
}

func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	snap := Snapshot{
		State:       w.state.Name(),
		Params:      w.params,
		OriginalURL: w.originalURL,
		Error:       w.notice,
		Warning:     w.warning,
		IntakeError: w.intakeError,
		InputKey:    w.intake.InputKey(),
		MaxMB:       w.intake.MaxMB(),
		Generation:  w.generation,
	}
	if f := w.state.file(); f != nil {
		snap.HasFile = true
		snap.FileName = f.FileName
		snap.FileType = f.FileType
		snap.FileSize = f.Size
	}
	switch s := w.state.(type) {
	case Submitting:
		snap.IsLoading = true
	case Succeeded:
		snap.ColorizedURL = s.ColorizedURL
		snap.Message = s.Message
	case Failed:
		snap.Error = s.Reason
	}
	return snap
}
