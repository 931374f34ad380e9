package workspace

import "github.com/chroma-ai/chroma-web/types"

// State is one of Idle, FileSelected, Submitting, Succeeded or Failed.
type State interface {
	Name() string
	file() *types.SelectedFile
}

type Idle struct{}

type FileSelected struct {
	File *types.SelectedFile
}

// Submitting holds the file of the in-flight job and the generation it was started under.
type Submitting struct {
	File       *types.SelectedFile
	Generation uint64
}

type Succeeded struct {
	File         *types.SelectedFile
	Message      string
	ColorizedURL string
}

type Failed struct {
	File   *types.SelectedFile
	Reason string
}

func (Idle) Name() string         { return "idle" }
func (FileSelected) Name() string { return "file_selected" }
func (Submitting) Name() string   { return "submitting" }
func (Succeeded) Name() string    { return "succeeded" }
func (Failed) Name() string       { return "failed" }

func (Idle) file() *types.SelectedFile           { return nil }
func (s FileSelected) file() *types.SelectedFile { return s.File }
func (s Submitting) file() *types.SelectedFile   { return s.File }
func (s Succeeded) file() *types.SelectedFile    { return s.File }
func (s Failed) file() *types.SelectedFile       { return s.File }
