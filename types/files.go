package types

// PreviewRef is a temporary handle that lets a selected file be rendered before upload.
type PreviewRef struct {
	ID       string `json:"id"`
	URL      string `json:"url"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
}

// IsZero reports whether the reference points at nothing.
func (p PreviewRef) IsZero() bool {
	return p.ID == ""
}

// FileInput is an image the user picked or dropped, before validation.
type FileInput struct {
	FileName string
	FileType string // declared MIME type, may be empty
	Size     int64
	Data     []byte
}

// SelectedFile is an accepted FileInput plus its preview reference.
type SelectedFile struct {
	FileName string     `json:"fileName"`
	FileType string     `json:"fileType"`
	Size     int64      `json:"size"`
	Data     []byte     `json:"-"`
	Preview  PreviewRef `json:"preview"`
}
