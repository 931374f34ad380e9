// Package preview keeps the bytes of selected images so they can be rendered before upload.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	ttlworker "github.com/FloatTech/ttl"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"

	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/types"
)

const (
	DefaultTTL = 60 * time.Minute
	URLPrefix  = "/preview/"
)

var ErrNotFound = errors.New("preview not found")

// Entry is one held preview.
type Entry struct {
	Ref       types.PreviewRef
	Data      []byte
	CreatedAt time.Time
}

// Store is a TTL-backed set of preview references. Entries leave it on Release or expiry.
type Store struct {
	mu      sync.Mutex
	entries *ttlworker.Cache[string, *Entry]

	// ids mirrors the cache keys; counting through Range would renew every entry.
	idsMu sync.Mutex
	ids   map[string]struct{}
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{ids: make(map[string]struct{})}
	s.entries = ttlworker.NewCacheOn(ttl, [4]func(string, *Entry){
		func(id string, _ *Entry) {
			s.idsMu.Lock()
			s.ids[id] = struct{}{}
			s.idsMu.Unlock()
		},
		nil,
		func(id string, _ *Entry) {
			s.idsMu.Lock()
			delete(s.ids, id)
			s.idsMu.Unlock()
		},
		nil,
	})
	return s
}

// Acquire stores data and returns a reference to it. An empty mimeType is sniffed.
func (s *Store) Acquire(data []byte, mimeType string) (types.PreviewRef, error) {
	if len(data) == 0 {
		return types.PreviewRef{}, fmt.Errorf("acquire preview: empty data")
	}
	if mimeType == "" {
		mimeType = mimetype.Detect(data).String()
	}
	id := tool.GenerateToken()
	ref := types.PreviewRef{
		ID:       id,
		URL:      URLPrefix + id,
		MimeType: mimeType,
		Size:     int64(len(data)),
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Set(id, &Entry{Ref: ref, Data: data, CreatedAt: time.Now()})
	tool.DefaultLogger.Debugf("[Preview] acquired %s (%d bytes)", id, ref.Size)
	return ref, nil
}

// Release drops the entry behind ref. Releasing an unknown or zero ref is a no-op.
func (s *Store) Release(ref types.PreviewRef) bool {
	if ref.IsZero() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.entries.Get(ref.ID) == nil {
		return false
	}
	s.entries.Delete(ref.ID)
	tool.DefaultLogger.Debugf("[Preview] released %s", ref.ID)
	return true
}

func (s *Store) Get(id string) (*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.entries.Get(id)
	if e == nil {
		return nil, ErrNotFound
	}
	return e, nil
}

// Refresh renews the expiry of ref. It reports false when ref is no longer held.
func (s *Store) Refresh(ref types.PreviewRef) bool {
	if ref.IsZero() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries.Get(ref.ID) != nil
}

// Len counts the held entries, including expired ones the collector has not reached yet.
// It does not renew them.
func (s *Store) Len() int {
	s.idsMu.Lock()
	defer s.idsMu.Unlock()
	return len(s.ids)
}

// Thumbnail renders the preview to fit within maxDim x maxDim. Images that cannot be
// decoded are returned as stored.
func (s *Store) Thumbnail(id string, maxDim int) ([]byte, string, error) {
	e, err := s.Get(id)
	if err != nil {
		return nil, "", err
	}
	if maxDim <= 0 {
		return e.Data, e.Ref.MimeType, nil
	}
	img, err := imaging.Decode(bytes.NewReader(e.Data), imaging.AutoOrientation(true))
	if err != nil {
		tool.DefaultLogger.Debugf("[Preview] %s not decodable, serving raw: %v", id, err)
		return e.Data, e.Ref.MimeType, nil
	}
	if fits(img, maxDim) {
		return e.Data, e.Ref.MimeType, nil
	}
	thumb := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	format, contentType := imaging.JPEG, "image/jpeg"
	if e.Ref.MimeType == "image/png" {
		format, contentType = imaging.PNG, "image/png"
	}
	if err := imaging.Encode(&buf, thumb, format); err != nil {
		return nil, "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), contentType, nil
}

func fits(img image.Image, maxDim int) bool {
	b := img.Bounds()
	return b.Dx() <= maxDim && b.Dy() <= maxDim
}
