// Package present turns workspace state into what the result area shows.
package present

import (
	"net/url"
	"path"
	"strings"
)

type Kind string

const (
	KindLoading Kind = "loading"
	KindError   Kind = "error"
	KindEmpty   Kind = "empty"
	KindResult  Kind = "result"
)

const (
	LoadingTitle = "Colorizing your image..."
	LoadingText  = "Please wait, this may take a few moments."
	ErrorTitle   = "Image Processing Failed"
	ErrorText    = "Could not display images due to an error. Please check the console for details or try again."
	EmptyText    = "Upload an image and apply settings to see the results here."

	OriginalFallback  = "Could not load original image."
	ColorizedFallback = "Could not load colorized image."
)

type Input struct {
	IsLoading    bool
	IsError      bool
	OriginalURL  string
	ColorizedURL string
}

// Panel is one image card. Each panel degrades on its own when its image fails to load.
type Panel struct {
	Title        string
	URL          string
	Alt          string
	Fallback     string
	Width        int    // grid columns out of 12
	DownloadName string // colorized panel only
}

type View struct {
	Kind      Kind
	Original  *Panel
	Colorized *Panel
}

// Build is a pure function of in.
func Build(in Input) View {
	hasOriginal := in.OriginalURL != ""
	hasColorized := in.ColorizedURL != ""

	switch {
	case in.IsLoading:
		return View{Kind: KindLoading}
	case in.IsError && !hasOriginal && !hasColorized:
		return View{Kind: KindError}
	case !hasOriginal && !hasColorized && !in.IsError:
		return View{Kind: KindEmpty}
	}

	width := 12
	if hasOriginal && hasColorized {
		width = 6
	}
	v := View{Kind: KindResult}
	if hasOriginal {
		v.Original = &Panel{
			Title:    "Original Image",
			URL:      in.OriginalURL,
			Alt:      "Original",
			Fallback: OriginalFallback,
			Width:    width,
		}
	}
	if hasColorized {
		v.Colorized = &Panel{
			Title:        "Colorized Image",
			URL:          in.ColorizedURL,
			Alt:          "Colorized",
			Fallback:     ColorizedFallback,
			Width:        width,
			DownloadName: DownloadName(in.OriginalURL),
		}
	}
	return v
}

// DownloadName is colorized_<stem>.jpg where stem is the original file name up to its
// first dot, or "image".
func DownloadName(originalURL string) string {
	p := originalURL
	if u, err := url.Parse(originalURL); err == nil {
		p = u.Path
	}
	stem := ""
	if p != "" && !strings.HasSuffix(p, "/") {
		stem = path.Base(p)
	}
	if i := strings.IndexByte(stem, '.'); i >= 0 {
		stem = stem[:i]
	}
	if stem == "" || stem == "/" {
		stem = "image"
	}
	return "colorized_" + stem + ".jpg"
}
