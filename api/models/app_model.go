package models

import (
	"sync"

	"github.com/chroma-ai/chroma-web/api/notifyhub"
	"github.com/chroma-ai/chroma-web/auth"
	"github.com/chroma-ai/chroma-web/preview"
	"github.com/chroma-ai/chroma-web/share"
	"github.com/chroma-ai/chroma-web/workspace"
)

var (
	appMu       sync.RWMutex
	registry    *share.Registry
	previews    *preview.Store
	colorizer   workspace.Colorizer
	authService *auth.Service
	notifyHub   *notifyhub.Hub
	backendURL  string
	secure      bool
)

// SetWorkspaces installs the workspace registry and the preview store it allocates from.
func SetWorkspaces(r *share.Registry, store *preview.Store) {
	appMu.Lock()
	defer appMu.Unlock()
	registry = r
	previews = store
}

func GetRegistry() *share.Registry {
	appMu.RLock()
	defer appMu.RUnlock()
	return registry
}

func GetPreviewStore() *preview.Store {
	appMu.RLock()
	defer appMu.RUnlock()
	return previews
}

// SetColorizer sets the client submissions are sent through, and the backend it points at.
func SetColorizer(c workspace.Colorizer, base string) {
	appMu.Lock()
	defer appMu.Unlock()
	colorizer = c
	backendURL = base
}

func GetColorizer() workspace.Colorizer {
	appMu.RLock()
	defer appMu.RUnlock()
	return colorizer
}

func GetBackendURL() string {
	appMu.RLock()
	defer appMu.RUnlock()
	return backendURL
}

func SetAuthService(s *auth.Service) {
	appMu.Lock()
	defer appMu.Unlock()
	authService = s
}

func GetAuthService() *auth.Service {
	appMu.RLock()
	defer appMu.RUnlock()
	return authService
}

// SetNotifyHub sets the hub used for tab sync; nil disables /events.
func SetNotifyHub(h *notifyhub.Hub) {
	appMu.Lock()
	defer appMu.Unlock()
	notifyHub = h
}

func GetNotifyHub() *notifyhub.Hub {
	appMu.RLock()
	defer appMu.RUnlock()
	return notifyHub
}

// SetSecureCookies marks every cookie written by the app as Secure.
func SetSecureCookies(v bool) {
	appMu.Lock()
	defer appMu.Unlock()
	secure = v
}

func SecureCookies() bool {
	appMu.RLock()
	defer appMu.RUnlock()
	return secure
}
