package notify

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/chroma-ai/chroma-web/tool"
	"github.com/chroma-ai/chroma-web/types"
)

// MaxNotifyPayload caps a single websocket message.
const MaxNotifyPayload = 32 * 1024 // 32KB

var ErrNoHub = errors.New("notify hub not set")

var (
	hubMu     sync.RWMutex
	hub       types.NotifyHub
	UseNotify = true
)

// SetUseNotify sets whether to use notify
func SetUseNotify(use bool) {
	UseNotify = use
}

// SetHub installs the hub notifications are fanned out through.
func SetHub(h types.NotifyHub) {
	hubMu.Lock()
	defer hubMu.Unlock()
	hub = h
}

// SendNotification delivers notification to every open tab of clientID.
func SendNotification(clientID string, notification *types.Notification) error {
	if !UseNotify {
		return nil
	}
	if clientID == "" {
		return fmt.Errorf("notification without client id")
	}
	hubMu.RLock()
	h := hub
	hubMu.RUnlock()
	if h == nil {
		return ErrNoHub
	}

	payload, err := sonic.Marshal(notification)
	if err != nil {
		return fmt.Errorf("failed to serialize notification data: %v", err)
	}
	if len(payload) > MaxNotifyPayload {
		return fmt.Errorf("notification payload too large: %d bytes (max %d)", len(payload), MaxNotifyPayload)
	}

	h.Broadcast(clientID, notification)
	if notification != nil {
		tool.DefaultLogger.Debugf("[Notify] %s -> %s", notification.Type, clientID)
	}
	return nil
}

// SendAuthChanged tells the other tabs of clientID to re-read their auth state.
func SendAuthChanged(clientID string, loggedIn bool) error {
	return SendNotification(clientID, &types.Notification{
		Type:  types.NotifyTypeAuthChanged,
		Title: "Auth Changed",
		Data:  map[string]any{"loggedIn": loggedIn},
	})
}

// SendWorkspaceEvent publishes a colorize job transition.
func SendWorkspaceEvent(clientID, eventType, message string, data map[string]any) error {
	return SendNotification(clientID, &types.Notification{
		Type:    eventType,
		Message: message,
		Data:    data,
	})
}
