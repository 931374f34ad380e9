package notifyhub

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/chroma-ai/chroma-web/types"
)

func TestBroadcastReachesOnlyClientTabs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hub := New()
	router := gin.New()
	router.GET("/events", HandleNotifyWS(hub, func(c *gin.Context) string { return c.Query("client") }))
	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/events?client="
	alice, _, err := websocket.DefaultDialer.Dial(wsURL+"alice", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer alice.Close()
	bob, _, err := websocket.DefaultDialer.Dial(wsURL+"bob", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer bob.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Count("alice") == 0 || hub.Count("bob") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("connections never registered")
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Broadcast("alice", &types.Notification{Type: types.NotifyTypeAuthChanged})

	_ = alice.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := alice.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got types.Notification
	if err := sonic.Unmarshal(msg, &got); err != nil {
		t.Fatal(err)
	}
	if got.Type != types.NotifyTypeAuthChanged {
		t.Errorf("Expected auth_changed, got %q", got.Type)
	}

	_ = bob.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	if _, _, err := bob.ReadMessage(); err == nil {
		t.Error("bob should not receive alice's notification")
	}
}

func TestHandleNotifyWSRequiresClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/events", HandleNotifyWS(New(), func(c *gin.Context) string { return "" }))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/events", nil))
	if w.Code != 400 {
		t.Errorf("Expected status code 400, got %d", w.Code)
	}
}
