package v1

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusfest/eventhub-api/internal/domain"
	"github.com/campusfest/eventhub-api/internal/notify"
)

func TestHandleRegistrationFeed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := notify.NewHub()
	go hub.Run(ctx)

	r := newTestRouter()
	h := NewFeedHandler(hub, nil)
	r.GET("/feed", asAdmin, h.HandleRegistrationFeed)
	r.GET("/anonymous", h.HandleRegistrationFeed)

	srv := httptest.NewServer(r)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/feed", nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, hub.PublishBookingCreated(ctx, domain.BookingCreated{BookingID: 8, EventTitle: "Quiz"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"eventTitle":"Quiz"`)

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"/anonymous", nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFeedHandler_CheckOrigin(t *testing.T) {
	h := NewFeedHandler(nil, []string{"https://admin.college.edu"})

	allowed := httptest.NewRequest(http.MethodGet, "/", nil)
	allowed.Header.Set("Origin", "https://admin.college.edu")
	assert.True(t, h.upgrader.CheckOrigin(allowed))

	denied := httptest.NewRequest(http.MethodGet, "/", nil)
	denied.Header.Set("Origin", "https://evil.example")
	assert.False(t, h.upgrader.CheckOrigin(denied))
}
