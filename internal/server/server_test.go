package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu       sync.Mutex
	callback slack.InteractionCallback
	calls    int
}

func (h *recordingHandler) Handle(_ context.Context, cb slack.InteractionCallback) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.callback = cb
	h.calls++
	return nil
}

func (h *recordingHandler) wait(t *testing.T) slack.InteractionCallback {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.mu.Lock()
		if h.calls > 0 {
			cb := h.callback
			h.mu.Unlock()
			return cb
		}
		h.mu.Unlock()
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("interaction handler never invoked")
	return slack.InteractionCallback{}
}

func TestHealth(t *testing.T) {
	srv := New(":0", &recordingHandler{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestInteractionDispatch(t *testing.T) {
	handler := &recordingHandler{}
	srv := New(":0", handler, nil)

	payload, err := json.Marshal(slack.InteractionCallback{
		User: slack.User{ID: "U123"},
	})
	require.NoError(t, err)
	form := url.Values{"payload": {string(payload)}}

	req := httptest.NewRequest(http.MethodPost, "/slack/interactions", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "Slack is acked before processing")
	cb := handler.wait(t)
	assert.Equal(t, "U123", cb.User.ID)
}

func TestInteractionRejectsBadPayload(t *testing.T) {
	srv := New(":0", &recordingHandler{}, nil)
	req := httptest.NewRequest(http.MethodPost, "/slack/interactions", strings.NewReader("payload=not-json"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
