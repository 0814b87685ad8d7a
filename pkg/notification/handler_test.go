package notification

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/delegasi/delegation-manager/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_Subscribe(t *testing.T) {
	gin.SetMode(gin.TestMode)
	broker := NewBroker()
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	Routes(r, NewHandler(broker))
	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/notifications/subscribe?userId=3", nil)
	require.NoError(t, err)
	res, err := server.Client().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/event-stream", res.Header.Get("Content-Type"))

	require.Eventually(t, func() bool {
		return broker.Send(3, Message{EventID: 7, Action: "accept", Title: "Rapat"}) > 0
	}, 5*time.Second, 10*time.Millisecond)

	scanner := bufio.NewScanner(res.Body)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	stream := strings.Join(lines, "\n")
	assert.Contains(t, stream, "event:"+EventType)
	assert.Contains(t, stream, `"eventId":7`)
	assert.Contains(t, stream, `"action":"accept"`)
}

func TestHandler_Subscribe_InvalidUserId(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandler())
	Routes(r, NewHandler(NewBroker()))

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/notifications/subscribe?userId=abc", nil)
	require.NoError(t, err)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_Subscribe_EndsOnShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	broker := NewBroker()
	r := gin.New()
	Routes(r, NewHandler(broker))
	server := httptest.NewUnstartedServer(r)
	server.Config.RegisterOnShutdown(broker.Close)
	server.Start()
	t.Cleanup(server.Close)

	res, err := server.Client().Get(server.URL + "/notifications/subscribe?userId=3")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Eventually(t, func() bool {
		return len(broker.Subscribers()) == 1
	}, 5*time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Config.Shutdown(ctx), "shutdown must not wait for the stream to time out")

	_, err = io.ReadAll(res.Body)
	assert.NoError(t, err, "stream should end cleanly")
	assert.Empty(t, broker.Subscribers())
}
