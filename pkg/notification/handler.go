package notification

import (
	"io"
	"net/http"

	"github.com/delegasi/delegation-manager/internal/handler"
	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

// EventType is the type of server sent events streamed to subscribers.
const EventType = "event-status"

func NewHandler(broker *Broker) Handler {
	return Handler{broker: broker}
}

type Handler struct {
	broker *Broker
}

// Subscribe streams notifications about events the user sent or received
func (h Handler) Subscribe(c *gin.Context) {
	// swagger:route GET /notifications/subscribe subscribeNotifications
	//
	// Stream notifications
	//
	// Stream changes of events the user sent or received as server sent events
	//
	// produces:
	// - text/event-stream
	//
	// responses:
	//   200: Stream
	//   400: Error
	userId, ok := handler.GetQueryParameter(c, "userId")
	if !ok {
		return
	}

	id, messages := h.broker.Subscribe(userId)
	defer h.broker.Unsubscribe(userId, id)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Status(http.StatusOK)
	// send the headers right away so clients know the subscription is established
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-c.Request.Context().Done():
			return false
		case message, ok := <-messages:
			if !ok {
				return false
			}
			c.Render(-1, sse.Event{
				Event: EventType,
				Id:    message.CorrelationID,
				Data:  message,
			})
			return true
		}
	})
}
