package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"aicd-directory/pkg/services"
)

// StreamEvents holds one long-lived server-sent-events connection per
// viewer and forwards content-change events until the client goes away.
func (s *Server) StreamEvents(c *gin.Context) {
	id, ch := s.notifier.Subscribe()
	defer s.notifier.Unsubscribe(id)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache, no-transform")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no") // for nginx

	c.SSEvent("message", services.NewEvent("connected"))
	c.Writer.Flush()

	s.logger.Debug("viewer connected", zap.Uint64("subscriber", id))

	for {
		select {
		case ev, ok := <-ch:
			if !ok {
				// Swept as stale.
				return
			}
			c.SSEvent("message", ev)
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			s.logger.Debug("viewer disconnected", zap.Uint64("subscriber", id))
			return
		}
	}
}

// RefreshCache broadcasts a refresh signal to every open public-site tab.
func (s *Server) RefreshCache(c *gin.Context) {
	ev := services.NewEvent("cache-invalidated")
	s.notifier.Publish(ev)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "cache invalidated",
		"timestamp": ev.Timestamp,
		"updateId":  ev.UpdateID,
		"requestId": requestID(c),
	})
}
