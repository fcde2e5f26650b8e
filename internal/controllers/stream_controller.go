package controllers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/incidentalert/backend/internal/logger"
	"github.com/incidentalert/backend/internal/models"
	"github.com/incidentalert/backend/internal/realtime"
	"gorm.io/gorm"
)

// StreamController exposes the hub's full-snapshot subscriptions over SSE.
// Every event carries the complete current collection; clients replace their
// local copy rather than patching it.
type StreamController struct {
	db  *gorm.DB
	hub *realtime.Hub
}

func NewStreamController(db *gorm.DB, hub *realtime.Hub) *StreamController {
	return &StreamController{db: db, hub: hub}
}

func (sc *StreamController) StreamIncidents(c *gin.Context) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	snapshots := make(chan interface{}, 8)
	unsubscribe := sc.hub.Subscribe(realtime.CollectionIncidents, func(snapshot interface{}) {
		select {
		case snapshots <- snapshot:
		default:
			// Slow client; it will catch up on the next publish since
			// every snapshot is complete.
		}
	})
	defer unsubscribe()

	// Initial snapshot so the client does not wait for the first change.
	var incidents []models.Incident
	if err := sc.db.Order("created_at desc").Find(&incidents).Error; err != nil {
		logger.WithError(err, "stream_controller").Error("Failed to load initial snapshot")
		c.Status(http.StatusInternalServerError)
		return
	}

	writeEvent(c, incidents)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case snapshot := <-snapshots:
			writeEvent(c, snapshot)
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func writeEvent(c *gin.Context, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.WithError(err, "stream_controller").Error("Failed to encode snapshot")
		return
	}
	c.Writer.WriteString("data: ")
	c.Writer.Write(data)
	c.Writer.WriteString("\n\n")
}
