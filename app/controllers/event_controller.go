package controllers

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/till/pkg/event"
	"github.com/shashiranjanraj/till/pkg/logger"
	"github.com/shashiranjanraj/till/pkg/response"
	"github.com/shashiranjanraj/till/pkg/sse"
)

type EventController struct {
	bus       *event.Bus
	heartbeat time.Duration
}

func NewEventController(bus *event.Bus) *EventController {
	return &EventController{bus: bus, heartbeat: 15 * time.Second}
}

// Stream pushes terminal events to the client until it disconnects.
func (c *EventController) Stream(w http.ResponseWriter, r *http.Request) {
	stream, err := sse.New(w, r)
	if err != nil {
		response.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	events, cancel := c.bus.Subscribe(32)
	defer cancel()

	ticker := time.NewTicker(c.heartbeat)
	defer ticker.Stop()

	log := logger.WithCtx(r.Context())
	for {
		select {
		case <-stream.Done():
			return
		case msg, open := <-events:
			if !open {
				return
			}
			if err := stream.Send(msg.Name, msg.Payload); err != nil {
				log.Debug("sse: client write failed", "error", err)
				return
			}
		case <-ticker.C:
			if err := stream.Comment("ping"); err != nil {
				return
			}
		}
	}
}
