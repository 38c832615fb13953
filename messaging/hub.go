package messaging

import (
	"context"

	"github.com/yeremiapane/ronda-app/kds"
)

// HubPublisher pushes events to the websocket screens.
type HubPublisher struct {
	Hub *kds.Hub
}

func NewHubPublisher(hub *kds.Hub) *HubPublisher {
	if hub == nil {
		hub = kds.Default()
	}
	return &HubPublisher{Hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, evt Event) error {
	return p.Hub.Broadcast(kds.Message{Event: evt.Name, Data: evt.Data})
}
