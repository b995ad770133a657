package services

import (
	"encoding/json"

	"github.com/leafchain/leafchain-api/internal/models"
)

// Publisher receives engine events after a successful mint, listing or
// trade. Publish is called synchronously on the request path, so
// implementations must not block.
type Publisher interface {
	Publish(event models.MarketEvent)
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(event models.MarketEvent)

func (f PublisherFunc) Publish(event models.MarketEvent) { f(event) }

// NopPublisher discards all events.
var NopPublisher = PublisherFunc(func(models.MarketEvent) {})

// MultiPublisher fans one event out to several publishers in order.
func MultiPublisher(publishers ...Publisher) Publisher {
	return PublisherFunc(func(event models.MarketEvent) {
		for _, p := range publishers {
			p.Publish(event)
		}
	})
}

func marketEvent(eventType models.MarketEventType, nftID string, payload any) models.MarketEvent {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = nil
	}
	return models.MarketEvent{Type: eventType, NFTID: nftID, Payload: raw}
}
