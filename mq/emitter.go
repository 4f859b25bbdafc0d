package mq

import (
	"context"
	"encoding/json"
	"log"

	"digishop/models"
	"digishop/rdx"
)

const eventChannel = "storefront-events"

// Emit publishes storefront events to Redis. Failures are logged and
// never propagated; the originating request must not depend on them.
func Emit(ctx context.Context, eventName string, content models.Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	// Callers fire Emit in a goroutine; detach from the request lifetime
	// so an already-served request does not cancel the publish.
	if err := rdx.Conn.Publish(context.WithoutCancel(ctx), eventChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s: %v", eventName, err)
	}
}

// StartEventWorker drains the storefront event channel. Currently it only
// records the events; downstream consumers (search indexing, mail) hook
// in here.
func StartEventWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, eventChannel)
	ch := sub.Channel()

	log.Println("[EventWorker] Listening for storefront events...")

	for msg := range ch {
		var event models.Index
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[EventWorker] Failed to parse event: %v", err)
			continue
		}
		log.Printf("[EventWorker] %s %s %s", event.Method, event.EntityType, event.EntityId)
	}
}
