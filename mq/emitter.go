package mq

import (
	"context"
	"encoding/json"
	"log"

	"bazaar/models"
	"bazaar/rdx"
)

const eventChannel = "catalog-events"

// Emit publishes a catalog lifecycle event to the Redis event channel.
// Emission is fire-and-forget and detached from any request lifetime;
// a dead broker never fails the request that triggered the event.
func Emit(eventName string, content models.Index) {
	data, err := json.Marshal(struct {
		Event string `json:"event"`
		models.Index
	}{Event: eventName, Index: content})
	if err != nil {
		log.Printf("mq: marshal %s: %v", eventName, err)
		return
	}

	if err := rdx.Conn.Publish(context.Background(), eventChannel, data).Err(); err != nil {
		log.Printf("mq: publish %s: %v", eventName, err)
	}
}

// StartActivityWorker mirrors published events into a capped recent-
// activity list for the admin activity feed. Run it in its own
// goroutine; it returns when the subscription channel closes.
func StartActivityWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, eventChannel)
	ch := sub.Channel()

	log.Println("activity worker: listening for catalog events")

	for msg := range ch {
		if err := rdx.PushCapped(ActivityKey, msg.Payload, ActivitySize); err != nil {
			log.Printf("activity worker: record event: %v", err)
		}
	}
}

const (
	ActivityKey  = "activity:recent"
	ActivitySize = 100
)
