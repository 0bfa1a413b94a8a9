package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"voxpop/backend/internal/models"
	"voxpop/backend/internal/storage"
)

// StartPubSubListener subscribes to the redis event channel and feeds every
// decoded event into the hub's broadcast channel. Run it once per process.
func (h *Hub) StartPubSubListener(rdb *redis.Client) {
	go func() {
		ctx := context.Background()
		pubsub := rdb.Subscribe(ctx, storage.EventChannel)
		defer pubsub.Close()

		for msg := range pubsub.Channel() {
			var event models.PetitionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.WithError(err).Warn("undecodable event on pub/sub channel")
				continue
			}
			h.BroadcastCh <- event
		}
	}()
}
