package audit

import (
	"context"
	"encoding/json"

	"coachdesk/pkg/logger"

	goredis "github.com/redis/go-redis/v9"
)

const defaultChannel = "audit.messaging"

// RedisSink publishes audit events on a Redis pub/sub channel for the
// activity-log consumer. Publish failures are logged and dropped; audit
// must never fail a request.
type RedisSink struct {
	client  *goredis.Client
	channel string
	log     *logger.Logger
}

func NewRedisSink(client *goredis.Client, log *logger.Logger) *RedisSink {
	return &RedisSink{client: client, channel: defaultChannel, log: log}
}

func (s *RedisSink) Emit(ctx context.Context, event Event) {
	if event.Timestamp == 0 {
		event.Timestamp = Now()
	}
	data, err := json.Marshal(event)
	if err != nil {
		if s.log != nil {
			s.log.Warnf("audit: marshal %s failed: %v", event.Type, err)
		}
		return
	}
	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		if s.log != nil {
			s.log.Warnf("audit: publish %s failed: %v", event.Type, err)
		}
	}
}
