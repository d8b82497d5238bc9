package services

import (
	"context"

	"github.com/retroclock/retroclock-backend/internal/clients/redis"
	"github.com/retroclock/retroclock-backend/internal/sse"
)

type SSEEmitter interface {
	Emit(ctx context.Context, msg sse.SSEMessage)
}

// HubEmitter delivers straight to the in-process hub; used when no redis bus
// is configured (single instance).
type HubEmitter struct{ Hub *sse.SSEHub }

func (e *HubEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {
	e.Hub.Broadcast(msg)
}

// RedisEmitter routes every message through the bus; the forwarder on each
// instance (this one included) delivers it to the local hub.
type RedisEmitter struct{ Bus redis.SSEBus }

func (e *RedisEmitter) Emit(ctx context.Context, msg sse.SSEMessage) {
	_ = e.Bus.Publish(ctx, msg)
}
