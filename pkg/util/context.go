package util

import (
	"context"

	"github.com/google/uuid"
)

type key string

const (
	sessionIDKey = key("x-session-id")
	feedAddrKey  = key("feed-addr")
)

// WithSessionID returns a context with a session id.
// It will generate a new session id if the provided id is empty.
func WithSessionID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = generate()
	}
	return context.WithValue(ctx, sessionIDKey, id)
}

// GetSessionID returns the session id from context
// will return empty string if not present
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey).(string)
	return id
}

// WithFeedAddr returns a context with the feed endpoint address.
func WithFeedAddr(ctx context.Context, addr string) context.Context {
	return context.WithValue(ctx, feedAddrKey, addr)
}

// GetFeedAddr returns the feed endpoint address from context
// will return empty string if not present
func GetFeedAddr(ctx context.Context) string {
	addr, _ := ctx.Value(feedAddrKey).(string)
	return addr
}

// Fields returns the key-value pairs this package has set into ctx.
func Fields(ctx context.Context) map[string]interface{} {
	fields := make(map[string]interface{})
	if id := GetSessionID(ctx); id != "" {
		fields["session_id"] = id
	}
	if addr := GetFeedAddr(ctx); addr != "" {
		fields["feed_addr"] = addr
	}
	return fields
}

// generate returns a uuid-v4 string to use as session id
func generate() string {
	return uuid.NewString()
}
