package backfill

import (
	"context"

	"github.com/muhammadchandra19/tickfeed/internal/usecase/session"
)

//go:generate mockgen -source=sessions.go -destination=mock/sessions_mock.go -package=mock

// Sessions runs the two feed requests. *session.Controller implements it.
type Sessions interface {
	RequestAll(ctx context.Context, state *session.State) (int, error)
	RequestOne(ctx context.Context, state *session.State, seq int32) error
}
