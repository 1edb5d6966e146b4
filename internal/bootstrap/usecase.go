package bootstrap

import (
	"github.com/muhammadchandra19/tickfeed/internal/usecase/publisher"
	"github.com/muhammadchandra19/tickfeed/internal/usecase/session"
)

// Usecase holds the feed sessions and the sink fan out.
type Usecase struct {
	Sessions  *session.Controller
	Publisher *publisher.Publisher
}

func (b *Bootstrap) registerUsecase() {
	b.Usecase.Sessions = session.NewController(
		b.Infrastructure.Dialer,
		b.Logger,
		session.WithReadBufferSize(b.Config.Feed.ReadBufferSize),
	)
	b.Usecase.Publisher = publisher.NewPublisher(b.Logger, b.Infrastructure.Sinks...)
}
