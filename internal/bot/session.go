package bot

import (
	"context"
	"time"
)

// inboxSize bounds how many unprocessed messages one user may queue.
const inboxSize = 16

// session serializes all processing for one user. The worker goroutine
// consumes the inbox in order; a flow that needs the user's next reply
// reads it from the same inbox, so the reply is consumed and never
// re-enters the handler chain.
type session struct {
	userID string
	inbox  chan Message
}

func newSession(userID string) *session {
	return &session{
		userID: userID,
		inbox:  make(chan Message, inboxSize),
	}
}

func (s *session) run(ctx context.Context, b *Bot) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-s.inbox:
			b.process(ctx, s, msg)
		}
	}
}

// awaitReply blocks for the user's next message, up to timeout. The
// second return is false on timeout or cancellation; the flow then
// falls through as unresolved.
func (s *session) awaitReply(ctx context.Context, timeout time.Duration) (Message, bool) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return Message{}, false
	case <-timer.C:
		return Message{}, false
	case msg := <-s.inbox:
		return msg, true
	}
}
