package bot

import "context"

// greetingHandler answers plain salutations. It runs first so a
// greeting is never swallowed by stale pending state.
type greetingHandler struct {
	bot *Bot
}

func (h *greetingHandler) Handle(ctx context.Context, sess *session, msg Message) (bool, error) {
	if !isGreeting(msg.Body) {
		return false, nil
	}

	userName := "Usuário"
	if session, err := h.bot.backend.Session(ctx); err == nil && session.User.Name != "" {
		userName = session.User.Name
	}

	h.bot.send(ctx, msg.From, welcomeMessage(userName))
	return true, nil
}
