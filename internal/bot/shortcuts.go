package bot

import "context"

// shortcutsHandler answers cheap keyword requests (help, category
// list, session summary) without touching the classifier.
type shortcutsHandler struct {
	bot *Bot
}

func (h *shortcutsHandler) Handle(ctx context.Context, sess *session, msg Message) (bool, error) {
	switch {
	case matchesExact(msg.Body, helpKeywords):
		h.bot.send(ctx, msg.From, helpMessage())
		return true, nil

	case containsAny(msg.Body, categoryAddKeywords):
		h.bot.send(ctx, msg.From, categoryCreationMessage())
		return true, nil

	case containsAny(msg.Body, categoryListKeywords):
		return true, h.listCategories(ctx, msg)

	case matchesExact(msg.Body, summaryKeywords):
		return true, h.summarize(ctx, msg)
	}

	return false, nil
}

func (h *shortcutsHandler) listCategories(ctx context.Context, msg Message) error {
	session, err := h.bot.backend.Session(ctx)
	if err != nil {
		return err
	}
	if len(session.Categories) == 0 {
		h.bot.send(ctx, msg.From, noCategoriesMessage())
		return nil
	}
	h.bot.send(ctx, msg.From, listCategoriesMessage(session.Categories))
	return nil
}

func (h *shortcutsHandler) summarize(ctx context.Context, msg Message) error {
	summary := h.bot.ledger.Summary(msg.From)
	if summary.Count == 0 {
		h.bot.send(ctx, msg.From, emptySummaryMessage())
		return nil
	}

	h.bot.send(ctx, msg.From, summaryMessage(summary.TotalIncome, summary.TotalExpenses, summary.Count))

	png, err := h.bot.charts.ExpensePie(summary.ExpensesByCategory)
	if err != nil {
		h.bot.logger.Error("failed to render summary chart", "user", msg.From, "err", err)
		return nil
	}
	h.bot.sendPhoto(ctx, msg.From, png, "💸 Despesas por categoria")
	return nil
}
