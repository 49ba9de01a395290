package bot

import (
	"context"
	"time"

	"github.com/ahleite/plannito-bot/internal/category"
	"github.com/ahleite/plannito-bot/internal/model"
	"github.com/ahleite/plannito-bot/internal/store"
)

func isAffirmative(body string) bool {
	folded := category.Fold(body)
	return folded == "sim" || folded == "s"
}

// pendingHandler resolves stored yes/no questions. It runs before the
// keyword shortcuts and the classifier so a "sim" is never misread as
// a new request. Every terminal outcome clears the pending record.
type pendingHandler struct {
	bot *Bot
}

func (h *pendingHandler) Handle(ctx context.Context, sess *session, msg Message) (bool, error) {
	state := h.bot.store.Get(msg.From)
	pending := state.Pending
	if pending == nil {
		return false, nil
	}

	if pending.Expired(h.bot.pendingTTL, time.Now()) {
		h.bot.logger.Info("discarding stale pending confirmation",
			"user", msg.From, "kind", string(pending.Kind), "created_at", pending.CreatedAt)
		if err := h.bot.store.SetPending(msg.From, nil); err != nil {
			return false, err
		}
		// The message is evaluated fresh by the rest of the chain.
		return false, nil
	}

	switch pending.Kind {
	case model.PendingCategory:
		return h.resolveCategory(ctx, msg, pending)
	case model.PendingTransaction:
		return h.resolveTransaction(ctx, msg, state, pending)
	default:
		return false, h.bot.store.SetPending(msg.From, nil)
	}
}

func (h *pendingHandler) resolveCategory(ctx context.Context, msg Message, pending *model.Pending) (bool, error) {
	if isAffirmative(msg.Body) {
		h.bot.send(ctx, msg.From, categoryAcknowledgedMessage(pending.SuggestedCategory))
	} else {
		h.bot.send(ctx, msg.From, canceledMessage())
	}
	return true, h.bot.store.SetPending(msg.From, nil)
}

func (h *pendingHandler) resolveTransaction(ctx context.Context, msg Message, state store.State, pending *model.Pending) (bool, error) {
	clear := func() error { return h.bot.store.SetPending(msg.From, nil) }

	if !isAffirmative(msg.Body) {
		h.bot.send(ctx, msg.From, canceledMessage())
		return true, clear()
	}

	draft := pending.Draft
	account := state.SelectedAccount
	if draft == nil || account == nil || draft.Category == "" || draft.Kind == "" ||
		!draft.Amount.IsPositive() || draft.AccountID != account.ID {
		h.bot.send(ctx, msg.From, incompleteDataMessage())
		return true, clear()
	}

	// First message: the intent was understood.
	h.bot.send(ctx, msg.From, transactionSentMessage(draft, account))

	// Optimistic echo of the write; informational only, and not rolled
	// back if the backend call fails below.
	updated := *account
	if draft.Kind == model.KindIncome {
		updated.Balance = updated.Balance.Add(draft.Amount)
	} else {
		updated.Balance = updated.Balance.Sub(draft.Amount)
	}
	if err := h.bot.store.SetSelectedAccount(msg.From, &updated); err != nil {
		// Still a terminal outcome: the pending record must not survive.
		if clearErr := clear(); clearErr != nil {
			h.bot.logger.Error("failed to clear pending confirmation", "user", msg.From, "err", clearErr)
		}
		return false, err
	}

	// Second message: the persistence result.
	if err := h.bot.backend.RecordTransaction(ctx, draft); err != nil {
		h.bot.logger.Warn("backend write failed after local balance update; local state is ahead",
			"user", msg.From, "draft_id", draft.ID, "err", err)
		h.bot.send(ctx, msg.From, transactionSaveFailedMessage())
		return true, clear()
	}

	h.bot.ledger.Record(msg.From, draft)
	h.bot.send(ctx, msg.From, transactionSavedMessage())
	return true, clear()
}
