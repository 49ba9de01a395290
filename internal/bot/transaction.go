package bot

import (
	"context"
	"regexp"
	"time"

	"github.com/ahleite/plannito-bot/internal/category"
	"github.com/ahleite/plannito-bot/internal/classifier"
	"github.com/ahleite/plannito-bot/internal/model"
)

// vehiclePattern matches over folded text, so no accented variants.
var vehiclePattern = regexp.MustCompile(`gasolina|posto|combustivel|abastec|carro|moto`)

// incomeTitles force kind=income when the classifier guessed expense
// for an obviously income-side category.
var incomeTitles = map[string]bool{
	"salario":    true,
	"rendimento": true,
}

// transactionHandler is the chain's fallback: it asks the classifier
// for a structured intent and either starts a transaction
// confirmation, proposes a category, or relays a plain reply.
type transactionHandler struct {
	bot *Bot
}

func (h *transactionHandler) Handle(ctx context.Context, sess *session, msg Message) (bool, error) {
	session, err := h.bot.backend.Session(ctx)
	if err != nil {
		return false, err
	}

	intent, err := h.bot.classifier.Classify(ctx, msg.Body, session.Categories)
	if err != nil || intent.Kind == classifier.IntentError {
		if err != nil {
			h.bot.logger.Error("classifier failed", "user", msg.From, "err", err)
		}
		// Conversation state is deliberately untouched.
		h.bot.send(ctx, msg.From, cannotProcessResponse())
		return true, nil
	}

	if intent.Kind == classifier.IntentPlain {
		reply := plainReplyMessage(intent.Text)
		if reply == "" {
			reply = invalidMessageResponse()
		}
		h.bot.send(ctx, msg.From, reply)
		return true, nil
	}

	match := h.bot.resolver.Resolve(intent.Category, session.Categories)
	if match == nil {
		return true, h.suggestCategory(ctx, msg, intent, session.Categories)
	}

	kind := intent.TxKind
	if kind == "" {
		kind = model.KindExpense
	}
	if incomeTitles[category.Fold(match.Title)] && kind == model.KindExpense {
		kind = model.KindIncome
	}

	account := h.bot.store.Get(msg.From).SelectedAccount
	if account == nil {
		// Hard precondition: the selection handler runs earlier in the
		// chain, so this only happens when selection timed out.
		h.bot.send(ctx, msg.From, noAccountSelectedMessage())
		return true, nil
	}

	draft := &model.Draft{
		Amount:    intent.Amount,
		Category:  match.Title,
		Kind:      kind,
		AccountID: account.ID,
		CreatedAt: time.Now(),
	}
	draft.GenerateID()

	pending := &model.Pending{
		Kind:      model.PendingTransaction,
		Draft:     draft,
		CreatedAt: time.Now(),
	}
	if err := h.bot.store.SetPending(msg.From, pending); err != nil {
		return false, err
	}

	h.bot.send(ctx, msg.From, confirmTransactionMessage(draft, account))
	return true, nil
}

// suggestCategory proposes a fallback when the guess resolves to
// nothing: fuel/vehicle vocabulary maps to Transporte, everything else
// to Outros, and the user decides with sim/não.
func (h *transactionHandler) suggestCategory(ctx context.Context, msg Message, intent classifier.Intent, valid []model.Category) error {
	suggested := "Outros"
	if vehiclePattern.MatchString(category.Fold(intent.Category)) {
		suggested = "Transporte"
	}

	pending := &model.Pending{
		Kind:              model.PendingCategory,
		RawCategory:       intent.Category,
		SuggestedCategory: suggested,
		CreatedAt:         time.Now(),
	}
	if err := h.bot.store.SetPending(msg.From, pending); err != nil {
		return err
	}

	h.bot.send(ctx, msg.From, suggestCategoryMessage(intent.Category, suggested, valid))
	return nil
}
