package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/ahleite/plannito-bot/internal/model"
)

// selectionStatus is the outcome of waiting for an account choice.
type selectionStatus int

const (
	selectionResolved selectionStatus = iota
	selectionTimedOut
	selectionFailed
)

type selectionResult struct {
	status  selectionStatus
	account *model.BankAccount
	err     error
}

// accountSelectionHandler makes sure a bank account is selected before
// any financial action proceeds. With exactly one account it selects
// silently and lets the message continue; with several it prompts and
// waits for a numbered reply on the session inbox.
type accountSelectionHandler struct {
	bot *Bot
}

func (h *accountSelectionHandler) Handle(ctx context.Context, sess *session, msg Message) (bool, error) {
	if h.bot.store.Get(msg.From).SelectedAccount != nil {
		return false, nil
	}

	accounts, err := h.bot.backend.ListAccounts(ctx)
	if err != nil {
		return false, err
	}

	switch len(accounts) {
	case 0:
		// Terminal: nothing to select, nothing further may run.
		h.bot.send(ctx, msg.From, noAccountsMessage())
		return true, nil

	case 1:
		account := accounts[0]
		if err := h.bot.store.SetSelectedAccount(msg.From, &account); err != nil {
			return false, err
		}
		h.bot.send(ctx, msg.From, accountAutoSelectedMessage(account.Name))
		// Bypass: the triggering message continues down the chain.
		return false, nil
	}

	h.bot.send(ctx, msg.From, accountListMessage(accounts))

	res := h.awaitChoice(ctx, sess, msg.From, accounts)
	switch res.status {
	case selectionResolved:
		h.bot.send(ctx, msg.From, accountSelectedMessage(res.account.Name))
		// The reply that selected the account was consumed off the
		// inbox; the original message now continues to the handler it
		// was meant for.
		return false, nil
	case selectionTimedOut:
		h.bot.logger.Info("account selection timed out", "user", msg.From)
		return true, nil
	default:
		return false, res.err
	}
}

// awaitChoice reads replies off the session inbox until one parses as
// a valid 1-based index, the timeout budget runs out, or the store
// write fails. Invalid replies re-prompt without resolving.
func (h *accountSelectionHandler) awaitChoice(ctx context.Context, sess *session, userID string, accounts []model.BankAccount) selectionResult {
	deadline := time.Now().Add(h.bot.replyTimeout)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return selectionResult{status: selectionTimedOut}
		}

		reply, ok := sess.awaitReply(ctx, remaining)
		if !ok {
			return selectionResult{status: selectionTimedOut}
		}

		index, err := strconv.Atoi(strings.TrimSpace(reply.Body))
		if err != nil || index < 1 || index > len(accounts) {
			h.bot.send(ctx, userID, accountListMessage(accounts))
			continue
		}

		account := accounts[index-1]
		if err := h.bot.store.SetSelectedAccount(userID, &account); err != nil {
			return selectionResult{status: selectionFailed, err: err}
		}
		return selectionResult{status: selectionResolved, account: &account}
	}
}
