package bot

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahleite/plannito-bot/internal/model"
)

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return ctx
}

func TestDispatchProcessesOneUserStrictlyInOrder(t *testing.T) {
	env := newTestEnv(t)
	env.classifier.echo = true
	withSelectedAccount(t, env, "user1")

	ctx := testContext(t)
	const burst = 8
	for i := 1; i <= burst; i++ {
		env.bot.Dispatch(ctx, Message{From: "user1", Body: fmt.Sprintf("mensagem %d", i)})
	}

	waitFor(t, func() bool { return len(env.transport.sent()) == burst }, "all replies")

	for i, msg := range env.transport.sent() {
		want := fmt.Sprintf("mensagem %d", i+1)
		if !strings.Contains(msg.text, want) {
			t.Fatalf("reply %d out of order: want %q in %q", i, want, msg.text)
		}
	}
}

func TestDispatchSelectionReplyWhileOtherUsersProceed(t *testing.T) {
	env := newTestEnv(t)
	env.backend.accounts = []model.BankAccount{
		{ID: "a1", Name: "Corrente", Balance: decimal.NewFromInt(100)},
		{ID: "a2", Name: "Poupança", Balance: decimal.NewFromInt(200)},
	}
	env.bot.replyTimeout = 2 * time.Second
	env.classifier.intent = expenseIntent(50, "uber")

	ctx := testContext(t)

	sentTo := func(userID, fragment string) func() bool {
		return func() bool {
			for _, msg := range env.transport.sent() {
				if msg.to == userID && strings.Contains(msg.text, fragment) {
					return true
				}
			}
			return false
		}
	}

	// user1's worker blocks waiting for the account choice.
	env.bot.Dispatch(ctx, Message{From: "user1", Body: "gastei 50 no uber"})
	waitFor(t, sentTo("user1", "Selecione uma Conta"), "the account prompt")

	// Another user is served while user1's selection is outstanding.
	env.bot.Dispatch(ctx, Message{From: "user2", Body: "oi"})
	waitFor(t, sentTo("user2", "Plannito"), "user2's welcome")

	// The reply flows through Dispatch into the waiting worker.
	env.bot.Dispatch(ctx, Message{From: "user1", Body: "2"})
	waitFor(t, func() bool {
		return env.store.Get("user1").Pending != nil
	}, "the confirmation prompt")

	state := env.store.Get("user1")
	if state.SelectedAccount == nil || state.SelectedAccount.ID != "a2" {
		t.Fatalf("reply \"2\" must select the second account, got %+v", state.SelectedAccount)
	}
	if state.Pending.Kind != model.PendingTransaction || state.Pending.Draft.Category != "Transporte" {
		t.Fatalf("the trigger message must continue to the transaction flow, got %+v", state.Pending)
	}
	waitFor(t, sentTo("user1", "Confirme a transação"), "the confirmation message")
}

func TestSendSuppressesBlankText(t *testing.T) {
	env := newTestEnv(t)

	env.bot.send(context.Background(), "user1", "   \n\t")
	if sent := env.transport.sent(); len(sent) != 0 {
		t.Fatalf("blank text must never reach the transport, got %+v", sent)
	}

	env.bot.send(context.Background(), "user1", "tudo certo")
	if sent := env.transport.sent(); len(sent) != 1 || sent[0].text != "tudo certo" {
		t.Fatalf("non-blank text must be delivered, got %+v", sent)
	}
}
