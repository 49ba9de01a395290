package bot

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahleite/plannito-bot/internal/model"
	"github.com/ahleite/plannito-bot/internal/store"
)

func seedPendingTransaction(t *testing.T, env *testEnv, userID string) *model.Draft {
	t.Helper()

	account := &model.BankAccount{ID: "a1", Name: "Corrente", Balance: decimal.NewFromInt(100)}
	if err := env.store.SetSelectedAccount(userID, account); err != nil {
		t.Fatal(err)
	}

	draft := &model.Draft{
		Amount:    decimal.NewFromInt(50),
		Category:  "Transporte",
		Kind:      model.KindExpense,
		AccountID: "a1",
		CreatedAt: time.Now(),
	}
	draft.GenerateID()

	pending := &model.Pending{
		Kind:      model.PendingTransaction,
		Draft:     draft,
		CreatedAt: time.Now(),
	}
	if err := env.store.SetPending(userID, pending); err != nil {
		t.Fatal(err)
	}
	return draft
}

func TestConfirmationSimSendsTwoMessagesAndClearsPending(t *testing.T) {
	env := newTestEnv(t)
	draft := seedPendingTransaction(t, env, "user1")

	env.handle(t, "user1", "sim")

	sent := env.transport.sent()
	if len(sent) != 2 {
		t.Fatalf("expected exactly two outbound messages, got %+v", sent)
	}
	if !strings.Contains(sent[0].text, "Dados enviados") {
		t.Fatalf("first message must acknowledge the intent, got %q", sent[0].text)
	}
	if !strings.Contains(sent[1].text, "concluída com sucesso") {
		t.Fatalf("second message must report persistence, got %q", sent[1].text)
	}

	if len(env.backend.recorded) != 1 || env.backend.recorded[0].ID != draft.ID {
		t.Fatalf("expected the draft to reach the backend, got %+v", env.backend.recorded)
	}

	state := env.store.Get("user1")
	if state.Pending != nil {
		t.Fatal("pending must be cleared after confirmation")
	}
	if got := state.SelectedAccount.Balance; !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected local balance 100-50=50, got %s", got)
	}
}

func TestConfirmationAcceptsShortAffirmative(t *testing.T) {
	env := newTestEnv(t)
	seedPendingTransaction(t, env, "user1")

	env.handle(t, "user1", "S")

	if len(env.backend.recorded) != 1 {
		t.Fatalf("\"S\" must confirm, recorded=%d", len(env.backend.recorded))
	}
}

func TestConfirmationNaoCancelsWithOneMessage(t *testing.T) {
	env := newTestEnv(t)
	seedPendingTransaction(t, env, "user1")

	env.handle(t, "user1", "não")

	sent := env.transport.sent()
	if len(sent) != 1 || !strings.Contains(sent[0].text, "cancelada") {
		t.Fatalf("expected a single cancellation message, got %+v", sent)
	}
	if len(env.backend.recorded) != 0 {
		t.Fatal("a canceled transaction must never reach the backend")
	}
	if env.store.Get("user1").Pending != nil {
		t.Fatal("pending must be cleared after cancellation")
	}
	if env.classifier.callCount() != 0 {
		t.Fatal("a pending answer must not reach the classifier")
	}
}

func TestConfirmationBackendFailureReportsAndClears(t *testing.T) {
	env := newTestEnv(t)
	seedPendingTransaction(t, env, "user1")
	env.backend.recordErr = errors.New("upstream down")

	env.handle(t, "user1", "sim")

	sent := env.transport.sent()
	if len(sent) != 2 {
		t.Fatalf("expected intent message plus failure message, got %+v", sent)
	}
	if !strings.Contains(sent[1].text, "erro ao salvar") {
		t.Fatalf("second message must report the failure, got %q", sent[1].text)
	}
	if env.store.Get("user1").Pending != nil {
		t.Fatal("pending must be cleared even when the backend write fails")
	}
	// The optimistic echo is not rolled back.
	if got := env.store.Get("user1").SelectedAccount.Balance; !got.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("expected the optimistic balance to stand, got %s", got)
	}
}

func TestConfirmationIncompleteDraftAborts(t *testing.T) {
	env := newTestEnv(t)
	account := &model.BankAccount{ID: "a1", Name: "Corrente", Balance: decimal.NewFromInt(100)}
	if err := env.store.SetSelectedAccount("user1", account); err != nil {
		t.Fatal(err)
	}
	if err := env.store.SetPending("user1", &model.Pending{
		Kind:      model.PendingTransaction,
		Draft:     &model.Draft{Amount: decimal.NewFromInt(50), AccountID: "a1"},
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatal(err)
	}

	env.handle(t, "user1", "sim")

	sent := env.transport.sent()
	if len(sent) != 1 || !strings.Contains(sent[0].text, "Dados incompletos") {
		t.Fatalf("expected only the incomplete-data message, got %+v", sent)
	}
	if len(env.backend.recorded) != 0 {
		t.Fatal("an incomplete draft must never reach the backend")
	}
	if env.store.Get("user1").Pending != nil {
		t.Fatal("pending must be cleared after the abort")
	}
}

func TestConfirmationDraftAccountMismatchAborts(t *testing.T) {
	env := newTestEnv(t)
	seedPendingTransaction(t, env, "user1")
	other := &model.BankAccount{ID: "a2", Name: "Poupança", Balance: decimal.NewFromInt(5)}
	if err := env.store.SetSelectedAccount("user1", other); err != nil {
		t.Fatal(err)
	}

	env.handle(t, "user1", "sim")

	if len(env.backend.recorded) != 0 {
		t.Fatal("a draft built for another account must not be recorded")
	}
	sent := env.transport.sent()
	if len(sent) != 1 || !strings.Contains(sent[0].text, "Dados incompletos") {
		t.Fatalf("expected the incomplete-data message, got %+v", sent)
	}
}

func TestExpiredPendingIsDiscardedAndMessageReevaluated(t *testing.T) {
	env := newTestEnv(t)
	env.bot.pendingTTL = time.Minute
	seedPendingTransaction(t, env, "user1")

	stale := env.store.Get("user1").Pending
	stale.CreatedAt = time.Now().Add(-2 * time.Minute)
	if err := env.store.SetPending("user1", stale); err != nil {
		t.Fatal(err)
	}

	// "sim" with an expired pending falls through to the classifier.
	env.handle(t, "user1", "sim")

	if len(env.backend.recorded) != 0 {
		t.Fatal("an expired confirmation must not record the transaction")
	}
	if env.classifier.callCount() != 1 {
		t.Fatalf("the message must be evaluated fresh, classifier calls=%d", env.classifier.callCount())
	}
}

// flakySaves wraps a store backend and fails exactly one Save when
// armed.
type flakySaves struct {
	store.Backend
	failNextSave bool
}

func (f *flakySaves) Save(userID string, state store.State) error {
	if f.failNextSave {
		f.failNextSave = false
		return errors.New("disk full")
	}
	return f.Backend.Save(userID, state)
}

func TestConfirmationStoreFailureStillClearsPending(t *testing.T) {
	env := newTestEnv(t)
	flaky := &flakySaves{Backend: store.NewMemoryBackend()}
	env.store = store.New(flaky)
	env.bot.store = env.store

	seedPendingTransaction(t, env, "user1")
	flaky.failNextSave = true

	env.handle(t, "user1", "sim")

	if len(env.backend.recorded) != 0 {
		t.Fatal("the transaction must not reach the backend when the balance write fails")
	}
	if env.store.Get("user1").Pending != nil {
		t.Fatal("pending must be cleared even when the balance write fails")
	}

	sent := env.transport.sent()
	last := sent[len(sent)-1]
	if !strings.Contains(last.text, "Ocorreu um erro") {
		t.Fatalf("expected the generic error reply, got %+v", sent)
	}
}

func TestCategorySuggestionAcceptedAndDeclined(t *testing.T) {
	for _, tc := range []struct {
		name  string
		reply string
		want  string
	}{
		{name: "accepted", reply: "sim", want: "Combinado"},
		{name: "declined", reply: "nao", want: "cancelada"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			account := &model.BankAccount{ID: "a1", Name: "Corrente"}
			if err := env.store.SetSelectedAccount("user1", account); err != nil {
				t.Fatal(err)
			}
			if err := env.store.SetPending("user1", &model.Pending{
				Kind:              model.PendingCategory,
				RawCategory:       "gasolina",
				SuggestedCategory: "Transporte",
				CreatedAt:         time.Now(),
			}); err != nil {
				t.Fatal(err)
			}

			env.handle(t, "user1", tc.reply)

			sent := env.transport.sent()
			if len(sent) != 1 || !strings.Contains(sent[0].text, tc.want) {
				t.Fatalf("expected message containing %q, got %+v", tc.want, sent)
			}
			if env.store.Get("user1").Pending != nil {
				t.Fatal("pending must be cleared either way")
			}
		})
	}
}
