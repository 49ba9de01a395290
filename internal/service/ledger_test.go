package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahleite/plannito-bot/internal/model"
)

func draft(amount int64, category string, kind model.TransactionKind) *model.Draft {
	d := &model.Draft{
		Amount:    decimal.NewFromInt(amount),
		Category:  category,
		Kind:      kind,
		AccountID: "a1",
		CreatedAt: time.Now(),
	}
	d.GenerateID()
	return d
}

func TestSummaryEmptyUser(t *testing.T) {
	ledger := NewLedger()

	summary := ledger.Summary("nobody")
	if summary.Count != 0 {
		t.Fatalf("expected zero entries, got %d", summary.Count)
	}
	if !summary.TotalIncome.IsZero() || !summary.TotalExpenses.IsZero() {
		t.Fatalf("expected zero totals, got %+v", summary)
	}
}

func TestSummaryAggregatesByKindAndCategory(t *testing.T) {
	ledger := NewLedger()
	ledger.Record("user1", draft(50, "Transporte", model.KindExpense))
	ledger.Record("user1", draft(30, "Transporte", model.KindExpense))
	ledger.Record("user1", draft(120, "Alimentação", model.KindExpense))
	ledger.Record("user1", draft(1500, "Salário", model.KindIncome))
	ledger.Record("user2", draft(999, "Outros", model.KindExpense))

	summary := ledger.Summary("user1")
	if summary.Count != 4 {
		t.Fatalf("expected 4 entries for user1, got %d", summary.Count)
	}
	if !summary.TotalIncome.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("expected income 1500, got %s", summary.TotalIncome)
	}
	if !summary.TotalExpenses.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected expenses 200, got %s", summary.TotalExpenses)
	}
	if got := summary.ExpensesByCategory["Transporte"]; !got.Equal(decimal.NewFromInt(80)) {
		t.Fatalf("expected Transporte 80, got %s", got)
	}
	if got := summary.ExpensesByCategory["Alimentação"]; !got.Equal(decimal.NewFromInt(120)) {
		t.Fatalf("expected Alimentação 120, got %s", got)
	}
	if _, ok := summary.ExpensesByCategory["Salário"]; ok {
		t.Fatal("income must not appear in the expense breakdown")
	}
}

func TestRecordCopiesTheDraft(t *testing.T) {
	ledger := NewLedger()
	d := draft(10, "Outros", model.KindExpense)
	ledger.Record("user1", d)

	d.Amount = decimal.NewFromInt(9999)

	summary := ledger.Summary("user1")
	if !summary.TotalExpenses.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("mutating the draft after Record must not change the ledger, got %s", summary.TotalExpenses)
	}
}
