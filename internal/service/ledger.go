package service

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ahleite/plannito-bot/internal/model"
)

// Entry is one transaction the bot successfully forwarded to the
// backend during this process's lifetime.
type Entry struct {
	Draft      model.Draft
	RecordedAt time.Time
}

// Summary aggregates a user's session entries for the resumo shortcut.
type Summary struct {
	TotalIncome        decimal.Decimal
	TotalExpenses      decimal.Decimal
	ExpensesByCategory map[string]decimal.Decimal
	Count              int
}

// Ledger keeps a per-user record of confirmed transactions. It is a
// session-scope convenience; the backend remains the system of record.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string][]Entry
}

func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string][]Entry)}
}

func (l *Ledger) Record(userID string, draft *model.Draft) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[userID] = append(l.entries[userID], Entry{
		Draft:      *draft,
		RecordedAt: time.Now(),
	})
}

func (l *Ledger) Summary(userID string) Summary {
	l.mu.RLock()
	defer l.mu.RUnlock()

	summary := Summary{
		TotalIncome:        decimal.Zero,
		TotalExpenses:      decimal.Zero,
		ExpensesByCategory: make(map[string]decimal.Decimal),
	}
	for _, entry := range l.entries[userID] {
		summary.Count++
		if entry.Draft.Kind == model.KindIncome {
			summary.TotalIncome = summary.TotalIncome.Add(entry.Draft.Amount)
			continue
		}
		summary.TotalExpenses = summary.TotalExpenses.Add(entry.Draft.Amount)
		current := summary.ExpensesByCategory[entry.Draft.Category]
		summary.ExpensesByCategory[entry.Draft.Category] = current.Add(entry.Draft.Amount)
	}
	return summary
}
