package model

// TransactionKind tells whether money comes in or goes out.
type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// Category is owned by the backend. The bot never creates categories on
// its own; it only resolves free-text guesses against the set returned
// by the login call.
type Category struct {
	ID    string          `json:"idSync"`
	Title string          `json:"title"`
	Kind  TransactionKind `json:"type"`
}
