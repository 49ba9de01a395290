package model

import "github.com/shopspring/decimal"

// BankAccount is a read-only copy of a backend account. Balance is
// mutated locally as an optimistic echo of a confirmed write; it is
// informational only and never treated as authoritative.
type BankAccount struct {
	ID      string          `json:"idSync"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
}
