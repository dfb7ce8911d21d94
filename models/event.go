package models

// LedgerAction is the kind of row change observed on a ledger table.
type LedgerAction string

const (
	ActionInsert LedgerAction = "INSERT"
	ActionUpdate LedgerAction = "UPDATE"
	ActionDelete LedgerAction = "DELETE"
)

// LedgerEvent is one decoded row change of the banks or transactions table.
// Exactly one of Bank and Transaction is set.
type LedgerEvent struct {
	Action      LedgerAction
	Schema      string
	Table       string
	Bank        *Bank
	Transaction *Transaction
}

// Violation reports whether the change breaks the insert-only rule.
func (e LedgerEvent) Violation() bool {
	return e.Action != ActionInsert
}
