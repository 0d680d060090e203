package transaction

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// txIDCounter numbers transactions within the process
var txIDCounter uint64

// Transaction identifies the unit of work behind one interpreted command.
// It carries no isolation; it exists so lifecycle events and log lines
// emitted for the same command can be correlated.
type Transaction struct {
	ID        string    // UUID, stable across log sinks
	Seq       uint64    // process-local sequence number
	Active    bool      // Whether transaction is currently active
	StartTime time.Time // When the transaction began
}

// NewTransaction creates a new transaction with a unique ID
func NewTransaction() *Transaction {
	return &Transaction{
		ID:        uuid.New().String(),
		Seq:       atomic.AddUint64(&txIDCounter, 1),
		Active:    true,
		StartTime: time.Now(),
	}
}

// Close marks the transaction as inactive
func (tx *Transaction) Close() {
	tx.Active = false
}

// Elapsed returns the time since the transaction began
func (tx *Transaction) Elapsed() time.Duration {
	return time.Since(tx.StartTime)
}
