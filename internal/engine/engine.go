package engine

import (
	"time"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/domain/transaction"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/executor"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/parser"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage/manager"
)

// Engine is the command interpreter: it parses one command, runs it against
// the registry and returns the result. It keeps no state between commands
// apart from its observers.
type Engine struct {
	registry  *manager.Registry
	observers []Observer // Observers for lifecycle events
}

// New creates a new Engine instance
func New(registry *manager.Registry) *Engine {
	return &Engine{
		registry:  registry,
		observers: make([]Observer, 0),
	}
}

// Registry returns the registry the engine executes against
func (e *Engine) Registry() *manager.Registry {
	return e.registry
}

// Execute processes one command and returns the result.
// Failures are returned as typed errors from the domain errors package.
func (e *Engine) Execute(line string) (*executor.Result, error) {
	tx := transaction.NewTransaction()
	defer tx.Close()

	// 1. Parse
	e.notify(Event{Type: EventParseStart, TxID: tx.ID, Data: line})
	stmt, err := parser.Parse(line)
	if err != nil {
		e.notify(Event{Type: EventParseEnd, TxID: tx.ID, Data: err.Error()})
		return nil, err
	}
	e.notify(Event{Type: EventParseEnd, TxID: tx.ID, Data: stmt.TokenLiteral()})

	// 2. Execute
	e.notify(Event{Type: EventExecStart, TxID: tx.ID, Data: stmt.TableName()})
	result, err := executor.Execute(stmt, &executor.ExecutionContext{
		Registry:    e.registry,
		Transaction: tx,
	})
	if err != nil {
		e.notify(Event{Type: EventExecEnd, TxID: tx.ID, Data: map[string]interface{}{
			"error":   err.Error(),
			"elapsed": tx.Elapsed().String(),
		}})
		return nil, err
	}
	e.notify(Event{Type: EventExecEnd, TxID: tx.ID, Data: map[string]interface{}{
		"rows_returned": len(result.Rows),
		"elapsed":       tx.Elapsed().String(),
	}})

	return result, nil
}

// Join inner-joins two existing tables on a shared column
func (e *Engine) Join(left, right, on string) (*executor.Result, error) {
	tx := transaction.NewTransaction()
	defer tx.Close()

	e.notify(Event{Type: EventExecStart, TxID: tx.ID, Data: "JOIN " + left + " " + right + " ON " + on})
	result, err := executor.ExecuteJoin(&executor.ExecutionContext{Registry: e.registry, Transaction: tx}, left, right, on)
	if err != nil {
		e.notify(Event{Type: EventExecEnd, TxID: tx.ID, Data: map[string]interface{}{"error": err.Error()}})
		return nil, err
	}
	e.notify(Event{Type: EventExecEnd, TxID: tx.ID, Data: map[string]interface{}{"rows_returned": len(result.Rows)}})
	return result, nil
}

// ListTables returns the table names, sorted
func (e *Engine) ListTables() ([]string, error) {
	return e.registry.List()
}

// AddObserver registers an observer to receive lifecycle events
func (e *Engine) AddObserver(observer Observer) {
	e.observers = append(e.observers, observer)
}

// RemoveObserver unregisters an observer
func (e *Engine) RemoveObserver(observer Observer) {
	for i, o := range e.observers {
		if o == observer {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// notify sends an event to all registered observers
func (e *Engine) notify(event Event) {
	event.Timestamp = time.Now()
	for _, observer := range e.observers {
		observer.OnEvent(event)
	}
}
