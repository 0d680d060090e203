package integration

import (
	"testing"

	"github.com/benweru/pesapal-jdev26-rdbms/internal/engine"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/executor"
	"github.com/benweru/pesapal-jdev26-rdbms/internal/storage/manager"
)

var backends = []string{manager.BackendJSON, manager.BackendSQLite}

// openEngine opens an engine over the given backend rooted at dir.
// Calling it twice on the same dir simulates a restart.
func openEngine(t *testing.T, backend, dir string) *engine.Engine {
	t.Helper()
	store, err := manager.OpenStore(manager.Options{Backend: backend, DataDir: dir})
	if err != nil {
		t.Fatalf("Failed to open %s store: %v", backend, err)
	}
	reg := manager.NewRegistry(store)
	t.Cleanup(func() { reg.Close() })
	return engine.New(reg)
}

func mustExec(t *testing.T, eng *engine.Engine, sql string) *executor.Result {
	t.Helper()
	result, err := eng.Execute(sql)
	if err != nil {
		t.Fatalf("%s: %v", sql, err)
	}
	return result
}

func column(t *testing.T, result *executor.Result, col string) []string {
	t.Helper()
	var values []string
	for _, row := range result.Rows {
		v, ok := row.Get(col)
		if !ok {
			t.Fatalf("row %v has no column %q", row, col)
		}
		values = append(values, v)
	}
	return values
}
