package postgresql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHelper provides common testing utilities
type TestHelper struct {
	Container *TestContainer
	T         *testing.T
}

// NewTestHelper starts a container for t and terminates it on cleanup. The test is
// skipped in short mode.
func NewTestHelper(t *testing.T, migrate func(ctx context.Context, client PostgreSQLClient) error) *TestHelper {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	config := DefaultTestContainerConfig()
	config.Migrate = migrate

	container, err := NewTestContainer(context.Background(), config)
	require.NoError(t, err)

	t.Cleanup(func() {
		if err := container.Close(context.Background()); err != nil {
			t.Logf("Failed to close test container: %v", err)
		}
	})

	return &TestHelper{
		Container: container,
		T:         t,
	}
}

// CleanupTables truncates tables between tests
func (h *TestHelper) CleanupTables(tables ...string) {
	err := h.Container.TruncateTables(context.Background(), tables...)
	require.NoError(h.T, err)
}

// ExecuteSQL executes SQL and fails test on error
func (h *TestHelper) ExecuteSQL(sql string, args ...any) {
	err := h.Container.ExecuteSQL(context.Background(), sql, args...)
	require.NoError(h.T, err)
}

// GetClient returns the PostgreSQL client
func (h *TestHelper) GetClient() PostgreSQLClient {
	return h.Container.Client
}
