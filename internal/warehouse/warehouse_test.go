package warehouse

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE orders (status TEXT, sale_price REAL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO orders VALUES ('Complete', 10.5), ('Complete', 4.5), ('Returned', 2.0)`)
	require.NoError(t, err)
	return db
}

func TestClient_ExecuteScansColumnsAndRows(t *testing.T) {
	client := NewClient(openTestDB(t))

	result, err := client.Execute(context.Background(),
		"SELECT status, SUM(sale_price) AS total_revenue FROM orders GROUP BY status ORDER BY status")
	require.NoError(t, err)

	assert.Equal(t, []string{"status", "total_revenue"}, result.Columns)
	assert.Equal(t, 2, result.RowCount)
	assert.Equal(t, "Complete", result.Rows[0][0])
	assert.Equal(t, 15.0, result.Rows[0][1])
}

func TestClient_ExecuteEmptyResult(t *testing.T) {
	client := NewClient(openTestDB(t))

	result, err := client.Execute(context.Background(),
		"SELECT status FROM orders WHERE status = 'Nope'")
	require.NoError(t, err)
	assert.Equal(t, 0, result.RowCount)
	assert.Empty(t, result.Rows)
}

func TestClient_ExecuteRejectsBlankSQL(t *testing.T) {
	client := NewClient(openTestDB(t))

	_, err := client.Execute(context.Background(), "   ")
	require.Error(t, err)
}

func TestClient_ExecutePropagatesQueryError(t *testing.T) {
	client := NewClient(openTestDB(t))

	_, err := client.Execute(context.Background(), "SELECT * FROM missing_table")
	require.Error(t, err)
}

func TestOpen_RequiresDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{DSN: ":memory:"})
	require.Error(t, err)
}

func TestOpen_SQLDriver(t *testing.T) {
	client, err := Open(context.Background(), Config{Driver: "sqlite3", DSN: ":memory:"})
	require.NoError(t, err)
	defer client.Close() //nolint:errcheck

	result, err := client.Execute(context.Background(), "SELECT 1 AS one")
	require.NoError(t, err)
	assert.Equal(t, 1, result.RowCount)
}
