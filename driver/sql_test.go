package driver

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockConn(t *testing.T) (*SQLConnection, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLConnection(db, nil), mock
}

func TestExecuteQueryPath(t *testing.T) {
	conn, mock := newMockConn(t)
	ctx := context.Background()

	query := `SELECT "id", "name" FROM "Users" WHERE "id" = ?`
	rows := sqlmock.NewRowsWithColumnDefinition(
		sqlmock.NewColumn("id").OfType("INTEGER", int64(0)),
		sqlmock.NewColumn("name").OfType("VARCHAR", ""),
	).AddRow(int64(1), "alice")

	mock.ExpectPrepare(query).ExpectQuery().WithArgs(1).WillReturnRows(rows)

	stmt, err := conn.Prepare(ctx, query)
	require.NoError(t, err)
	defer func() { _ = stmt.Close() }()

	res, err := stmt.Execute(ctx, []interface{}{1})
	require.NoError(t, err)

	require.Len(t, res.Rows, 1)
	assert.Equal(t, int64(1), res.Rows[0]["id"])
	assert.Equal(t, "alice", res.Rows[0]["name"])

	require.Len(t, res.Columns, 2)
	assert.Equal(t, "id", res.Columns[0].Name)
	assert.Equal(t, "INTEGER", res.Columns[0].TypeName)
	assert.Equal(t, "VARCHAR", res.Columns[1].TypeName)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteExecPath(t *testing.T) {
	conn, mock := newMockConn(t)
	ctx := context.Background()

	query := `DELETE FROM "Users" WHERE "id" = ?`
	mock.ExpectPrepare(query).ExpectExec().WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 2))

	stmt, err := conn.Prepare(ctx, query)
	require.NoError(t, err)

	res, err := stmt.Execute(ctx, []interface{}{1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Affected)
	assert.Nil(t, res.InsertID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteReportsInsertID(t *testing.T) {
	conn, mock := newMockConn(t)
	ctx := context.Background()

	query := `INSERT INTO "Users" ("name") VALUES (?)`
	mock.ExpectPrepare(query).ExpectExec().WithArgs("alice").WillReturnResult(sqlmock.NewResult(41, 1))

	stmt, err := conn.Prepare(ctx, query)
	require.NoError(t, err)

	res, err := stmt.Execute(ctx, []interface{}{"alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(41), res.InsertID)
	assert.Equal(t, int64(1), res.Affected)
}

func TestTransactionLifecycle(t *testing.T) {
	conn, mock := newMockConn(t)
	ctx := context.Background()

	mock.ExpectBegin()
	mock.ExpectExec(`SAVEPOINT "sp1" ON ROLLBACK RETAIN CURSORS`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`ROLLBACK TO SAVEPOINT "sp1"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	require.NoError(t, conn.Begin(ctx, ""))
	require.NoError(t, conn.Begin(ctx, "sp1"))
	require.NoError(t, conn.Rollback(ctx, "sp1"))
	require.NoError(t, conn.Commit(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBeginTwiceFails(t *testing.T) {
	conn, mock := newMockConn(t)
	ctx := context.Background()

	mock.ExpectBegin()
	require.NoError(t, conn.Begin(ctx, ""))
	assert.Error(t, conn.Begin(ctx, ""))
}

func TestSavepointOutsideTransactionFails(t *testing.T) {
	conn, _ := newMockConn(t)
	assert.Error(t, conn.Begin(context.Background(), "sp1"))
}

func TestCommitWithoutTransactionFails(t *testing.T) {
	conn, _ := newMockConn(t)
	assert.Error(t, conn.Commit(context.Background()))
	assert.Error(t, conn.Rollback(context.Background(), ""))
}

func TestPrepareUsesOpenTransaction(t *testing.T) {
	conn, mock := newMockConn(t)
	ctx := context.Background()

	query := `UPDATE "Users" SET "name" = ?`
	mock.ExpectBegin()
	mock.ExpectPrepare(query).ExpectExec().WithArgs("bob").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, conn.Begin(ctx, ""))
	stmt, err := conn.Prepare(ctx, query)
	require.NoError(t, err)
	_, err = stmt.Execute(ctx, []interface{}{"bob"})
	require.NoError(t, err)
	require.NoError(t, conn.Commit(ctx))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryMaterializesRows(t *testing.T) {
	conn, mock := newMockConn(t)

	query := "SELECT INDNAME FROM SYSCAT.INDEXES WHERE IID = 2"
	mock.ExpectQuery(query).WillReturnRows(
		sqlmock.NewRows([]string{"INDNAME"}).AddRow("uk_users_email"))

	rows, err := conn.Query(context.Background(), query)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "uk_users_email", rows[0]["INDNAME"])
}

func TestReturnsRows(t *testing.T) {
	tests := []struct {
		sql  string
		want bool
	}{
		{"SELECT 1 FROM SYSIBM.SYSDUMMY1", true},
		{"  select * from t", true},
		{"VALUES (1)", true},
		{"WITH c AS (SELECT 1 FROM SYSIBM.SYSDUMMY1) SELECT * FROM c", true},
		{"CALL SYSPROC.ADMIN_DROP_SCHEMA('S', NULL, 'E', 'T')", true},
		{`INSERT INTO "T" ("a") VALUES (?)`, false},
		{`UPDATE "T" SET "a" = ?`, false},
		{`DELETE FROM "T"`, false},
		{`MERGE INTO "T" AS "x" USING (VALUES(?)) AS "s"("a") ON 1=1`, false},
	}

	for _, tt := range tests {
		if got := ReturnsRows(tt.sql); got != tt.want {
			t.Errorf("ReturnsRows(%q) = %v, want %v", tt.sql, got, tt.want)
		}
	}
}
