package repository

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func openMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

// Clearing membership must stay a single delete inside one transaction.
func TestProjectRepository_ReplaceMembers_EmptyList(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "project_users" WHERE project_id =`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceMembers(42, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

// Replacing membership deletes the old rows, validates the incoming IDs
// against the users table, and inserts only the surviving subset, all
// in one transaction.
func TestProjectRepository_ReplaceMembers_TransactionShape(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "project_users" WHERE project_id =`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "id" FROM "users" WHERE id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(`INSERT INTO "project_users"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.ReplaceMembers(42, []uint64{7, 9999}))
	require.NoError(t, mock.ExpectationsWereMet())
}

// A failed insert rolls the delete back.
func TestProjectRepository_ReplaceMembers_RollbackOnError(t *testing.T) {
	db, mock := openMockDB(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "project_users" WHERE project_id =`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT "id" FROM "users" WHERE id IN`).
		WillReturnError(gorm.ErrInvalidDB)
	mock.ExpectRollback()

	require.Error(t, repo.ReplaceMembers(42, []uint64{7}))
	require.NoError(t, mock.ExpectationsWereMet())
}
