package postgres

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apperrors "github.com/yourusername/codereview-api/internal/pkg/errors"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(gormPostgres.New(gormPostgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return db, dbMock
}

func TestUserRepo_AdjustBalance_ClampsAtZeroInSQL(t *testing.T) {
	// Arrange
	db, dbMock := newMockDB(t)
	repo := NewUserRepo(db)

	// Нижняя граница баланса держится самим выражением UPDATE:
	// GREATEST не даст двум одновременным списаниям увести баланс в минус
	dbMock.ExpectExec(`UPDATE "users" SET "review_balance"=GREATEST\(review_balance \+ \$1, 0\) WHERE id = \$2`).
		WithArgs(-1, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Act: штраф ревьюеру
	err := repo.AdjustBalance(5, -1)

	// Assert
	require.NoError(t, err)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestUserRepo_AdjustBalance_CreditUsesSameClampedUpdate(t *testing.T) {
	// Arrange
	db, dbMock := newMockDB(t)
	repo := NewUserRepo(db)

	dbMock.ExpectExec(`UPDATE "users" SET "review_balance"=GREATEST\(review_balance \+ \$1, 0\) WHERE id = \$2`).
		WithArgs(5, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Act: начисление автору одобренной апелляции
	err := repo.AdjustBalance(1, 5)

	// Assert
	require.NoError(t, err)
	require.NoError(t, dbMock.ExpectationsWereMet())
}

func TestUserRepo_AdjustBalance_UnknownUser(t *testing.T) {
	// Arrange
	db, dbMock := newMockDB(t)
	repo := NewUserRepo(db)

	dbMock.ExpectExec(`UPDATE "users" SET "review_balance"=GREATEST\(review_balance \+ \$1, 0\) WHERE id = \$2`).
		WithArgs(-1, 404).
		WillReturnResult(sqlmock.NewResult(0, 0))

	// Act
	err := repo.AdjustBalance(404, -1)

	// Assert: нулевой RowsAffected означает отсутствие пользователя
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	require.NoError(t, dbMock.ExpectationsWereMet())
}
