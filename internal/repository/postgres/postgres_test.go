package postgres_test

import (
	"context"
	"errors"
	"testing"

	"fleet-rental-backend/internal/domain"
	"fleet-rental-backend/internal/repository"
	"fleet-rental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestStore_WithinTx(t *testing.T) {
	t.Run("CommitsOnSuccess", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()

		store := postgres.NewStore(db)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE vehicles SET status").
			WithArgs(domain.VehicleStatusRented, sqlmock.AnyArg(), int64(2)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err = store.WithinTx(context.Background(), func(repos *repository.Repositories) error {
			return repos.Vehicles.SetStatus(context.Background(), 2, domain.VehicleStatusRented)
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollsBackOnError", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("error opening mock database: %v", err)
		}
		defer db.Close()

		store := postgres.NewStore(db)
		boom := errors.New("vehicle already taken")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err = store.WithinTx(context.Background(), func(repos *repository.Repositories) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
