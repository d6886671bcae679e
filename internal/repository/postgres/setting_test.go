package postgres_test

import (
	"context"
	"testing"

	"rentalhub-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestSettingRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewSettingRepository(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT setting_value FROM system_settings").
		WithArgs("platform_fee_renter_percentage").
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}).AddRow("5"))
	value, ok, err := repo.Get(ctx, "platform_fee_renter_percentage")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "5", value)

	mock.ExpectQuery("SELECT setting_value FROM system_settings").
		WithArgs("default_delivery_fee").
		WillReturnRows(sqlmock.NewRows([]string{"setting_value"}))
	_, ok, err = repo.Get(ctx, "default_delivery_fee")
	assert.NoError(t, err)
	assert.False(t, ok)
}
