package service

import (
	"context"
	"errors"
	"testing"

	"rentalhub-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestFeeSettingsProvider(t *testing.T) {
	ctx := context.Background()
	defaults := domain.FeeSettings{DeliveryFee: dec("50"), RenterFeePercent: dec("3"), OwnerFeePercent: dec("2")}

	t.Run("Stored values override defaults", func(t *testing.T) {
		repo := new(MockSettingRepo)
		repo.On("Get", mock.Anything, SettingDeliveryFee).Return("40.00", true, nil)
		repo.On("Get", mock.Anything, SettingRenterFeePercent).Return("5", true, nil)
		repo.On("Get", mock.Anything, SettingOwnerFeePercent).Return("", false, nil)

		got, err := NewFeeSettingsProvider(repo, defaults).FeeSettings(ctx)
		require.NoError(t, err)
		assert.True(t, got.DeliveryFee.Equal(dec("40")))
		assert.True(t, got.RenterFeePercent.Equal(dec("5")))
		assert.True(t, got.OwnerFeePercent.Equal(dec("2")))
	})

	t.Run("Malformed value keeps the default", func(t *testing.T) {
		repo := new(MockSettingRepo)
		repo.On("Get", mock.Anything, SettingDeliveryFee).Return("forty", true, nil)
		repo.On("Get", mock.Anything, mock.Anything).Return("", false, nil)

		got, err := NewFeeSettingsProvider(repo, defaults).FeeSettings(ctx)
		require.NoError(t, err)
		assert.True(t, got.DeliveryFee.Equal(dec("50")))
	})

	t.Run("Store failure", func(t *testing.T) {
		repo := new(MockSettingRepo)
		repo.On("Get", mock.Anything, SettingDeliveryFee).Return("", false, errors.New("timeout"))

		_, err := NewFeeSettingsProvider(repo, defaults).FeeSettings(ctx)
		assert.Error(t, err)
	})

	t.Run("No repository", func(t *testing.T) {
		got, err := NewFeeSettingsProvider(nil, defaults).FeeSettings(ctx)
		require.NoError(t, err)
		assert.Equal(t, defaults, got)
	})
}
