package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/repository"
)

// Keys of the system_settings rows read at request time.
const (
	SettingDeliveryFee      = "default_delivery_fee"
	SettingRenterFeePercent = "platform_fee_renter_percentage"
	SettingOwnerFeePercent  = "platform_fee_owner_percentage"
)

type feeSettingsProvider struct {
	settingRepo repository.SettingRepository
	defaults    domain.FeeSettings
}

// NewFeeSettingsProvider reads fee settings from the settings store, falling back to
// defaults for keys that are absent. A nil repository always yields the defaults.
func NewFeeSettingsProvider(settingRepo repository.SettingRepository, defaults domain.FeeSettings) FeeSettingsProvider {
	return &feeSettingsProvider{settingRepo: settingRepo, defaults: defaults}
}

func (p *feeSettingsProvider) FeeSettings(ctx context.Context) (domain.FeeSettings, error) {
	settings := p.defaults
	if p.settingRepo == nil {
		return settings, nil
	}

	fields := []struct {
		key string
		dst *decimal.Decimal
	}{
		{SettingDeliveryFee, &settings.DeliveryFee},
		{SettingRenterFeePercent, &settings.RenterFeePercent},
		{SettingOwnerFeePercent, &settings.OwnerFeePercent},
	}
	for _, f := range fields {
		raw, ok, err := p.settingRepo.Get(ctx, f.key)
		if err != nil {
			return domain.FeeSettings{}, fmt.Errorf("read setting %s: %w", f.key, err)
		}
		if !ok {
			continue
		}
		v, err := decimal.NewFromString(raw)
		if err != nil {
			logger.Warn("Ignoring malformed fee setting", "key", f.key, "value", raw)
			continue
		}
		*f.dst = v
	}
	return settings, nil
}
