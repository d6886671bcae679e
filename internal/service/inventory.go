package service

import (
	"context"
	"errors"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/repository"
)

type inventoryAdjuster struct {
	productRepo repository.ProductRepository
}

func NewInventoryAdjuster(productRepo repository.ProductRepository) InventoryAdjuster {
	return &inventoryAdjuster{productRepo: productRepo}
}

// AdjustAvailableQuantity moves one unit in or out of stock. The repository refuses
// changes that would take the counter below zero or above the product's quantity.
func (a *inventoryAdjuster) AdjustAvailableQuantity(ctx context.Context, productID int32, delta int32) error {
	if delta != 1 && delta != -1 {
		return domain.Validation("inventory delta must be +1 or -1, got %d", delta)
	}
	err := a.productRepo.AdjustAvailableQuantity(ctx, productID, delta)
	if errors.Is(err, repository.ErrInsufficientQuantity) {
		logger.Warn("Inventory adjustment refused", "productID", productID, "delta", delta)
		return domain.InvalidState("product %d quantity cannot change by %d", productID, delta)
	}
	if err != nil {
		logger.Error("Inventory adjustment failed", "productID", productID, "delta", delta, "error", err)
		return domain.DependencyFailure(err, "failed to adjust product %d quantity", productID)
	}
	logger.Info("Inventory adjusted", "productID", productID, "delta", delta)
	return nil
}
