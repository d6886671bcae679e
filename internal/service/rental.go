package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"rentalhub-backend/internal/domain"
	"rentalhub-backend/internal/logger"
	"rentalhub-backend/internal/repository"
	"rentalhub-backend/internal/utils"
)

const (
	relatedEntityRental = "rental"
	paymentProofPrefix  = "payment-proofs"
	returnImagePrefix   = "return-condition-images"
)

type rentalService struct {
	rentalRepo  repository.RentalRepository
	historyRepo repository.StatusHistoryRepository
	productRepo repository.ProductRepository
	addressRepo repository.AddressRepository
	paymentRepo repository.PaymentTransactionRepository
	inventory   InventoryAdjuster
	fees        FeeSettingsProvider
	files       FileStore
	notifier    NotificationDispatcher
	currency    string
	now         func() time.Time
}

func NewRentalService(
	rentalRepo repository.RentalRepository,
	historyRepo repository.StatusHistoryRepository,
	productRepo repository.ProductRepository,
	addressRepo repository.AddressRepository,
	paymentRepo repository.PaymentTransactionRepository,
	inventory InventoryAdjuster,
	fees FeeSettingsProvider,
	files FileStore,
	notifier NotificationDispatcher,
	currency string,
) RentalService {
	return &rentalService{
		rentalRepo:  rentalRepo,
		historyRepo: historyRepo,
		productRepo: productRepo,
		addressRepo: addressRepo,
		paymentRepo: paymentRepo,
		inventory:   inventory,
		fees:        fees,
		files:       files,
		notifier:    notifier,
		currency:    currency,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *rentalService) CreateRentalRequest(ctx context.Context, renterID int32, in CreateRentalInput) (*domain.Rental, error) {
	logger.EnterMethod("rentalService.CreateRentalRequest", "renterID", renterID, "productID", in.ProductID)

	start, err := utils.ParseDate(in.StartDate)
	if err != nil {
		return nil, domain.Validation("start_date: %v", err)
	}
	end, err := utils.ParseDate(in.EndDate)
	if err != nil {
		return nil, domain.Validation("end_date: %v", err)
	}

	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NotFound("product %d not found", in.ProductID)
	}
	if err != nil {
		return nil, domain.DependencyFailure(err, "failed to load product %d", in.ProductID)
	}
	if product.AvailabilityStatus != domain.ProductAvailable || product.AdminApprovalStatus != domain.ProductApprovalApproved {
		return nil, domain.Validation("product is not available for rent")
	}
	if product.OwnerID == renterID {
		return nil, domain.Validation("you cannot rent your own product")
	}
	if product.OutOfStock() {
		return nil, domain.Validation("product is out of stock")
	}

	days, err := utils.RentalDurationDays(start, end)
	if err != nil {
		return nil, domain.Validation("%v", err)
	}
	if days < product.MinDurationDays() {
		return nil, domain.Validation("minimum rental duration is %d days", product.MinDurationDays())
	}
	if product.MaxRentalDurationDays != nil && days > *product.MaxRentalDurationDays {
		return nil, domain.Validation("maximum rental duration is %d days", *product.MaxRentalDurationDays)
	}

	pickup := in.PickupMethod
	if pickup == "" {
		pickup = domain.PickupMethodPickup
	}
	returnMethod := domain.ReturnMethodSelfReturn
	switch pickup {
	case domain.PickupMethodPickup:
	case domain.PickupMethodDelivery:
		returnMethod = domain.ReturnMethodOwnerPickup
		if in.DeliveryAddressID == nil {
			return nil, domain.Validation("delivery address is required for delivery")
		}
		_, err := s.addressRepo.GetByIDAndUser(ctx, *in.DeliveryAddressID, renterID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFound("delivery address %d not found for this user", *in.DeliveryAddressID)
		}
		if err != nil {
			return nil, domain.DependencyFailure(err, "failed to load delivery address")
		}
	default:
		return nil, domain.Validation("unknown pickup method %q", pickup)
	}

	settings, err := s.fees.FeeSettings(ctx)
	if err != nil {
		return nil, domain.DependencyFailure(err, "failed to read fee settings")
	}
	fees := utils.CalculateFees(utils.FeeInput{
		PricePerDay:     product.RentalPricePerDay,
		DurationDays:    days,
		SecurityDeposit: product.SecurityDeposit,
		PickupMethod:    pickup,
		Settings:        settings,
	})

	rental := &domain.Rental{
		RenterID:              renterID,
		OwnerID:               product.OwnerID,
		ProductID:             product.ID,
		StartDate:             start,
		EndDate:               end,
		DurationDays:          fees.DurationDays,
		RentalPricePerDay:     fees.PricePerDay,
		SecurityDeposit:       fees.SecurityDeposit,
		SubtotalRentalFee:     fees.Subtotal,
		DeliveryFee:           fees.DeliveryFee,
		PlatformFeeRenter:     fees.PlatformFeeRenter,
		PlatformFeeOwner:      fees.PlatformFeeOwner,
		TotalAmountDue:        fees.TotalDue,
		PickupMethod:          pickup,
		ReturnMethod:          returnMethod,
		NotesFromRenter:       in.NotesFromRenter,
		Status:                domain.InitialStatus(product.RequiresApproval),
		PaymentStatus:         domain.PaymentStatusUnpaid,
		ReturnConditionStatus: domain.ReturnConditionNotYetReturned,
	}
	if pickup == domain.PickupMethodDelivery {
		rental.DeliveryAddressID = in.DeliveryAddressID
	}

	if err := s.rentalRepo.Create(ctx, rental); err != nil {
		logger.ExitMethodWithError("rentalService.CreateRentalRequest", err)
		return nil, domain.DependencyFailure(err, "failed to create rental")
	}
	if err := s.audit(ctx, rental.ID, "", rental.Status, renterID, "Rental request created."); err != nil {
		return nil, err
	}
	logger.Transition(rental.ID, "", rental.Status, renterID)

	if rental.Status == domain.RentalStatusPendingOwnerApproval {
		s.notify(ctx, rental, rental.OwnerID, domain.NotificationRentalRequested,
			"New rental request",
			fmt.Sprintf("You have a new rental request for %s", product.Title))
	}

	logger.ExitMethod("rentalService.CreateRentalRequest", "rentalID", rental.ID, "status", rental.Status)
	return rental, nil
}

func (s *rentalService) ApproveRentalRequest(ctx context.Context, idOrUID string, ownerID int32) (*domain.Rental, error) {
	rental, err := s.load(ctx, idOrUID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusPendingOwnerApproval {
		return nil, domain.InvalidState("rental cannot be approved. Current status: %s", rental.Status)
	}
	if err := authorize(rental, ownerID, domain.RoleOwner); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByID(ctx, rental.ProductID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.DependencyFailure(err, "failed to load product %d", rental.ProductID)
	}
	if product == nil {
		return nil, domain.NotFound("product %d not found", rental.ProductID)
	}
	if product.OutOfStock() {
		return nil, domain.InvalidState("product is out of stock")
	}

	return s.commit(ctx, &transition{
		rental: rental,
		actor:  ownerID,
		update: domain.RentalUpdate{
			ExpectedStatus: rental.Status,
			Status:         domain.RentalStatusPendingPayment,
		},
		note: "Rental approved by owner.",
		advisory: []advisoryStep{
			s.notifyStep(rental.RenterID, domain.NotificationRentalApproved,
				"Your rental request was approved",
				fmt.Sprintf("Your request to rent %s was approved", product.Title)),
		},
	})
}

func (s *rentalService) RejectRentalRequest(ctx context.Context, idOrUID string, ownerID int32, reason string) (*domain.Rental, error) {
	rental, err := s.load(ctx, idOrUID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusPendingOwnerApproval {
		return nil, domain.InvalidState("rental cannot be rejected. Current status: %s", rental.Status)
	}
	if err := authorize(rental, ownerID, domain.RoleOwner); err != nil {
		return nil, err
	}

	now := s.now()
	return s.commit(ctx, &transition{
		rental: rental,
		actor:  ownerID,
		update: domain.RentalUpdate{
			ExpectedStatus:     rental.Status,
			Status:             domain.RentalStatusRejectedByOwner,
			CancellationReason: &reason,
			CancelledAt:        &now,
			CancelledByUserID:  &ownerID,
		},
		note: fmt.Sprintf("Rejected: %s", reason),
		advisory: []advisoryStep{
			s.notifyStep(rental.RenterID, domain.NotificationRentalRejected,
				"Your rental request was rejected",
				fmt.Sprintf("Your rental request %s was rejected: %s", rental.RentalUID, reason)),
		},
	})
}

func (s *rentalService) SubmitPaymentProof(ctx context.Context, idOrUID string, renterID int32, proof *domain.UploadedFile, in PaymentProofInput) (*domain.Rental, error) {
	rental, err := s.load(ctx, idOrUID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusPendingPayment {
		return nil, domain.InvalidState("cannot submit payment proof. Rental status is %s", rental.Status)
	}
	if err := authorize(rental, renterID, domain.RoleRenter); err != nil {
		return nil, err
	}
	if proof == nil || len(proof.Data) == 0 {
		return nil, domain.Validation("payment proof file is required")
	}
	amount := rental.TotalAmountDue
	if in.AmountPaid != nil {
		if in.AmountPaid.IsNegative() {
			return nil, domain.Validation("amount_paid must not be negative")
		}
		amount = in.AmountPaid.Round(2)
	}

	product, err := s.productRepo.GetByID(ctx, rental.ProductID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, domain.DependencyFailure(err, "failed to load product %d", rental.ProductID)
	}
	if product != nil && product.OutOfStock() {
		return nil, domain.InvalidState("product %d has no unit left to reserve", rental.ProductID)
	}

	key := storageKey(paymentProofPrefix, rental.ID, proof.FileName)
	proofURL, err := s.upload(ctx, key, proof)
	if err != nil {
		return nil, domain.DependencyFailure(err, "failed to upload payment proof")
	}
	if proofURL == "" {
		s.discardUploads(ctx, key)
		return nil, domain.DependencyFailure(nil, "failed to upload payment proof")
	}

	// inventory_reserved is written only for a unit that was actually taken.
	reserved := false
	if product != nil && product.TracksStock() {
		err := s.inventory.AdjustAvailableQuantity(ctx, rental.ProductID, -1)
		switch {
		case err == nil:
			reserved = true
		case errors.Is(err, domain.ErrInvalidState):
			s.discardUploads(ctx, key)
			return nil, domain.InvalidState("product %d has no unit left to reserve", rental.ProductID)
		default:
			logger.Warn("Confirming rental without an inventory reservation", "rentalID", rental.ID, "productID", rental.ProductID, "error", err)
		}
	}

	txTime := s.now()
	if in.TransactionTime != nil {
		txTime = in.TransactionTime.UTC()
	}
	pending := domain.PaymentStatusPendingVerification
	update := domain.RentalUpdate{
		ExpectedStatus:  rental.Status,
		Status:          domain.RentalStatusConfirmed,
		PaymentStatus:   &pending,
		PaymentProofURL: &proofURL,
		FinalAmountPaid: &amount,
	}
	if reserved {
		update.InventoryReserved = &reserved
	}
	advisory := []advisoryStep{
		{name: "payment transaction", run: func(ctx context.Context, _ *domain.Rental) error {
			return s.paymentRepo.Create(ctx, &domain.PaymentTransaction{
				RentalID:          rental.ID,
				UserID:            renterID,
				TransactionType:   domain.TransactionTypeRentalPayment,
				Amount:            amount,
				Currency:          s.currency,
				Status:            domain.TransactionStatusPending,
				PaymentMethodName: domain.PaymentMethodManualBankTransfer,
				PaymentMethodDetails: map[string]string{
					"transaction_time": txTime.Format(time.RFC3339),
					"proof_url":        proofURL,
				},
				TransactionTime: txTime,
			})
		}},
		s.notifyStep(rental.OwnerID, domain.NotificationPaymentSubmitted,
			"Payment proof submitted",
			fmt.Sprintf("The renter submitted payment proof for rental %s. Please verify it.", rental.RentalUID)),
	}

	return s.commit(ctx, &transition{
		rental:   rental,
		actor:    renterID,
		update:   update,
		note:     "Payment proof submitted.",
		advisory: advisory,
		onAbort:  func(ctx context.Context) {
			if reserved {
				s.releaseUnit(ctx, rental.ProductID)
			}
			s.discardUploads(ctx, key)
		},
	})
}

func (s *rentalService) VerifyPaymentByOwner(ctx context.Context, idOrUID string, ownerID int32, in VerifyPaymentInput) (*domain.Rental, error) {
	rental, err := s.load(ctx, idOrUID)
	if err != nil {
		return nil, err
	}
	if rental.PaymentStatus != domain.PaymentStatusPendingVerification {
		return nil, domain.InvalidState("rental payment is not pending verification. Current status: %s", rental.PaymentStatus)
	}
	if err := authorize(rental, ownerID, domain.RoleOwner); err != nil {
		return nil, err
	}

	amount := rental.TotalAmountDue
	switch {
	case in.AmountPaid != nil:
		if in.AmountPaid.IsNegative() {
			return nil, domain.Validation("amount_paid must not be negative")
		}
		amount = in.AmountPaid.Round(2)
	case rental.FinalAmountPaid != nil:
		amount = *rental.FinalAmountPaid
	}

	next := rental.Status
	if rental.Status == domain.RentalStatusConfirmed {
		next = domain.RentalStatusActive
	}
	paid := domain.PaymentStatusPaid
	now := s.now()
	return s.commit(ctx, &transition{
		rental:      rental,
		actor:       ownerID,
		paymentOnly: next == rental.Status,
		update:      domain.RentalUpdate{
			ExpectedStatus:          rental.Status,
			ExpectedPaymentStatus:   domain.PaymentStatusPendingVerification,
			Status:                  next,
			PaymentStatus:           &paid,
			FinalAmountPaid:         &amount,
			PaymentVerifiedAt:       &now,
			PaymentVerifiedByUserID: &ownerID,
		},
		note:     "Payment verified by owner.",
		advisory: []advisoryStep{
			s.notifyStep(rental.RenterID, domain.NotificationPaymentVerified,
				"Payment successful",
				"The owner has verified your payment"),
		},
	})
}

func (s *rentalService) CancelRentalByRenter(ctx context.Context, idOrUID string, renterID int32, reason string) (*domain.Rental, error) {
	rental, err := s.load(ctx, idOrUID)
	if err != nil {
		return nil, err
	}
	if !rental.Status.RenterCancellable() {
		return nil, domain.InvalidState("rental cannot be cancelled at its current status: %s", rental.Status)
	}
	if err := authorize(rental, renterID, domain.RoleRenter); err != nil {
		return nil, err
	}

	now := s.now()
	update := domain.RentalUpdate{
		ExpectedStatus:     rental.Status,
		Status:             domain.RentalStatusCancelledByRenter,
		CancellationReason: &reason,
		CancelledAt:        &now,
		CancelledByUserID:  &renterID,
	}
	var advisory []advisoryStep
	if rental.Status.HoldsInventory() && rental.InventoryReserved {
		released := false
		update.InventoryReserved = &released
		advisory = append(advisory, s.inventoryStep(rental.ProductID, 1))
	}
	advisory = append(advisory, s.notifyStep(rental.OwnerID, domain.NotificationRentalCancelled,
		"The renter cancelled a rental",
		fmt.Sprintf("The renter cancelled rental %d", rental.ID)))

	return s.commit(ctx, &transition{
		rental:   rental,
		actor:    renterID,
		update:   update,
		note:     fmt.Sprintf("Cancelled by renter: %s", reason),
		advisory: advisory,
	})
}

func (s *rentalService) ProcessReturn(ctx context.Context, idOrUID string, ownerID int32, in ProcessReturnInput, images []domain.UploadedFile) (*domain.Rental, error) {
	rental, err := s.load(ctx, idOrUID)
	if err != nil {
		return nil, err
	}
	if !rental.Status.Returnable() {
		return nil, domain.InvalidState("cannot process return. Rental status is %s", rental.Status)
	}
	if err := authorize(rental, ownerID, domain.RoleOwner); err != nil {
		return nil, err
	}
	if !in.ReturnConditionStatus.Valid() {
		return nil, domain.Validation("invalid return_condition_status %q", in.ReturnConditionStatus)
	}

	next := domain.RentalStatusCompleted
	if in.InitiateClaim && in.ReturnConditionStatus.Claimable() {
		next = domain.RentalStatusDispute
	}

	returnedAt := s.now()
	if in.ActualReturnTime != nil {
		returnedAt = in.ActualReturnTime.UTC()
	}
	condition := in.ReturnConditionStatus
	notes := in.NotesFromOwnerOnReturn
	update := domain.RentalUpdate{
		ExpectedStatus:         rental.Status,
		Status:                 next,
		ActualReturnTime:       &returnedAt,
		ReturnConditionStatus:  &condition,
		NotesFromOwnerOnReturn: &notes,
	}
	urls, keys := s.uploadReturnImages(ctx, rental.ID, images)
	if len(urls) > 0 {
		update.ReturnConditionImageURLs = urls
	}

	var advisory []advisoryStep
	if next == domain.RentalStatusCompleted && rental.InventoryReserved {
		released := false
		update.InventoryReserved = &released
		advisory = append(advisory, s.inventoryStep(rental.ProductID, 1))
	}
	if next == domain.RentalStatusDispute {
		advisory = append(advisory, s.notifyStep(rental.RenterID, domain.NotificationRentalDisputed,
			"A claim was opened for your rental",
			fmt.Sprintf("The owner reported the item as %s and opened a claim", condition)))
	} else {
		advisory = append(advisory, s.notifyStep(rental.RenterID, domain.NotificationRentalCompleted,
			"Rental completed",
			"The owner confirmed the return of the item"))
	}

	return s.commit(ctx, &transition{
		rental:   rental,
		actor:    ownerID,
		update:   update,
		note:     fmt.Sprintf("Return processed. Condition: %s. Notes: %s", condition, notes),
		advisory: advisory,
		onAbort:  func(ctx context.Context) {
			s.discardUploads(ctx, keys...)
		},
	})
}

// MarkLateReturn moves an overdue active rental to late_return on behalf of the system.
func (s *rentalService) MarkLateReturn(ctx context.Context, idOrUID string, now time.Time) (*domain.Rental, error) {
	rental, err := s.load(ctx, idOrUID)
	if err != nil {
		return nil, err
	}
	if rental.Status != domain.RentalStatusActive {
		return nil, domain.InvalidState("only active rentals can become late. Current status: %s", rental.Status)
	}
	today := now.UTC().Truncate(24 * time.Hour)
	if !rental.EndDate.Before(today) {
		return nil, domain.InvalidState("rental is not overdue until after %s", rental.EndDate.Format(utils.DateLayout))
	}

	return s.commit(ctx, &transition{
		rental: rental,
		actor:  systemActor,
		update: domain.RentalUpdate{
			ExpectedStatus: rental.Status,
			Status:         domain.RentalStatusLateReturn,
		},
		note: fmt.Sprintf("Return overdue since %s.", rental.EndDate.Format(utils.DateLayout)),
		advisory: []advisoryStep{
			s.notifyStep(rental.RenterID, domain.NotificationRentalLate,
				"Your rental is overdue",
				fmt.Sprintf("Rental %s was due back on %s", rental.RentalUID, rental.EndDate.Format(utils.DateLayout))),
		},
	})
}

func (s *rentalService) CheckPaymentStatus(ctx context.Context, idOrUID string, userID int32) (*domain.PaymentStatusView, error) {
	rental, err := s.GetRentalDetails(ctx, idOrUID, userID)
	if err != nil {
		return nil, err
	}
	return &domain.PaymentStatusView{PaymentStatus: rental.PaymentStatus, RentalStatus: rental.Status}, nil
}

func (s *rentalService) GetRentalDetails(ctx context.Context, idOrUID string, userID int32) (*domain.Rental, error) {
	rental, err := s.load(ctx, idOrUID)
	if err != nil {
		return nil, err
	}
	if err := authorize(rental, userID, domain.RoleParticipant); err != nil {
		return nil, err
	}
	return rental, nil
}

func (s *rentalService) GetStatusHistory(ctx context.Context, idOrUID string, userID int32) ([]domain.StatusHistoryEntry, error) {
	rental, err := s.GetRentalDetails(ctx, idOrUID, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.historyRepo.ListByRental(ctx, rental.ID)
	if err != nil {
		return nil, domain.DependencyFailure(err, "failed to load status history")
	}
	return entries, nil
}

func (s *rentalService) load(ctx context.Context, idOrUID string) (*domain.Rental, error) {
	idOrUID = strings.TrimSpace(idOrUID)
	if idOrUID == "" {
		return nil, domain.Validation("rental identifier is required")
	}
	rental, err := s.rentalRepo.GetByIdentifier(ctx, idOrUID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.NotFound("rental not found")
	}
	if err != nil {
		return nil, domain.DependencyFailure(err, "failed to load rental")
	}
	return rental, nil
}

func (s *rentalService) audit(ctx context.Context, rentalID int32, from, to domain.RentalStatus, actor int32, note string) error {
	entry := &domain.StatusHistoryEntry{
		RentalID:    rentalID,
		OldStatus:   from,
		NewStatus:   to,
		ActorUserID: actor,
		Note:        note,
	}
	if err := s.historyRepo.Append(ctx, entry); err != nil {
		logger.Error("Failed to record status history", "rentalID", rentalID, "from", from, "to", to, "error", err)
		return domain.DependencyFailure(err, "failed to record status history for rental %d", rentalID)
	}
	return nil
}

func (s *rentalService) upload(ctx context.Context, key string, f *domain.UploadedFile) (string, error) {
	logger.ExternalServiceCall("storage", "Upload", "key", key, "size", len(f.Data))
	url, err := s.files.Upload(ctx, key, f.ContentType, bytes.NewReader(f.Data))
	logger.ExternalServiceResult("storage", "Upload", err, "key", key)
	return url, err
}

// uploadReturnImages stores every image it can and returns the URLs and storage keys
// of the stored ones. Failed uploads are logged and skipped.
func (s *rentalService) uploadReturnImages(ctx context.Context, rentalID int32, images []domain.UploadedFile) (urls, keys []string) {
	for i := range images {
		img := &images[i]
		if len(img.Data) == 0 {
			continue
		}
		key := storageKey(returnImagePrefix, rentalID, img.FileName)
		url, err := s.upload(ctx, key, img)
		if err != nil {
			logger.Warn("Skipping return condition image", "rentalID", rentalID, "file", img.FileName, "error", err)
			continue
		}
		if url == "" {
			logger.Warn("Skipping return condition image", "rentalID", rentalID, "file", img.FileName, "error", "empty url")
			s.discardUploads(ctx, key)
			continue
		}
		urls = append(urls, url)
		keys = append(keys, key)
	}
	return urls, keys
}

// discardUploads removes stored files no rental refers to. Files that cannot be removed
// are logged with their key so they can be cleaned up by hand.
func (s *rentalService) discardUploads(ctx context.Context, keys ...string) {
	for _, key := range keys {
		logger.ExternalServiceCall("storage", "Delete", "key", key)
		err := s.files.Delete(ctx, key)
		logger.ExternalServiceResult("storage", "Delete", err, "key", key)
		if err != nil {
			logger.Error("Orphaned upload left in storage", "key", key, "error", err)
		}
	}
}

// releaseUnit gives back a unit taken for a write that did not happen.
func (s *rentalService) releaseUnit(ctx context.Context, productID int32) {
	if err := s.inventory.AdjustAvailableQuantity(ctx, productID, 1); err != nil {
		logger.Error("Failed to release reserved unit", "productID", productID, "error", err)
	}
}

func (s *rentalService) inventoryStep(productID int32, delta int32) advisoryStep {
	return advisoryStep{
		name: "inventory " + strconv.Itoa(int(delta)),
		run: func(ctx context.Context, _ *domain.Rental) error {
			return s.inventory.AdjustAvailableQuantity(ctx, productID, delta)
		},
	}
}

func (s *rentalService) notifyStep(userID int32, kind domain.NotificationType, title, message string) advisoryStep {
	return advisoryStep{
		name: "notify " + string(kind),
		run: func(ctx context.Context, r *domain.Rental) error {
			s.notify(ctx, r, userID, kind, title, message)
			return nil
		},
	}
}

func (s *rentalService) notify(ctx context.Context, r *domain.Rental, userID int32, kind domain.NotificationType, title, message string) {
	s.notifier.Notify(ctx, domain.Notification{
		UserID:            userID,
		Type:              kind,
		Title:             title,
		Message:           message,
		LinkURL:           fmt.Sprintf("/rentals/%d", r.ID),
		RelatedEntityType: relatedEntityRental,
		RelatedEntityID:   r.ID,
		RelatedEntityUID:  r.RentalUID,
	})
}

func storageKey(prefix string, rentalID int32, fileName string) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" {
		name = "upload"
	}
	return fmt.Sprintf("%s/rental-%d-%s-%s", prefix, rentalID, uuid.NewString(), name)
}
