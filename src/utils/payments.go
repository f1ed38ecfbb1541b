package utils

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"mbs/src/config"
	"mbs/src/db"
	"mbs/src/lib"
	"mbs/src/models"
	"mbs/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func NewTransactionReference() string {
	return fmt.Sprintf("txn_%s", strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
}

// WebhookIdempotencyKey derives the dedupe key for a gateway notification
// from the gateway's own reference and ours.
func WebhookIdempotencyKey(providerRef, transactionRef string) string {
	return fmt.Sprintf("webhook_%s_%s", providerRef, transactionRef)
}

// CheckIdempotency reports whether a notification with this key was already
// applied.
func CheckIdempotency(tx *gorm.DB, key string) (bool, error) {
	var count int64
	if err := tx.
		Model(&models.Transaction{}).
		Where("idempotency_key = ?", key).
		Count(&count).
		Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// mergeMetadata overlays new keys onto a transaction's stored metadata
// without mutating either input. Stored keys survive a settle.
func mergeMetadata(base, overlay types.JSONB) types.JSONB {
	if base == nil && overlay == nil {
		return nil
	}
	merged := types.JSONB{}
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range overlay {
		merged[k] = v
	}
	return merged
}

// NormalizeMetadata coerces numeric values to strings so metadata written
// from different sources compares and round-trips consistently.
func NormalizeMetadata(meta map[string]any) types.JSONB {
	if meta == nil {
		return nil
	}
	out := types.JSONB{}
	for k, v := range meta {
		switch n := v.(type) {
		case float64:
			out[k] = strconv.FormatFloat(n, 'f', -1, 64)
		case int:
			out[k] = strconv.Itoa(n)
		case int64:
			out[k] = strconv.FormatInt(n, 10)
		default:
			out[k] = v
		}
	}
	return out
}

// InitiatePayment opens a payment attempt for a booking. The commission is
// resolved from the rules active right now and persisted on both the
// transaction and the booking. If a non-terminal attempt already exists it
// is returned as-is, so retries never stack charges.
func InitiatePayment(bookingID uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Service").
			First(&booking, bookingID).
			Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewAPIError(types.ErrNotFound, "booking not found")
			}
			return err
		}
		if booking.PaymentStatus == types.PAYMENT_PAID {
			return types.NewAPIError(types.ErrAlreadyPaid, "booking is already paid")
		}
		if booking.Status == types.BOOKING_CANCELLED {
			return types.NewAPIError(types.ErrInvalidState, "cannot pay a cancelled booking")
		}
		var existing models.Transaction
		err := tx.
			Where("booking_id = ?", booking.ID).
			Where("status NOT IN ?", []types.TransactionStatus{
				types.TRANSACTION_SUCCESS,
				types.TRANSACTION_FAILED,
				types.TRANSACTION_REFUNDED,
				types.TRANSACTION_CANCELED,
			}).
			First(&existing).
			Error
		if err == nil {
			txn = existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		var category *string
		if booking.Service != nil {
			category = &booking.Service.Category
		}
		rate, flatFee, err := ResolveRate(tx, &booking.ProviderID, category)
		if err != nil {
			return err
		}
		commission, err := Calculate(booking.TotalAmount, rate, flatFee)
		if err != nil {
			return err
		}
		txn = models.Transaction{
			BookingID:        booking.ID,
			Reference:        NewTransactionReference(),
			Amount:           booking.TotalAmount,
			CommissionAmount: commission,
			Currency:         config.DefaultCurrency(),
			Status:           types.TRANSACTION_PENDING,
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		return tx.
			Model(&booking).
			Update("commission_amount", commission).
			Error
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ProcessSuccess finalizes a payment attempt. The transaction status, the
// booking's payment status and the idempotency key all commit together.
// Re-delivering a success for an already successful transaction is a no-op.
func ProcessSuccess(transactionRef string, providerRef *string, idempotencyKey *string, meta types.JSONB) (*models.Transaction, error) {
	var txn models.Transaction
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("reference = ?", transactionRef).
			First(&txn).
			Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewAPIError(types.ErrNotFound, "transaction not found")
			}
			return err
		}
		if txn.Status.Terminal() {
			if txn.Status == types.TRANSACTION_SUCCESS {
				return nil
			}
			return types.NewAPIError(types.ErrInvalidState, fmt.Sprintf("transaction is already %s", txn.Status))
		}
		var booking models.Booking
		if err := tx.First(&booking, txn.BookingID).Error; err != nil {
			return err
		}
		if booking.Status == types.BOOKING_CANCELLED {
			return types.NewAPIError(types.ErrInvalidState, "cannot mark a cancelled booking as paid")
		}
		updates := map[string]any{"status": types.TRANSACTION_SUCCESS}
		if providerRef != nil {
			updates["provider_ref"] = *providerRef
		}
		if idempotencyKey != nil {
			updates["idempotency_key"] = *idempotencyKey
		}
		if meta != nil {
			updates["metadata"] = mergeMetadata(txn.Metadata, meta)
		}
		if err := tx.Model(&txn).Updates(updates).Error; err != nil {
			return err
		}
		return tx.
			Model(&models.Booking{}).
			Where("id = ?", txn.BookingID).
			Update("payment_status", types.PAYMENT_PAID).
			Error
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ProcessFailure marks a payment attempt failed. A failure arriving after a
// success is rejected, a repeated failure is a no-op.
func ProcessFailure(transactionRef string, providerRef *string, idempotencyKey *string, reason string) (*models.Transaction, error) {
	var txn models.Transaction
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("reference = ?", transactionRef).
			First(&txn).
			Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewAPIError(types.ErrNotFound, "transaction not found")
			}
			return err
		}
		if txn.Status.Terminal() {
			if txn.Status == types.TRANSACTION_FAILED {
				return nil
			}
			return types.NewAPIError(types.ErrInvalidState, fmt.Sprintf("transaction is already %s", txn.Status))
		}
		overlay := types.JSONB{}
		if reason != "" {
			overlay["failure_reason"] = reason
		}
		updates := map[string]any{
			"status":   types.TRANSACTION_FAILED,
			"metadata": mergeMetadata(txn.Metadata, overlay),
		}
		if providerRef != nil {
			updates["provider_ref"] = *providerRef
		}
		if idempotencyKey != nil {
			updates["idempotency_key"] = *idempotencyKey
		}
		if err := tx.Model(&txn).Updates(updates).Error; err != nil {
			return err
		}
		return tx.
			Model(&models.Booking{}).
			Where("id = ?", txn.BookingID).
			Update("payment_status", types.PAYMENT_FAILED).
			Error
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ManualConfirm records a payment received outside the gateway as a
// processing transaction awaiting administrative approval; settling it goes
// through ProcessSuccess like any other attempt. The caller-supplied
// transaction reference keys repeated submissions to a single attempt.
func ManualConfirm(body *types.ManualConfirmRequestBody, actorID uint) (*models.Transaction, error) {
	var txn models.Transaction
	err := db.GetDb().Transaction(func(tx *gorm.DB) error {
		var booking models.Booking
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Service").
			First(&booking, body.BookingID).
			Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewAPIError(types.ErrNotFound, "booking not found")
			}
			return err
		}
		if booking.Status == types.BOOKING_CANCELLED {
			return types.NewAPIError(types.ErrInvalidState, "cannot record payment for a cancelled booking")
		}
		if booking.PaymentStatus == types.PAYMENT_PAID {
			return types.NewAPIError(types.ErrAlreadyPaid, "booking is already paid")
		}
		var existing models.Transaction
		err := tx.
			Where("reference = ?", body.TransactionRef).
			First(&existing).
			Error
		if err == nil {
			if existing.BookingID == booking.ID && existing.Status == types.TRANSACTION_PROCESSING {
				txn = existing
				return nil
			}
			return types.NewAPIError(types.ErrInvalidState, fmt.Sprintf("transaction reference already used by a %s transaction", existing.Status))
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		var open int64
		if err := tx.
			Model(&models.Transaction{}).
			Where("booking_id = ?", booking.ID).
			Where("status IN ?", []types.TransactionStatus{types.TRANSACTION_PENDING, types.TRANSACTION_PROCESSING}).
			Count(&open).
			Error; err != nil {
			return err
		}
		if open > 0 {
			return types.NewAPIError(types.ErrInvalidState, "another payment attempt is in progress")
		}
		var category *string
		if booking.Service != nil {
			category = &booking.Service.Category
		}
		rate, flatFee, err := ResolveRate(tx, &booking.ProviderID, category)
		if err != nil {
			return err
		}
		commission, err := Calculate(body.Amount, rate, flatFee)
		if err != nil {
			return err
		}
		txn = models.Transaction{
			BookingID:        booking.ID,
			Reference:        body.TransactionRef,
			Amount:           body.Amount,
			CommissionAmount: commission,
			Currency:         config.DefaultCurrency(),
			Status:           types.TRANSACTION_PROCESSING,
			PaymentMethod:    body.PaymentMethod,
			Metadata: types.JSONB{
				"recorded_by": strconv.FormatUint(uint64(actorID), 10),
				"notes":       body.Notes,
			},
		}
		if err := tx.Create(&txn).Error; err != nil {
			return err
		}
		return tx.
			Model(&booking).
			Update("commission_amount", commission).
			Error
	})
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// ChargeBooking runs a synchronous charge through the gateway: open the
// payment attempt, call out, then settle the result.
func ChargeBooking(ctx context.Context, bookingID uint, phone string) (*models.Transaction, error) {
	txn, err := InitiatePayment(bookingID)
	if err != nil {
		return nil, err
	}
	if err := db.GetDb().
		Model(txn).
		Update("status", types.TRANSACTION_PROCESSING).
		Error; err != nil {
		return nil, err
	}
	result, err := lib.GetGateway().Charge(ctx, &lib.ChargeInput{
		Phone:     phone,
		Amount:    txn.Amount,
		Currency:  txn.Currency,
		Reference: txn.Reference,
	})
	if err != nil {
		log.Printf("gateway charge failed for %s: %s\n", txn.Reference, err.Error())
		return ProcessFailure(txn.Reference, nil, nil, err.Error())
	}
	if !result.Success {
		return ProcessFailure(txn.Reference, result.ProviderRef, nil, result.Message)
	}
	return ProcessSuccess(txn.Reference, result.ProviderRef, nil, nil)
}
