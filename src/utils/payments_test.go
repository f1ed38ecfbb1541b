package utils

import (
	"strings"
	"testing"

	"mbs/src/db"
	"mbs/src/types"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestWebhookIdempotencyKey(t *testing.T) {
	key := WebhookIdempotencyKey("mm_9f2c", "txn_abc123")
	assert.Equal(t, "webhook_mm_9f2c_txn_abc123", key)
}

func TestNewTransactionReference(t *testing.T) {
	ref := NewTransactionReference()
	assert.True(t, strings.HasPrefix(ref, "txn_"))
	assert.Len(t, ref, 20)
	assert.NotEqual(t, ref, NewTransactionReference())
}

func TestNormalizeMetadata(t *testing.T) {
	meta := NormalizeMetadata(map[string]any{
		"amount":   150.0,
		"attempts": 2,
		"fee":      int64(3),
		"channel":  "mobile_money",
	})
	assert.Equal(t, "150", meta["amount"])
	assert.Equal(t, "2", meta["attempts"])
	assert.Equal(t, "3", meta["fee"])
	assert.Equal(t, "mobile_money", meta["channel"])

	assert.Nil(t, NormalizeMetadata(nil))
}

func TestMergeMetadataKeepsStoredKeys(t *testing.T) {
	stored := types.JSONB{"recorded_by": "9", "notes": "cash at office"}
	merged := mergeMetadata(stored, types.JSONB{"amount": "100"})

	assert.Equal(t, "9", merged["recorded_by"])
	assert.Equal(t, "cash at office", merged["notes"])
	assert.Equal(t, "100", merged["amount"])

	// inputs stay untouched
	_, ok := stored["amount"]
	assert.False(t, ok)

	assert.Nil(t, mergeMetadata(nil, nil))
	assert.Equal(t, types.JSONB{"a": "1"}, mergeMetadata(nil, types.JSONB{"a": "1"}))
	assert.Equal(t, types.JSONB{"a": "1"}, mergeMetadata(types.JSONB{"a": "1"}, nil))
}

func TestInitiatePayment(t *testing.T) {
	gormDB, mock := NewMockDB()
	db.NewDB(gormDB)

	bookingRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "customer_id", "provider_id", "service_id", "total_amount", "status", "payment_status"}).
			AddRow(1, 2, 3, 4, 100.0, "confirmed", "pending")
	}
	serviceRows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "provider_id", "category", "price_type", "price_amount", "is_active"}).
			AddRow(4, 3, "cleaning", "fixed", 100.0, true)
	}

	// an open attempt is returned as-is instead of stacking a second charge
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" (.+)FOR UPDATE`).WillReturnRows(bookingRows())
	mock.ExpectQuery(`SELECT (.+) FROM "services"`).WillReturnRows(serviceRows())
	mock.ExpectQuery(`SELECT (.+) FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "reference", "status"}).
			AddRow(uuid.NewString(), 1, "txn_existing", "pending"))
	mock.ExpectCommit()

	txn, err := InitiatePayment(1)
	assert.NoError(t, err)
	assert.Equal(t, "txn_existing", txn.Reference)
	assert.Equal(t, types.TRANSACTION_PENDING, txn.Status)

	// once the open attempt is terminal a fresh one is created
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "bookings" (.+)FOR UPDATE`).WillReturnRows(bookingRows())
	mock.ExpectQuery(`SELECT (.+) FROM "services"`).WillReturnRows(serviceRows())
	mock.ExpectQuery(`SELECT (.+) FROM "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`SELECT (.+) FROM "commissions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`INSERT INTO "transactions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectExec(`UPDATE "bookings" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	fresh, err := InitiatePayment(1)
	assert.NoError(t, err)
	assert.NotEqual(t, "txn_existing", fresh.Reference)
	assert.True(t, strings.HasPrefix(fresh.Reference, "txn_"))
	assert.Equal(t, types.TRANSACTION_PENDING, fresh.Status)
	// no active rule configured: default 10% of the booking total
	assert.Equal(t, 10.00, fresh.CommissionAmount)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionStatusTerminal(t *testing.T) {
	assert.True(t, types.TRANSACTION_SUCCESS.Terminal())
	assert.True(t, types.TRANSACTION_FAILED.Terminal())
	assert.True(t, types.TRANSACTION_REFUNDED.Terminal())
	assert.True(t, types.TRANSACTION_CANCELED.Terminal())
	assert.False(t, types.TRANSACTION_PENDING.Terminal())
	assert.False(t, types.TRANSACTION_PROCESSING.Terminal())
}
