package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mbs/src/config"
	"mbs/src/db"
	"mbs/src/lib"
	"mbs/src/models"
	"mbs/src/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetService loads a bookable service from the catalog, serving from the
// redis cache when warm. Inactive services and inactive providers are not
// bookable.
func GetService(serviceID uint) (*models.Service, error) {
	ctx := context.Background()

	var service models.Service
	if cached, ok := lib.CachedService(ctx, serviceID); ok {
		if err := json.Unmarshal([]byte(cached), &service); err == nil {
			return checkBookable(&service)
		}
	}
	if err := db.GetDb().
		Preload("Provider").
		First(&service, serviceID).
		Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewAPIError(types.ErrNotFound, "service not found")
		}
		return nil, err
	}
	if raw, err := json.Marshal(&service); err == nil {
		lib.CacheService(ctx, serviceID, string(raw))
	}
	return checkBookable(&service)
}

func checkBookable(service *models.Service) (*models.Service, error) {
	if !service.IsActive {
		return nil, types.NewAPIError(types.ErrValidation, "service is not available for booking")
	}
	if service.Provider != nil && !service.Provider.IsActive {
		return nil, types.NewAPIError(types.ErrValidation, "provider is not accepting bookings")
	}
	return service, nil
}

// ResolveEnd determines the end of the requested slot. An explicit end wins;
// a duration is applied to the start; when neither is given the service's
// duration estimate is used, defaulting to one hour. Giving both an end and
// a duration that disagree is an error.
func ResolveEnd(service *models.Service, start time.Time, end *time.Time, durationHours *float64) (time.Time, error) {
	if end != nil && durationHours != nil {
		derived := start.Add(time.Duration(*durationHours * float64(time.Hour)))
		if !derived.Equal(*end) {
			return time.Time{}, types.NewAPIError(types.ErrValidation, "scheduled end and duration disagree")
		}
		return *end, nil
	}
	if end != nil {
		return *end, nil
	}
	if durationHours != nil {
		return start.Add(time.Duration(*durationHours * float64(time.Hour))), nil
	}
	if service.DurationEstimateMinutes != nil && *service.DurationEstimateMinutes > 0 {
		return start.Add(time.Duration(*service.DurationEstimateMinutes) * time.Minute), nil
	}
	return start.Add(time.Hour), nil
}

// ComputeTotal prices the slot: hourly services charge per elapsed hour,
// fixed services charge the flat price regardless of duration.
func ComputeTotal(service *models.Service, start, end time.Time) float64 {
	if service.PriceType == types.PRICE_HOURLY {
		hours := end.Sub(start).Hours()
		return RoundMoney(service.PriceAmount * hours)
	}
	return service.PriceAmount
}

// NewBookingReference generates a short unique booking reference, retrying
// on the off chance of a collision.
func NewBookingReference(tx *gorm.DB) (string, error) {
	for i := 0; i < 5; i++ {
		ref := fmt.Sprintf("bkg_%s", strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
		var count int64
		if err := tx.
			Model(&models.Booking{}).
			Where("reference = ?", ref).
			Count(&count).
			Error; err != nil {
			return "", err
		}
		if count == 0 {
			return ref, nil
		}
	}
	return "", types.NewAPIError(types.ErrInternal, "could not generate booking reference")
}

// CreateBooking validates the request and reserves the slot. The conflict
// check, booking row and initial history entry happen in a single
// transaction so two concurrent requests for the same slot cannot both win.
func CreateBooking(customerID uint, body *types.CreateBookingRequestBody) (*models.Booking, error) {
	var customer models.User
	if err := db.GetDb().First(&customer, customerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, types.NewAPIError(types.ErrNotFound, "customer not found")
		}
		return nil, err
	}
	service, err := GetService(body.ServiceID)
	if err != nil {
		return nil, err
	}
	if service.ProviderID == customerID {
		return nil, types.NewAPIError(types.ErrValidation, "cannot book your own service")
	}

	start, err := time.Parse(config.TIME_PARSE_FORMAT, body.ScheduledStart)
	if err != nil {
		return nil, types.NewAPIError(types.ErrValidation, "invalid scheduled_start")
	}
	var end *time.Time
	if body.ScheduledEnd != nil {
		parsed, err := time.Parse(config.TIME_PARSE_FORMAT, *body.ScheduledEnd)
		if err != nil {
			return nil, types.NewAPIError(types.ErrValidation, "invalid scheduled_end")
		}
		end = &parsed
	}
	scheduledEnd, err := ResolveEnd(service, start, end, body.DurationHours)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := ValidateInterval(start, scheduledEnd, now); err != nil {
		return nil, err
	}
	if start.After(now.AddDate(0, config.MAX_BOOKING_AHEAD_MONTHS, 0)) {
		return nil, types.NewAPIError(types.ErrValidation, fmt.Sprintf("cannot book more than %d months ahead", config.MAX_BOOKING_AHEAD_MONTHS))
	}

	var booking models.Booking
	err = db.GetDb().Transaction(func(tx *gorm.DB) error {
		if err := CheckAndReserve(tx, service.ProviderID, start, scheduledEnd); err != nil {
			return err
		}
		reference, err := NewBookingReference(tx)
		if err != nil {
			return err
		}
		booking = models.Booking{
			Reference:      reference,
			CustomerID:     customerID,
			ProviderID:     service.ProviderID,
			ServiceID:      service.ID,
			ScheduledStart: start,
			ScheduledEnd:   scheduledEnd,
			TotalAmount:    ComputeTotal(service, start, scheduledEnd),
			Status:         types.BOOKING_REQUESTED,
			PaymentStatus:  types.PAYMENT_PENDING,
			Address:        body.Address,
			Notes:          body.Notes,
		}
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}
		history := models.BookingStatusHistory{
			BookingID: booking.ID,
			ToStatus:  types.BOOKING_REQUESTED,
			ActorID:   customerID,
			Reason:    "booking created",
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
