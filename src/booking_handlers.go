package main

import (
	"log"
	"net/http"

	"mbs/src/db"
	"mbs/src/models"
	"mbs/src/types"
	"mbs/src/utils"

	"github.com/gin-gonic/gin"
)

func abortWithAPIError(ctx *gin.Context, err error) {
	apierr := types.AsAPIError(err)
	if apierr.Kind == types.ErrInternal {
		log.Printf("Could not complete request: %s\n", err.Error())
	}
	ctx.JSON(apierr.StatusCode(), gin.H{"error": apierr.Message})
}

// loadOwnedBooking fetches a booking and checks the caller may see it:
// the customer who made it, the provider it is for, or an admin.
func loadOwnedBooking(ctx *gin.Context, id uint) (*models.Booking, bool) {
	userId := ctx.GetUint("id")
	role := types.Role(ctx.GetString("role"))
	var booking models.Booking
	if err := db.GetDb().
		Preload("Service").
		Preload("StatusHistory").
		Preload("Transactions").
		First(&booking, id).
		Error; err != nil {
		abortWithAPIError(ctx, types.NewAPIError(types.ErrNotFound, "booking not found"))
		return nil, false
	}
	if role != types.ROLE_ADMIN && booking.CustomerID != userId && booking.ProviderID != userId {
		abortWithAPIError(ctx, types.NewAPIError(types.ErrPermissionDenied, "not your booking"))
		return nil, false
	}
	return &booking, true
}

// transitionAllowed enforces who may move a booking into a target status.
func transitionAllowed(booking *models.Booking, userId uint, role types.Role, to types.BookingStatus) bool {
	if role == types.ROLE_ADMIN {
		return true
	}
	switch to {
	case types.BOOKING_CONFIRMED, types.BOOKING_IN_PROGRESS, types.BOOKING_COMPLETED:
		return booking.ProviderID == userId
	case types.BOOKING_DISPUTED:
		return booking.CustomerID == userId
	case types.BOOKING_CANCELLED:
		return booking.CustomerID == userId || booking.ProviderID == userId
	}
	return false
}

func bookingHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/bookings", func(ctx *gin.Context) {
			var body types.CreateBookingRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			role := types.Role(ctx.GetString("role"))
			if role != types.ROLE_CUSTOMER && role != types.ROLE_ADMIN {
				abortWithAPIError(ctx, types.NewAPIError(types.ErrPermissionDenied, "only customers can create bookings"))
				return
			}
			userId := ctx.GetUint("id")
			booking, err := utils.CreateBooking(userId, &body)
			if err != nil {
				abortWithAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": booking})
		}).
		GET("/bookings", func(ctx *gin.Context) {
			var filters types.BookingsQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			role := types.Role(ctx.GetString("role"))
			q := db.GetDb().Model(&models.Booking{}).Preload("Service")
			switch role {
			case types.ROLE_PROVIDER:
				q = q.Where("provider_id = ?", userId)
			case types.ROLE_ADMIN:
			default:
				q = q.Where("customer_id = ?", userId)
			}
			if filters.Status != "" {
				q = q.Where("status = ?", filters.Status)
			}
			if filters.PaymentStatus != "" {
				q = q.Where("payment_status = ?", filters.PaymentStatus)
			}
			var bookings []models.Booking
			if err := q.Order("scheduled_start ASC").Find(&bookings).Error; err != nil {
				abortWithAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": bookings, "count": len(bookings)})
		}).
		GET("/bookings/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, ok := loadOwnedBooking(ctx, params.ID)
			if !ok {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": booking})
		}).
		PATCH("/bookings/:id/accept", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, ok := loadOwnedBooking(ctx, params.ID)
			if !ok {
				return
			}
			userId := ctx.GetUint("id")
			role := types.Role(ctx.GetString("role"))
			if !transitionAllowed(booking, userId, role, types.BOOKING_CONFIRMED) {
				abortWithAPIError(ctx, types.NewAPIError(types.ErrPermissionDenied, "only the provider can accept a booking"))
				return
			}
			updated, err := utils.AcceptBooking(booking.ID, userId, "")
			if err != nil {
				abortWithAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": updated})
		}).
		PATCH("/bookings/:id/decline", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, ok := loadOwnedBooking(ctx, params.ID)
			if !ok {
				return
			}
			userId := ctx.GetUint("id")
			role := types.Role(ctx.GetString("role"))
			if role != types.ROLE_ADMIN && booking.ProviderID != userId {
				abortWithAPIError(ctx, types.NewAPIError(types.ErrPermissionDenied, "only the provider can decline a booking"))
				return
			}
			updated, err := utils.DeclineBooking(booking.ID, userId, "")
			if err != nil {
				abortWithAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": updated})
		}).
		PATCH("/bookings/:id/status", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.UpdateBookingStatusRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			to := types.BookingStatus(body.Status)
			switch to {
			case types.BOOKING_CONFIRMED, types.BOOKING_IN_PROGRESS, types.BOOKING_COMPLETED, types.BOOKING_CANCELLED, types.BOOKING_DISPUTED:
			default:
				abortWithAPIError(ctx, types.NewAPIError(types.ErrValidation, "unknown booking status"))
				return
			}
			booking, ok := loadOwnedBooking(ctx, params.ID)
			if !ok {
				return
			}
			userId := ctx.GetUint("id")
			role := types.Role(ctx.GetString("role"))
			if !transitionAllowed(booking, userId, role, to) {
				abortWithAPIError(ctx, types.NewAPIError(types.ErrPermissionDenied, "you cannot apply this status"))
				return
			}
			updated, err := utils.TransitionBooking(booking.ID, to, userId, body.Reason)
			if err != nil {
				abortWithAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": updated})
		})
	return g
}
