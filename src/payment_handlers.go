package main

import (
	"io"
	"log"
	"net/http"

	"mbs/src/db"
	"mbs/src/models"
	"mbs/src/types"
	"mbs/src/utils"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"gorm.io/gorm"
)

func paymentHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/payments/charge", func(ctx *gin.Context) {
			var body types.ChargeRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			booking, ok := loadOwnedBooking(ctx, body.BookingID)
			if !ok {
				return
			}
			userId := ctx.GetUint("id")
			role := types.Role(ctx.GetString("role"))
			if role != types.ROLE_ADMIN && booking.CustomerID != userId {
				abortWithAPIError(ctx, types.NewAPIError(types.ErrPermissionDenied, "only the customer can pay for a booking"))
				return
			}
			txn, err := utils.ChargeBooking(ctx, booking.ID, body.Phone)
			if err != nil {
				abortWithAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": txn})
		}).
		POST("/payments/manual-confirm", func(ctx *gin.Context) {
			role := types.Role(ctx.GetString("role"))
			if role != types.ROLE_ADMIN {
				abortWithAPIError(ctx, types.NewAPIError(types.ErrPermissionDenied, "admin only"))
				return
			}
			var body types.ManualConfirmRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			userId := ctx.GetUint("id")
			txn, err := utils.ManualConfirm(&body, userId)
			if err != nil {
				abortWithAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": txn})
		}).
		GET("/transactions/:id", func(ctx *gin.Context) {
			id := ctx.Params.ByName("id")
			var txn models.Transaction
			if err := db.GetDb().
				Preload("Booking").
				Where("id = ?", id).
				First(&txn).
				Error; err != nil {
				if err == gorm.ErrRecordNotFound {
					abortWithAPIError(ctx, types.NewAPIError(types.ErrNotFound, "transaction not found"))
					return
				}
				abortWithAPIError(ctx, err)
				return
			}
			userId := ctx.GetUint("id")
			role := types.Role(ctx.GetString("role"))
			if role != types.ROLE_ADMIN && txn.Booking.CustomerID != userId && txn.Booking.ProviderID != userId {
				abortWithAPIError(ctx, types.NewAPIError(types.ErrPermissionDenied, "not your transaction"))
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": txn})
		})
	return g
}

// webhookHandlers registers the unauthenticated gateway callback. Duplicate
// deliveries acknowledge with 200 so the gateway stops retrying; unknown
// references 404 so it retries until the transaction lands.
func webhookHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/webhook/payments", func(ctx *gin.Context) {
			raw, err := io.ReadAll(ctx.Request.Body)
			if err != nil || !gjson.ValidBytes(raw) {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
				return
			}
			payload := gjson.ParseBytes(raw)
			transactionRef := payload.Get("transaction_ref").String()
			status := payload.Get("status").String()
			if transactionRef == "" || status == "" {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "transaction_ref and status are required"})
				return
			}
			var providerRef *string
			if v := payload.Get("provider_ref"); v.Exists() {
				s := v.String()
				providerRef = &s
			}

			var key *string
			if providerRef != nil {
				k := utils.WebhookIdempotencyKey(*providerRef, transactionRef)
				key = &k
				seen, err := utils.CheckIdempotency(db.GetDb(), k)
				if err != nil {
					abortWithAPIError(ctx, err)
					return
				}
				if seen {
					ctx.JSON(http.StatusOK, gin.H{"data": "already processed"})
					return
				}
			}

			meta := utils.NormalizeMetadata(map[string]any{
				"amount":  payload.Get("amount").Value(),
				"message": payload.Get("message").String(),
			})
			var txn *models.Transaction
			switch status {
			case "success":
				txn, err = utils.ProcessSuccess(transactionRef, providerRef, key, meta)
			case "failed":
				txn, err = utils.ProcessFailure(transactionRef, providerRef, key, payload.Get("message").String())
			default:
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
				return
			}
			if err != nil {
				log.Printf("webhook for %s rejected: %s\n", transactionRef, err.Error())
				abortWithAPIError(ctx, err)
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": txn})
		})
	return g
}
