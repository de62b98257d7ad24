package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"adhouse/internal/status"
	"adhouse/models"
	"adhouse/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	paymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

type payRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Amount      string `json:"amount"`
	Provider    string `json:"provider"`
	AdID        string `json:"adId"`
}

// Pay prompts the payer's mobile-money wallet for the listing fee and starts
// a background poller to resolve the outcome.
func (h *PaymentHandler) Pay(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var req payRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	prov := models.PaymentProvider(req.Provider)
	if prov == "" {
		prov = models.ProviderMTN
	}

	amount := h.paymentService.ListingFee()
	if req.Amount != "" {
		parsed, err := decimal.NewFromString(req.Amount)
		if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
			return apis.NewBadRequestError("Invalid amount", err)
		}
		amount = parsed
	}

	ctx := e.Request.Context()

	init, err := h.paymentService.InitiatePayment(ctx, &services.InitiatePaymentRequest{
		PhoneNumber: req.PhoneNumber,
		Amount:      amount,
		Provider:    prov,
		AdID:        req.AdID,
	})
	if err != nil {
		return paymentError(prov, err)
	}

	// Resolve in the background so the form gets an immediate acknowledgment
	// while the payer approves on their phone.
	go h.paymentService.ResolvePayment(context.WithoutCancel(ctx), init.ReferenceID, prov)

	resp := map[string]any{
		"referenceId": init.ReferenceID,
		"status":      "pending",
		"message":     init.Message,
	}
	if init.DevelopmentMode {
		resp["developmentMode"] = true
	}

	return e.JSON(http.StatusOK, resp)
}

// Details returns the stored session for a reference id without contacting
// the provider.
func (h *PaymentHandler) Details(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	referenceID := e.Request.PathValue("referenceId")

	data, err := h.paymentService.GetPayment(e.Request.Context(), referenceID)
	if err != nil {
		return apis.NewNotFoundError("Payment not found", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"referenceId": data["reference_id"],
		"phoneNumber": data["phone_number"],
		"amount":      data["amount"],
		"currency":    data["currency"],
		"provider":    data["provider"],
		"status":      strings.ToLower(data["status"]),
		"adId":        data["ad_id"],
	})
}

// Status runs a single on-demand status check for a reference id.
func (h *PaymentHandler) Status(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	referenceID := e.Request.PathValue("referenceId")
	if referenceID == "" {
		return apis.NewBadRequestError("Missing reference id", nil)
	}

	result, err := h.paymentService.CheckPayment(e.Request.Context(), referenceID)
	if err != nil {
		return paymentError(models.ProviderMTN, err)
	}

	resp := map[string]any{
		"referenceId": result.ReferenceID,
		"status":      strings.ToLower(string(result.Status)),
		"paid":        result.Status == models.PaymentSuccessful,
	}
	if result.Amount != "" {
		resp["amount"] = result.Amount
		resp["currency"] = result.Currency
	}
	if result.Reason != "" {
		resp["reason"] = result.Reason
	}
	if result.DevelopmentMode {
		resp["developmentMode"] = true
	}

	return e.JSON(http.StatusOK, resp)
}

// CreateUser runs the one-time MTN sandbox onboarding flow and returns the
// generated API credentials.
func (h *PaymentHandler) CreateUser(e *core.RequestEvent) error {
	if e.Auth == nil || !e.Auth.GetBool("admin") {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	user, err := h.paymentService.CreateAPIUser(e.Request.Context())
	if err != nil {
		return paymentError(models.ProviderMTN, err)
	}

	return e.JSON(http.StatusOK, map[string]any{
		"userId": user.UserID,
		"apiKey": user.APIKey,
	})
}

type callbackRequest struct {
	Status string `json:"status"`
}

// Callback receives the provider's push notification for a payment. It is
// authenticated with a shared token rather than a user session.
func (h *PaymentHandler) Callback(e *core.RequestEvent) error {
	token := e.Request.Header.Get("X-Callback-Token")
	if !h.paymentService.VerifyCallbackToken(token) {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	referenceID := e.Request.PathValue("referenceId")

	var req callbackRequest
	if err := e.BindBody(&req); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	outcome := models.PaymentStatus(strings.ToUpper(req.Status))
	if !outcome.Terminal() {
		return apis.NewBadRequestError("Invalid callback status", nil)
	}

	if err := h.paymentService.HandleCallback(e.Request.Context(), referenceID, outcome); err != nil {
		if errors.Is(err, status.ErrPaymentNotFound) {
			return apis.NewNotFoundError("Payment not found", nil)
		}
		return apis.NewApiError(http.StatusInternalServerError, "Callback processing failed", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "Callback accepted"})
}

// paymentError maps service failures onto API responses.
func paymentError(prov models.PaymentProvider, err error) error {
	switch {
	case errors.Is(err, status.ErrPaymentsDisabled):
		return apis.NewApiError(http.StatusServiceUnavailable, "MoMo payment functionality has been disabled", nil)

	case errors.Is(err, status.ErrInvalidPhoneNumber):
		name := "MTN"
		if prov == models.ProviderVodafone {
			name = "Vodafone"
		}
		return apis.NewBadRequestError("Invalid "+name+" phone number format", nil)

	case errors.Is(err, status.ErrPaymentDeclined):
		return apis.NewBadRequestError("[DEV MODE] Payment failed. Please try again.", nil)

	case errors.Is(err, status.ErrNotConfigured):
		return apis.NewApiError(http.StatusInternalServerError, "Telecel API not configured", nil)

	default:
		return apis.NewApiError(http.StatusInternalServerError, "Payment processing failed", nil)
	}
}
