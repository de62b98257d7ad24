package handlers

import (
	"net/http"
	"strconv"

	"adhouse/models"
	"adhouse/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type AdHandler struct {
	adService *services.AdService
}

func NewAdHandler(adService *services.AdService) *AdHandler {
	return &AdHandler{adService: adService}
}

// List - browse active ads, newest first
func (h *AdHandler) List(e *core.RequestEvent) error {
	q := e.Request.URL.Query()

	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	records, err := h.adService.List(e.Request.Context(), services.AdFilter{
		Category: q.Get("category"),
		Location: q.Get("location"),
		Search:   q.Get("search"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to list ads", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{"ads": records})
}

// Mine - the authenticated user's own ads in any status
func (h *AdHandler) Mine(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	records, err := h.adService.List(e.Request.Context(), services.AdFilter{
		Owner: e.Auth.Id,
		Limit: 100,
	})
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to list ads", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{"ads": records})
}

func (h *AdHandler) Get(e *core.RequestEvent) error {
	record, err := h.adService.Get(e.Request.Context(), e.Request.PathValue("adId"))
	if err != nil {
		return apis.NewNotFoundError("Ad not found", nil)
	}

	return e.JSON(http.StatusOK, record)
}

func (h *AdHandler) Create(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var form models.AdForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	if form.Title == "" || form.Category == "" {
		return apis.NewBadRequestError("Title and category are required", nil)
	}

	record, err := h.adService.Create(e.Request.Context(), e.Auth.Id, &form)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to create ad", nil)
	}

	return e.JSON(http.StatusCreated, record)
}

func (h *AdHandler) Update(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	adID := e.Request.PathValue("adId")

	existing, err := h.adService.Get(e.Request.Context(), adID)
	if err != nil {
		return apis.NewNotFoundError("Ad not found", nil)
	}
	if existing.GetString("owner") != e.Auth.Id {
		return apis.NewForbiddenError("Access denied", nil)
	}

	var form models.AdForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	record, err := h.adService.Update(e.Request.Context(), adID, &form)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to update ad", nil)
	}

	return e.JSON(http.StatusOK, record)
}

func (h *AdHandler) Delete(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	adID := e.Request.PathValue("adId")

	existing, err := h.adService.Get(e.Request.Context(), adID)
	if err != nil {
		return apis.NewNotFoundError("Ad not found", nil)
	}
	if existing.GetString("owner") != e.Auth.Id {
		return apis.NewForbiddenError("Access denied", nil)
	}

	if err := h.adService.Delete(e.Request.Context(), adID); err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to delete ad", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "Ad deleted"})
}

// MarkSold - owner closes out a listed item
func (h *AdHandler) MarkSold(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	adID := e.Request.PathValue("adId")

	existing, err := h.adService.Get(e.Request.Context(), adID)
	if err != nil {
		return apis.NewNotFoundError("Ad not found", nil)
	}
	if existing.GetString("owner") != e.Auth.Id {
		return apis.NewForbiddenError("Access denied", nil)
	}

	if err := h.adService.MarkSold(e.Request.Context(), adID); err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to update ad", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "Ad marked as sold"})
}
