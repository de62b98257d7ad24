package handlers

import (
	"net/http"
	"strconv"

	"adhouse/models"
	"adhouse/services"

	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"
)

type OrganizationHandler struct {
	orgService *services.OrganizationService
}

func NewOrganizationHandler(orgService *services.OrganizationService) *OrganizationHandler {
	return &OrganizationHandler{orgService: orgService}
}

// List - browse the organization directory
func (h *OrganizationHandler) List(e *core.RequestEvent) error {
	q := e.Request.URL.Query()

	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	filter := services.OrganizationFilter{
		OrganizationType: q.Get("type"),
		Location:         q.Get("location"),
		Limit:            limit,
		Offset:           offset,
	}
	if v := q.Get("verified"); v != "" {
		verified := v == "true"
		filter.Verified = &verified
	}

	records, err := h.orgService.List(e.Request.Context(), filter)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to list organizations", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{"organizations": records})
}

func (h *OrganizationHandler) Get(e *core.RequestEvent) error {
	record, err := h.orgService.Get(e.Request.Context(), e.Request.PathValue("orgId"))
	if err != nil {
		return apis.NewNotFoundError("Organization not found", nil)
	}

	return e.JSON(http.StatusOK, record)
}

func (h *OrganizationHandler) Create(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	var form models.OrganizationForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}
	if form.Name == "" || form.OrganizationType == "" {
		return apis.NewBadRequestError("Name and organization type are required", nil)
	}

	record, err := h.orgService.Create(e.Request.Context(), e.Auth.Id, &form)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to create organization", nil)
	}

	return e.JSON(http.StatusCreated, record)
}

func (h *OrganizationHandler) Update(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	orgID := e.Request.PathValue("orgId")

	existing, err := h.orgService.Get(e.Request.Context(), orgID)
	if err != nil {
		return apis.NewNotFoundError("Organization not found", nil)
	}
	if existing.GetString("owner") != e.Auth.Id {
		return apis.NewForbiddenError("Access denied", nil)
	}

	var form models.OrganizationForm
	if err := e.BindBody(&form); err != nil {
		return apis.NewBadRequestError("Invalid request body", err)
	}

	record, err := h.orgService.Update(e.Request.Context(), orgID, &form)
	if err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to update organization", nil)
	}

	return e.JSON(http.StatusOK, record)
}

func (h *OrganizationHandler) Delete(e *core.RequestEvent) error {
	if e.Auth == nil {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	orgID := e.Request.PathValue("orgId")

	existing, err := h.orgService.Get(e.Request.Context(), orgID)
	if err != nil {
		return apis.NewNotFoundError("Organization not found", nil)
	}
	if existing.GetString("owner") != e.Auth.Id {
		return apis.NewForbiddenError("Access denied", nil)
	}

	if err := h.orgService.Delete(e.Request.Context(), orgID); err != nil {
		return apis.NewApiError(http.StatusInternalServerError, "Failed to delete organization", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "Organization deleted"})
}

// Verify - admin-only verification flag
func (h *OrganizationHandler) Verify(e *core.RequestEvent) error {
	if e.Auth == nil || !e.Auth.GetBool("admin") {
		return apis.NewUnauthorizedError("Unauthorized", nil)
	}

	if err := h.orgService.Verify(e.Request.Context(), e.Request.PathValue("orgId")); err != nil {
		return apis.NewNotFoundError("Organization not found", nil)
	}

	return e.JSON(http.StatusOK, map[string]any{"message": "Organization verified"})
}
