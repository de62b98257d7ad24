package services

import (
	"context"
	"fmt"

	"adhouse/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

type OrganizationFilter struct {
	OrganizationType string
	Location         string
	Verified         *bool
	Limit            int
	Offset           int
}

type OrganizationService struct {
	app core.App
}

func NewOrganizationService(app core.App) *OrganizationService {
	return &OrganizationService{app: app}
}

// Create registers an organization profile. Profiles start unverified;
// verification is an admin action.
func (s *OrganizationService) Create(ctx context.Context, ownerID string, form *models.OrganizationForm) (*core.Record, error) {
	collection, err := s.app.FindCollectionByNameOrId("organizations")
	if err != nil {
		return nil, fmt.Errorf("createOrganization: %w", err)
	}

	record := core.NewRecord(collection)
	record.Set("name", form.Name)
	record.Set("organization_type", form.OrganizationType)
	record.Set("description", form.Description)
	record.Set("location", form.Location)
	record.Set("phone", form.Phone)
	record.Set("email", form.Email)
	record.Set("website", form.Website)
	record.Set("owner", ownerID)
	record.Set("verified", false)
	record.Set("status", "active")

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("createOrganization: %w", err)
	}

	return record, nil
}

func (s *OrganizationService) List(ctx context.Context, filter OrganizationFilter) ([]*core.Record, error) {
	expr := "status = {:status}"
	params := dbx.Params{"status": "active"}

	if filter.OrganizationType != "" {
		expr += " && organization_type = {:type}"
		params["type"] = filter.OrganizationType
	}
	if filter.Location != "" {
		expr += " && location = {:location}"
		params["location"] = filter.Location
	}
	if filter.Verified != nil {
		expr += " && verified = {:verified}"
		params["verified"] = *filter.Verified
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	records, err := s.app.FindRecordsByFilter("organizations", expr, "-created", limit, filter.Offset, params)
	if err != nil {
		return nil, fmt.Errorf("listOrganizations: %w", err)
	}

	return records, nil
}

func (s *OrganizationService) Get(ctx context.Context, id string) (*core.Record, error) {
	record, err := s.app.FindRecordById("organizations", id)
	if err != nil {
		return nil, fmt.Errorf("getOrganization: %s: %w", id, err)
	}
	return record, nil
}

func (s *OrganizationService) Update(ctx context.Context, id string, form *models.OrganizationForm) (*core.Record, error) {
	record, err := s.app.FindRecordById("organizations", id)
	if err != nil {
		return nil, fmt.Errorf("updateOrganization: %s: %w", id, err)
	}

	record.Set("name", form.Name)
	record.Set("organization_type", form.OrganizationType)
	record.Set("description", form.Description)
	record.Set("location", form.Location)
	record.Set("phone", form.Phone)
	record.Set("email", form.Email)
	record.Set("website", form.Website)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("updateOrganization: %s: %w", id, err)
	}

	return record, nil
}

func (s *OrganizationService) Delete(ctx context.Context, id string) error {
	record, err := s.app.FindRecordById("organizations", id)
	if err != nil {
		return fmt.Errorf("deleteOrganization: %s: %w", id, err)
	}
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("deleteOrganization: %s: %w", id, err)
	}
	return nil
}

// Verify flips the verified flag. Re-running it is harmless.
func (s *OrganizationService) Verify(ctx context.Context, id string) error {
	record, err := s.app.FindRecordById("organizations", id)
	if err != nil {
		return fmt.Errorf("verifyOrganization: %s: %w", id, err)
	}

	record.Set("verified", true)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("verifyOrganization: %s: %w", id, err)
	}

	return nil
}
