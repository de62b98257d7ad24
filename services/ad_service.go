package services

import (
	"context"
	"fmt"
	"strings"

	"adhouse/models"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

// AdFilter narrows List results. Zero values mean "any".
type AdFilter struct {
	Category string
	Location string
	Owner    string
	Status   string
	Search   string
	Limit    int
	Offset   int
}

type AdService struct {
	app core.App

	// autoActivate skips the pending state when no listing fee is charged.
	autoActivate bool
}

func NewAdService(app core.App) *AdService {
	return &AdService{app: app}
}

// SetAutoActivate makes new ads go live immediately. Used when payments are
// disabled and there is no listing fee to wait for.
func (s *AdService) SetAutoActivate(on bool) {
	s.autoActivate = on
}

// Create stores a new ad in "pending" status. Ads go live only after the
// listing fee clears or a payment callback activates them.
func (s *AdService) Create(ctx context.Context, ownerID string, form *models.AdForm) (*core.Record, error) {
	collection, err := s.app.FindCollectionByNameOrId("ads")
	if err != nil {
		return nil, fmt.Errorf("createAd: %w", err)
	}

	initial := "pending"
	if s.autoActivate {
		initial = "active"
	}

	record := core.NewRecord(collection)
	record.Set("title", form.Title)
	record.Set("description", form.Description)
	record.Set("category", form.Category)
	record.Set("price", form.Price.String())
	record.Set("location", form.Location)
	record.Set("phone", form.Phone)
	record.Set("owner", ownerID)
	record.Set("status", initial)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("createAd: %w", err)
	}

	return record, nil
}

// List returns active ads newest first, optionally narrowed by category,
// location, owner or a title substring.
func (s *AdService) List(ctx context.Context, filter AdFilter) ([]*core.Record, error) {
	var clauses []string
	params := dbx.Params{}

	// Owner queries span all statuses so a seller sees their pending and
	// sold listings; public browsing sees only active ads.
	switch {
	case filter.Status != "":
		clauses = append(clauses, "status = {:status}")
		params["status"] = filter.Status
	case filter.Owner == "":
		clauses = append(clauses, "status = {:status}")
		params["status"] = "active"
	}

	if filter.Category != "" {
		clauses = append(clauses, "category = {:category}")
		params["category"] = filter.Category
	}
	if filter.Location != "" {
		clauses = append(clauses, "location = {:location}")
		params["location"] = filter.Location
	}
	if filter.Owner != "" {
		clauses = append(clauses, "owner = {:owner}")
		params["owner"] = filter.Owner
	}
	if filter.Search != "" {
		clauses = append(clauses, "title ~ {:search}")
		params["search"] = filter.Search
	}

	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 30
	}

	records, err := s.app.FindRecordsByFilter("ads", strings.Join(clauses, " && "), "-created", limit, filter.Offset, params)
	if err != nil {
		return nil, fmt.Errorf("listAds: %w", err)
	}

	return records, nil
}

func (s *AdService) Get(ctx context.Context, id string) (*core.Record, error) {
	record, err := s.app.FindRecordById("ads", id)
	if err != nil {
		return nil, fmt.Errorf("getAd: %s: %w", id, err)
	}
	return record, nil
}

// Update applies form fields to an existing ad. Ownership is enforced by the
// handler before this is called.
func (s *AdService) Update(ctx context.Context, id string, form *models.AdForm) (*core.Record, error) {
	record, err := s.app.FindRecordById("ads", id)
	if err != nil {
		return nil, fmt.Errorf("updateAd: %s: %w", id, err)
	}

	record.Set("title", form.Title)
	record.Set("description", form.Description)
	record.Set("category", form.Category)
	record.Set("price", form.Price.String())
	record.Set("location", form.Location)
	record.Set("phone", form.Phone)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return nil, fmt.Errorf("updateAd: %s: %w", id, err)
	}

	return record, nil
}

func (s *AdService) Delete(ctx context.Context, id string) error {
	record, err := s.app.FindRecordById("ads", id)
	if err != nil {
		return fmt.Errorf("deleteAd: %s: %w", id, err)
	}
	if err := s.app.Delete(record); err != nil {
		return fmt.Errorf("deleteAd: %s: %w", id, err)
	}
	return nil
}

// Activate moves a pending ad to "active". Called when its listing-fee
// payment resolves SUCCESSFUL.
func (s *AdService) Activate(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, "active")
}

// MarkSold is invoked by the owner once the item is gone.
func (s *AdService) MarkSold(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, "sold")
}

func (s *AdService) setStatus(ctx context.Context, id, adStatus string) error {
	record, err := s.app.FindRecordById("ads", id)
	if err != nil {
		return fmt.Errorf("setAdStatus: %s: %w", id, err)
	}

	record.Set("status", adStatus)

	if err := s.app.SaveWithContext(ctx, record); err != nil {
		return fmt.Errorf("setAdStatus: %s: %w", id, err)
	}

	return nil
}
