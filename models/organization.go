package models

import (
	"time"
)

type Organization struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	OrganizationType string    `json:"organization_type"` // business, ngo, school, church
	Description      string    `json:"description"`
	Location         string    `json:"location"`
	Phone            string    `json:"phone"`
	Email            string    `json:"email"`
	Website          string    `json:"website"`
	Verified         bool      `json:"verified"`
	Owner            string    `json:"owner"`
	Status           string    `json:"status"` // active, suspended
	CreatedAt        time.Time `json:"created_at"`
}

type OrganizationForm struct {
	Name             string `json:"name"`
	OrganizationType string `json:"organization_type"`
	Description      string `json:"description"`
	Location         string `json:"location"`
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Website          string `json:"website"`
}
