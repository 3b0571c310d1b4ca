package dto

import "github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"

type OwnerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image"`
}

type CreateAppRequest struct {
	Name        string        `json:"name"`
	Title       string        `json:"title"`
	Website     string        `json:"website"`
	Description string        `json:"description"`
	Tags        []string      `json:"tags"`
	Image       string        `json:"image"`
	Owner       *OwnerRequest `json:"owner"`
}

type UpdateAppRequest struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Website     string   `json:"website"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Image       string   `json:"image"`
}

type FeatureRequest struct {
	IsFeatured *bool `json:"isFeatured"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

type AppListResponse struct {
	Apps       []models.Application `json:"apps"`
	Pagination Pagination           `json:"pagination"`
}

// VoteResponse reports the state after a vote transition.
type VoteResponse struct {
	Success bool     `json:"success"`
	Upvotes int      `json:"upvotes"`
	Voters  []string `json:"voters"`
}
