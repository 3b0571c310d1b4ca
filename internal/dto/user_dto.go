package dto

import "github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"

type UpsertUserRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type UpsertUserResponse struct {
	Created bool         `json:"created"`
	User    *models.User `json:"user"`
}

type UpdateProfileRequest struct {
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

type UpdateRoleRequest struct {
	Role string `json:"role"`
}

type RoleResponse struct {
	Role models.Role `json:"role"`
}

type UserListResponse struct {
	Users      []models.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}
