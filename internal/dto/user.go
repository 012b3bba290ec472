package dto

import (
	"github.com/FieldOpsLabs/inspection_tracking_app/internal/core/domain"
)

// --- User DTOs ---

// CreateUserRequest defines data for registering a new user.
type CreateUserRequest struct {
	Username       string          `json:"username" binding:"required,min=3"`
	Password       string          `json:"password" binding:"required,min=8"`
	Name           string          `json:"name" binding:"required"`
	Email          string          `json:"email" binding:"required,email"`
	OrganizationID string          `json:"organizationID"` // Empty joins the default organization
	Role           domain.UserRole `json:"role" binding:"omitempty,oneof=admin inspector approver guest"`
}

// LoginRequest defines credentials for password login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest defines the data allowed for updating a user.
// Pointers differentiate omitted fields from zero-value fields.
type UpdateUserRequest struct {
	Name         *string          `json:"name"`
	Role         *domain.UserRole `json:"role" binding:"omitempty,oneof=admin inspector approver guest"`
	CustomRoleID *string          `json:"customRoleID"`
	Permissions  []string         `json:"permissions"`
}

// ListUsersParams defines query parameters for listing users.
type ListUsersParams struct {
	Limit  int `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Offset int `form:"offset,default=0" binding:"omitempty,min=0"`
}

// UserResponse defines data returned for a user.
type UserResponse struct {
	UserID         string          `json:"userID"`
	Username       string          `json:"username"`
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Role           domain.UserRole `json:"role"`
	OrganizationID string          `json:"organizationID"`
	CustomRoleID   *string         `json:"customRoleID,omitempty"`
	Permissions    []string        `json:"permissions,omitempty"`
}

// ToUserResponse converts domain.User to DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:         u.UserID,
		Username:       u.Username,
		Name:           u.Name,
		Email:          u.Email,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		CustomRoleID:   u.CustomRoleID,
		Permissions:    u.Permissions,
	}
}

// ListUsersResponse wraps the list of users.
type ListUsersResponse struct {
	Users []UserResponse `json:"users"`
}

// ToListUsersResponse converts a slice of domain.User to DTO.
func ToListUsersResponse(users []domain.User) ListUsersResponse {
	userResponses := make([]UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = ToUserResponse(&user)
	}
	return ListUsersResponse{Users: userResponses}
}
