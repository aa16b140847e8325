package handler

import (
	"time"

	"github.com/mindforge/mindforge-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request types ---

type registerRequest struct {
	Username  string `json:"username"  validate:"required,min=3,max=64"`
	Password  string `json:"password"  validate:"required"`
	Email     string `json:"email"     validate:"omitempty,email"`
	FirstName string `json:"firstName" validate:"omitempty,max=128"`
	LastName  string `json:"lastName"  validate:"omitempty,max=128"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// profileRequest is a partial update: absent fields stay untouched.
type profileRequest struct {
	Email     *string `json:"email"     validate:"omitempty,email"`
	FirstName *string `json:"firstName" validate:"omitempty,max=128"`
	LastName  *string `json:"lastName"  validate:"omitempty,max=128"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
	Password  *string `json:"password"`
}

type projectRequest struct {
	Name        string `json:"name"        validate:"required,max=200"`
	Description string `json:"description" validate:"omitempty,max=1000"`
	IsPublic    *bool  `json:"isPublic"`
}

// --- Response types ---
// Transport-owned so the wire contract (camelCase, as the SPA consumes it)
// is not coupled to internal domain changes.

type authTokenResponse struct {
	Username     string `json:"username"`
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

type userInfoResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Email     string `json:"email,omitempty"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
}

type adminUserInfoResponse struct {
	ID                  string     `json:"id"`
	Username            string     `json:"username"`
	Role                string     `json:"role"`
	Email               string     `json:"email,omitempty"`
	FirstName           string     `json:"firstName,omitempty"`
	LastName            string     `json:"lastName,omitempty"`
	AvatarURL           string     `json:"avatarUrl,omitempty"`
	AccountLocked       bool       `json:"accountLocked"`
	FailedLoginAttempts int        `json:"failedLoginAttempts"`
	CreatedAt           time.Time  `json:"createdAt"`
	UpdatedAt           time.Time  `json:"updatedAt"`
	LastLoginAttempt    *time.Time `json:"lastLoginAttempt,omitempty"`
}

type projectResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	OwnerID       string    `json:"ownerId"`
	OwnerUsername string    `json:"ownerUsername"`
	IsPublic      bool      `json:"isPublic"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// --- Mappers ---

func toUserInfo(u *domain.User) userInfoResponse {
	return userInfoResponse{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		AvatarURL: u.AvatarURL,
	}
}

func toAdminUserInfo(u *domain.User) adminUserInfoResponse {
	return adminUserInfoResponse{
		ID:                  u.ID,
		Username:            u.Username,
		Role:                u.Role,
		Email:               u.Email,
		FirstName:           u.FirstName,
		LastName:            u.LastName,
		AvatarURL:           u.AvatarURL,
		AccountLocked:       u.AccountLocked,
		FailedLoginAttempts: u.FailedLoginAttempts,
		CreatedAt:           u.CreatedAt,
		UpdatedAt:           u.UpdatedAt,
		LastLoginAttempt:    u.LastLoginAttempt,
	}
}

func toProjects(projects []*domain.Project) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, toProject(p))
	}
	return out
}

func toProject(p *domain.Project) projectResponse {
	return projectResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		OwnerID:       p.OwnerID,
		OwnerUsername: p.OwnerUsername,
		IsPublic:      p.Public,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
