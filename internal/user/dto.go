// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

// UpdateUserRequest changes only the fields that are present.
type UpdateUserRequest struct {
	Email    *string `json:"email,omitempty"    validate:"omitempty,email,max=255"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=8,max=128"`
}

func (r UpdateUserRequest) IsEmpty() bool {
	return r.Email == nil && r.Password == nil
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
