package profile

import (
	"time"

	"github.com/google/uuid"
)

// PhoneNotProvided is stored when no phone number is given.
const PhoneNotProvided = "Not provided"

type Profile struct {
	ProfileID   string     `json:"profile_id"`
	UserID      uuid.UUID  `json:"user_id"`
	Username    string     `json:"username"`
	Role        string     `json:"role"`
	PhoneNumber string     `json:"phone_number"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedBy   *uuid.UUID `json:"created_by"`
	UpdatedBy   *uuid.UUID `json:"updated_by"`
}

type CreateProfileRequest struct {
	Role        string `json:"role"`
	PhoneNumber string `json:"phone_number"`
}

type UpdateProfileRequest struct {
	Role        *string `json:"role"`
	PhoneNumber *string `json:"phone_number"`
}

type ListProfilesResponse struct {
	Profiles []*Profile `json:"profiles"`
	Total    int        `json:"total"`
	Limit    int        `json:"limit"`
	Offset   int        `json:"offset"`
}

type Filter struct {
	Role string
}
