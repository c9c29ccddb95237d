// Package contact_service contains request and response contracts for the contact service
package contact_service

import (
	"strings"
	"time"

	"contactbook/services/contact-service/domain/model"
)

// CreateUserRequest represents the request payload for creating a contact
type CreateUserRequest struct {
	FullName        string `json:"full_name" validate:"required,min=2,max=255"`
	Email           string `json:"email" validate:"required,email,max=255"`
	PhoneNumber     string `json:"phone_number" validate:"required,min=10,max=50"`
	Address         string `json:"address" validate:"max=1000"`
	AdditionalNotes string `json:"additional_notes" validate:"max=2000"`
}

// UpdateUserRequest replaces every mutable field of a contact
type UpdateUserRequest CreateUserRequest

// Normalize trims every field and lower-cases the email before validation
func (r *CreateUserRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.PhoneNumber = strings.TrimSpace(r.PhoneNumber)
	r.Address = strings.TrimSpace(r.Address)
	r.AdditionalNotes = strings.TrimSpace(r.AdditionalNotes)
}

// Normalize trims every field and lower-cases the email before validation
func (r *UpdateUserRequest) Normalize() {
	(*CreateUserRequest)(r).Normalize()
}

// UserResponse is the JSON shape of a contact
type UserResponse struct {
	ID              uint64    `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	PhoneNumber     string    `json:"phone_number"`
	Address         string    `json:"address"`
	AdditionalNotes string    `json:"additional_notes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateUserRequestToModel converts CreateUserRequest to model.User
func CreateUserRequestToModel(req *CreateUserRequest) *model.User {
	return &model.User{
		FullName:        req.FullName,
		Email:           req.Email,
		PhoneNumber:     req.PhoneNumber,
		Address:         req.Address,
		AdditionalNotes: req.AdditionalNotes,
	}
}

// UpdateUserRequestToModel converts UpdateUserRequest to model.User for id
func UpdateUserRequestToModel(id uint64, req *UpdateUserRequest) *model.User {
	user := CreateUserRequestToModel((*CreateUserRequest)(req))
	user.ID = id
	return user
}

// UserModelToResponse converts model.User to UserResponse
func UserModelToResponse(user *model.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:              user.ID,
		FullName:        user.FullName,
		Email:           user.Email,
		PhoneNumber:     user.PhoneNumber,
		Address:         user.Address,
		AdditionalNotes: user.AdditionalNotes,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}

// UserModelsToResponses converts a slice of model.User; the result is never nil
func UserModelsToResponses(users []*model.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = *UserModelToResponse(user)
	}
	return responses
}
