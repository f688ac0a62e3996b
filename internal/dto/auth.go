package dto

import "github.com/noah-isme/mcq-exam-api/internal/models"

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Name                  string `json:"name" validate:"required,max=255"`
	Email                 string `json:"email" validate:"required,max=255"`
	Password              string `json:"password" validate:"required,min=6"`
	AcademicQualification string `json:"academicQualification"`
}

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResult is returned by register and login: the public user plus the session to set.
type AuthResult struct {
	User         *models.User
	SessionToken string
}

// UserResponse wraps the public user fields.
type UserResponse struct {
	User    models.PublicUser `json:"user"`
	Message string            `json:"message,omitempty"`
}

// MessageResponse is a bare acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
