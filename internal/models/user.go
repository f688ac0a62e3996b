package models

import "time"

// User represents an application user stored in the users table.
type User struct {
	ID                    string    `db:"id" json:"id"`
	Name                  string    `db:"name" json:"name"`
	Email                 string    `db:"email" json:"email"`
	PasswordHash          string    `db:"password_hash" json:"-"`
	AcademicQualification *string   `db:"academic_qualification" json:"academicQualification,omitempty"`
	CreatedAt             time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt             time.Time `db:"updated_at" json:"updatedAt"`
}

// PublicUser is the subset of user fields that may leave the server.
type PublicUser struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Email                 string     `json:"email"`
	AcademicQualification *string    `json:"academicQualification,omitempty"`
	CreatedAt             *time.Time `json:"createdAt,omitempty"`
}

// Public strips credentials from the user.
func (u *User) Public() PublicUser {
	created := u.CreatedAt
	return PublicUser{
		ID:                    u.ID,
		Name:                  u.Name,
		Email:                 u.Email,
		AcademicQualification: u.AcademicQualification,
		CreatedAt:             &created,
	}
}

// Summary returns only the identifying fields, as sent after registration.
func (u *User) Summary() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}
