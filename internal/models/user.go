package models

import "time"

// Roles a user account can hold.
const (
	RoleAdmin        = "ADMIN"
	RoleCoordinator  = "COORDINATOR"
	RolePhotographer = "PHOTOGRAPHER"
	RoleMember       = "MEMBER"
	RolePublic       = "PUBLIC"
)

// User is a registered account. Accounts created via self-registration stay
// inactive until the emailed OTP is verified; accounts created through the
// institute OAuth flow are active immediately.
type User struct {
	ID             int        `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	Role           string     `db:"role" json:"role"`
	Bio            string     `db:"bio" json:"bio,omitempty"`
	Batch          *int       `db:"batch" json:"batch,omitempty"`
	Department     string     `db:"department" json:"department,omitempty"`
	DisplayPicture string     `db:"display_picture" json:"display_picture,omitempty"`
	IsActive       bool       `db:"is_active" json:"is_active"`
	EmailVerified  bool       `db:"email_verified" json:"email_verified"`
	OTPCode        *string    `db:"otp_code" json:"-"`
	OTPExpiresAt   *time.Time `db:"otp_expires_at" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// UserSummary is the shape returned by user search.
type UserSummary struct {
	ID       int    `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
	Email    string `db:"email" json:"email"`
}
