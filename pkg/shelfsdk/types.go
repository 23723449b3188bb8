package shelfsdk

import "time"

// ErrorResponse is the JSON body of every error response. Client code should
// use APIError instead.
type ErrorResponse struct {
	// Error is the error code (e.g., "invalid_code")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// OKResponse acknowledges a request that returns nothing else.
type OKResponse struct {
	OK bool `json:"ok"`
}

// ============================================================================
// Auth Types
// ============================================================================

// User is the public view of an account. The password never leaves the server.
type User struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Verified    bool      `json:"verified"`
	MFAEnabled  bool      `json:"mfaEnabled"`
	TOTPEnabled bool      `json:"totpEnabled"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserResponse wraps a user, as returned by login, verify-otp and me.
type UserResponse struct {
	User *User `json:"user"`
}

type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
}

// RegisterResponse names the pending account. A register code has been emailed.
type RegisterResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// VerifyOTPRequest completes registration or a login second step.
type VerifyOTPRequest struct {
	UserID string `json:"userId"`
	OTP    string `json:"otp"`

	// Method is "email" (default) or "totp" for an authenticator app code.
	Method string `json:"method,omitempty"`
}

type ResendOTPRequest struct {
	UserID string `json:"userId"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is either {user} when signed in, or {mfa, userId, email}
// when a code was emailed and VerifyOTP must follow.
type LoginResponse struct {
	User   *User  `json:"user,omitempty"`
	MFA    bool   `json:"mfa,omitempty"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type VerifyResetRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// VerifyResetResponse carries the single-use token for ResetPassword.
type VerifyResetResponse struct {
	OK         bool   `json:"ok"`
	UserID     string `json:"userId"`
	ResetToken string `json:"resetToken"`
}

type ResetPasswordRequest struct {
	UserID      string `json:"userId"`
	ResetToken  string `json:"resetToken"`
	NewPassword string `json:"newPassword"`
}

// ============================================================================
// MFA Types
// ============================================================================

// EmailMFARequest turns the emailed login code on or off.
type EmailMFARequest struct {
	Enabled  bool   `json:"enabled"`
	Password string `json:"password"`
}

// TOTPEnrollResponse is scanned into an authenticator app.
type TOTPEnrollResponse struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
}

type TOTPVerifyRequest struct {
	Code string `json:"code"`
}

type TOTPDisableRequest struct {
	Password string `json:"password"`
}

// ============================================================================
// Catalog Types
// ============================================================================

type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description,omitempty"`
	Genre       string    `json:"genre,omitempty"`
	CoverImage  string    `json:"coverImage,omitempty"`
	Pages       int       `json:"pages,omitempty"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BookRequest creates or replaces a book.
type BookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description,omitempty"`
	Genre       string `json:"genre,omitempty"`
	CoverImage  string `json:"coverImage,omitempty"`
	Pages       int    `json:"pages,omitempty"`
}

// ============================================================================
// Reading List Types
// ============================================================================

// Entry is a book on the caller's reading list.
type Entry struct {
	ID          string     `json:"id"`
	BookID      string     `json:"bookId"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	FinishedAt  *time.Time `json:"finishedAt,omitempty"`
	DaysReading int        `json:"daysReading"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	Book        *Book      `json:"book,omitempty"`
}

type AddEntryRequest struct {
	BookID string `json:"bookId"`
	Status string `json:"status,omitempty"`
}

// UpdateEntryRequest changes status, progress or both.
type UpdateEntryRequest struct {
	Status   *string `json:"status,omitempty"`
	Progress *int    `json:"progress,omitempty"`
}

// Summary aggregates the caller's reading list.
type Summary struct {
	Wishlist         int `json:"wishlist"`
	Reading          int `json:"reading"`
	Finished         int `json:"finished"`
	Total            int `json:"total"`
	AverageProgress  int `json:"averageProgress"`
	FinishedThisYear int `json:"finishedThisYear"`
	YearlyGoal       int `json:"yearlyGoal"`
	GoalPercent      int `json:"goalPercent"`
	CurrentStreak    int `json:"currentStreak"`
	LongestStreak    int `json:"longestStreak"`
}

// ============================================================================
// Profile Types
// ============================================================================

type Profile struct {
	UserID        string `json:"userId"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	Bio           string `json:"bio"`
	Location      string `json:"location"`
	FavoriteGenre string `json:"favoriteGenre"`
	YearlyGoal    int    `json:"yearlyGoal"`
}

// ProfileRequest is a partial update; nil fields are left alone.
type ProfileRequest struct {
	Name          *string `json:"name,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	Location      *string `json:"location,omitempty"`
	FavoriteGenre *string `json:"favoriteGenre,omitempty"`
	YearlyGoal    *int    `json:"yearlyGoal,omitempty"`
}

// ============================================================================
// Health Types
// ============================================================================

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime,omitempty"`
	Version string        `json:"version,omitempty"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the dependencies /readyz looked at.
type HealthChecks struct {
	Database string `json:"database"`
	Signer   string `json:"signer"`
}
