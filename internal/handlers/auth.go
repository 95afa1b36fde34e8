package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"photo-service/internal/auth"
	"photo-service/internal/idp"
	"photo-service/internal/mailer"
	"photo-service/internal/models"
	"photo-service/internal/repositories"
	"photo-service/internal/telemetry"
)

// AuthHandler manages registration, verification and login endpoints.
type AuthHandler struct {
	userRepo repositories.UserRepository
	verifier *auth.Verifier
	mailer   mailer.Mailer
	idp      idp.Client
	audit    *telemetry.AuditEmitter
}

// NewAuthHandler builds an AuthHandler.
func NewAuthHandler(userRepo repositories.UserRepository, verifier *auth.Verifier, m mailer.Mailer, provider idp.Client, audit *telemetry.AuditEmitter) *AuthHandler {
	return &AuthHandler{
		userRepo: userRepo,
		verifier: verifier,
		mailer:   m,
		idp:      provider,
		audit:    audit,
	}
}

// Register creates an inactive account and mails a verification code.
// Re-registering an email that never finished verification refreshes the
// account instead of failing.
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required,min=8"`
		Password2 string `json:"password2" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Password != req.Password2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "passwords do not match"})
		return
	}

	ctx := c.Request.Context()
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
		return
	}

	existing, err := h.userRepo.GetByEmail(ctx, req.Email)
	switch {
	case err == nil && existing.EmailVerified:
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
		return
	case err == nil:
		// Unfinished registration: refresh credentials and resend the code.
		if err := h.userRepo.UpdateCredentials(ctx, existing.ID, req.Username, hash); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
			return
		}
	case errors.Is(err, repositories.ErrUserNotFound):
		taken, err := h.userRepo.UsernameExists(ctx, req.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
			return
		}
		if taken {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username already taken"})
			return
		}
		existing, err = h.userRepo.Create(ctx, req.Username, req.Email, hash, false)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
			return
		}
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
		return
	}

	code, expiresAt, err := auth.GenerateOTP()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
		return
	}
	if err := h.userRepo.SetOTP(ctx, existing.ID, code, expiresAt); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not register"})
		return
	}
	if err := h.mailer.SendOTP(req.Email, code); err != nil {
		log.Printf("otp mail failed for %s: %v", req.Email, err)
	}

	h.emitAudit(c, "INFO", "registration started")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful. Please check your email for OTP.",
		"email":   req.Email,
	})
}

// VerifyOTP activates an account when the emailed code matches and has not
// expired.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrUserNotFound) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"error": "invalid email or code"})
		return
	}

	if user.OTPCode == nil || *user.OTPCode != req.OTP {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email or code"})
		return
	}
	if user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code expired"})
		return
	}

	if err := h.userRepo.ClearOTPAndActivate(ctx, user.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully. You can now login."})
}

// Login exchanges username and password for a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.userRepo.GetByUsername(c.Request.Context(), req.Username)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		h.emitAudit(c, "WARN", "login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !user.IsActive || !user.EmailVerified {
		c.JSON(http.StatusForbidden, gin.H{"error": "account not verified"})
		return
	}

	access, refresh, err := h.mintPair(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access, "refresh": refresh})
}

// Refresh exchanges a refresh token for a new access token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		Refresh string `json:"refresh" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, err := h.verifier.VerifyRefresh(req.Refresh)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
		return
	}
	access, err := h.verifier.Mint(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"access": access})
}

// OAuthAuthorizeURL returns the provider URL the frontend redirects to.
func (h *AuthHandler) OAuthAuthorizeURL(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"authorization_url": h.idp.AuthorizeURL()})
}

// OAuthLogin exchanges an authorization code with the institute identity
// provider and logs the matching account in, creating it on first sight.
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	profile, err := h.idp.ExchangeCode(ctx, req.Code)
	if err != nil {
		h.emitAudit(c, "WARN", "oauth exchange failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "identity provider exchange failed"})
		return
	}

	user, created, err := h.findOrCreateOAuthUser(c, profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		return
	}

	if err := h.userRepo.UpdateOAuthProfile(ctx, user.ID, profile.Batch, profile.Department, profile.DisplayPicture); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not login"})
		return
	}

	access, refresh, err := h.mintPair(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access":  access,
		"refresh": refresh,
		"user": gin.H{
			"username":        user.Username,
			"email":           user.Email,
			"full_name":       profile.FullName,
			"batch":           profile.Batch,
			"department":      profile.Department,
			"display_picture": profile.DisplayPicture,
			"is_new":          created,
		},
	})
}

// Me returns the authenticated user's identity summary.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

// GetProfile returns the public profile of the named user.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.userRepo.GetByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": "user not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":             user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"role":           user.Role,
		"bio":            user.Bio,
		"batch":          user.Batch,
		"department":     user.Department,
		"email_verified": user.EmailVerified,
	})
}

// PatchProfile updates the editable profile fields.
func (h *AuthHandler) PatchProfile(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		Bio        *string `json:"bio"`
		Batch      *int    `json:"batch"`
		Department *string `json:"department"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userRepo.UpdateProfile(c.Request.Context(), userID, req.Bio, req.Batch, req.Department); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// SearchUsers returns up to 20 users whose username contains the query.
func (h *AuthHandler) SearchUsers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusOK, []models.UserSummary{})
		return
	}

	users, err := h.userRepo.Search(c.Request.Context(), q, 20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "search failed"})
		return
	}
	if users == nil {
		users = []models.UserSummary{}
	}
	c.JSON(http.StatusOK, users)
}

func (h *AuthHandler) currentUser(c *gin.Context) (models.User, bool) {
	user, err := h.userRepo.GetByID(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, repositories.ErrUserNotFound) {
			status = http.StatusUnauthorized
		}
		c.JSON(status, gin.H{"error": "could not load user"})
		return models.User{}, false
	}
	return user, true
}

func (h *AuthHandler) mintPair(userID int) (string, string, error) {
	access, err := h.verifier.Mint(userID)
	if err != nil {
		return "", "", err
	}
	refresh, err := h.verifier.MintRefresh(userID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// findOrCreateOAuthUser looks up the account by provider email, creating an
// active one with a collision-free username on first login.
func (h *AuthHandler) findOrCreateOAuthUser(c *gin.Context, profile idp.Profile) (models.User, bool, error) {
	ctx := c.Request.Context()
	user, err := h.userRepo.GetByEmail(ctx, profile.Email)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, false, err
	}

	username := profile.FullName
	if username == "" {
		username = strings.SplitN(profile.Email, "@", 2)[0]
	}
	base := username
	for counter := 1; ; counter++ {
		taken, err := h.userRepo.UsernameExists(ctx, username)
		if err != nil {
			return models.User{}, false, err
		}
		if !taken {
			break
		}
		username = fmt.Sprintf("%s_%d", base, counter)
	}

	user, err = h.userRepo.Create(ctx, username, profile.Email, "", true)
	if err != nil {
		return models.User{}, false, err
	}
	return user, true, nil
}

func (h *AuthHandler) emitAudit(c *gin.Context, level, text string) {
	if h.audit == nil {
		return
	}
	h.audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), auditUserID(c))
}
