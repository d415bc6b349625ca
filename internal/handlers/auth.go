package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/theukno/ecomproject/internal/auth"
	"github.com/theukno/ecomproject/internal/config"
	"github.com/theukno/ecomproject/internal/middleware"
)

type AuthHandler struct {
	Svc *auth.Service
	Cfg config.Config
}

func NewAuthHandler(svc *auth.Service, cfg config.Config) *AuthHandler {
	return &AuthHandler{Svc: svc, Cfg: cfg}
}

type signupRequest struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type requestOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type verifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.Svc.Signup(c.Request.Context(), req.Name, req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"message": "account created, please verify your email"})
	case errors.Is(err, auth.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	default:
		internalError(c, "signup", err)
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	user, token, err := h.Svc.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		h.setSessionCookie(c, token)
		c.JSON(http.StatusOK, gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"image": user.Image,
		})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
	case errors.Is(err, auth.ErrEmailNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": "please verify your email before logging in"})
	default:
		internalError(c, "login", err)
	}
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	token, _ := c.Cookie(middleware.SessionCookie)

	user, err := h.Svc.CurrentUser(c.Request.Context(), token)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"image": user.Image,
		})
	case errors.Is(err, auth.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		internalError(c, "me", err)
	}
}

func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req requestOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.Svc.RequestOTP(c.Request.Context(), req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "otp sent"})
	case errors.Is(err, auth.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	default:
		internalError(c, "request-otp", err)
	}
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := h.Svc.VerifyOTP(c.Request.Context(), req.Email, req.OTP)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "email verified"})
	case errors.Is(err, auth.ErrOTPNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no otp request found"})
	case errors.Is(err, auth.ErrOTPExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "otp expired"})
	case errors.Is(err, auth.ErrOTPMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid otp"})
	default:
		internalError(c, "verify-otp", err)
	}
}

const sessionCookiePath = "/"

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	maxAge := h.Cfg.SessionDays * 24 * 60 * 60
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, sessionCookiePath, "", h.Cfg.IsProduction(), true)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, sessionCookiePath, "", h.Cfg.IsProduction(), true)
}

// badRequest reports binding failures with per-field detail when the error
// came from validation, and a generic message otherwise.
func badRequest(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]gin.H, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, gin.H{"field": fe.Field(), "message": fieldMessage(fe)})
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "len":
		return fmt.Sprintf("must be exactly %s characters", fe.Param())
	case "numeric":
		return "must contain only digits"
	default:
		return "is invalid"
	}
}

func internalError(c *gin.Context, op string, err error) {
	log.Printf("%s error: %v", op, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
}
