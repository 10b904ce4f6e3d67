package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/junaydArshad/Green-Campus/internal/api/token"
	"github.com/junaydArshad/Green-Campus/internal/model"
	"github.com/junaydArshad/Green-Campus/internal/pkg/notify"
	"github.com/junaydArshad/Green-Campus/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Handler 提供注册、登录与密码重置接口。
type Handler struct {
	store     *store.Store
	jwtSecret []byte
	tokenTTL  time.Duration
	adminUser string
	adminPass string
	mailer    notify.Notifier
	logger    *slog.Logger
}

// NewHandler 创建 Auth Handler。
func NewHandler(st *store.Store, jwtSecret string, tokenTTL time.Duration, adminUser, adminPass string, mailer notify.Notifier, logger *slog.Logger) *Handler {
	return &Handler{
		store:     st,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		adminUser: adminUser,
		adminPass: adminPass,
		mailer:    mailer,
		logger:    logger,
	}
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Location string `json:"location"`
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type resetRequestRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type adminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 创建新用户。
//
// POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}

	user := model.User{
		Email:         req.Email,
		PasswordHash:  string(hash),
		FullName:      req.FullName,
		Location:      req.Location,
		EmailVerified: true,
	}
	if err := h.store.CreateUser(&user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		h.logger.Error("create user failed", slog.String("email", req.Email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create user failed"})
		return
	}

	h.logger.Info("user registered", slog.String("email", user.Email))
	c.JSON(http.StatusOK, gin.H{
		"message": "Registration successful! You can now log in.",
		"user":    user,
	})
}

// Login 校验用户并返回 Bearer token。
//
// POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.UserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	tok, err := token.IssueUser(h.jwtSecret, user.ID, user.Email, h.tokenTTL)
	if err != nil {
		h.logger.Error("sign token failed", slog.String("email", user.Email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token failed"})
		return
	}

	h.logger.Info("user logged in", slog.String("email", user.Email))
	c.JSON(http.StatusOK, gin.H{"token": tok, "user": user})
}

// ResetRequest 为邮箱签发密码重置令牌并通过邮件送出。
//
// POST /api/auth/reset-request
func (h *Handler) ResetRequest(c *gin.Context) {
	var req resetRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.UserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "generate token failed"})
		return
	}
	resetToken := hex.EncodeToString(buf)

	if _, err := h.store.UpdateUser(user.ID, map[string]interface{}{"verification_token": resetToken}); err != nil {
		h.logger.Error("save reset token failed", slog.String("email", user.Email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "save reset token failed"})
		return
	}

	// 邮件投递是外部协作方，失败不阻塞令牌签发
	if err := h.mailer.SendPasswordReset(user.Email, resetToken); err != nil {
		h.logger.Warn("send reset email failed", slog.String("email", user.Email), slog.String("error", err.Error()))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password reset email sent"})
}

// Reset 消费重置令牌并设置新密码。
//
// POST /api/auth/reset
func (h *Handler) Reset(c *gin.Context) {
	var req resetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.store.UserByEmail(req.Email)
	if err != nil || user.VerificationToken == "" || user.VerificationToken != req.Token {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}
	if err := h.store.UpdateUserPassword(user.ID, string(hash)); err != nil {
		h.logger.Error("update password failed", slog.String("email", user.Email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update password failed"})
		return
	}
	if _, err := h.store.UpdateUser(user.ID, map[string]interface{}{"verification_token": ""}); err != nil {
		h.logger.Error("clear reset token failed", slog.String("email", user.Email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "clear reset token failed"})
		return
	}

	h.logger.Info("password reset", slog.String("email", user.Email))
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// AdminLogin 用固定凭证换取管理员 token。
//
// POST /api/auth/admin-login
func (h *Handler) AdminLogin(c *gin.Context) {
	var req adminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.adminUser)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.adminPass)) == 1
	if !userOK || !passOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid admin credentials"})
		return
	}

	tok, err := token.IssueAdmin(h.jwtSecret, req.Username, h.tokenTTL)
	if err != nil {
		h.logger.Error("sign admin token failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign token failed"})
		return
	}

	h.logger.Info("admin logged in", slog.String("username", req.Username))
	c.JSON(http.StatusOK, gin.H{
		"token": tok,
		"user":  gin.H{"username": req.Username, "isAdmin": true},
	})
}
