package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/junaydArshad/Green-Campus/internal/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type updateProfileRequest struct {
	FullName *string `json:"full_name"`
	Location *string `json:"location"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// handleGetProfile 返回当前用户的资料。
//
// GET /api/user/profile
func (s *Server) handleGetProfile(c *gin.Context) {
	user, err := s.store.UserByID(getUserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		s.logger.Error("load profile failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// handleUpdateProfile 更新当前用户的资料（只更新提供的字段）。
//
// PUT /api/user/profile
func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		if *req.FullName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid full_name"})
			return
		}
		updates["full_name"] = *req.FullName
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}

	user, err := s.store.UpdateUser(getUserID(c), updates)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		s.logger.Error("update profile failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update profile failed"})
		return
	}
	c.JSON(http.StatusOK, user)
}

// handleChangePassword 修改当前用户密码（需验证当前密码）。
//
// PUT /api/user/password
func (s *Server) handleChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.store.UserByID(getUserID(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		s.logger.Error("load user failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}
	if err := s.store.UpdateUserPassword(user.ID, string(hash)); err != nil {
		s.logger.Error("update password failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update password failed"})
		return
	}

	s.logger.Info("password changed", slog.String("email", user.Email))
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

// handleDeleteAccount 注销账户。
//
// 树及其照片/测量/养护记录由外键级联删除；照片文件在删除前收集，
// 随后尽力清理（文件删除失败只记日志，不影响响应）。
//
// DELETE /api/user/account
func (s *Server) handleDeleteAccount(c *gin.Context) {
	userID := getUserID(c)

	var orphaned []string
	if trees, err := s.store.TreesByUser(userID); err == nil {
		for _, tree := range trees {
			photos, err := s.store.PhotosByTree(tree.ID)
			if err != nil {
				continue
			}
			for _, p := range photos {
				orphaned = append(orphaned, photoBlobName(p.PhotoURL))
			}
		}
	}

	if err := s.store.DeleteUser(userID); err != nil {
		s.logger.Error("delete user failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete user failed"})
		return
	}

	for _, name := range orphaned {
		if err := s.photos.Remove(name); err != nil {
			s.logger.Warn("remove photo file failed", slog.String("name", name), slog.String("error", err.Error()))
		}
	}

	s.logger.Info("account deleted", slog.Uint64("user_id", uint64(userID)))
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted"})
}

// handleLeaderboard 返回种树排行榜。
//
// GET /api/user/leaderboard
func (s *Server) handleLeaderboard(c *gin.Context) {
	entries, err := s.store.Leaderboard()
	if err != nil {
		s.logger.Error("load leaderboard failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load leaderboard failed"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
