package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/junaydArshad/Green-Campus/internal/model"
	"github.com/junaydArshad/Green-Campus/internal/store"

	"github.com/gin-gonic/gin"
)

type addActivityRequest struct {
	ActivityType string `json:"activity_type" binding:"required"`
	ActivityDate string `json:"activity_date" binding:"required"`
	Notes        string `json:"notes"`
}

type adminMessageRequest struct {
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// handleListActivities 返回一棵树的养护日志（按活动日期倒序）。
//
// GET /api/care/:treeId/activities
func (s *Server) handleListActivities(c *gin.Context) {
	tree, ok := s.ownedTree(c)
	if !ok {
		return
	}
	activities, err := s.store.ActivitiesByTree(tree.ID)
	if err != nil {
		s.logger.Error("list activities failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list activities failed"})
		return
	}
	c.JSON(http.StatusOK, activities)
}

// handleAddActivity 记录一次养护活动。
//
// POST /api/care/:treeId/activities
func (s *Server) handleAddActivity(c *gin.Context) {
	tree, ok := s.ownedTree(c)
	if !ok {
		return
	}

	var req addActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !model.ValidActivityType(req.ActivityType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity_type"})
		return
	}
	date, err := parseDate(req.ActivityDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid activity_date, expected YYYY-MM-DD"})
		return
	}

	a := &model.CareActivity{
		TreeID:       tree.ID,
		ActivityType: req.ActivityType,
		ActivityDate: date,
		Notes:        req.Notes,
	}
	if err := s.store.AddActivity(a); err != nil {
		s.logger.Error("add activity failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "add activity failed"})
		return
	}
	c.JSON(http.StatusCreated, a)
}

// handleNotifyUnwatered 管理端：立即对到期未浇水的树发提醒邮件。
//
// 发送中途失败会中止本次扫描，响应带上已发出的数量。
//
// POST /api/care/notify-unwatered
func (s *Server) handleNotifyUnwatered(c *gin.Context) {
	sent, err := s.sweeper.Sweep(c.Request.Context())
	if err != nil {
		s.logger.Error("watering sweep failed", slog.String("error", err.Error()), slog.Int("sent", sent))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reminder sweep failed", "notified": sent})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Watering reminders sent", "notified": sent})
}

// handleSendAdminMessage 管理端：向指定用户发送一封任意内容的邮件。
//
// POST /api/care/send-admin-message
func (s *Server) handleSendAdminMessage(c *gin.Context) {
	var req adminMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := s.store.UserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := s.notifier.SendMessage(user.Email, req.Subject, req.Message); err != nil {
		s.logger.Error("send admin message failed", slog.String("email", user.Email), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "send message failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message sent"})
}
