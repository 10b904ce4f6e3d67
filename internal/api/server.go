package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/junaydArshad/Green-Campus/internal/api/auth"
	"github.com/junaydArshad/Green-Campus/internal/api/middleware"
	"github.com/junaydArshad/Green-Campus/internal/api/scheduler"
	"github.com/junaydArshad/Green-Campus/internal/config"
	"github.com/junaydArshad/Green-Campus/internal/model"
	"github.com/junaydArshad/Green-Campus/internal/pkg/blob"
	"github.com/junaydArshad/Green-Campus/internal/pkg/notify"
	"github.com/junaydArshad/Green-Campus/internal/store"
	"github.com/junaydArshad/Green-Campus/internal/watering"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Sweeper 执行一次浇水巡检并返回发送的提醒数量。
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Server 封装了 API 服务所需的依赖和路由处理。
//
// 它持有数据库、照片文件存储、邮件通知器以及 Gin 路由引擎。
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *store.Store
	router   *gin.Engine
	auth     *auth.Handler
	notifier notify.Notifier
	photos   *blob.Store
	sweeper  Sweeper
	sched    *scheduler.Scheduler
}

// NewServer 初始化 API 服务器。
//
// 它负责：
// 1. 打开 SQLite 数据库并执行自动迁移与树种播种
// 2. 准备照片文件目录
// 3. 初始化 Gin 路由引擎
//
// 参数:
//
//	cfg: 配置对象
//	logger: 日志记录器
//
// 返回值:
//
//	*Server: 初始化完成的服务器实例
//	error: 初始化失败返回错误
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
		return nil, err
	}
	st, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, err
	}

	photos, err := blob.New(filepath.Join(cfg.App.DataDir, "tree_photos"))
	if err != nil {
		return nil, err
	}

	notifier := notify.NewEmailNotifier(&cfg.Email, logger)

	gin.SetMode(gin.ReleaseMode)
	return assemble(cfg, logger, st, notifier, photos), nil
}

// assemble 组装服务器（测试直接注入内存库与 mock 通知器）。
func assemble(cfg *config.Config, logger *slog.Logger, st *store.Store, notifier notify.Notifier, photos *blob.Store) *Server {
	sweeper := watering.NewSweeper(st, notifier, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	s := &Server{
		cfg:      cfg,
		logger:   logger,
		store:    st,
		router:   r,
		auth:     auth.NewHandler(st, cfg.Security.JWTSecret, cfg.App.TokenTTL, cfg.Security.AdminUsername, cfg.Security.AdminPassword, notifier, logger),
		notifier: notifier,
		photos:   photos,
		sweeper:  sweeper,
		sched:    scheduler.NewScheduler(sweeper, logger, cfg.App.SweepInterval),
	}
	s.registerRoutes()
	return s
}

// Router 返回 HTTP 路由处理器。
func (s *Server) Router() http.Handler {
	return s.router
}

// StartScheduler 启动周期性浇水巡检（间隔为 0 时不启动）。
func (s *Server) StartScheduler(ctx context.Context) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.logger.Error("PANIC in watering scheduler", slog.Any("panic", r))
			}
		}()
		s.sched.Run(ctx)
	}()
}

// Close 关闭数据库连接。
func (s *Server) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

// registerRoutes 注册所有的 API 路由。
func (s *Server) registerRoutes() {
	// 照片以静态文件形式回源
	if s.photos != nil {
		s.router.Static("/tree_photos", s.photos.Dir())
	}

	// Prometheus metrics 端点
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := s.router.Group("/api")

	api.GET("/health", s.handleHealth)

	api.POST("/auth/register", s.auth.Register)
	api.POST("/auth/login", s.auth.Login)
	api.POST("/auth/reset-request", s.auth.ResetRequest)
	api.POST("/auth/reset", s.auth.Reset)
	api.POST("/auth/admin-login", s.auth.AdminLogin)

	api.GET("/species", s.handleListSpecies)
	api.GET("/species/:id", s.handleGetSpecies)

	authed := api.Group("/")
	authed.Use(middleware.AuthMiddleware(s.cfg.Security.JWTSecret))
	authed.GET("/user/profile", s.handleGetProfile)
	authed.PUT("/user/profile", s.handleUpdateProfile)
	authed.PUT("/user/password", s.handleChangePassword)
	authed.DELETE("/user/account", s.handleDeleteAccount)
	authed.GET("/user/leaderboard", s.handleLeaderboard)

	authed.GET("/trees", s.handleListTrees)
	authed.POST("/trees", s.handleCreateTree)
	authed.GET("/trees/:id", s.handleGetTree)
	authed.PUT("/trees/:id", s.handleUpdateTree)
	authed.DELETE("/trees/:id", s.handleDeleteTree)
	authed.POST("/trees/:id/photos", s.handleAddPhoto)
	authed.GET("/trees/:id/photos", s.handleListPhotos)

	authed.GET("/growth/:treeId/measurements", s.handleListMeasurements)
	authed.POST("/growth/:treeId/measurements", s.handleAddMeasurement)
	authed.POST("/growth/:treeId/photos", s.handleAddPhoto)
	authed.GET("/growth/:treeId/photos", s.handleListPhotos)
	authed.DELETE("/growth/:treeId/photos/:photoId", s.handleDeletePhoto)
	authed.PUT("/growth/:treeId/health", s.handleUpdateHealth)

	authed.GET("/care/:treeId/activities", s.handleListActivities)
	authed.POST("/care/:treeId/activities", s.handleAddActivity)

	authed.GET("/dashboard/overview", s.handleDashboardOverview)
	authed.GET("/dashboard/statistics", s.handleDashboardStatistics)

	authed.GET("/map/trees", s.handleMapTrees)
	authed.GET("/map/trees/area", s.handleMapTreesArea)

	admin := api.Group("/")
	admin.Use(middleware.AuthMiddleware(s.cfg.Security.JWTSecret), middleware.AdminOnly())
	admin.GET("/trees/all", s.handleAdminListTrees)
	admin.POST("/care/notify-unwatered", s.handleNotifyUnwatered)
	admin.POST("/care/send-admin-message", s.handleSendAdminMessage)
}

// handleHealth 健康检查（含数据库连通性）。
func (s *Server) handleHealth(c *gin.Context) {
	if s.store == nil || s.store.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Green Campus backend is running!"})
}

// getUserID 从上下文取回已认证的用户 ID。
func getUserID(c *gin.Context) uint {
	v, ok := c.Get(middleware.CtxUserID)
	if !ok {
		return 0
	}
	id, _ := v.(uint)
	return id
}

// treeParam 返回树 ID 路由参数（/trees/:id 与 /growth/:treeId 共用 handler）。
func treeParam(c *gin.Context) string {
	if v := c.Param("treeId"); v != "" {
		return v
	}
	return c.Param("id")
}

// ownedTree 加载路由参数指向的树并做所有权检查。
//
// 先查存在（404），再查所有权（403），顺序不可交换。
// 失败时已写出响应，调用方直接 return。
func (s *Server) ownedTree(c *gin.Context) (*model.Tree, bool) {
	id, err := strconv.ParseUint(treeParam(c), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tree id"})
		return nil, false
	}

	tree, err := s.store.TreeByID(uint(id))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Tree not found"})
		} else {
			s.logger.Error("load tree failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return nil, false
	}
	if tree.UserID != getUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return nil, false
	}
	return tree, true
}

// parseDate 解析 YYYY-MM-DD 格式的日期字段。
func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
