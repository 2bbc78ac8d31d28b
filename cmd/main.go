package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-backend/config"
	"blog-backend/internal/api/post"
	"blog-backend/internal/api/user"
	"blog-backend/internal/counter"
	"blog-backend/internal/middleware"
	"blog-backend/internal/repository/docstore"
	"blog-backend/internal/service"
	"blog-backend/internal/store"
	"blog-backend/internal/util"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

func main() {
	// 初始化配置
	config.Init()

	// 初始化日志
	util.InitLogger(config.AppConfig.LogLevel)
	defer util.Logger.Sync()

	util.Logger.Info("应用程序启动")

	// 注册自定义验证器
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("post_status", util.ValidatePostStatus)
	}

	// 创建文档存储客户端：进程启动时构造一次，注入各仓库
	storeClient, err := store.NewClient(store.Options{
		Endpoint:        config.AppConfig.DocAPIEndpoint,
		Region:          config.AppConfig.DocAPIRegion,
		AccessKeyID:     config.AppConfig.AccessKeyID,
		SecretAccessKey: config.AppConfig.SecretAccessKey,
		TablePrefix:     config.AppConfig.TablePrefix,
		MaxRetries:      3,
	})
	if err != nil {
		util.Logger.Fatal("创建文档存储客户端失败", zap.Error(err))
	}
	util.Logger.Info("文档存储客户端已就绪",
		zap.String("endpoint", config.AppConfig.DocAPIEndpoint))

	// 初始化存储库、计数器引擎、服务和处理器
	userRepo := docstore.NewUserRepository(storeClient)
	postRepo := docstore.NewPostRepository(storeClient)
	commentRepo := docstore.NewCommentRepository(storeClient)
	likeRepo := docstore.NewLikeRepository(storeClient)
	counterEngine := counter.NewEngine(storeClient)

	userService := service.NewUserService(userRepo)
	postService := service.NewPostService(postRepo, userRepo, likeRepo)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, counterEngine)
	likeService := service.NewLikeService(likeRepo, postRepo, counterEngine)
	maintenanceService := service.NewMaintenanceService(postRepo, commentRepo, likeRepo, counterEngine)

	authHandler := user.NewAuthHandler(userService)
	profileHandler := user.NewProfileHandler(userService)
	postHandler := post.NewPostHandler(postService)
	commentHandler := post.NewCommentHandler(commentService)
	likeHandler := post.NewLikeHandler(likeService)

	// 启动定时维护任务：计数器对账 + 到期帖子清除
	go func() {
		interval := time.Duration(config.AppConfig.ReconcileMins) * time.Minute
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			util.Logger.Info("开始计数器对账")
			if err := maintenanceService.ReconcileCounters(context.Background()); err != nil {
				util.Logger.Error("计数器对账失败", zap.Error(err))
			}
			util.Logger.Info("开始清除到期的已删除帖子")
			if err := maintenanceService.PurgeExpired(context.Background()); err != nil {
				util.Logger.Error("清除到期帖子失败", zap.Error(err))
			}
		}
	}()

	// 设置 Gin 路由
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.RecoveryMiddleware())

	// 配置 CORS：允许任意来源
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	// 定义 API 路由
	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.GET("/login", authHandler.Login)
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.AuthMiddleware(), profileHandler.GetMe)
		auth.PUT("/profile", middleware.AuthMiddleware(), profileHandler.UpdateProfile)
		auth.DELETE("/account", middleware.AuthMiddleware(), profileHandler.DeleteAccount)
	}

	posts := r.Group("/posts")
	{
		posts.POST("", middleware.AuthMiddleware(), postHandler.Create)
		posts.GET("", postHandler.List)
		posts.GET("/top", postHandler.Top)
		posts.GET("/slug/:slug", middleware.OptionalAuthMiddleware(), postHandler.GetBySlug)
		posts.GET("/:id", middleware.OptionalAuthMiddleware(), postHandler.Get)
		posts.PUT("/:id", middleware.AuthMiddleware(), postHandler.Update)
		posts.DELETE("/:id", middleware.AuthMiddleware(), postHandler.Delete)

		posts.POST("/:id/comments", middleware.AuthMiddleware(), commentHandler.Create)
		posts.GET("/:id/comments", commentHandler.List)

		posts.POST("/:id/like", middleware.AuthMiddleware(), likeHandler.Toggle)
		posts.DELETE("/:id/like", middleware.AuthMiddleware(), likeHandler.Unlike)
		posts.GET("/:id/likes", likeHandler.ListPostLikes)
	}

	r.GET("/users/:id/likes", likeHandler.ListUserLikes)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.ServerPort,
		Handler: r,
	}

	// 在一个新的 goroutine 中启动服务器
	go func() {
		util.Logger.Info("服务器正在启动", zap.String("port", config.AppConfig.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			util.Logger.Fatal("启动服务器失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器（设置 5 秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	util.Logger.Info("正在关闭服务器...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		util.Logger.Fatal("服务器强制关闭", zap.Error(err))
	}

	util.Logger.Info("服务器已优雅关闭")
}
