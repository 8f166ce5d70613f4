package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bbhatt-git/QwickAttend-sub000/internal/attendance"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/auth"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/config"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/handler"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/holiday"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/httpmiddleware"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/insights"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/queue"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/roster"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/store"
	"github.com/bbhatt-git/QwickAttend-sub000/internal/teacher"
)

func main() {
	cfg := config.Load()

	if cfg.Env == "production" || cfg.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	db, err := store.NewDB(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.EnsureSchema(context.Background(), db.Client); err != nil {
		return err
	}

	redisClient := store.NewRedis(cfg.RedisAddr)

	var jobs queue.Queue
	if cfg.QueueBackend == "memory" {
		jobs = queue.NewInMemory(64)
	} else {
		jobs = queue.NewRedisQueue(redisClient.Client, "qwickattend:jobs")
	}

	teachers := teacher.NewRepository(db.Client)
	rosterSvc := roster.NewService(roster.NewRepository(db.Client), jobs)
	records := attendance.NewRepository(db.Client)
	committer := attendance.NewCommitter(records, cfg.ScanCooldown)
	sessions := attendance.NewRegistry()
	holidays := holiday.NewService(holiday.NewRepository(db.Client))
	llm := insights.New(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMSkip)
	verifier := &auth.GoogleVerifier{ClientID: cfg.GoogleClientID, SkipVerify: cfg.GoogleSkipVerify}

	h := handler.New(cfg, teachers, rosterSvc, records, committer, sessions, holidays, llm, verifier)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewSimpleTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", func(c *gin.Context) {
		redisHealthy := redisClient.Healthy(c.Request.Context())
		dbHealthy := db.Client.PingContext(c.Request.Context()) == nil
		status := http.StatusOK
		if !redisHealthy || !dbHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy, "db": dbHealthy})
	})

	r.POST("/v1/auth/google", h.GoogleLogin)
	r.POST("/v1/auth/refresh", h.Refresh)

	v1 := r.Group("/v1", auth.TeacherAuth(cfg.JWTSigningKey, cfg.JWTIssuer))

	v1.GET("/me", h.Me)
	v1.PUT("/me", h.UpdateMe)

	v1.GET("/students", h.ListStudents)
	v1.POST("/students", h.CreateStudent)
	v1.PUT("/students/:id", h.UpdateStudent)
	v1.POST("/students/import", h.ImportStudents)
	v1.POST("/students/:id/qr", h.RequestStudentQR)

	v1.POST("/scan/sessions", h.OpenScanSession)
	v1.POST("/scan/sessions/:id/scan", h.Scan)
	v1.DELETE("/scan/sessions/:id", h.CloseScanSession)

	v1.GET("/attendance", h.DayAttendance)
	v1.GET("/attendance/history", h.AttendanceHistory)
	v1.POST("/attendance/leave", h.MarkLeave)
	v1.GET("/attendance/export", h.ExportDay)

	v1.GET("/holidays", h.ListHolidays)
	v1.POST("/holidays", h.CreateHoliday)
	v1.DELETE("/holidays/:id", h.DeleteHoliday)

	v1.POST("/insights/absenteeism", h.AbsenteeismSummary)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced shutdown: %v", err)
	}

	// Accepted scans may still be persisting; let them land before the
	// process exits.
	committer.Wait()

	log.Println("server exited")
	return nil
}

// CORS middleware for browser requests.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware.
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
