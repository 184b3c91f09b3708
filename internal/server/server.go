package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"gymhub/internal/auth"
	"gymhub/internal/config"
	"gymhub/internal/email"
	"gymhub/internal/goer"
	"gymhub/internal/gym"
	"gymhub/internal/membership"
	"gymhub/internal/stats"
	"gymhub/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Services are the domain services the HTTP layer exposes.
type Services struct {
	Users       user.Service
	Gyms        gym.Service
	Goers       goer.Service
	Memberships membership.Service
	Stats       stats.Service
	// Email is optional; without it the dev-only test-email route is not mounted.
	Email *email.Service
}

type Server struct {
	router *gin.Engine
	http   *http.Server
	config *config.Config
}

// RegisterValidators installs the custom binding tags used by request structs.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := gym.RegisterValidators(v); err != nil {
		return err
	}
	return membership.RegisterValidators(v)
}

func New(cfg *config.Config, svc Services) (*Server, error) {
	if err := RegisterValidators(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware())
	router.Use(RateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst))

	userHandler := user.NewHandler(svc.Users)
	gymHandler := gym.NewHandler(svc.Gyms)
	goerHandler := goer.NewHandler(svc.Goers)
	membershipHandler := membership.NewHandler(svc.Memberships)
	statsHandler := stats.NewHandler(svc.Stats)

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/gyms", gymHandler.SearchGyms)
		protected.GET("/gyms/:gymID", gymHandler.GetGym)
		protected.POST("/gyms/:gymID/ratings", gymHandler.RateGym)
	}

	goers := router.Group("/")
	goers.Use(authMiddleware, auth.RequireRole(auth.RoleGoer))
	{
		goers.POST("/gyms/:gymID/memberships", membershipHandler.Enroll)
		goers.GET("/memberships", membershipHandler.ListMine)
		goers.GET("/memberships/:membershipID/invoice", membershipHandler.Invoice)

		goers.POST("/dashboard", goerHandler.CreateDashboard)
		goers.GET("/dashboard", goerHandler.GetDashboard)
		goers.POST("/dashboard/weights", goerHandler.AddWeight)
		goers.POST("/dashboard/attendance", goerHandler.MarkAttendance)
		goers.PATCH("/dashboard/targets", goerHandler.UpdateTargets)
	}

	owner := router.Group("/owner")
	owner.Use(authMiddleware, auth.RequireRole(auth.RoleOwner))
	{
		owner.POST("/gyms", gymHandler.CreateGym)
		owner.GET("/gyms", gymHandler.ListOwnerGyms)
		owner.GET("/gyms/:gymID/members", membershipHandler.ListMembersOfGym)
		owner.GET("/stats", statsHandler.GetOwnerStats)
		owner.GET("/members", statsHandler.ListMembers)
	}

	if svc.Email != nil && cfg.Env == "dev" {
		router.GET("/test-email", TestEmail(svc.Email))
	}

	return &Server{
		router: router,
		config: cfg,
		http: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called, returning nil in that case.
func (s *Server) Start() error {
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
