package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pitchside/api/internal/config"
	"pitchside/api/internal/mailer"
	"pitchside/api/internal/middleware"
	"pitchside/api/internal/repository"
	"pitchside/api/internal/service"
	"pitchside/api/internal/storage"
	"pitchside/api/internal/upload"
	"pitchside/api/internal/verification"
)

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	authService   *service.AuthService
	uploadService *service.UploadService
	db            *pgxpool.Pool
	cache         *redis.Client
	users         *repository.UserRepository
	teams         *repository.TeamRepository
	players       *repository.PlayerRepository
	matches       *repository.MatchRepository
	comments      *repository.CommentRepository
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store *storage.ObjectStore, cfg *config.AppConfig) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	playerRepo := repository.NewPlayerRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	phones := verification.NewPhoneVerifier(cache, cfg.Security.PhoneCodeTTL)

	var mail mailer.Mailer = mailer.NewLogMailer(log)
	if cfg.Mail.Host != "" {
		mail = mailer.NewSMTPMailer(cfg.Mail)
	}

	auth := service.NewAuthService(userRepo, tokenRepo, phones, mail, cfg.Security, log)

	coordinator := upload.NewCoordinator(cfg.Upload.StagingDir)
	uploadSvc := service.NewUploadService(coordinator, matchRepo, store, cache, log)

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		authService:   auth,
		uploadService: uploadSvc,
		db:            db,
		cache:         cache,
		users:         userRepo,
		teams:         teamRepo,
		players:       playerRepo,
		matches:       matchRepo,
		comments:      commentRepo,
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", h.RegisterUser)
	auth.POST("/login", h.Login)
	auth.POST("/logout", h.Logout)
	auth.GET("/verify-email", h.VerifyEmail)
	auth.POST("/forgot-password", h.ForgotPassword)
	auth.POST("/reset-password", h.ResetPassword)

	session := middleware.Auth(h.cfg.Security.JWTSecret)

	account := v1.Group("/auth", session)
	account.GET("/me", h.Me)
	account.POST("/change-password", h.ChangePassword)
	account.POST("/phone/send-code", h.SendPhoneCode)
	account.POST("/phone/verify-code", h.VerifyPhoneCode)

	api := v1.Group("", session)

	api.GET("/teams", h.ListTeams)
	api.POST("/teams", h.CreateTeam)
	api.GET("/teams/:id", h.GetTeam)
	api.PUT("/teams/:id", h.UpdateTeam)
	api.DELETE("/teams/:id", h.DeleteTeam)
	api.GET("/teams/:id/players", h.ListTeamPlayers)

	api.POST("/players", h.CreatePlayer)
	api.GET("/players/:id", h.GetPlayer)
	api.PUT("/players/:id", h.UpdatePlayer)
	api.DELETE("/players/:id", h.DeletePlayer)

	api.GET("/matches", h.ListMatches)
	api.POST("/matches", h.CreateMatch)
	api.GET("/matches/:id", h.GetMatch)
	api.PUT("/matches/:id", h.UpdateMatch)
	api.DELETE("/matches/:id", h.DeleteMatch)

	api.GET("/matches/:id/comments", h.ListComments)
	api.POST("/matches/:id/comments", h.CreateComment)
	api.DELETE("/matches/:id/comments/:commentId", h.DeleteComment)

	api.POST("/matches/:id/video/upload-init", h.UploadInit)
	api.POST("/matches/:id/video/upload-part", h.UploadPart)
	api.GET("/matches/:id/video/upload-status", h.UploadStatus)
	api.POST("/matches/:id/video/upload-complete", h.UploadComplete)
}

// fail writes the uniform error envelope.
func fail(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"ok": false, "message": message})
}
