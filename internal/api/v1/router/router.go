package router

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"app/internal/api/v1/handler"
	"app/internal/auth"
	"app/internal/broadcast"
	"app/internal/config"
	"app/internal/middleware"
	"app/internal/model"
	"app/internal/pubsub"
	"app/internal/repository"
	"app/internal/secrets"
	"app/internal/service"
	"app/internal/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// New assembles the whole application: database pool, token issuer, optional
// integrations, repositories, services, handlers, and middleware. It returns
// the root handler, the pool for the caller to close on shutdown, and the
// broadcast hub for the same reason.
func New(cfg *config.Config, logger zerolog.Logger) (http.Handler, *pgxpool.Pool, *broadcast.Hub, error) {
	ctx := context.Background()

	// 1. Database pool and schema
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, nil, nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, nil, nil, err
	}
	logger.Info().Msg("Database connection successful")

	if err := repository.EnsureSchema(ctx, pool); err != nil {
		return nil, nil, nil, err
	}

	// 2. JWT secret: Secret Manager wins over the env var when configured.
	jwtSecret := cfg.JWTSecret
	if cfg.JWTSecretName != "" {
		jwtSecret, err = secrets.FetchSecret(ctx, cfg.JWTSecretName)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info().Msg("JWT secret loaded from Secret Manager")
	}
	if jwtSecret == "" {
		return nil, nil, nil, errors.New("no JWT secret configured")
	}
	tokens := auth.NewTokenIssuer(jwtSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpireMin, cfg.JWTRememberExpireMin)

	// 3. Optional S3-compatible image storage
	var images *storage.ImageStore
	if cfg.S3URL != "" && cfg.S3Bucket != "" {
		s3Config, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithRegion(cfg.S3Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
			awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
		)
		if err != nil {
			return nil, nil, nil, err
		}
		s3Client := s3.NewFromConfig(s3Config, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.S3URL)
			o.UsePathStyle = true
		})
		images = storage.NewImageStore(s3Client, cfg.S3Bucket, cfg.S3URL)
		logger.Info().Str("bucket", cfg.S3Bucket).Msg("Image storage enabled")
	}

	// 4. Event publishers: the in-process hub always runs; Pub/Sub mirrors
	// events to external consumers when a project is configured.
	hub := broadcast.New(logger)
	publishers := pubsub.Fanout{hub}
	if cfg.GCPProjectID != "" {
		pubSubPublisher, err := pubsub.NewPublisher(ctx, cfg.GCPProjectID)
		if err != nil {
			return nil, nil, nil, err
		}
		publishers = append(publishers, pubSubPublisher)
		logger.Info().Str("topic", cfg.EventTopic).Msg("Pub/Sub event mirror enabled")
	}

	// 5. Validator
	validate := validator.New(validator.WithRequiredStructEnabled())

	// 6. Repositories, services, handlers
	userRepo := repository.NewUserRepo(pool)
	listingRepo := repository.NewListingRepo(pool)
	threadRepo := repository.NewThreadRepo(pool)
	usageRepo := repository.NewUsageRepo(pool)
	commentRepo := repository.NewCommentRepo(pool)
	priceRepo := repository.NewMealPriceRepo(pool)
	activityRepo := repository.NewActivityRepo(pool)

	userSvc := service.NewUserService(userRepo, activityRepo, tokens, logger)
	usageSvc := service.NewUsageService(usageRepo, userRepo, nil, logger)
	listingSvc := service.NewListingService(listingRepo, activityRepo, images, publishers, cfg.EventTopic, logger)
	threadSvc := service.NewThreadService(threadRepo, publishers, cfg.EventTopic, logger)
	commentSvc := service.NewCommentService(commentRepo, userRepo)
	priceSvc := service.NewMealPriceService(priceRepo)
	adminSvc := service.NewAdminService(userRepo, listingRepo, threadRepo, commentRepo, usageRepo, activityRepo, publishers, cfg.EventTopic, logger)

	if err := seedAdmin(ctx, cfg, userRepo, logger); err != nil {
		return nil, nil, nil, err
	}

	authHandler := handler.NewAuthHandler(userSvc, validate)
	userHandler := handler.NewUserHandler(userSvc, usageSvc, validate)
	listingHandler := handler.NewListingHandler(listingSvc, validate)
	inboxHandler := handler.NewInboxHandler(threadSvc, validate)
	boardHandler := handler.NewBoardHandler(commentSvc, priceSvc, validate)
	adminHandler := handler.NewAdminHandler(adminSvc, priceSvc, validate)
	wsHandler := handler.NewWSHandler(hub, tokens, logger)

	// 7. Middleware and mux
	authMiddleware := middleware.AuthMiddleware(tokens)

	apiV1Mux := http.NewServeMux()
	authHandler.RegisterRoutes(apiV1Mux)
	userHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	listingHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	inboxHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	boardHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	adminHandler.RegisterRoutes(apiV1Mux, authMiddleware)
	wsHandler.RegisterRoutes(apiV1Mux)

	mux := http.NewServeMux()
	mux.Handle("/v1/", http.StripPrefix("/v1", apiV1Mux))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/v1/") {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, "/v1"+r.URL.Path, http.StatusMovedPermanently)
	})

	// 8. CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(c.Handler(mux)), pool, hub, nil
}

// seedAdmin creates the configured admin account on first boot. An existing
// account with the same email is left untouched.
func seedAdmin(ctx context.Context, cfg *config.Config, userRepo repository.UserRepository, logger zerolog.Logger) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}
	existing, err := userRepo.GetUserByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		if !existing.IsAdmin() {
			logger.Warn().Str("email", cfg.AdminEmail).Msg("ADMIN_EMAIL matches an existing non-admin account; leaving it untouched")
		}
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &model.User{
		Email:            cfg.AdminEmail,
		PasswordHash:     string(hash),
		University:       "staff",
		MealDistribution: model.DistributionSemester,
		ExpiresOn:        time.Now().AddDate(10, 0, 0),
		Role:             model.RoleAdmin,
	}
	if err := userRepo.CreateUser(ctx, admin); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil
		}
		return err
	}
	logger.Info().Str("email", cfg.AdminEmail).Msg("Seeded admin account")
	return nil
}

// removeDisableGzip is a workaround for S3 signature errors with some
// S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
