// cmd/api/main.go
// Main entry point for the application
// This file bootstraps all components and starts the server

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	// Internal packages
	"github.com/dapoadedire/vybe-backend/internal/auth"
	"github.com/dapoadedire/vybe-backend/internal/comments"
	"github.com/dapoadedire/vybe-backend/internal/common/database"
	"github.com/dapoadedire/vybe-backend/internal/config"
	"github.com/dapoadedire/vybe-backend/internal/feed"
	"github.com/dapoadedire/vybe-backend/internal/follows"
	"github.com/dapoadedire/vybe-backend/internal/notifications"
	"github.com/dapoadedire/vybe-backend/internal/posts"
	"github.com/dapoadedire/vybe-backend/internal/profile"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	log.Println("========================================")
	log.Println("🚀 Starting Vybe Social API")
	log.Println("========================================")

	// 1. Load environment variables
	log.Println("📁 Step 1: Loading .env file...")
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  Warning: No .env file found (%v), using environment variables", err)
	} else {
		log.Println("✅ .env file loaded successfully")
	}

	// 2. Load and validate configuration
	log.Println("\n📋 Step 2: Loading configuration...")
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("❌ Configuration validation failed:", err)
	}
	log.Println("✅ Configuration loaded and valid")

	// 3. Connect to PostgreSQL
	log.Println("\n🗄️  Step 3: Connecting to PostgreSQL...")
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelConnect()

	db, err := database.OpenPostgres(connectCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("❌ Failed to connect to PostgreSQL:", err)
	}
	defer db.Close()
	log.Println("✅ Connected to PostgreSQL successfully")

	// 4. Connect to Redis (optional)
	log.Println("\n📮 Step 4: Connecting to Redis...")
	var redisClient *redis.Client

	if cfg.RedisURL != "" {
		redisClient, err = database.OpenRedis(connectCtx, cfg.RedisURL)
		if err != nil {
			log.Printf("⚠️  Redis unavailable (%v), continuing without Redis", err)
			redisClient = nil
		} else {
			defer redisClient.Close()
			log.Println("✅ Connected to Redis successfully")
		}
	} else {
		log.Println("⚠️  Redis URL not configured, skipping Redis connection")
	}

	// 5. Run database migrations
	log.Println("\n🔨 Step 5: Running database migrations...")
	if err := runMigrations(db); err != nil {
		log.Fatal("❌ Failed to run migrations: ", err)
	}
	log.Println("✅ Database migrations completed")

	sqlxDB := sqlx.NewDb(db, "postgres")

	// 6. Notifications module (other modules emit through it)
	log.Println("\n🔔 Step 6: Initializing Notifications module...")
	notificationsRepo := notifications.NewPostgresRepository(sqlxDB)
	notificationsService := notifications.NewService(notificationsRepo)
	notificationsHandler := notifications.NewHandler(notificationsService)
	log.Println("✅ Notifications module initialized")

	// 7. Auth module
	log.Println("\n🔐 Step 7: Initializing authentication system...")
	authRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(authRepo, redisClient, &auth.Config{
		JWTSecret:          cfg.JWTSecret,
		AccessTokenExpiry:  cfg.AccessTokenExpiry,
		RefreshTokenExpiry: cfg.RefreshTokenExpiry,
		BCryptCost:         cfg.BCryptCost,
		GoogleClientID:     cfg.GoogleClientID,
	})
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(authService)
	log.Println("✅ Authentication system initialized")

	// 8. Follows module
	log.Println("\n👥 Step 8: Initializing Follows module...")
	followsRepo := follows.NewPostgresRepository(sqlxDB)
	followsService := follows.NewService(followsRepo, notificationsService)
	followsHandler := follows.NewHandler(followsService)
	log.Println("✅ Follows module initialized")

	// 9. Posts module
	log.Println("\n📝 Step 9: Initializing Posts module...")
	postsRepo := posts.NewRepository(db)
	uploadService := posts.NewUploadService(posts.UploadConfig{
		UseS3:          cfg.UseS3,
		S3Bucket:       cfg.S3Bucket,
		AWSRegion:      cfg.AWSRegion,
		LocalUploadDir: cfg.LocalUploadDir,
		BaseURL:        cfg.BaseURL,
	})
	postsService := posts.NewService(postsRepo, uploadService, authService, notificationsService)
	postsHandler := posts.NewHandler(postsService)
	log.Println("✅ Posts module initialized")

	// 10. Feed module
	log.Println("\n📰 Step 10: Initializing Feed module...")
	feedRepo := feed.NewPostgresRepository(sqlxDB)
	seedStore := feed.NewSeedStore(redisClient, cfg.ExploreSeedTTL)
	feedService := feed.NewService(feedRepo, followsService, postsService)
	feedHandler := feed.NewHandler(feedService, seedStore, cfg.FeedDefaultPageSize, cfg.FeedMaxPageSize)
	log.Println("✅ Feed module initialized")

	// 11. Comments module
	log.Println("\n💬 Step 11: Initializing Comments module...")
	commentsRepo := comments.NewPostgresRepository(sqlxDB)
	commentsService := comments.NewService(commentsRepo, notificationsService)
	commentsHandler := comments.NewHandler(commentsService)
	log.Println("✅ Comments module initialized")

	// 12. Profile module
	log.Println("\n👤 Step 12: Initializing Profile module...")
	profileRepo := profile.NewPostgresRepository(sqlxDB)
	profileService := profile.NewService(profileRepo, followsService)
	profileHandler := profile.NewHandler(profileService, uploadService)
	log.Println("✅ Profile module initialized")

	// 13. Routes
	log.Println("\n🛣️  Step 13: Setting up routes...")
	router := mux.NewRouter()

	if !cfg.UseS3 {
		router.PathPrefix("/uploads/").Handler(
			http.StripPrefix("/uploads/",
				http.FileServer(http.Dir(cfg.LocalUploadDir))))
		log.Println("   ✅ Static file server configured")
	}

	router.HandleFunc("/health", healthCheck).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	authHandler.RegisterRoutes(router, authMiddleware)
	follows.RegisterRoutes(router, followsHandler, authMiddleware)
	posts.RegisterRoutes(router, postsHandler, authMiddleware)
	feed.RegisterRoutes(router, feedHandler, authMiddleware)
	comments.RegisterRoutes(router, commentsHandler, authMiddleware)
	notifications.RegisterRoutes(router, notificationsHandler, authMiddleware)
	profile.RegisterRoutes(router, profileHandler, authMiddleware)
	log.Println("   ✅ All routes registered")

	router.Use(loggingMiddleware)
	router.Use(corsMiddleware)

	// 14. Create and start HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Println("\n========================================")
		log.Printf("🚀 Server starting on http://localhost%s", srv.Addr)
		log.Printf("🌍 Environment: %s", cfg.Environment)
		log.Println("========================================")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("❌ Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n⚠️  Shutdown signal received...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("❌ Server forced to shutdown:", err)
	}

	log.Println("✅ Server exited gracefully")
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","time":"%s"}`, time.Now().Format(time.RFC3339))
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rw, r)
		log.Printf("%s %s %d %v", r.Method, r.URL.Path, rw.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// runMigrations creates the schema on boot so a fresh database is usable
// without a separate migration tool.
func runMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			email VARCHAR(255) UNIQUE,
			username VARCHAR(100) UNIQUE NOT NULL,
			first_name VARCHAR(100),
			last_name VARCHAR(100),
			bio TEXT,
			avatar_url TEXT,
			password_hash VARCHAR(255),
			provider VARCHAR(50) DEFAULT 'local',
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS posts (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			content TEXT,
			image_url TEXT,
			image_urls TEXT[],
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS post_likes (
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (post_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS post_shares (
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (post_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS saved_posts (
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (post_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS comments (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			parent_id UUID REFERENCES comments(id) ON DELETE CASCADE,
			content TEXT NOT NULL,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS follows (
			follower_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			followee_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			PRIMARY KEY (follower_id, followee_id)
		)`,

		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			actor_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			post_id UUID REFERENCES posts(id) ON DELETE CASCADE,
			comment_id UUID REFERENCES comments(id) ON DELETE CASCADE,
			type VARCHAR(20) NOT NULL,
			is_read BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_posts_user_created
			ON posts(user_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_comments_post
			ON comments(post_id)`,
		`CREATE INDEX IF NOT EXISTS idx_follows_followee
			ON follows(followee_id)`,
		`CREATE INDEX IF NOT EXISTS idx_notifications_user_unread
			ON notifications(user_id, is_read)`,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
