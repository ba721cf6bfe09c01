// Command supplyscored is the SupplyScore platform service.
// It serves the assessment, submission, review and evidence endpoints,
// plus a health check.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"github.com/supplyscore/supplyscore/internal/api"
	"github.com/supplyscore/supplyscore/internal/assessment"
	"github.com/supplyscore/supplyscore/internal/catalog"
	"github.com/supplyscore/supplyscore/internal/evidence"
	"github.com/supplyscore/supplyscore/internal/identity"
	"github.com/supplyscore/supplyscore/internal/notify"
	"github.com/supplyscore/supplyscore/internal/platform"
	"github.com/supplyscore/supplyscore/pkg/config"
)

type serverConfig struct {
	Port           string
	DatabaseURL    string
	ConfigPath     string
	MigrateOnStart bool

	StorageBackend string
	LocalStorage   string
	S3             evidence.S3Config
	GCSBucket      string

	EmailEndpoint string
	EmailAPIKey   string
	EmailFrom     string
}

func loadServerConfig() serverConfig {
	return serverConfig{
		Port:           envOrDefault("PORT", "8080"),
		DatabaseURL:    envOrDefault("DATABASE_URL", "postgres://localhost:5432/supplyscore?sslmode=disable"),
		ConfigPath:     os.Getenv("SCORING_CONFIG"),
		MigrateOnStart: os.Getenv("MIGRATE_ON_START") == "true",

		StorageBackend: envOrDefault("STORAGE_BACKEND", "local"),
		LocalStorage:   envOrDefault("LOCAL_STORAGE_PATH", "/tmp/supplyscore-data"),
		S3: evidence.S3Config{
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
		},
		GCSBucket: os.Getenv("GCS_BUCKET"),

		EmailEndpoint: os.Getenv("EMAIL_ENDPOINT"),
		EmailAPIKey:   os.Getenv("EMAIL_API_KEY"),
		EmailFrom:     envOrDefault("EMAIL_FROM", "no-reply@supplyscore.io"),
	}
}

func main() {
	cfg := loadServerConfig()

	scoringCfg, err := config.Load(cfg.ConfigPath)
	if err != nil {
		log.Fatalf("load scoring config: %v", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("ping database: %v", err)
	}

	if cfg.MigrateOnStart {
		if err := platform.AutoMigrate(db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	storage, err := buildStorage(cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	var email notify.EmailSender
	if cfg.EmailEndpoint != "" {
		email = notify.NewHTTPSender(cfg.EmailEndpoint, cfg.EmailAPIKey, cfg.EmailFrom)
	} else {
		email = notify.LogSender{}
	}
	dispatcher := notify.NewDispatcher(notify.NewPGNotifier(db), email)

	catalogSvc := catalog.NewService(db)
	engine := assessment.NewService(db, catalogSvc, scoringCfg.Scoring.Weights, dispatcher)

	handler := api.NewHandler(catalogSvc, engine, storage)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux)

	authed := api.CORS(api.Auth(identity.NewTokenProvider(db))(mux))

	root := http.NewServeMux()
	root.Handle("/api/", authed)
	root.HandleFunc("GET /healthz", healthHandler(db))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: root,
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("starting supplyscored on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}

func buildStorage(cfg serverConfig) (evidence.StorageClient, error) {
	ctx := context.Background()
	switch cfg.StorageBackend {
	case "s3":
		return evidence.NewS3Storage(ctx, cfg.S3)
	case "gcs":
		return evidence.NewGCSStorage(ctx, cfg.GCSBucket)
	default:
		return evidence.NewLocalStorage(cfg.LocalStorage), nil
	}
}

func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}
