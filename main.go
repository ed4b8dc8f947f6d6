package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/restaurant-dashboard/config"
	"github.com/yeremiapane/restaurant-dashboard/controllers"
	"github.com/yeremiapane/restaurant-dashboard/database"
	"github.com/yeremiapane/restaurant-dashboard/hub"
	"github.com/yeremiapane/restaurant-dashboard/router"
	"github.com/yeremiapane/restaurant-dashboard/services"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

func main() {
	cfg := config.Load()
	utils.InitLoggerWithOutput(os.Stdout, os.Stderr, cfg.LogLevel)

	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	if err := database.SeedDemoData(db); err != nil {
		utils.ErrorLogger.Errorf("Error seeding demo data: %v", err)
	}

	cache, closeCache := newCache(cfg)
	defer closeCache()

	tokens := &serviceToken{secret: cfg.JWTSecret, email: cfg.DemoEmail}
	client := services.NewAPIClient(cfg.APIBaseURL,
		services.WithHTTPClient(&http.Client{Timeout: cfg.APITimeout}),
		services.WithCache(cache, cfg.CacheTTL),
		services.WithTokenFunc(tokens.Get),
	)

	notifications := hub.New()
	session := services.NewSession(client, services.NotifierFunc(func(n services.Notification) {
		if n.Kind == services.NotifyError {
			utils.ErrorLogger.Errorf("[%s] %s", n.Event, n.Message)
		} else {
			utils.InfoLogger.Printf("[%s] %s", n.Event, n.Message)
		}
		notifications.Notify(n)
	}))

	authCtrl, err := controllers.NewAuthController(cfg.DemoEmail, cfg.DemoPassword, cfg.JWTSecret)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to set up demo login: %v", err)
	}

	r := router.SetupRouter(db, cfg, session, notifications, authCtrl)
	r.SetTrustedProxies([]string{"127.0.0.1"})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	// the session reads through the API, so it can only load once we listen
	go func() {
		today := time.Now().Format("2006-01-02")
		if err := session.Refresh(context.Background(), today); err != nil {
			utils.ErrorLogger.Errorf("Initial dashboard refresh failed: %v", err)
		}
	}()

	monitor := services.NewSyncMonitor(session)
	monitor.Interval = cfg.SyncInterval
	monitor.Start()
	defer monitor.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.InfoLogger.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.ErrorLogger.Errorf("Shutdown: %v", err)
	}
}

// newCache picks Redis when REDIS_URL is set and falls back to memory.
func newCache(cfg *config.Config) (services.Cache, func()) {
	if cfg.RedisURL != "" {
		rc, err := services.NewRedisCache(cfg.RedisURL, "dashboard:")
		if err == nil {
			utils.InfoLogger.Println("Using Redis cache")
			return rc, func() { rc.Close() }
		}
		utils.ErrorLogger.Errorf("Redis unavailable, using memory cache: %v", err)
	}
	return services.NewMemoryCache(), func() {}
}

// serviceToken signs the session's own API token and renews it well before
// the 24h expiry.
type serviceToken struct {
	secret []byte
	email  string

	mu     sync.Mutex
	token  string
	issued time.Time
}

func (st *serviceToken) Get() string {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.token == "" || time.Since(st.issued) > 12*time.Hour {
		token, err := utils.GenerateToken(st.secret, st.email)
		if err != nil {
			return st.token
		}
		st.token, st.issued = token, time.Now()
	}
	return st.token
}
