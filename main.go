package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"Mandrel/internal/api"
	"Mandrel/internal/auth"
	"Mandrel/internal/calc/autoclave"
	"Mandrel/internal/calc/autodesign"
	"Mandrel/internal/calc/batch"
	"Mandrel/internal/calc/laminate"
	"Mandrel/internal/calc/loads"
	"Mandrel/internal/calc/recommend"
	"Mandrel/internal/calc/report"
	"Mandrel/internal/calc/tolerance"
	"Mandrel/internal/calc/winding"
	"Mandrel/internal/designs"
	"Mandrel/internal/material"
	"Mandrel/internal/store"
)

var wg sync.WaitGroup

// HandleList wires every route. Analysis endpoints are public; design
// storage, reporting, batch runs and autodesign sit behind the session
// middleware.
func HandleList(router *mux.Router, st store.Store, registry *material.Registry, jwtKey []byte) {
	authSvc := &auth.Service{JWTKey: jwtKey, Store: st}

	laminateH := &laminate.Handler{Registry: registry}
	windingH := &winding.Handler{Registry: registry}
	toleranceH := &tolerance.Handler{Registry: registry}
	materialH := &material.Handler{Registry: registry}
	loadsH := &loads.Handler{}
	recommendH := &recommend.Handler{}
	autoclaveH := &autoclave.Handler{}
	autodesignH := &autodesign.Handler{Registry: registry}
	batchH := &batch.Handler{Registry: registry}
	reportH := &report.Handler{Registry: registry}
	designsH := &designs.Handler{Store: st}

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		api.WriteJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"message": "Filament Winding Tool Backend läuft",
		})
	}).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api").Subrouter()

	apiRouter.HandleFunc("/parse", laminateH.Parse).Methods(http.MethodPost)
	apiRouter.HandleFunc("/laminate-properties", laminateH.Properties).Methods(http.MethodPost)
	apiRouter.HandleFunc("/failure-analysis", laminateH.Failure).Methods(http.MethodPost)
	apiRouter.HandleFunc("/tolerance-study", toleranceH.Study).Methods(http.MethodPost)
	apiRouter.HandleFunc("/calculate", windingH.Calc).Methods(http.MethodPost)
	apiRouter.HandleFunc("/export-toolpath", windingH.Export).Methods(http.MethodPost)
	apiRouter.HandleFunc("/loads/vessel", loadsH.Vessel).Methods(http.MethodPost)
	apiRouter.HandleFunc("/recommend-angle", recommendH.Angle).Methods(http.MethodPost)
	apiRouter.HandleFunc("/materials", materialH.Materials).Methods(http.MethodGet)
	apiRouter.HandleFunc("/processes", materialH.Processes).Methods(http.MethodGet)
	apiRouter.HandleFunc("/autoclave-profile", autoclaveH.Get).Methods(http.MethodGet)

	limiter := auth.NewIPRateLimiter(1, 5)
	sessions := apiRouter.NewRoute().Subrouter() // route group, no extra path segment
	sessions.Use(limiter.LimitMiddleware)
	sessions.HandleFunc("/register", authSvc.Register).Methods(http.MethodPost)
	sessions.HandleFunc("/login", authSvc.Login).Methods(http.MethodPost)
	sessions.HandleFunc("/logout", authSvc.Logout).Methods(http.MethodPost)

	secure := apiRouter.NewRoute().Subrouter()
	secure.Use(authSvc.Middleware)
	secure.HandleFunc("/designs", designsH.Create).Methods(http.MethodPost)
	secure.HandleFunc("/designs", designsH.List).Methods(http.MethodGet)
	secure.HandleFunc("/designs/{id}", designsH.Get).Methods(http.MethodGet)
	secure.HandleFunc("/designs/{id}", designsH.Delete).Methods(http.MethodDelete)
	secure.HandleFunc("/report", reportH.Generate).Methods(http.MethodPost)
	secure.HandleFunc("/batch", batchH.Run).Methods(http.MethodPost)
	secure.HandleFunc("/import", batchH.Import).Methods(http.MethodPost)
	secure.HandleFunc("/autodesign", autodesignH.Design).Methods(http.MethodPost)
}

func main() {
	_ = godotenv.Load()

	level, err := zerolog.ParseLevel(strings.ToLower(envOr("LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	log.Logger = logger

	registry := material.NewRegistry()
	if path := os.Getenv("MATERIALS_FILE"); path != "" {
		if err := registry.LoadYAML(path); err != nil {
			logger.Fatal().Err(err).Str("path", path).Msg("load materials file")
		}
		logger.Info().Str("path", path).Msg("material presets loaded")
	}

	st, err := openStore(logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	jwtKey := os.Getenv("JWT_SECRET")
	if jwtKey == "" {
		logger.Fatal().Msg("JWT_SECRET environment variable is not set")
	}

	router := mux.NewRouter()
	router.Use(api.RequestLogger(logger), api.Metrics)
	HandleList(router, st, registry, []byte(jwtKey))
	handler := api.CORS(router)

	addr := ":" + envOr("PORT", "8000")
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown")
	}
	wg.Wait()
	logger.Info().Msg("server stopped")
}

func openStore(logger zerolog.Logger) (store.Store, error) {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		logger.Info().Msg("using postgres store")
		return store.OpenPostgres(dsn)
	}
	path := envOr("MANDREL_DB", "mandrel.db")
	logger.Info().Str("path", path).Msg("using sqlite store")
	return store.OpenSQLite(path)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
