package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/alerting"
	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/config"
	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/contracts"
	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/httpx"
	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/mq"
	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/optimize"
	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/pipeline"
	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/predict"
	"github.com/shiroonigami23-ui/disruption-response-pipeline/internal/ws"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var backend predict.Backend
	if cfg.InferenceURL != "" {
		backend = predict.NewHTTPBackend(cfg.InferenceURL, &http.Client{Timeout: 10 * time.Second})
		log.Printf("pipeline-server using inference backend %s", cfg.InferenceURL)
	} else {
		log.Println("pipeline-server no inference backend configured, using deterministic fallback")
	}

	engine := predict.NewEngine(backend, cfg.IoTDelayThresholdMin)
	planner := optimize.NewPlanner(optimize.DefaultConfig())

	notifier := mq.NewNotifier(cfg.KafkaBrokers, cfg.KafkaTopicNotifications)
	defer notifier.Close()
	manager := alerting.NewManager(notifier)

	coordinator := pipeline.NewCoordinator(engine, planner, manager, cfg.HistoryCapacity)

	hub := ws.NewHub()
	defer hub.Close()
	coordinator.Subscribe(hub)

	publisher := mq.NewAlertPublisher(cfg.KafkaBrokers, cfg.KafkaTopicAlerts)
	defer publisher.Close()
	coordinator.Subscribe(publisher)

	if cfg.SimulatorTick > 0 {
		go runSimulator(ctx, coordinator, cfg.SimulatorTick, cfg.RunTimeout)
	}

	srv := &server{
		coordinator: coordinator,
		manager:     manager,
		hub:         hub,
		runTimeout:  cfg.RunTimeout,
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "service": "pipeline-server"})
	})

	router.Post("/v1/disruptions", srv.handleSubmit)
	router.Delete("/v1/disruptions/{identity}", srv.handleCancel)
	router.Get("/v1/alerts", srv.handleHistory)
	router.Get("/v1/alerts/{id}", srv.handleQuery)
	router.Get("/v1/alerts/{id}/resolution", srv.handleResolution)
	router.Patch("/v1/alerts/{id}/resolve", srv.handleResolve)
	router.Get("/v1/routes", srv.handleRoutes)
	router.Get("/v1/metrics", srv.handleMetrics)
	router.Get("/v1/stream", hub.Handle)
	router.Post("/v1/simulate", srv.handleSimulate)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Printf("pipeline-server listening on %s", cfg.HTTPAddr)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("pipeline-server error: %v", err)
	}
}

type server struct {
	coordinator *pipeline.Coordinator
	manager     *alerting.Manager
	hub         *ws.Hub
	runTimeout  time.Duration
}

type submitRequest struct {
	Identity       string                 `json:"identity"`
	TimeoutSeconds int                    `json:"timeout_seconds,omitempty"`
	Signals        contracts.SignalBundle `json:"signals"`
}

func (s *server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, err)
		return
	}

	req.Identity = strings.TrimSpace(req.Identity)
	if req.Identity == "" {
		httpx.WriteError(w, http.StatusBadRequest, errors.New("identity is required"))
		return
	}

	timeout := s.runTimeout
	if req.TimeoutSeconds > 0 {
		timeout = time.Duration(req.TimeoutSeconds) * time.Second
	}

	handle, err := s.coordinator.Submit(req.Signals, req.Identity, time.Now().Add(timeout))
	if err != nil {
		if errors.Is(err, pipeline.ErrDuplicateRun) {
			httpx.WriteError(w, http.StatusConflict, err)
			return
		}
		httpx.WriteError(w, http.StatusInternalServerError, err)
		return
	}

	httpx.WriteJSON(w, http.StatusAccepted, map[string]any{
		"identity": handle.Identity(),
		"state":    handle.State(),
	})
}

func (s *server) handleCancel(w http.ResponseWriter, r *http.Request) {
	identity := chi.URLParam(r, "identity")
	if err := s.coordinator.Cancel(identity); err != nil {
		httpx.WriteError(w, http.StatusNotFound, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"identity": identity, "cancelled": true})
}

func (s *server) handleHistory(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": s.coordinator.History()})
}

func (s *server) handleQuery(w http.ResponseWriter, r *http.Request) {
	alert, err := s.coordinator.Query(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, alert)
}

func (s *server) handleResolution(w http.ResponseWriter, r *http.Request) {
	status, err := s.manager.TrackResolution(chi.URLParam(r, "id"))
	if err != nil {
		httpx.WriteError(w, http.StatusNotFound, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, status)
}

func (s *server) handleResolve(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.manager.Resolve(id); err != nil {
		if errors.Is(err, alerting.ErrAlertNotFound) {
			httpx.WriteError(w, http.StatusNotFound, err)
			return
		}
		httpx.WriteError(w, http.StatusConflict, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"id": id, "status": contracts.StatusResolved})
}

func (s *server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	metrics := s.coordinator.Metrics()
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"pipeline":    metrics,
		"subscribers": s.hub.ClientCount(),
	})
}

func (s *server) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"items": monitoredRoutes()})
}

func (s *server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	type req struct {
		Count int `json:"count"`
	}
	body := req{Count: 5}
	_ = httpx.DecodeJSON(r, &body)

	if body.Count <= 0 {
		body.Count = 5
	}
	if body.Count > 100 {
		body.Count = 100
	}

	submitted := 0
	for i := 0; i < body.Count; i++ {
		identity, bundle := randomDisruption()
		if _, err := s.coordinator.Submit(bundle, identity, time.Now().Add(s.runTimeout)); err != nil {
			continue
		}
		submitted++
	}

	httpx.WriteJSON(w, http.StatusAccepted, map[string]any{"requested": body.Count, "submitted": submitted})
}
