package main

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"vaultagent/internal/api"
	"vaultagent/internal/authz"
	"vaultagent/internal/catalog"
	"vaultagent/internal/config"
	"vaultagent/internal/dispatch"
	"vaultagent/internal/llm"
	"vaultagent/internal/logger"
	"vaultagent/internal/memory"
	"vaultagent/internal/observability"
	"vaultagent/internal/orchestrator"
	"vaultagent/internal/vault"
	"vaultagent/internal/worker"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("VAULTAGENT_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg := logger.New(cfg.Log)
	observability.InitMetrics()

	backend := vault.NewClient(cfg.Backend, lg)
	adminCache := authz.NewCache(backend.CheckAdmin, lg)
	tools := catalog.Default()
	dispatcher := dispatch.NewDispatcher(tools, backend, adminCache, lg)
	completer := llm.NewClient(cfg.LLM, lg)
	store := memory.NewStore(cfg.Memory.Retention)
	orch := orchestrator.New(completer, tools, dispatcher, store, cfg.Memory.HistoryWindow, lg)

	workers := worker.NewManager(30 * time.Minute)
	defer workers.Close()

	handlers := api.NewHandler(orch, workers, lg)

	router := gin.Default()
	handlers.RegisterRoutes(router)

	lg.Info().
		Str("address", cfg.Server.Address).
		Str("model", cfg.LLM.Model).
		Str("backend", cfg.Backend.BaseURL).
		Strs("endpoints", []string{"/api/chat", "/api/clear-memory", "/health", "/metrics", "/"}).
		Msg("starting vault agent")
	lg.Info().Str("tools", strings.Join(tools.Names(), ", ")).Msg("tool catalog loaded")

	if err := router.Run(cfg.Server.Address); err != nil {
		lg.Fatal().Err(err).Msg("server stopped")
	}
}
