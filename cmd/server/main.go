// Command server runs the language model gateway: an OpenAI-compatible chat
// completions API in front of configured upstream models, with tool-calling
// agents and streaming responses.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/icanbwell/language-model-gateway/internal/api"
	"github.com/icanbwell/language-model-gateway/internal/api/handlers"
	"github.com/icanbwell/language-model-gateway/internal/buildinfo"
	"github.com/icanbwell/language-model-gateway/internal/chat"
	"github.com/icanbwell/language-model-gateway/internal/config"
	"github.com/icanbwell/language-model-gateway/internal/logging"
	"github.com/icanbwell/language-model-gateway/internal/models"
	"github.com/icanbwell/language-model-gateway/internal/modelconfig"
	"github.com/icanbwell/language-model-gateway/internal/tools"
	"github.com/icanbwell/language-model-gateway/internal/watcher"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config.yaml", "path to the configuration file")
	flag.Parse()

	logging.SetupBaseLogger()
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("failed to load .env file: %v", err)
	}

	cfg, err := config.LoadConfigOptional(configPath, true)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if err = logging.ConfigureLogOutput(cfg); err != nil {
		log.Fatalf("failed to configure logging: %v", err)
	}
	log.Infof("language-model-gateway %s (%s) starting", buildinfo.Version, buildinfo.Commit)

	reader := modelconfig.NewReader(cfg)
	manager := models.NewManager(reader)

	registry := tools.NewRegistry()
	registry.Register(&tools.CurrentTimeTool{})
	registry.Register(&tools.EchoTool{})
	log.Debugf("registered tools: %s", strings.Join(registry.Names(), ", "))

	orchestrator := chat.NewOrchestrator(manager, registry, cfg.MaxAgentSteps)
	server := api.NewServer(cfg,
		handlers.NewChatHandler(orchestrator, cfg.LogPayloads),
		handlers.NewModelsHandler(manager),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Remote model-config sources refresh via cache TTL; local paths also
	// refresh immediately on file changes.
	if isLocalPath(cfg.ModelConfigPath) {
		w, errWatch := watcher.NewWatcher(cfg.ModelConfigPath, manager.Invalidate)
		if errWatch != nil {
			log.Warnf("failed to create model config watcher: %v", errWatch)
		} else if errWatch = w.Start(ctx); errWatch != nil {
			log.Warnf("failed to start model config watcher: %v", errWatch)
		} else {
			defer func() { _ = w.Stop() }()
		}
	}

	go func() {
		if errStart := server.Start(); errStart != nil {
			log.Fatalf("server error: %v", errStart)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Infof("received signal %s, shutting down", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err = server.Stop(shutdownCtx); err != nil {
		log.Errorf("shutdown error: %v", err)
	}
}

func isLocalPath(path string) bool {
	if path == "" {
		return false
	}
	if strings.HasPrefix(path, "s3://") {
		return false
	}
	return !modelconfig.IsGitHubURL(path)
}
