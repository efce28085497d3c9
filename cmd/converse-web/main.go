package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campusbot/converse/internal/assistant"
	"github.com/campusbot/converse/internal/config"
	"github.com/campusbot/converse/internal/engine"
	"github.com/campusbot/converse/internal/lexicon"
	"github.com/campusbot/converse/internal/server"
	"github.com/campusbot/converse/internal/storage"
	"github.com/campusbot/converse/internal/storage/postgres"
	"github.com/campusbot/converse/internal/storage/sqlite"
)

func main() {
	lexiconPath := flag.String("lexicon", "", "Path to a YAML lexicon overlay (default: CONVERSE_LEXICON_PATH)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Build the lexicon, applying the deployment overlay if one is configured
	lex := lexicon.Default()
	overlayPath := cfg.Engine.LexiconPath
	if *lexiconPath != "" {
		overlayPath = *lexiconPath
	}
	if overlayPath != "" {
		if err := lex.LoadOverlay(overlayPath); err != nil {
			log.Fatalf("Failed to load lexicon overlay: %v", err)
		}
		log.Printf("Using lexicon overlay: %s", overlayPath)
	}

	engineCfg := engine.DefaultConfig()
	engineCfg.ContextTTL = cfg.Engine.ContextTTL
	engineCfg.MaxContexts = cfg.Engine.MaxContexts
	engineCfg.SubjectAdoptConfidence = cfg.Engine.SubjectAdoptConfidence
	engineCfg.SubjectFillConfidence = cfg.Engine.SubjectFillConfidence
	engineCfg.FollowUp.Threshold = cfg.Engine.FollowUpThreshold
	engineCfg.FollowUp.MaxScore = cfg.Engine.FollowUpMaxScore

	eng, err := engine.New(engineCfg, lex)
	if err != nil {
		log.Fatalf("Failed to initialize context engine: %v", err)
	}

	// Initialize snapshot persistence
	snapshots := openSnapshotStore(cfg)
	if snapshots != nil {
		defer snapshots.Close()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Rehydrate persisted conversations so a restart does not drop live chats
	if snapshots != nil {
		hydrateAll(ctx, eng, snapshots)
	}

	// Outbound assistant client (disabled when no URL is configured)
	var client *assistant.Client
	if cfg.Assistant.URL != "" {
		client = assistant.NewClient(assistant.Config{
			URL:     cfg.Assistant.URL,
			Timeout: cfg.Assistant.Timeout,
			Breaker: assistant.DefaultBreakerConfig(),
		})
	}

	addr := server.Start(ctx, cfg, eng, client, snapshots)
	log.Printf("Converse running at http://%s", addr)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	cancel()
	time.Sleep(1 * time.Second) // Give time for connections to close
}

// openSnapshotStore builds the configured persistence backend. Returns nil
// when persistence is disabled.
func openSnapshotStore(cfg *config.Config) storage.SnapshotStore {
	switch cfg.Storage.Engine {
	case "sqlite":
		if err := os.MkdirAll(cfg.Storage.DataPath, 0o755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		store, err := sqlite.NewSnapshotStore(cfg.Storage.DataPath + "/converse.db")
		if err != nil {
			log.Fatalf("Failed to initialize sqlite storage: %v", err)
		}
		return store
	case "postgres":
		store, err := postgres.NewSnapshotStore(cfg.Storage.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to initialize postgres storage: %v", err)
		}
		return store
	case "none", "":
		return nil
	default:
		log.Fatalf("Unknown storage engine: %s", cfg.Storage.Engine)
		return nil
	}
}

// hydrateAll loads every persisted snapshot into the engine. The store
// returns ids most recent first; hydrating oldest first keeps the store's
// LRU order aligned with real interaction times when over capacity.
func hydrateAll(ctx context.Context, eng *engine.Engine, snapshots storage.SnapshotStore) {
	ids, err := snapshots.List(ctx)
	if err != nil {
		log.Printf("Warning: failed to list persisted snapshots: %v", err)
		return
	}

	restored := 0
	for i := len(ids) - 1; i >= 0; i-- {
		record, err := snapshots.Load(ctx, ids[i])
		if err != nil {
			log.Printf("Warning: failed to load snapshot %s: %v", ids[i], err)
			continue
		}
		eng.Hydrate(record)
		restored++
	}
	if restored > 0 {
		log.Printf("Restored %d persisted conversation(s)", restored)
	}
}
