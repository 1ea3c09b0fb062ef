// Package wire provides dependency injection for the recall
// application. It creates singleton services with lazy initialization.
package wire

import (
	"log"
	"sync"

	"github.com/example/recall/internal/adapters/jsonfile"
	"github.com/example/recall/internal/adapters/sqlite"
	"github.com/example/recall/internal/app"
	"github.com/example/recall/internal/config"
	"github.com/example/recall/internal/db"
	"github.com/example/recall/internal/ports/primary"
)

var (
	settings     *config.Settings
	settingsOnce sync.Once

	hookService  primary.HookService
	sopService   primary.SOPService
	learnService primary.LearnService
	fileOnce     sync.Once

	sessionService primary.SessionService
	sessionOnce    sync.Once
)

// Settings returns the loaded configuration singleton.
func Settings() *config.Settings {
	settingsOnce.Do(func() {
		home, err := config.DefaultHome()
		if err != nil {
			log.Fatalf("failed to resolve recall home: %v", err)
		}
		settings = config.Load(home)
	})
	return settings
}

// HookService returns the singleton HookService instance.
func HookService() primary.HookService {
	fileOnce.Do(initFileServices)
	return hookService
}

// SOPService returns the singleton SOPService instance.
func SOPService() primary.SOPService {
	fileOnce.Do(initFileServices)
	return sopService
}

// LearnService returns the singleton LearnService instance.
func LearnService() primary.LearnService {
	fileOnce.Do(initFileServices)
	return learnService
}

// SessionService returns the singleton SessionService instance. The
// index database is opened lazily here so the hook path never pays
// for (or fails on) SQLite.
func SessionService() primary.SessionService {
	sessionOnce.Do(func() {
		cfg := Settings()

		database, err := db.Open(cfg.IndexDBPath())
		if err != nil {
			log.Fatalf("failed to initialize session index: %v", err)
		}

		fileOnce.Do(initFileServices)

		sessionService = app.NewSessionService(
			cfg,
			sqlite.NewSessionIndexRepository(database),
			jsonfile.NewDetailsStore(cfg),
			jsonfile.NewPendingStore(cfg),
			jsonfile.NewKnowledgeStore(cfg),
		)
	})
	return sessionService
}

// initFileServices wires the services that only touch file-backed
// stores. Called once via sync.Once.
func initFileServices() {
	cfg := Settings()

	sopStore := jsonfile.NewSOPStore(cfg)
	stateStore := jsonfile.NewStateStore(cfg)
	pendingStore := jsonfile.NewPendingStore(cfg)
	knowledgeStore := jsonfile.NewKnowledgeStore(cfg)

	hookService = app.NewHookService(sopStore, stateStore)
	sopService = app.NewSOPService(sopStore)
	learnService = app.NewLearnService(pendingStore, knowledgeStore)
}
