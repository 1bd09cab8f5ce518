// Factory production planner HTTP server
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/planforge/factory-planner/internal/planner/catalog"
	"github.com/planforge/factory-planner/internal/planner/db"
	"github.com/planforge/factory-planner/internal/planner/engine"
	"github.com/planforge/factory-planner/internal/planner/server"
	"github.com/planforge/factory-planner/internal/planner/sync"
)

func main() {
	// Parse flags
	dbPath := flag.String("db", "data/planner/catalog.db", "Path to SQLite catalog database")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	importItems := flag.String("import-items", "", "Import items from JSON file")
	importRecipes := flag.String("import-recipes", "", "Import recipes from JSON file")
	serveAfterImport := flag.Bool("serve", true, "Start the HTTP server (disable for import-only runs)")
	verbose := flag.Bool("verbose", false, "Enable verbose logging")
	flag.Parse()

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Create context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("shutting down...")
		cancel()
	}()

	// Open database
	database, err := db.OpenAndInit(ctx, *dbPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer func() { _ = database.Close() }()

	// Handle import commands
	if *importItems != "" || *importRecipes != "" {
		syncer := sync.NewSyncer(database)

		if *importItems != "" {
			logger.Info("importing items", "file", *importItems)
			if err := syncer.ImportItemsFromFile(ctx, *importItems); err != nil {
				logger.Error("failed to import items", "error", err)
				os.Exit(1)
			}
			logger.Info("items imported successfully")
		}

		if *importRecipes != "" {
			logger.Info("importing recipes", "file", *importRecipes)
			if err := syncer.ImportRecipesFromFile(ctx, *importRecipes); err != nil {
				logger.Error("failed to import recipes", "error", err)
				os.Exit(1)
			}
			logger.Info("recipes imported successfully")
		}

		if !*serveAfterImport {
			return
		}
	}

	// Load the catalog into memory; it is read-only for the lifetime of
	// the process and shared by all resolution calls.
	store := db.NewCatalogStore(database)
	items, err := store.LoadItems(ctx)
	if err != nil {
		logger.Error("failed to load items", "error", err)
		os.Exit(1)
	}
	recipes, err := store.LoadRecipes(ctx)
	if err != nil {
		logger.Error("failed to load recipes", "error", err)
		os.Exit(1)
	}

	cat, err := catalog.New(items, recipes)
	if err != nil {
		logger.Error("catalog validation failed", "error", err)
		os.Exit(1)
	}
	logger.Info("catalog loaded", "items", cat.ItemCount(), "recipes", cat.RecipeCount())

	// Create engine and server
	eng := engine.New(cat)
	srv, err := server.NewServer(eng, logger, *addr)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	logger.Info("starting planner server", "db", *dbPath, "addr", *addr)
	if err := srv.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}

	fmt.Fprintln(os.Stderr, "server stopped")
}
