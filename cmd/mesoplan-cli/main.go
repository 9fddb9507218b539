package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/claude/mesoplan/internal/ingest"
	"github.com/claude/mesoplan/internal/library"
	"github.com/claude/mesoplan/internal/localstore"
	mcptools "github.com/claude/mesoplan/internal/mcp"
	"github.com/claude/mesoplan/internal/models"
	"github.com/claude/mesoplan/internal/planner"
	"github.com/claude/mesoplan/internal/render"
	"github.com/claude/mesoplan/internal/strategy"
	"github.com/claude/mesoplan/internal/template"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	age := flag.String("age", "Intermediate", "training age: Novice, Intermediate or Advanced")
	goal := flag.String("goal", "Strength", "goal: Strength or Hypertrophy")
	days := flag.Int("days", 4, "training days per week")
	save := flag.Bool("save", false, "store the generated plan in the local database")
	dataDir := flag.String("data", "", "local database directory (default ~/.mesoplan)")
	templatesPath := flag.String("templates", "", "optional YAML template catalog")
	importPath := flag.String("import", "", "add user-created exercises from a YAML or JSON file, then exit")
	serveMCP := flag.Bool("mcp", false, "serve MCP tools over stdio instead of generating once")
	remote := flag.String("remote", "", "with -mcp, use a MesoPlan server (URL) instead of the local database")
	apiKey := flag.String("api-key", os.Getenv("MESOPLAN_AUTH_API_KEY"), "API key for -remote writes")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("mesoplan-cli", Version)
		return
	}

	// Stdout carries the plan or the MCP stream; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	catalog := template.Default()
	if *templatesPath != "" {
		if err := catalog.LoadFile(*templatesPath); err != nil {
			log.Error("failed to load templates", "path", *templatesPath, "error", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *serveMCP && *remote != "" {
		client := mcptools.NewHTTPClient(*remote, *apiKey)
		svc := planner.NewService(strategy.Default, catalog, client, log)
		if err := mcpserver.ServeStdio(mcptools.New(client, svc, catalog, Version, log)); err != nil {
			log.Error("mcp stdio failed", "error", err)
			os.Exit(1)
		}
		return
	}

	dir := *dataDir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		dir = filepath.Join(homeDir, ".mesoplan")
	}

	store, err := localstore.Open(dir)
	if err != nil {
		log.Error("failed to open local database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if _, err := library.Seed(ctx, store, log); err != nil {
		log.Error("library seed failed", "error", err)
		os.Exit(1)
	}

	if *importPath != "" {
		f, err := os.Open(*importPath)
		if err != nil {
			log.Error("failed to open import file", "error", err)
			os.Exit(1)
		}
		result, err := ingest.Import(ctx, f, store, log)
		f.Close()
		if err != nil {
			log.Error("import failed", "path", *importPath, "error", err)
			os.Exit(1)
		}
		fmt.Println(result.Message)
		for _, msg := range result.Errors {
			fmt.Fprintf(os.Stderr, "  rejected: %s\n", msg)
		}
		return
	}

	svc := planner.NewService(strategy.Default, catalog, store, log)

	if *serveMCP {
		if err := mcpserver.ServeStdio(mcptools.New(store, svc, catalog, Version, log)); err != nil {
			log.Error("mcp stdio failed", "error", err)
			os.Exit(1)
		}
		return
	}

	result, err := svc.PlanFor(ctx, models.UserProfile{
		TrainingAge:   models.TrainingAge(*age),
		Goal:          models.Goal(*goal),
		DaysAvailable: *days,
	})
	if errors.Is(err, planner.ErrNoTemplate) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err != nil {
		log.Error("generation failed", "error", err)
		os.Exit(1)
	}

	if result.FallbackTemplate {
		fmt.Printf("Note: no %s template for %d days; using %q.\n\n", result.Blueprint.Profile.Goal, *days, result.Blueprint.Template.Name)
	}
	render.Plan(os.Stdout, result.Plan)
	fmt.Println()
	render.Report(os.Stdout, result.Report)

	if *save {
		if err := store.SavePlan(ctx, result.Plan); err != nil {
			log.Error("save failed", "error", err)
			os.Exit(1)
		}
		log.Info("plan saved", "id", result.Plan.ID, "dir", dir)
	}

	if !result.Report.Valid {
		os.Exit(3)
	}
}
