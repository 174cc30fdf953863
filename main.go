package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	routerx "github.com/smartshelf/concierge/agent/agents/router"
	specialistx "github.com/smartshelf/concierge/agent/agents/specialist"
	contractx "github.com/smartshelf/concierge/agent/contract"
	promptx "github.com/smartshelf/concierge/agent/prompt"
	toolx "github.com/smartshelf/concierge/agent/tool"
	configx "github.com/smartshelf/concierge/pkg/config"
	_ "github.com/smartshelf/concierge/pkg/logger/autoload"
	openrouterx "github.com/smartshelf/concierge/pkg/openrouter"
	"github.com/smartshelf/concierge/shelf/inventory"
	"github.com/smartshelf/concierge/shelf/reservation"
	"github.com/smartshelf/concierge/shelf/session"
)

type AppConfig struct {
	LayoutPath  string `envconfig:"LAYOUT_PATH" split_words:"true" default:"smart_shelf_config.json"`
	DatabaseDSN string `envconfig:"DATABASE_DSN" split_words:"true"`
}

func main() {
	ctx := context.Background()
	appCfg := configx.MustNew[AppConfig]("SMARTSHELF")

	layout, err := inventory.LoadLayout(appCfg.LayoutPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", appCfg.LayoutPath).Msg("create the layout file with your shelf definition")
	}

	invStore, sessStore := buildStores(ctx, appCfg.DatabaseDSN)

	engine, err := reservation.NewEngine(invStore)
	if err != nil {
		log.Fatal().Err(err).Msg("build reservation engine")
	}
	if err := engine.Initialize(ctx, layout); err != nil {
		log.Fatal().Err(err).Msg("initialize inventory")
	}

	tracker, err := session.NewTracker(sessStore)
	if err != nil {
		log.Fatal().Err(err).Msg("build session tracker")
	}

	catalog, err := toolx.NewCatalog(engine, tracker)
	if err != nil {
		log.Fatal().Err(err).Msg("build tool catalog")
	}

	openRouterCfg := configx.MustNew[openrouterx.Config]("OPENROUTER")
	client := openrouterx.NewClient(*openRouterCfg)
	if client == nil {
		log.Fatal().Msg("OPENROUTER_API_KEY is required")
	}

	prompts := promptx.LoadPromptSet()

	storage, err := specialistx.New(client, catalog, specialistx.Config{
		AgentType:   contractx.AgentTypeStorage,
		Instruction: prompts.Storage,
		Model:       openRouterCfg.Model,
		Temperature: openRouterCfg.Temperature,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build storage specialist")
	}

	retrieval, err := specialistx.New(client, catalog, specialistx.Config{
		AgentType:   contractx.AgentTypeRetrieval,
		Instruction: prompts.Retrieval,
		Model:       openRouterCfg.Model,
		Temperature: openRouterCfg.Temperature,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build retrieval specialist")
	}

	router, err := routerx.New(client, storage, retrieval, routerx.Config{
		Instruction: prompts.Router,
		Model:       openRouterCfg.Model,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("build router")
	}

	runREPL(ctx, router)
}

// buildStores wires the durable Postgres stores, or the in-memory pair when
// no DSN is configured (local experimentation without a database).
func buildStores(ctx context.Context, dsn string) (inventory.Store, session.Store) {
	if strings.TrimSpace(dsn) == "" {
		log.Warn().Msg("SMARTSHELF_DATABASE_DSN not set; using in-memory stores, state will not survive restarts")
		return inventory.NewMemoryStore(), session.NewMemoryStore()
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("connect to postgres")
	}

	invStore, err := inventory.NewPostgresStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("build inventory store")
	}

	sessStore, err := session.NewPostgresStore(db)
	if err != nil {
		log.Fatal().Err(err).Msg("build session store")
	}
	if err := sessStore.Init(ctx); err != nil {
		log.Fatal().Err(err).Msg("migrate session store")
	}

	return invStore, sessStore
}

func runREPL(ctx context.Context, router *routerx.Router) {
	fmt.Println("Package Storage Assistant")
	fmt.Println("Ready! Type your request (or 'quit')")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("You: ")
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(input) {
		case "", "q", "quit", "exit":
			fmt.Println("Goodbye!")
			return
		}

		reply, err := router.Dispatch(ctx, input)
		if err != nil {
			log.Error().Err(err).Msg("dispatch failed")
			fmt.Println("\nAssistant: Something went wrong on my side, please try again.")
			continue
		}
		if reply == "" {
			reply = "I'm thinking..."
		}
		fmt.Printf("\nAssistant: %s\n\n", reply)
	}

	if err := scanner.Err(); err != nil {
		log.Error().Err(err).Msg("stdin closed")
	}
}
