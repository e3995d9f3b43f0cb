package main

import (
	"context"
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"

	"movequote/catalog"
	"movequote/collections"
	"movequote/config"
	"movequote/handlers"
	"movequote/services"
	"movequote/store"
)

func configPath() string {
	if p := os.Getenv("MOVEQUOTE_CONFIG"); p != "" {
		return p
	}
	return "movequote.yaml"
}

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal(err)
	}
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	cat, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		logger.Fatal("catalog", zap.String("path", cfg.Catalog.Path), zap.Error(err))
	}

	app := pocketbase.New()
	app.RootCmd.AddCommand(newQuoteCmd(cat, cfg.Location()))

	// Create the quotes collection on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		if err := collections.Setup(app, logger); err != nil {
			return err
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		quoteStore, closeStore, err := store.Open(context.Background(), cfg.Store, app, logger)
		if err != nil {
			return err
		}
		app.OnTerminate().BindFunc(func(te *core.TerminateEvent) error {
			if err := closeStore(); err != nil {
				logger.Warn("store close", zap.Error(err))
			}
			return te.Next()
		})
		logger.Info("quote store ready", zap.String("backend", cfg.Store.Backend))

		deps := &handlers.Deps{
			Catalog:  cat,
			Store:    quoteStore,
			Logger:   logger,
			Location: cfg.Location(),
			PDF:      services.PDFOptions{FontPath: cfg.PDF.FontPath},
		}

		se.Router.BindFunc(handlers.RequestLoggerMiddleware(logger))

		se.Router.GET("/", handlers.HandleIndex())

		// ── Quote form ──────────────────────────────────────────
		se.Router.GET("/quote", handlers.HandleQuoteForm(deps))
		se.Router.POST("/quote/recalc", handlers.HandleQuoteRecalc(deps))

		// ── Stored quotes ───────────────────────────────────────
		se.Router.POST("/quote/save", handlers.HandleQuoteSave(deps))
		se.Router.GET("/quote/search", handlers.HandleQuoteSearch(deps))
		se.Router.GET("/quote/load/{id}", handlers.HandleQuoteLoad(deps))
		se.Router.GET("/quote/photos/{id}/{name}", handlers.HandleQuotePhoto(deps))

		// ── Export ──────────────────────────────────────────────
		se.Router.POST("/quote/export/excel", handlers.HandleQuoteExportExcel(deps))
		se.Router.POST("/quote/export/pdf", handlers.HandleQuoteExportPDF(deps))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		logger.Fatal("pocketbase", zap.Error(err))
	}
}
