package main

import (
	"fmt"
	"log"

	"docbridge/internal/batch"
	"docbridge/internal/config"
	"docbridge/internal/email/noop"
	"docbridge/internal/email/ses"
	"docbridge/internal/extract"
	"docbridge/internal/fsguard"
	"docbridge/internal/glpi"
	"docbridge/internal/handler"
	"docbridge/internal/llm"
	"docbridge/internal/port"
	"docbridge/internal/router"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Filesystem access layer
	guard := fsguard.NewGuard(cfg.Files.AllowedRoots)
	translator := fsguard.NewTranslator(&cfg.Files)

	// LLM gateway
	generator, err := llm.NewGenerator(&cfg.LLM)
	if err != nil {
		return fmt.Errorf("failed to initialize LLM gateway: %w", err)
	}

	// Extraction and record creation
	processor := extract.NewProcessor(guard, extract.NewCommandExtractor(), generator, cfg.LLM.MaxChars)
	clients := glpi.NewFactory(&cfg.GLPI)

	// Batch pipeline
	reporter := batch.NewReporter(generator)
	pipeline := batch.NewPipeline(&cfg.Files, guard, translator, processor, clients, reporter)

	// Summary delivery
	var sender port.EmailSender
	switch cfg.Email.Provider {
	case "ses":
		sender, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	default:
		sender = noop.NewNoopSender()
	}

	// Handlers
	batchH := handler.NewBatchHandler(pipeline, translator, sender, cfg.Email.ToAddress)
	contractH := handler.NewContractHandler(processor, translator, clients)
	folderH := handler.NewFolderHandler(&cfg.Files)
	healthH := handler.NewHealthHandler(&cfg.Files)

	// Setup router
	r := router.Setup(batchH, contractH, folderH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
