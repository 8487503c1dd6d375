package main

import (
	"budget-monitor/internal/client"
	"budget-monitor/internal/client/poller"
	"budget-monitor/internal/config"
	"budget-monitor/internal/core/domain"
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
)

func main() {
	var (
		municipalityID string
		uploadPath     string
		docType        string
		year           int
		process        bool
	)

	flag.StringVar(&municipalityID, "municipality", "", "Municipality id, watches its in-flight documents when no id is given")
	flag.StringVar(&uploadPath, "upload", "", "PDF file to upload before watching")
	flag.StringVar(&docType, "type", "LOA", "Document type of the upload (LOA or LDO)")
	flag.IntVar(&year, "year", 0, "Budget year of the upload, the municipality year when omitted")
	flag.BoolVar(&process, "process", false, "Trigger processing of the uploaded or given pending documents")
	flag.Parse()

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := config.LoadPoller()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	api := client.New(cfg.BaseURL, &http.Client{Timeout: 5 * time.Minute})

	var failed atomic.Int32
	var p *poller.Poller
	p = poller.New(api, poller.Config{
		Interval:       cfg.Interval,
		RequestTimeout: cfg.RequestTimeout,
		OnUpdate: func(u poller.Update) {
			attrs := []any{"document_id", u.Document.ID, "filename", u.Document.Filename, "status", u.Document.Status}
			if u.Progress != nil {
				attrs = append(attrs, "batch", u.Progress.CurrentBatch, "total_batches", u.Progress.TotalBatches, "percentage", u.Progress.Percentage)
			}
			logger.Info("document updated", attrs...)
		},
		OnTerminal: func(doc client.Document) {
			if doc.Status == domain.DocumentStatusFailed {
				failed.Add(1)
				msg := ""
				if doc.ErrorMessage != nil {
					msg = *doc.ErrorMessage
				}
				logger.Error("document processing failed", "document_id", doc.ID, "error", msg)
			} else {
				logger.Info("document processed", "document_id", doc.ID, "chunks", doc.TotalChunks)
			}
			if len(p.Tracked()) == 0 {
				stop()
			}
		},
		OnError: func(id uuid.UUID, err error) {
			logger.Warn("poll failed", "document_id", id, "error", err)
			if len(p.Tracked()) == 0 {
				stop()
			}
		},
	}, logger)

	var docs []client.Document

	if uploadPath != "" {
		doc, err := upload(ctx, api, logger, municipalityID, uploadPath, docType, year)
		if err != nil {
			logger.Error("upload failed", "file", uploadPath, "error", err)
			os.Exit(1)
		}
		docs = append(docs, *doc)
	}

	for _, raw := range flag.Args() {
		id, err := uuid.Parse(raw)
		if err != nil {
			logger.Error("invalid document id", "id", raw)
			os.Exit(1)
		}
		doc, err := api.GetDocument(ctx, id)
		if err != nil {
			logger.Error("failed to get document", "document_id", id, "error", err)
			os.Exit(1)
		}
		docs = append(docs, *doc)
	}

	if uploadPath == "" && flag.NArg() == 0 && municipalityID != "" {
		id, err := uuid.Parse(municipalityID)
		if err != nil {
			logger.Error("invalid municipality id", "id", municipalityID)
			os.Exit(1)
		}
		docs, err = api.ListDocuments(ctx, client.ListOptions{MunicipalityID: &id})
		if err != nil {
			logger.Error("failed to list documents", "error", err)
			os.Exit(1)
		}
	}

	if process {
		for i, doc := range docs {
			if doc.Status != domain.DocumentStatusPending {
				continue
			}
			started, err := api.StartProcessing(ctx, doc.ID)
			if err != nil {
				logger.Error("failed to start processing", "document_id", doc.ID, "error", err)
				continue
			}
			docs[i] = *started
			logger.Info("processing started", "document_id", doc.ID)
		}
	}

	p.Observe(docs...)
	if len(p.Tracked()) == 0 {
		logger.Info("nothing in flight", "documents", len(docs))
		return
	}

	p.Start(ctx)
	<-ctx.Done()
	p.Stop()

	if failed.Load() > 0 {
		os.Exit(1)
	}
}

func upload(ctx context.Context, api *client.Client, logger *slog.Logger, municipalityID, path, docType string, year int) (*client.Document, error) {
	munID, err := uuid.Parse(municipalityID)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	res, err := api.Upload(ctx, client.UploadInput{
		MunicipalityID: munID,
		DocType:        docType,
		Year:           year,
		Filename:       filepath.Base(path),
		Content:        f,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("document uploaded",
		"document_id", res.DocumentID,
		"version", res.Version,
		"estimated_minutes", res.EstimatedProcessingTimeMinutes)

	return api.GetDocument(ctx, res.DocumentID)
}
