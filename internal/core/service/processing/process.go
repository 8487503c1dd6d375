package processing

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"
)

// process downloads, splits and extracts a document and returns the number of chunks found
func (p *processingService) process(ctx context.Context, doc *domain.Document, lock port.Lock) (int, error) {
	workDir, err := os.MkdirTemp("", "budget-doc-*")
	if err != nil {
		return 0, fmt.Errorf("could not create work dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	source := filepath.Join(workDir, "source.pdf")
	if err := p.download(ctx, doc.StorageKey, source); err != nil {
		return 0, err
	}

	pages, err := p.splitter.PageCount(source)
	if err != nil {
		return 0, err
	}
	if pages == 0 {
		return 0, errors.New("document has no pages")
	}

	batches, err := p.splitter.Split(source, p.cfg.PagesPerBatch, workDir)
	if err != nil {
		return 0, err
	}

	if err := p.uow.DocumentRepo().SetTotalBatches(ctx, doc.ID, len(batches)); err != nil {
		return 0, fmt.Errorf("could not set total batches: %w", err)
	}
	if err := doc.SetTotalBatches(len(batches)); err != nil {
		return 0, err
	}
	p.mirrorProgress(ctx, doc)
	p.logger.Info("document split", "document_id", doc.ID, "pages", pages, "batches", len(batches))

	var (
		mu        sync.Mutex
		processed int
		chunks    int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Concurrency)

	for i, path := range batches {
		g.Go(func() error {
			res, err := p.extractBatch(gctx, doc.Type, path)
			if err != nil {
				return fmt.Errorf("batch %d/%d: %w", i+1, len(batches), err)
			}

			mu.Lock()
			defer mu.Unlock()

			processed++
			chunks += res.Chunks
			if err := p.uow.DocumentRepo().UpdateProgress(gctx, doc.ID, processed); err != nil {
				return fmt.Errorf("could not update progress: %w", err)
			}
			if err := doc.RecordProgress(processed); err != nil {
				return err
			}
			p.mirrorProgress(gctx, doc)

			if err := lock.Extend(gctx, p.cfg.LockTTL); err != nil {
				p.logger.Warn("failed to extend document lock", "document_id", doc.ID, "error", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return chunks, nil
}

func (p *processingService) extractBatch(ctx context.Context, docType domain.DocumentType, path string) (*domain.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read batch: %w", err)
	}

	if p.cfg.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.BatchTimeout)
		defer cancel()
	}

	res, err := p.extractor.Extract(ctx, docType, data)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("extraction timed out after %s", p.cfg.BatchTimeout)
		}
		return nil, err
	}
	return res, nil
}

func (p *processingService) download(ctx context.Context, key, dest string) error {
	obj, err := p.storage.GetObject(ctx, key)
	if err != nil {
		return fmt.Errorf("could not fetch document: %w", err)
	}
	defer obj.Close()

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("could not create local copy: %w", err)
	}
	if _, err := io.Copy(f, obj); err != nil {
		f.Close()
		return fmt.Errorf("could not download document: %w", err)
	}
	return f.Close()
}
