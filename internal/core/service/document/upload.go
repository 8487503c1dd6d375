package document

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

var pdfMagic = []byte("%PDF")

// maxFilenameLen matches documents.filename
const maxFilenameLen = 255

func (d *documentService) Upload(ctx context.Context, req port.UploadRequest) (*port.UploadResult, error) {
	docType, err := domain.ParseDocumentType(req.Type)
	if err != nil {
		return nil, err
	}

	filename := filepath.Base(req.Filename)
	if n := utf8.RuneCountInString(filename); n > maxFilenameLen {
		return nil, fmt.Errorf("%w: %d characters, max %d", domain.ErrInvalidFilename, n, maxFilenameLen)
	}
	if strings.ToLower(filepath.Ext(filename)) != ".pdf" {
		return nil, fmt.Errorf("%w: only .pdf files are accepted, got %q", domain.ErrInvalidFileType, req.Filename)
	}
	if req.Size == 0 {
		return nil, domain.ErrEmptyFile
	}
	if req.Size > d.uploadCfg.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes, max %d", domain.ErrFileSizeTooBig, req.Size, d.uploadCfg.MaxSize)
	}

	if req.Year != 0 && (req.Year < 2000 || req.Year > 2100) {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidYear, req.Year)
	}

	content := bufio.NewReader(req.Content)
	head, err := content.Peek(len(pdfMagic))
	if err != nil || !bytes.Equal(head, pdfMagic) {
		return nil, fmt.Errorf("%w: content is not a PDF", domain.ErrInvalidFileType)
	}

	municipality, err := d.uow.MunicipalityRepo().FindByID(ctx, req.MunicipalityID)
	if err != nil {
		return nil, err
	}

	version, err := d.nextVersion(ctx, d.uow, municipality.ID, docType)
	if err != nil {
		return nil, err
	}

	year := req.Year
	if year == 0 {
		year = municipality.Year
	}

	doc := domain.NewDocument(municipality.ID, docType, filename, "", req.Size, year, version, d.now())
	doc.StorageKey = StorageKey(doc.MunicipalityID, doc.Type, doc.ID)

	if err := d.storage.PutObject(ctx, doc.StorageKey, content, req.Size, "application/pdf"); err != nil {
		return nil, fmt.Errorf("could not store document: %w", err)
	}

	txErr := d.uow.Execute(ctx, func(uow port.UnitOfWork) error {
		// a concurrent upload may have landed while the object was stored
		version, err := d.nextVersion(ctx, uow, municipality.ID, docType)
		if err != nil {
			return err
		}
		doc.Version = version
		return uow.DocumentRepo().Create(ctx, doc)
	})
	if txErr != nil {
		if err := d.storage.DeleteObject(ctx, doc.StorageKey); err != nil {
			d.logger.Error("failed to remove orphan object", "key", doc.StorageKey, "error", err)
		}
		return nil, fmt.Errorf("could not register document: %w", txErr)
	}

	d.logger.Info("document uploaded",
		"document_id", doc.ID,
		"municipality_id", doc.MunicipalityID,
		"type", doc.Type,
		"version", doc.Version,
		"size", doc.SizeBytes)

	return &port.UploadResult{
		Document:                       doc,
		EstimatedProcessingTimeMinutes: EstimateProcessingMinutes(doc.SizeBytes),
	}, nil
}

// nextVersion rejects an upload while the latest document of the same type is still in flight
func (d *documentService) nextVersion(ctx context.Context, uow port.UnitOfWork, municipalityID uuid.UUID, docType domain.DocumentType) (int, error) {
	latest, err := uow.DocumentRepo().FindLatestByMunicipalityAndType(ctx, municipalityID, docType)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return 1, nil
		}
		return 0, err
	}
	if latest.Status.IsInFlight() {
		return 0, fmt.Errorf("%w: %s %s is %s", domain.ErrUploadInProgress, docType, latest.ID, latest.Status)
	}
	return latest.Version + 1, nil
}
