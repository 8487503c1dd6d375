package document_test

import (
	"budget-monitor/internal/adapters/cache"
	"budget-monitor/internal/adapters/eventbroker"
	"budget-monitor/internal/adapters/repository"
	"budget-monitor/internal/adapters/storage"
	"budget-monitor/internal/config"
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"budget-monitor/internal/core/service/document"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var defaultCfg = config.UploadConfig{
	MaxSize:    50 * 1024 * 1024,
	StaleAfter: 2 * time.Hour,
}

type fixture struct {
	uow       *repository.MockUnitOfWork
	storage   *storage.MockStorage
	publisher *eventbroker.MockPublisher
	progress  *cache.MockProgressCache
	service   port.DocumentService
}

func newFixture(withCache bool) *fixture {
	f := &fixture{
		uow:       repository.NewMockUnitOfWork(),
		storage:   storage.NewMockStorage(),
		publisher: eventbroker.NewMockPublisher(),
	}
	var progress port.ProgressCache
	if withCache {
		f.progress = cache.NewMockProgressCache()
		progress = f.progress
	}
	f.service = document.NewDocumentService(f.uow, f.storage, f.publisher, progress, defaultCfg, slog.Default())
	return f
}

func pendingDocument() *domain.Document {
	return domain.NewDocument(uuid.New(), domain.DocumentTypeLOA, "loa.pdf", "key", 2*1024*1024, 2025, 1, time.Now().UTC())
}

func processingDocument(processed, total int) *domain.Document {
	doc := pendingDocument()
	doc.Status = domain.DocumentStatusProcessing
	if total > 0 {
		doc.Progress = &domain.BatchProgress{Processed: processed, Total: total}
	}
	return doc
}

func failedDocument(message string) *domain.Document {
	doc := processingDocument(1, 4)
	_ = doc.Fail(time.Now().UTC(), message)
	return doc
}

func TestStorageKey(t *testing.T) {
	munID := uuid.New()
	id := uuid.New()

	key := document.StorageKey(munID, domain.DocumentTypeLDO, id)

	assert.Equal(t, munID.String()+"/LDO/"+id.String()+".pdf", key)
}

func TestEstimateProcessingMinutes(t *testing.T) {
	tests := []struct {
		name string
		size int64
		want int
	}{
		{"tiny file has a floor", 10 * 1024, 2},
		{"two megabytes", 2 * 1024 * 1024, 3},
		{"ten megabytes", 10 * 1024 * 1024, 15},
		{"capped", 50 * 1024 * 1024, 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, document.EstimateProcessingMinutes(tt.size))
		})
	}
}
