package document_test

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pdfRequest(munID uuid.UUID, docType string, size int64) port.UploadRequest {
	return port.UploadRequest{
		MunicipalityID: munID,
		Type:           docType,
		Filename:       "loa.pdf",
		Size:           size,
		Content:        bytes.NewReader([]byte("%PDF-1.7\n%fake body")),
	}
}

func TestDocumentService_Upload_Success_FirstVersion(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(false)
	mun := &domain.Municipality{ID: uuid.New(), Name: "Campinas", State: "SP", Year: 2025}

	f.uow.GetMunicipalityRepoMock().On("FindByID", ctx, mun.ID).Return(mun, nil)
	f.uow.GetDocumentRepoMock().
		On("FindLatestByMunicipalityAndType", ctx, mun.ID, domain.DocumentTypeLOA).
		Return((*domain.Document)(nil), domain.ErrDocumentNotFound)
	f.storage.On("PutObject", ctx, mock.AnythingOfType("string"), mock.Anything, int64(2*1024*1024), "application/pdf").Return(nil)
	f.uow.On("Execute", ctx, mock.Anything).Return(nil)
	f.uow.GetDocumentRepoMock().On("Create", ctx, mock.AnythingOfType("*domain.Document")).Return(nil)

	// Act
	res, err := f.service.Upload(ctx, pdfRequest(mun.ID, "loa", 2*1024*1024))

	// Assert
	require.NoError(t, err)
	doc := res.Document
	assert.Equal(t, domain.DocumentStatusPending, doc.Status)
	assert.Equal(t, domain.DocumentTypeLOA, doc.Type)
	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, 2025, doc.Year)
	assert.Nil(t, doc.Progress)
	assert.Nil(t, doc.ProcessedDate)
	assert.Nil(t, doc.ErrorMessage)
	assert.True(t, strings.HasSuffix(doc.StorageKey, doc.ID.String()+".pdf"))
	assert.Equal(t, 3, res.EstimatedProcessingTimeMinutes)
	assert.Equal(t, 0, doc.ProgressView().TotalBatches)
	f.uow.AssertExpectations(t)
	f.storage.AssertExpectations(t)
	f.uow.GetDocumentRepoMock().AssertNumberOfCalls(t, "FindLatestByMunicipalityAndType", 2)
}

func TestDocumentService_Upload_Success_NextVersion(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(false)
	mun := &domain.Municipality{ID: uuid.New(), Name: "Campinas", State: "SP", Year: 2025}
	previous := failedDocument("Gemini timeout")
	previous.Version = 3

	f.uow.GetMunicipalityRepoMock().On("FindByID", ctx, mun.ID).Return(mun, nil)
	f.uow.GetDocumentRepoMock().
		On("FindLatestByMunicipalityAndType", ctx, mun.ID, domain.DocumentTypeLOA).
		Return(previous, nil)
	f.storage.On("PutObject", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.uow.On("Execute", ctx, mock.Anything).Return(nil)
	f.uow.GetDocumentRepoMock().On("Create", ctx, mock.Anything).Return(nil)

	req := pdfRequest(mun.ID, "LOA", 1024)
	req.Year = 2026

	// Act
	res, err := f.service.Upload(ctx, req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, res.Document.Version)
	assert.Equal(t, 2026, res.Document.Year)
}

func TestDocumentService_Upload_InProgress(t *testing.T) {
	for _, status := range []domain.DocumentStatus{domain.DocumentStatusPending, domain.DocumentStatusProcessing} {
		t.Run(string(status), func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			f := newFixture(false)
			mun := &domain.Municipality{ID: uuid.New(), Name: "Campinas", State: "SP", Year: 2025}
			latest := pendingDocument()
			latest.Status = status

			f.uow.GetMunicipalityRepoMock().On("FindByID", ctx, mun.ID).Return(mun, nil)
			f.uow.GetDocumentRepoMock().
				On("FindLatestByMunicipalityAndType", ctx, mun.ID, domain.DocumentTypeLOA).
				Return(latest, nil)

			// Act
			res, err := f.service.Upload(ctx, pdfRequest(mun.ID, "LOA", 1024))

			// Assert
			require.ErrorIs(t, err, domain.ErrUploadInProgress)
			assert.Nil(t, res)
			f.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDocumentService_Upload_Validation(t *testing.T) {
	munID := uuid.New()
	tests := []struct {
		name    string
		req     port.UploadRequest
		wantErr error
	}{
		{
			name:    "unknown type",
			req:     pdfRequest(munID, "PPA", 1024),
			wantErr: domain.ErrInvalidDocumentType,
		},
		{
			name: "not a pdf extension",
			req: port.UploadRequest{
				MunicipalityID: munID, Type: "LOA", Filename: "budget.docx", Size: 10,
				Content: bytes.NewReader([]byte("%PDF-1.7")),
			},
			wantErr: domain.ErrInvalidFileType,
		},
		{
			name: "pdf extension but other content",
			req: port.UploadRequest{
				MunicipalityID: munID, Type: "LDO", Filename: "ldo.PDF", Size: 10,
				Content: bytes.NewReader([]byte("PK\x03\x04zipzip")),
			},
			wantErr: domain.ErrInvalidFileType,
		},
		{
			name: "filename longer than the column",
			req: port.UploadRequest{
				MunicipalityID: munID, Type: "LOA", Filename: strings.Repeat("orçamento", 28) + ".pdf", Size: 10,
				Content: bytes.NewReader([]byte("%PDF-1.7")),
			},
			wantErr: domain.ErrInvalidFilename,
		},
		{
			name: "year out of range",
			req: port.UploadRequest{
				MunicipalityID: munID, Type: "LOA", Filename: "loa.pdf", Year: 1999, Size: 10,
				Content: bytes.NewReader([]byte("%PDF-1.7")),
			},
			wantErr: domain.ErrInvalidYear,
		},
		{
			name:    "empty file",
			req:     pdfRequest(munID, "LOA", 0),
			wantErr: domain.ErrEmptyFile,
		},
		{
			name:    "over fifty megabytes",
			req:     pdfRequest(munID, "LOA", 50*1024*1024+1),
			wantErr: domain.ErrFileSizeTooBig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			ctx := context.Background()
			f := newFixture(false)

			// Act
			res, err := f.service.Upload(ctx, tt.req)

			// Assert
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res)
			f.uow.GetMunicipalityRepoMock().AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
			f.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestDocumentService_Upload_MunicipalityNotFound(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(false)
	munID := uuid.New()
	f.uow.GetMunicipalityRepoMock().
		On("FindByID", ctx, munID).
		Return((*domain.Municipality)(nil), domain.ErrMunicipalityNotFound)

	// Act
	_, err := f.service.Upload(ctx, pdfRequest(munID, "LOA", 1024))

	// Assert
	require.ErrorIs(t, err, domain.ErrMunicipalityNotFound)
	f.uow.GetMunicipalityRepoMock().AssertExpectations(t)
}

func TestDocumentService_Upload_StorageFailure(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(false)
	mun := &domain.Municipality{ID: uuid.New(), Name: "Campinas", State: "SP", Year: 2025}

	f.uow.GetMunicipalityRepoMock().On("FindByID", ctx, mun.ID).Return(mun, nil)
	f.uow.GetDocumentRepoMock().
		On("FindLatestByMunicipalityAndType", ctx, mun.ID, domain.DocumentTypeLOA).
		Return((*domain.Document)(nil), domain.ErrDocumentNotFound)
	f.storage.On("PutObject", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

	// Act
	_, err := f.service.Upload(ctx, pdfRequest(mun.ID, "LOA", 1024))

	// Assert
	require.ErrorIs(t, err, assert.AnError)
	f.uow.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	f.uow.GetDocumentRepoMock().AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDocumentService_Upload_DatabaseFailureRemovesObject(t *testing.T) {
	// Arrange
	ctx := context.Background()
	f := newFixture(false)
	mun := &domain.Municipality{ID: uuid.New(), Name: "Campinas", State: "SP", Year: 2025}

	var storedKey string
	f.uow.GetMunicipalityRepoMock().On("FindByID", ctx, mun.ID).Return(mun, nil)
	f.uow.GetDocumentRepoMock().
		On("FindLatestByMunicipalityAndType", ctx, mun.ID, domain.DocumentTypeLOA).
		Return((*domain.Document)(nil), domain.ErrDocumentNotFound)
	f.storage.On("PutObject", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { storedKey = args.String(1) }).
		Return(nil)
	f.uow.On("Execute", ctx, mock.Anything).Return(nil)
	f.uow.GetDocumentRepoMock().On("Create", ctx, mock.Anything).Return(assert.AnError)
	f.storage.On("DeleteObject", ctx, mock.Anything).Return(nil)

	// Act
	_, err := f.service.Upload(ctx, pdfRequest(mun.ID, "LOA", 1024))

	// Assert
	require.ErrorIs(t, err, assert.AnError)
	f.storage.AssertCalled(t, "DeleteObject", ctx, storedKey)
}
