package municipality_test

import (
	"budget-monitor/internal/adapters/handlers/http/chi"
	municipality2 "budget-monitor/internal/adapters/handlers/http/chi/v1/municipality"
	"budget-monitor/internal/core/domain"
	municipalityservice "budget-monitor/internal/core/service/municipality"
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	httpgo "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func newRouter(service *municipalityservice.MockMunicipalityService) httpgo.Handler {
	handler := municipality2.NewMunicipalityHandlerV1(service, discardLogger)
	return chi.NewRouter(discardLogger, handler, nil, nil, 1<<20)
}

func TestCreateMunicipalityV1(t *testing.T) {
	t.Run("nominal", func(t *testing.T) {
		//Arrange
		created := &domain.Municipality{ID: uuid.New(), Name: "Campinas", State: "SP", Year: 2025, CreatedAt: time.Now()}
		mockService := &municipalityservice.MockMunicipalityService{}
		mockService.On("CreateMunicipality", mock.Anything, "Campinas", "sp", 2025).Return(created, nil)
		h := newRouter(mockService)
		w := httptest.NewRecorder()
		body, err := json.Marshal(municipality2.V1CreateMunicipalityRequest{Name: "Campinas", State: "sp", Year: 2025})
		require.NoError(t, err)
		req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/municipalities", bytes.NewReader(body))

		//Act
		h.ServeHTTP(w, req)

		//Assert
		require.Equal(t, httpgo.StatusCreated, w.Code)
		var resp municipality2.V1MunicipalityResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, created.ID, resp.ID)
		assert.Equal(t, "SP", resp.State)
	})

	t.Run("invalid body", func(t *testing.T) {
		//Arrange
		mockService := &municipalityservice.MockMunicipalityService{}
		h := newRouter(mockService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/municipalities", bytes.NewReader([]byte("{")))

		//Act
		h.ServeHTTP(w, req)

		//Assert
		assert.Equal(t, httpgo.StatusBadRequest, w.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		//Arrange
		mockService := &municipalityservice.MockMunicipalityService{}
		mockService.On("CreateMunicipality", mock.Anything, "X", "SP", 2025).
			Return((*domain.Municipality)(nil), domain.ErrInvalidMunicipality)
		h := newRouter(mockService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(httpgo.MethodPost, "/api/v1/municipalities",
			bytes.NewReader([]byte(`{"name":"X","state":"SP","year":2025}`)))

		//Act
		h.ServeHTTP(w, req)

		//Assert
		assert.Equal(t, httpgo.StatusBadRequest, w.Code)
	})
}

func TestListMunicipalitiesV1(t *testing.T) {
	t.Run("default limit", func(t *testing.T) {
		//Arrange
		list := []domain.Municipality{{ID: uuid.New(), Name: "Campinas", State: "SP", Year: 2025}}
		mockService := &municipalityservice.MockMunicipalityService{}
		mockService.On("ListMunicipalities", mock.Anything, 20, (*string)(nil)).Return(list, (*string)(nil), nil)
		h := newRouter(mockService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(httpgo.MethodGet, "/api/v1/municipalities", nil)

		//Act
		h.ServeHTTP(w, req)

		//Assert
		require.Equal(t, httpgo.StatusOK, w.Code)
		var resp municipality2.V1ListMunicipalitiesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Municipalities, 1)
		assert.Nil(t, resp.NextMarker)
	})

	t.Run("with marker", func(t *testing.T) {
		//Arrange
		marker := uuid.New().String()
		next := uuid.New().String()
		mockService := &municipalityservice.MockMunicipalityService{}
		mockService.On("ListMunicipalities", mock.Anything, 2, &marker).Return([]domain.Municipality{}, &next, nil)
		h := newRouter(mockService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(httpgo.MethodGet, "/api/v1/municipalities?limit=2&marker="+marker, nil)

		//Act
		h.ServeHTTP(w, req)

		//Assert
		require.Equal(t, httpgo.StatusOK, w.Code)
		var resp municipality2.V1ListMunicipalitiesResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.NextMarker)
		assert.Equal(t, next, *resp.NextMarker)
	})

	t.Run("invalid limit", func(t *testing.T) {
		//Arrange
		mockService := &municipalityservice.MockMunicipalityService{}
		h := newRouter(mockService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(httpgo.MethodGet, "/api/v1/municipalities?limit=0", nil)

		//Act
		h.ServeHTTP(w, req)

		//Assert
		assert.Equal(t, httpgo.StatusBadRequest, w.Code)
	})
}

func TestGetMunicipalityV1(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		//Arrange
		id := uuid.New()
		mockService := &municipalityservice.MockMunicipalityService{}
		mockService.On("GetMunicipality", mock.Anything, id).Return((*domain.Municipality)(nil), domain.ErrMunicipalityNotFound)
		h := newRouter(mockService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(httpgo.MethodGet, "/api/v1/municipalities/"+id.String(), nil)

		//Act
		h.ServeHTTP(w, req)

		//Assert
		assert.Equal(t, httpgo.StatusNotFound, w.Code)
	})

	t.Run("bad id", func(t *testing.T) {
		//Arrange
		mockService := &municipalityservice.MockMunicipalityService{}
		h := newRouter(mockService)
		w := httptest.NewRecorder()
		req := httptest.NewRequest(httpgo.MethodGet, "/api/v1/municipalities/campinas", nil)

		//Act
		h.ServeHTTP(w, req)

		//Assert
		assert.Equal(t, httpgo.StatusBadRequest, w.Code)
	})
}

func TestDeleteMunicipalityV1(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"deleted", nil, httpgo.StatusNoContent},
		{"not found", domain.ErrMunicipalityNotFound, httpgo.StatusNotFound},
		{"document processing", domain.ErrInvalidTransition, httpgo.StatusConflict},
		{"database down", assert.AnError, httpgo.StatusServiceUnavailable},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			//Arrange
			id := uuid.New()
			mockService := &municipalityservice.MockMunicipalityService{}
			mockService.On("DeleteMunicipality", mock.Anything, id).Return(tt.err)
			h := newRouter(mockService)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(httpgo.MethodDelete, "/api/v1/municipalities/"+id.String(), nil)

			//Act
			h.ServeHTTP(w, req)

			//Assert
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestGetDocumentsStatusV1(t *testing.T) {
	//Arrange
	id := uuid.New()
	loa := &domain.Document{ID: uuid.New(), Type: domain.DocumentTypeLOA, Status: domain.DocumentStatusCompleted}
	ldo := &domain.Document{ID: uuid.New(), Type: domain.DocumentTypeLDO, Status: domain.DocumentStatusProcessing}
	mockService := &municipalityservice.MockMunicipalityService{}
	mockService.On("GetDocumentsStatus", mock.Anything, id).Return(&domain.MunicipalityDocuments{
		Municipality: domain.Municipality{ID: id, Name: "Campinas"},
		LOA:          loa,
		LDO:          ldo,
	}, nil)
	h := newRouter(mockService)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(httpgo.MethodGet, "/api/v1/municipalities/"+id.String()+"/documents/status", nil)

	//Act
	h.ServeHTTP(w, req)

	//Assert
	require.Equal(t, httpgo.StatusOK, w.Code)
	var resp municipality2.V1DocumentsStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.LOAProcessed)
	assert.False(t, resp.LDOProcessed)
	assert.False(t, resp.Ready)
	require.NotNil(t, resp.LDO)
	assert.Equal(t, domain.DocumentStatusProcessing, resp.LDO.Status)
}
