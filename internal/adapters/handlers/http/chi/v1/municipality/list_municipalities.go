package municipality

import (
	"encoding/json"
	"net/http"
	"strconv"
)

type V1ListMunicipalitiesResponse struct {
	Municipalities []V1MunicipalityResponse `json:"municipalities"`
	NextMarker     *string                  `json:"nextMarker,omitempty"`
}

func (h *HandlerV1) ListMunicipalitiesV1(w http.ResponseWriter, r *http.Request) {

	limitInt := 20
	if limit := r.URL.Query().Get("limit"); limit != "" {
		var err error
		limitInt, err = strconv.Atoi(limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if limitInt <= 0 {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}

	var markerPtr *string
	if marker := r.URL.Query().Get("marker"); marker != "" {
		markerPtr = &marker
	}
	list, nextMarker, err := h.municipalityService.ListMunicipalities(r.Context(), limitInt, markerPtr)
	switch {
	case err != nil:
		h.logger.Error("error listing municipalities", "error", err)
		http.Error(w, "internal server error", http.StatusServiceUnavailable)
		return
	default:
		resp := V1ListMunicipalitiesResponse{
			Municipalities: make([]V1MunicipalityResponse, 0, len(list)),
			NextMarker:     nextMarker,
		}
		for i := range list {
			resp.Municipalities = append(resp.Municipalities, newV1MunicipalityResponse(&list[i]))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			h.logger.Error("error encoding response", "error", err)
		}
		return
	}

}
