package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Municipality represents a municipality owning budget documents
type Municipality struct {
	ID        uuid.UUID
	Name      string
	State     string
	Year      int
	CreatedAt time.Time
}

// NewMunicipality validates and builds a municipality
func NewMunicipality(name, state string, year int) (*Municipality, error) {
	name = strings.TrimSpace(name)
	state = strings.ToUpper(strings.TrimSpace(state))

	if len(name) < 2 || len(name) > 100 {
		return nil, fmt.Errorf("%w: name must have between 2 and 100 characters", ErrInvalidMunicipality)
	}
	if len(state) != 2 {
		return nil, fmt.Errorf("%w: state must be a 2 letter code, got %q", ErrInvalidMunicipality, state)
	}
	if year < 2000 || year > 2100 {
		return nil, fmt.Errorf("%w: year %d out of range", ErrInvalidMunicipality, year)
	}

	return &Municipality{
		ID:    uuid.New(),
		Name:  name,
		State: state,
		Year:  year,
	}, nil
}

// MunicipalityDocuments is the latest LOA and LDO of a municipality
type MunicipalityDocuments struct {
	Municipality Municipality
	LOA          *Document
	LDO          *Document
}

// LOAProcessed reports whether the latest LOA is completed
func (m MunicipalityDocuments) LOAProcessed() bool {
	return m.LOA != nil && m.LOA.Status == DocumentStatusCompleted
}

// LDOProcessed reports whether the latest LDO is completed
func (m MunicipalityDocuments) LDOProcessed() bool {
	return m.LDO != nil && m.LDO.Status == DocumentStatusCompleted
}

// Ready reports whether both laws are processed
func (m MunicipalityDocuments) Ready() bool {
	return m.LOAProcessed() && m.LDOProcessed()
}
