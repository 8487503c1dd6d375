package postgres

import (
	"budget-monitor/internal/core/domain"
	"budget-monitor/internal/core/port"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type sqlMunicipalityRepository struct {
	db SQLQuerier
}

// NewSqlMunicipalityRepository creates sqlMunicipalityRepository that implements port.MunicipalityRepository
func NewSqlMunicipalityRepository(db SQLQuerier) port.MunicipalityRepository {
	return &sqlMunicipalityRepository{
		db: db,
	}
}

// Create creates a new municipality
func (s *sqlMunicipalityRepository) Create(ctx context.Context, m *domain.Municipality) error {
	query := `INSERT INTO municipalities (id, name, state, year) VALUES ($1, $2, $3, $4) RETURNING created_at`

	err := s.db.QueryRowContext(ctx, query, m.ID, m.Name, m.State, m.Year).Scan(&m.CreatedAt)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return fmt.Errorf("municipality %s : %w", m.ID, domain.ErrAlreadyExists)
			}
		}
		return err
	}
	return nil
}

// FindByID finds a municipality by id
func (s *sqlMunicipalityRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Municipality, error) {
	query := `SELECT id, name, state, year, created_at FROM municipalities WHERE id = $1`

	var m dbMunicipality
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&m.ID,
		&m.Name,
		&m.State,
		&m.Year,
		&m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMunicipalityNotFound
		}
		return nil, err
	}

	return m.ToDomain(), nil
}

// List retrieves municipalities with cursor-based pagination sorted by name.
// The marker is the id of the last municipality of the previous page.
func (s *sqlMunicipalityRepository) List(ctx context.Context, limit int, marker *string) ([]domain.Municipality, *string, error) {
	if limit <= 0 {
		limit = 20 // default limit
	}
	if limit > 100 {
		limit = 100 // max limit
	}

	var query string
	var args []any

	if marker != nil && *marker != "" {
		markerID, err := uuid.Parse(*marker)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid marker %q: %w", *marker, err)
		}
		query = `
			SELECT id, name, state, year, created_at
			FROM municipalities
			WHERE (name, id) > (SELECT name, id FROM municipalities WHERE id = $1)
			ORDER BY name ASC, id ASC
			LIMIT $2`
		args = []any{markerID, limit + 1}
	} else {
		query = `
			SELECT id, name, state, year, created_at
			FROM municipalities
			ORDER BY name ASC, id ASC
			LIMIT $1`
		args = []any{limit + 1}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("error querying municipalities: %w", err)
	}
	defer rows.Close()

	municipalities := make([]domain.Municipality, 0, limit)
	for rows.Next() {
		var m dbMunicipality
		if err := rows.Scan(&m.ID, &m.Name, &m.State, &m.Year, &m.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("error scanning municipality: %w", err)
		}
		municipalities = append(municipalities, *m.ToDomain())
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating municipalities: %w", err)
	}

	var nextMarker *string
	if len(municipalities) > limit {
		municipalities = municipalities[:limit]
		last := municipalities[len(municipalities)-1].ID.String()
		nextMarker = &last
	}

	return municipalities, nextMarker, nil
}

// Delete deletes a municipality, its documents go with it
func (s *sqlMunicipalityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM municipalities WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting municipality: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return domain.ErrMunicipalityNotFound
	}
	return nil
}

// dbMunicipality represents a municipality in DB
type dbMunicipality struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	State     string    `db:"state"`
	Year      int       `db:"year"`
	CreatedAt time.Time `db:"created_at"`
}

// ToDomain converts to domain.Municipality
func (m *dbMunicipality) ToDomain() *domain.Municipality {
	return &domain.Municipality{
		ID:        m.ID,
		Name:      m.Name,
		State:     m.State,
		Year:      m.Year,
		CreatedAt: m.CreatedAt,
	}
}
