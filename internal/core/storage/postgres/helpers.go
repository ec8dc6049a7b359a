package postgres

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	v1 "github.com/beacon-lab/project-beacon/internal/api/v1"
	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
	"github.com/beacon-lab/project-beacon/internal/core/storage"
)

// Postgres SQLSTATE codes mapped onto storage errors.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// marshalObject encodes a property bag for a JSONB column. Nil encodes as {}.
func marshalObject(obj jsonvalue.Object) ([]byte, error) {
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal json object: %w", err)
	}
	return b, nil
}

// patchObject encodes an optional patch value; nil stays SQL NULL.
func patchObject(obj jsonvalue.Object) (interface{}, error) {
	if obj == nil {
		return nil, nil
	}
	return marshalObject(obj)
}

func nullString(s *string) interface{} {
	if s == nil || *s == "" {
		return nil
	}
	return *s
}

func nullBool(b *bool) interface{} {
	if b == nil {
		return nil
	}
	return *b
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func optionalString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// mapWriteError turns constraint violations into storage sentinel errors.
func mapWriteError(op string, err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case codeUniqueViolation:
			return fmt.Errorf("%s: %w: %s", op, storage.ErrConflict, pqErr.Message)
		case codeForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", op, storage.ErrNotFound, pqErr.Message)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// scanProfileRow scans a profiles row. Compatible with sql.Row and sql.Rows.
func scanProfileRow(row scanner) (*v1.Profile, error) {
	var p v1.Profile
	var anonymousID, mergedInto sql.NullString
	var propertiesJSON []byte

	err := row.Scan(
		&p.ID,
		&anonymousID,
		&p.IsAnonymous,
		&propertiesJSON,
		&mergedInto,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.LastSeenAt,
	)
	if err != nil {
		return nil, err
	}

	p.AnonymousID = anonymousID.String
	p.MergedInto = mergedInto.String
	if err := json.Unmarshal(propertiesJSON, &p.Properties); err != nil {
		return nil, fmt.Errorf("failed to unmarshal properties: %w", err)
	}
	if p.Properties == nil {
		p.Properties = jsonvalue.Object{}
	}
	return &p, nil
}

func scanMetricRow(row scanner) (*v1.Metric, error) {
	var m v1.Metric
	var schemaJSON []byte

	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Description,
		&schemaJSON,
		&m.IsActive,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(schemaJSON, &m.Schema); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema: %w", err)
	}
	if m.Schema == nil {
		m.Schema = jsonvalue.Object{}
	}
	return &m, nil
}

func scanEventRow(row scanner) (*v1.Event, error) {
	var e v1.Event
	var dataJSON []byte

	err := row.Scan(
		&e.ID,
		&e.MetricID,
		&e.ProfileID,
		&dataJSON,
		&e.Timestamp,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(dataJSON, &e.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal data: %w", err)
	}
	if e.Data == nil {
		e.Data = jsonvalue.Object{}
	}
	return &e, nil
}
