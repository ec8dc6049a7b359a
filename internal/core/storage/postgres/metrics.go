package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	v1 "github.com/beacon-lab/project-beacon/internal/api/v1"
	"github.com/beacon-lab/project-beacon/internal/core/storage"
)

func (a *Adapter) UpsertMetricByName(ctx context.Context, name string, create storage.MetricCreate, update storage.MetricPatch) (*v1.Metric, error) {
	if create.ID == "" {
		create.ID = uuid.New().String()
	}
	createSchema, err := marshalObject(create.Schema)
	if err != nil {
		return nil, err
	}
	patchSchema, err := patchObject(update.Schema)
	if err != nil {
		return nil, err
	}

	m, err := scanMetricRow(a.stmtUpsertMetricByName.QueryRowContext(ctx,
		create.ID,
		name,
		create.Description,
		createSchema,
		a.now(),
		nullString(update.Description),
		patchSchema,
		nullBool(update.IsActive),
	))
	if err != nil {
		return nil, mapWriteError("upsert metric", err)
	}
	return m, nil
}

func (a *Adapter) FindMetricByName(ctx context.Context, name string) (*v1.Metric, error) {
	m, err := scanMetricRow(a.stmtFindMetricByName.QueryRowContext(ctx, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find metric: %w", err)
	}
	return m, nil
}

func (a *Adapter) ListMetrics(ctx context.Context) ([]*v1.Metric, error) {
	rows, err := a.stmtListMetrics.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query metrics: %w", err)
	}
	defer rows.Close()

	metrics := []*v1.Metric{}
	for rows.Next() {
		m, err := scanMetricRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan metric row: %w", err)
		}
		metrics = append(metrics, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating metrics: %w", err)
	}

	return metrics, nil
}
