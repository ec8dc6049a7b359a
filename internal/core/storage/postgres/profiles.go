package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	v1 "github.com/beacon-lab/project-beacon/internal/api/v1"
	"github.com/beacon-lab/project-beacon/internal/core/storage"
)

func (a *Adapter) FindProfileByID(ctx context.Context, id string) (*v1.Profile, error) {
	p, err := scanProfileRow(a.stmtFindProfileByID.QueryRowContext(ctx, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by id: %w", err)
	}
	return p, nil
}

func (a *Adapter) FindProfileByAnonymousID(ctx context.Context, anonymousID string) (*v1.Profile, error) {
	p, err := scanProfileRow(a.stmtFindProfileByAnonymousID.QueryRowContext(ctx, anonymousID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile by anonymous id: %w", err)
	}
	return p, nil
}

func (a *Adapter) UpsertProfileByID(ctx context.Context, id string, create storage.ProfileCreate, update storage.ProfilePatch) (*v1.Profile, error) {
	create.ID = id
	return a.upsertProfile(ctx, a.stmtUpsertProfileByID, "upsert profile by id", create, update)
}

func (a *Adapter) UpsertProfileByAnonymousID(ctx context.Context, anonymousID string, create storage.ProfileCreate, update storage.ProfilePatch) (*v1.Profile, error) {
	create.AnonymousID = anonymousID
	return a.upsertProfile(ctx, a.stmtUpsertProfileByAnonymousID, "upsert profile by anonymous id", create, update)
}

func (a *Adapter) upsertProfile(ctx context.Context, stmt *sql.Stmt, op string, create storage.ProfileCreate, update storage.ProfilePatch) (*v1.Profile, error) {
	if create.ID == "" {
		return nil, fmt.Errorf("%s: profile id is required", op)
	}
	createProps, err := marshalObject(create.Properties)
	if err != nil {
		return nil, err
	}
	patchProps, err := patchObject(update.Properties)
	if err != nil {
		return nil, err
	}

	p, err := scanProfileRow(stmt.QueryRowContext(ctx,
		create.ID,
		optionalString(create.AnonymousID),
		create.IsAnonymous,
		createProps,
		a.now(),
		nullString(update.ID),
		nullString(update.AnonymousID),
		nullBool(update.IsAnonymous),
		patchProps,
		nullTime(update.LastSeenAt),
	))
	if err != nil {
		return nil, mapWriteError(op, err)
	}
	return p, nil
}

func (a *Adapter) UpdateProfileByID(ctx context.Context, id string, patch storage.ProfilePatch) (*v1.Profile, error) {
	queryRow := func(args ...interface{}) *sql.Row {
		return a.stmtUpdateProfileByID.QueryRowContext(ctx, args...)
	}
	p, err := a.updateProfile(queryRow, id, patch)
	if err != nil {
		return nil, err
	}
	if patch.ID != nil && *patch.ID != id {
		slog.Debug("[Postgres] Rewrote profile id", "from", id, "to", p.ID)
	}
	return p, nil
}

// updateProfile runs queryUpdateProfileByID through queryRow, which is bound
// either to the prepared statement or to a transaction.
func (a *Adapter) updateProfile(queryRow func(args ...interface{}) *sql.Row, id string, patch storage.ProfilePatch) (*v1.Profile, error) {
	patchProps, err := patchObject(patch.Properties)
	if err != nil {
		return nil, err
	}

	p, err := scanProfileRow(queryRow(
		id,
		nullString(patch.ID),
		nullString(patch.AnonymousID),
		nullBool(patch.IsAnonymous),
		patchProps,
		nullTime(patch.LastSeenAt),
		a.now(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update profile %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, mapWriteError("update profile", err)
	}
	return p, nil
}

// MergeProfiles runs in one transaction: lock the target, retire the source,
// move the source's events, then patch the target.
func (a *Adapter) MergeProfiles(ctx context.Context, sourceID, targetID string, patch storage.ProfilePatch) (*v1.Profile, error) {
	if sourceID == targetID {
		return nil, fmt.Errorf("cannot merge profile %q into itself: %w", sourceID, storage.ErrConflict)
	}
	if patch.ID != nil && *patch.ID != targetID {
		return nil, fmt.Errorf("merge cannot rename profile %q: %w", targetID, storage.ErrConflict)
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("merge profiles: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var locked string
	err = tx.QueryRowContext(ctx, queryLockProfile, targetID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("merge profiles: target %q: %w", targetID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("merge profiles: lock target: %w", err)
	}

	result, err := tx.ExecContext(ctx, queryMarkProfileMerged, sourceID, targetID, a.now())
	if err != nil {
		return nil, fmt.Errorf("merge profiles: mark source merged: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("merge profiles: check source update: %w", err)
	}
	if rowsAffected == 0 {
		return nil, fmt.Errorf("merge profiles: live source %q: %w", sourceID, storage.ErrNotFound)
	}

	moved, err := tx.ExecContext(ctx, queryMoveProfileEvents, sourceID, targetID)
	if err != nil {
		return nil, fmt.Errorf("merge profiles: move events: %w", err)
	}
	movedCount, err := moved.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("merge profiles: count moved events: %w", err)
	}

	target, err := a.updateProfile(func(args ...interface{}) *sql.Row {
		return tx.QueryRowContext(ctx, queryUpdateProfileByID, args...)
	}, targetID, patch)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("merge profiles: commit: %w", err)
	}

	slog.Info("[Postgres] Merged profiles",
		"source_id", sourceID,
		"target_id", targetID,
		"moved_events", movedCount)
	return target, nil
}
