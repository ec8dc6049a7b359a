package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/beacon-lab/project-beacon/internal/core/jsonvalue"
	"github.com/beacon-lab/project-beacon/internal/core/storage"
)

func ptr[T any](v T) *T { return &v }

func TestAdapter_FindProfileByID(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryFindProfileByID)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(profileRowColumns()).
			AddRow("user-1", "anon-1", false, []byte(`{"name":"X","age":30}`), nil, testNow, testNow, testNow))

	p, err := adapter.FindProfileByID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "user-1", p.ID)
	require.Equal(t, "anon-1", p.AnonymousID)
	require.False(t, p.IsAnonymous)
	require.Empty(t, p.MergedInto)
	name, _ := p.Properties["name"].AsString()
	require.Equal(t, "X", name)
	require.True(t, jsonvalue.Equal(jsonvalue.Int(30), p.Properties["age"]))

	mock.ExpectQuery(regexp.QuoteMeta(queryFindProfileByID)).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(profileRowColumns()))

	missing, err := adapter.FindProfileByID(context.Background(), "ghost")
	require.NoError(t, err)
	require.Nil(t, missing)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_FindProfileByAnonymousID(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryFindProfileByAnonymousID)).
		WithArgs("anon-1").
		WillReturnRows(sqlmock.NewRows(profileRowColumns()).
			AddRow("0b7c", "anon-1", true, []byte(`{}`), nil, testNow, testNow, testNow))

	p, err := adapter.FindProfileByAnonymousID(context.Background(), "anon-1")
	require.NoError(t, err)
	require.True(t, p.IsAnonymous)
	require.NotNil(t, p.Properties)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_UpsertProfileByAnonymousID(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	seen := testNow.Add(time.Minute)
	mock.ExpectQuery(regexp.QuoteMeta(queryUpsertProfileByAnonymousID)).
		WithArgs(
			"generated-id",
			"anon-1",
			true,
			[]byte(`{}`),
			testNow,
			nil,
			nil,
			nil,
			nil,
			seen,
		).
		WillReturnRows(sqlmock.NewRows(profileRowColumns()).
			AddRow("existing-id", "anon-1", true, []byte(`{}`), nil, testNow, testNow, seen))

	p, err := adapter.UpsertProfileByAnonymousID(context.Background(), "anon-1",
		storage.ProfileCreate{ID: "generated-id", IsAnonymous: true},
		storage.ProfilePatch{LastSeenAt: &seen})
	require.NoError(t, err)
	require.Equal(t, "existing-id", p.ID)
	require.Equal(t, seen, p.LastSeenAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_UpsertProfileByID(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	traits := jsonvalue.Object{"plan": jsonvalue.String("pro")}
	mock.ExpectQuery(regexp.QuoteMeta(queryUpsertProfileByID)).
		WithArgs(
			"user-1",
			nil,
			false,
			[]byte(`{"plan":"pro"}`),
			testNow,
			nil,
			nil,
			false,
			[]byte(`{"plan":"pro"}`),
			sqlmock.AnyArg(),
		).
		WillReturnRows(sqlmock.NewRows(profileRowColumns()).
			AddRow("user-1", nil, false, []byte(`{"plan":"pro"}`), nil, testNow, testNow, testNow))

	p, err := adapter.UpsertProfileByID(context.Background(), "user-1",
		storage.ProfileCreate{Properties: traits},
		storage.ProfilePatch{IsAnonymous: ptr(false), Properties: traits, LastSeenAt: ptr(testNow)})
	require.NoError(t, err)
	require.Equal(t, "user-1", p.ID)
	require.Empty(t, p.AnonymousID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_UpsertProfileByID_UniqueViolation(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(queryUpsertProfileByID)).
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	_, err := adapter.UpsertProfileByID(context.Background(), "user-1",
		storage.ProfileCreate{AnonymousID: "anon-1"},
		storage.ProfilePatch{AnonymousID: ptr("anon-1")})
	require.ErrorIs(t, err, storage.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_UpdateProfileByID(t *testing.T) {
	tests := []struct {
		name       string
		mockResult func(mock sqlmock.Sqlmock)
		assertions func(t *testing.T, err error)
	}{
		{
			name: "rewrites id",
			mockResult: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(queryUpdateProfileByID)).
					WithArgs("anon-profile", "user-1", nil, false, []byte(`{"name":"X"}`), sqlmock.AnyArg(), testNow).
					WillReturnRows(sqlmock.NewRows(profileRowColumns()).
						AddRow("user-1", "anon-1", false, []byte(`{"name":"X"}`), nil, testNow, testNow, testNow))
			},
			assertions: func(t *testing.T, err error) {
				require.NoError(t, err)
			},
		},
		{
			name: "missing profile maps to ErrNotFound",
			mockResult: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(queryUpdateProfileByID)).
					WillReturnRows(sqlmock.NewRows(profileRowColumns()))
			},
			assertions: func(t *testing.T, err error) {
				require.ErrorIs(t, err, storage.ErrNotFound)
			},
		},
		{
			name: "taken id maps to ErrConflict",
			mockResult: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(queryUpdateProfileByID)).
					WillReturnError(&pq.Error{Code: "23505"})
			},
			assertions: func(t *testing.T, err error) {
				require.ErrorIs(t, err, storage.ErrConflict)
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adapter, mock, db := newMockAdapter(t)
			defer db.Close()

			tc.mockResult(mock)

			_, err := adapter.UpdateProfileByID(context.Background(), "anon-profile", storage.ProfilePatch{
				ID:          ptr("user-1"),
				IsAnonymous: ptr(false),
				Properties:  jsonvalue.Object{"name": jsonvalue.String("X")},
				LastSeenAt:  ptr(testNow),
			})
			tc.assertions(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAdapter_MergeProfiles(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryLockProfile)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
	mock.ExpectExec(regexp.QuoteMeta(queryMarkProfileMerged)).
		WithArgs("anon-profile", "user-1", testNow).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(queryMoveProfileEvents)).
		WithArgs("anon-profile", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectQuery(regexp.QuoteMeta(queryUpdateProfileByID)).
		WithArgs("user-1", nil, "anon-1", false, []byte(`{}`), sqlmock.AnyArg(), testNow).
		WillReturnRows(sqlmock.NewRows(profileRowColumns()).
			AddRow("user-1", "anon-1", false, []byte(`{}`), nil, testNow, testNow, testNow))
	mock.ExpectCommit()

	p, err := adapter.MergeProfiles(context.Background(), "anon-profile", "user-1", storage.ProfilePatch{
		AnonymousID: ptr("anon-1"),
		IsAnonymous: ptr(false),
		Properties:  jsonvalue.Object{},
		LastSeenAt:  ptr(testNow),
	})
	require.NoError(t, err)
	require.Equal(t, "user-1", p.ID)
	require.Equal(t, "anon-1", p.AnonymousID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_MergeProfiles_SourceAlreadyMergedRollsBack(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(queryLockProfile)).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("user-1"))
	mock.ExpectExec(regexp.QuoteMeta(queryMarkProfileMerged)).
		WithArgs("anon-profile", "user-1", testNow).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := adapter.MergeProfiles(context.Background(), "anon-profile", "user-1", storage.ProfilePatch{})
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_MergeProfiles_RejectsSelfMerge(t *testing.T) {
	adapter, mock, db := newMockAdapter(t)
	defer db.Close()

	_, err := adapter.MergeProfiles(context.Background(), "user-1", "user-1", storage.ProfilePatch{})
	require.ErrorIs(t, err, storage.ErrConflict)
	require.NoError(t, mock.ExpectationsWereMet())
}
