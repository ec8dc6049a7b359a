package postgres

// SQL for profile, metric and event storage.
//
// Upsert and update statements take one nullable parameter per patchable
// column; NULL means "leave unchanged" (COALESCE against the current value).

const (
	queryFindProfileByID = `
		SELECT
			id, anonymous_id, is_anonymous, properties, merged_into,
			created_at, updated_at, last_seen_at
		FROM profiles
		WHERE id = $1
	`

	// Merged profiles keep their anonymous_id as history but never answer lookups.
	queryFindProfileByAnonymousID = `
		SELECT
			id, anonymous_id, is_anonymous, properties, merged_into,
			created_at, updated_at, last_seen_at
		FROM profiles
		WHERE anonymous_id = $1
		  AND merged_into IS NULL
	`

	// $1-$4 create values, $5 now, $6-$10 patch values.
	queryUpsertProfileByID = `
		INSERT INTO profiles (
			id, anonymous_id, is_anonymous, properties,
			created_at, updated_at, last_seen_at
		)
		VALUES ($1, $2, $3, $4, $5, $5, $5)
		ON CONFLICT (id) DO UPDATE SET
			id           = COALESCE($6::text, profiles.id),
			anonymous_id = COALESCE($7::text, profiles.anonymous_id),
			is_anonymous = COALESCE($8::boolean, profiles.is_anonymous),
			properties   = COALESCE($9::jsonb, profiles.properties),
			last_seen_at = COALESCE($10::timestamptz, profiles.last_seen_at),
			updated_at   = $5
		RETURNING
			id, anonymous_id, is_anonymous, properties, merged_into,
			created_at, updated_at, last_seen_at
	`

	// Conflict target is the partial unique index on live anonymous ids.
	queryUpsertProfileByAnonymousID = `
		INSERT INTO profiles (
			id, anonymous_id, is_anonymous, properties,
			created_at, updated_at, last_seen_at
		)
		VALUES ($1, $2, $3, $4, $5, $5, $5)
		ON CONFLICT (anonymous_id) WHERE merged_into IS NULL DO UPDATE SET
			id           = COALESCE($6::text, profiles.id),
			anonymous_id = COALESCE($7::text, profiles.anonymous_id),
			is_anonymous = COALESCE($8::boolean, profiles.is_anonymous),
			properties   = COALESCE($9::jsonb, profiles.properties),
			last_seen_at = COALESCE($10::timestamptz, profiles.last_seen_at),
			updated_at   = $5
		RETURNING
			id, anonymous_id, is_anonymous, properties, merged_into,
			created_at, updated_at, last_seen_at
	`

	// Rewriting id cascades to events.profile_id (ON UPDATE CASCADE).
	queryUpdateProfileByID = `
		UPDATE profiles SET
			id           = COALESCE($2::text, id),
			anonymous_id = COALESCE($3::text, anonymous_id),
			is_anonymous = COALESCE($4::boolean, is_anonymous),
			properties   = COALESCE($5::jsonb, properties),
			last_seen_at = COALESCE($6::timestamptz, last_seen_at),
			updated_at   = $7
		WHERE id = $1
		RETURNING
			id, anonymous_id, is_anonymous, properties, merged_into,
			created_at, updated_at, last_seen_at
	`

	queryLockProfile = `
		SELECT id FROM profiles WHERE id = $1 FOR UPDATE
	`

	// Marking the source merged releases its anonymous_id from the partial
	// unique index, so it must run before the target claims that id.
	queryMarkProfileMerged = `
		UPDATE profiles
		SET merged_into = $2, updated_at = $3
		WHERE id = $1
		  AND merged_into IS NULL
	`

	queryMoveProfileEvents = `
		UPDATE events SET profile_id = $2 WHERE profile_id = $1
	`

	// The update branch always fires so RETURNING yields the row; with an
	// empty patch every column keeps its value, updated_at included.
	queryUpsertMetricByName = `
		INSERT INTO metrics (
			id, name, description, schema, is_active, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, TRUE, $5, $5)
		ON CONFLICT (name) DO UPDATE SET
			description = COALESCE($6::text, metrics.description),
			schema      = COALESCE($7::jsonb, metrics.schema),
			is_active   = COALESCE($8::boolean, metrics.is_active),
			updated_at  = CASE
				WHEN $6::text IS NULL AND $7::jsonb IS NULL AND $8::boolean IS NULL
				THEN metrics.updated_at
				ELSE $5
			END
		RETURNING id, name, description, schema, is_active, created_at, updated_at
	`

	queryFindMetricByName = `
		SELECT id, name, description, schema, is_active, created_at, updated_at
		FROM metrics
		WHERE name = $1
	`

	queryListMetrics = `
		SELECT id, name, description, schema, is_active, created_at, updated_at
		FROM metrics
		ORDER BY name ASC
	`

	queryCreateEvent = `
		INSERT INTO events (id, metric_id, profile_id, data, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	queryFindEventByID = `
		SELECT id, metric_id, profile_id, data, occurred_at, created_at
		FROM events
		WHERE id = $1
	`
)
