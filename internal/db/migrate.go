package db

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations ensures required tables exist. This keeps the service
// self-contained without an external migration step.
func RunMigrations(ctx context.Context, conn clickhouse.Conn, pool *pgxpool.Pool) error {
	err := conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS activities
(
	idempotency_key      String,
	activity_id          String,
	team_id              String,
	user_id              String,
	channel_id           String,
	type                 String,
	name                 String,
	distance             Float64,
	moving_time          Float64,
	elapsed_time         Float64,
	total_elevation_gain Float64,
	pr_count             UInt32,
	calories             Float64,
	private              Bool,
	visibility           String,
	start_date           DateTime64(3, 'UTC'),
	ingested_at          DateTime DEFAULT now()
)
ENGINE = ReplacingMergeTree
PARTITION BY toYYYYMM(start_date)
ORDER BY (team_id, user_id, activity_id)
SETTINGS index_granularity = 8192;
`)
	if err != nil {
		return fmt.Errorf("apply clickhouse migrations: %w", err)
	}

	_, err = pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS teams (
	id                      TEXT PRIMARY KEY,
	guild_id                TEXT NOT NULL UNIQUE,
	guild_name              TEXT NOT NULL DEFAULT '',
	guild_owner_id          TEXT NOT NULL DEFAULT '',
	units                   TEXT NOT NULL DEFAULT 'mi',
	default_leaderboard     TEXT NOT NULL DEFAULT '',
	retention_days          INT  NOT NULL DEFAULT 30,
	subscribed              BOOLEAN NOT NULL DEFAULT FALSE,
	subscribed_at           TIMESTAMPTZ,
	subscription_expired_at TIMESTAMPTZ,
	stripe_customer_id      TEXT NOT NULL DEFAULT '',
	created_at              TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS users (
	id                        TEXT PRIMARY KEY,
	team_id                   TEXT NOT NULL REFERENCES teams (id),
	user_id                   TEXT NOT NULL,
	channel_id                TEXT NOT NULL,
	user_name                 TEXT NOT NULL DEFAULT '',
	strava_athlete_id         TEXT NOT NULL DEFAULT '',
	sync_activities           BOOLEAN NOT NULL DEFAULT TRUE,
	private_activities        BOOLEAN NOT NULL DEFAULT FALSE,
	followers_only_activities BOOLEAN NOT NULL DEFAULT TRUE,
	created_at                TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (team_id, user_id, channel_id)
);

CREATE TABLE IF NOT EXISTS clubs (
	id         TEXT PRIMARY KEY,
	team_id    TEXT NOT NULL REFERENCES teams (id),
	channel_id TEXT NOT NULL,
	name       TEXT NOT NULL,
	strava_id  TEXT NOT NULL,
	url        TEXT NOT NULL DEFAULT '',
	UNIQUE (team_id, channel_id, strava_id)
);
`)
	if err != nil {
		return fmt.Errorf("apply postgres migrations: %w", err)
	}
	return nil
}
