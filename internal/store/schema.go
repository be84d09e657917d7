package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
    snapshot_id          TEXT PRIMARY KEY,
    fetched_at           TEXT NOT NULL,
    checksum             TEXT NOT NULL,
    week_count           INTEGER NOT NULL,
    current_week         INTEGER NOT NULL,
    total_given          REAL,
    raw                  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS snapshot_weeks (
    snapshot_id          TEXT NOT NULL REFERENCES snapshots(snapshot_id) ON DELETE CASCADE,
    position             INTEGER NOT NULL,
    label                TEXT NOT NULL,
    amount               REAL,
    change               REAL,
    cumulative           REAL,
    PRIMARY KEY (snapshot_id, position)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_fetched ON snapshots(fetched_at);
CREATE INDEX IF NOT EXISTS idx_snapshots_checksum ON snapshots(checksum);
`
