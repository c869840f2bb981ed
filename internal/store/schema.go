package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS parsed_files (
    file_path            TEXT PRIMARY KEY,
    file_name            TEXT NOT NULL,
    kind                 TEXT NOT NULL,
    format               TEXT NOT NULL,
    payload              TEXT NOT NULL,
    warnings             TEXT,
    file_mtime_ns        INTEGER NOT NULL,
    file_size            INTEGER NOT NULL,
    parsed_at            TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS file_accounts (
    file_path            TEXT NOT NULL REFERENCES parsed_files(file_path) ON DELETE CASCADE,
    ign                  TEXT NOT NULL,
    level                INTEGER,
    job_name             TEXT,
    PRIMARY KEY (file_path, ign)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_parsed_files_kind ON parsed_files(kind);
`
