package db

// schemaSQL is the dictionary schema. It must stay byte-compatible with
// the format other applications read: one words relation with a unique
// word column, and a meta table seeded exactly once at first creation.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS words (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	word TEXT NOT NULL UNIQUE,
	frequency INTEGER NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS idx_word ON words(word);
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT
);
INSERT OR IGNORE INTO meta (key, value) VALUES ('format_version', '1.0');
INSERT OR IGNORE INTO meta (key, value) VALUES ('engine', 'lekhika');
INSERT OR IGNORE INTO meta (key, value) VALUES ('type', 'word_frequency');
INSERT OR IGNORE INTO meta (key, value) VALUES ('language', 'ne');
INSERT OR IGNORE INTO meta (key, value) VALUES ('script', 'Devanagari');
INSERT OR IGNORE INTO meta (key, value) VALUES ('created_at', datetime('now'));
`
