package sqlitestore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver

	"ytexpert/internal/domain"
	"ytexpert/internal/index"
)

const schema = `
CREATE TABLE IF NOT EXISTS index_meta (
    channel     TEXT PRIMARY KEY,
    dimension   INTEGER NOT NULL,
    chunk_count INTEGER NOT NULL,
    digest      TEXT,
    built_at    TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS index_chunks (
    channel   TEXT NOT NULL,
    position  INTEGER NOT NULL,
    chunk_id  TEXT NOT NULL,
    chunk     TEXT NOT NULL,
    embedding BLOB NOT NULL,
    PRIMARY KEY (channel, position)
);
`

// Store keeps index snapshots in a SQLite database, one row per chunk with
// its vector as a little-endian float32 blob. A save replaces the channel's
// rows inside a single transaction, so readers see either the previous
// snapshot or the new one in full.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the snapshot database at path. The path
// ":memory:" yields a private in-memory database.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Save replaces the channel's snapshot in one transaction.
func (s *Store) Save(ix *index.Index) error {
	meta := ix.Metadata()
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM index_chunks WHERE channel = ?`, meta.ChannelName); err != nil {
		return err
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO index_meta(channel, dimension, chunk_count, digest, built_at) VALUES(?, ?, ?, ?, ?)`,
		meta.ChannelName, meta.Dimension, meta.ChunkCount, meta.Digest, meta.BuiltAt.Format(time.RFC3339Nano),
	); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO index_chunks(channel, position, chunk_id, chunk, embedding) VALUES(?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	chunks := ix.Chunks()
	for i, vec := range ix.Vectors() {
		blob, err := index.EncodeVectors([][]float32{vec}, meta.Dimension)
		if err != nil {
			return err
		}
		chunkJSON, err := json.Marshal(chunks[i])
		if err != nil {
			return fmt.Errorf("encode chunk %s: %w", chunks[i].ChunkID, err)
		}
		if _, err := stmt.Exec(meta.ChannelName, i, chunks[i].ChunkID, string(chunkJSON), blob); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Load reads the channel's snapshot in position order. Returns
// domain.ErrIndexNotFound when the channel has never been built.
func (s *Store) Load(channel string) (*index.Index, error) {
	var meta index.Metadata
	var builtAt string
	err := s.db.QueryRow(
		`SELECT channel, dimension, chunk_count, digest, built_at FROM index_meta WHERE channel = ?`, channel,
	).Scan(&meta.ChannelName, &meta.Dimension, &meta.ChunkCount, &meta.Digest, &builtAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("channel %s: %w", channel, domain.ErrIndexNotFound)
	}
	if err != nil {
		return nil, err
	}
	if meta.BuiltAt, err = time.Parse(time.RFC3339Nano, builtAt); err != nil {
		return nil, fmt.Errorf("channel %s: bad built_at: %w", channel, err)
	}

	rows, err := s.db.Query(
		`SELECT chunk, embedding FROM index_chunks WHERE channel = ? ORDER BY position`, channel,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		chunks  []domain.Chunk
		vectors [][]float32
	)
	for rows.Next() {
		var chunkJSON string
		var blob []byte
		if err := rows.Scan(&chunkJSON, &blob); err != nil {
			return nil, err
		}
		var ch domain.Chunk
		if err := json.Unmarshal([]byte(chunkJSON), &ch); err != nil {
			return nil, fmt.Errorf("channel %s: decode chunk: %w", channel, err)
		}
		vec, err := index.DecodeVectors(blob, 1, meta.Dimension)
		if err != nil {
			return nil, fmt.Errorf("channel %s: chunk %s: %w", channel, ch.ChunkID, err)
		}
		chunks = append(chunks, ch)
		vectors = append(vectors, vec[0])
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return index.New(meta, vectors, chunks)
}
