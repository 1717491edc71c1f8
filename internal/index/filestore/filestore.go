package filestore

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"ytexpert/internal/domain"
	"ytexpert/internal/index"
)

const (
	magic   = "YTIX"
	version = 1
)

// Store persists one snapshot file per channel under a root directory.
// A snapshot holds the index metadata, the embedding-stripped chunks and the
// raw vector blob in a single file, so the three can never be loaded out of
// step with each other. Save writes to a staging file and renames it over
// the previous snapshot: readers see either the old snapshot or the new one.
type Store struct {
	root string
}

func New(root string) *Store { return &Store{root: root} }

func (s *Store) path(channel string) string {
	return filepath.Join(s.root, channel+".index")
}

// Save writes the snapshot and publishes it atomically.
func (s *Store) Save(ix *index.Index) error {
	meta := ix.Metadata()
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	chunksJSON, err := json.Marshal(ix.Chunks())
	if err != nil {
		return fmt.Errorf("encode chunks: %w", err)
	}
	blob, err := index.EncodeVectors(ix.Vectors(), meta.Dimension)
	if err != nil {
		return fmt.Errorf("encode vectors: %w", err)
	}

	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(s.root, meta.ChannelName+"-*.staging")
	if err != nil {
		return err
	}
	staging := f.Name()
	werr := writeSnapshot(f, metaJSON, chunksJSON, blob)
	if werr == nil {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(staging)
		return werr
	}
	if err := os.Rename(staging, s.path(meta.ChannelName)); err != nil {
		_ = os.Remove(staging)
		return err
	}
	return nil
}

// Load reads the channel's snapshot. Returns domain.ErrIndexNotFound when
// the channel has never been built.
func (s *Store) Load(channel string) (*index.Index, error) {
	data, err := os.ReadFile(s.path(channel))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("channel %s: %w", channel, domain.ErrIndexNotFound)
		}
		return nil, err
	}
	return decodeSnapshot(channel, data)
}

func writeSnapshot(f *os.File, metaJSON, chunksJSON, blob []byte) error {
	header := make([]byte, 0, 12)
	header = append(header, magic...)
	header = binary.LittleEndian.AppendUint32(header, version)
	header = binary.LittleEndian.AppendUint32(header, uint32(len(metaJSON)))
	if _, err := f.Write(header); err != nil {
		return err
	}
	if _, err := f.Write(metaJSON); err != nil {
		return err
	}
	var sizeBuf [4]byte
	binary.LittleEndian.PutUint32(sizeBuf[:], uint32(len(chunksJSON)))
	if _, err := f.Write(sizeBuf[:]); err != nil {
		return err
	}
	if _, err := f.Write(chunksJSON); err != nil {
		return err
	}
	_, err := f.Write(blob)
	return err
}

func decodeSnapshot(channel string, data []byte) (*index.Index, error) {
	if len(data) < 12 || string(data[:4]) != magic {
		return nil, fmt.Errorf("channel %s: not an index snapshot", channel)
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != version {
		return nil, fmt.Errorf("channel %s: unsupported snapshot version %d", channel, v)
	}
	off := 8
	metaLen := int(binary.LittleEndian.Uint32(data[off:]))
	off += 4
	if off+metaLen+4 > len(data) {
		return nil, fmt.Errorf("channel %s: truncated snapshot", channel)
	}
	var meta index.Metadata
	if err := json.Unmarshal(data[off:off+metaLen], &meta); err != nil {
		return nil, fmt.Errorf("channel %s: decode metadata: %w", channel, err)
	}
	off += metaLen
	chunksLen := int(binary.LittleEndian.Uint32(data[off:]))
	off += 4
	if off+chunksLen > len(data) {
		return nil, fmt.Errorf("channel %s: truncated snapshot", channel)
	}
	var chunks []domain.Chunk
	if err := json.Unmarshal(data[off:off+chunksLen], &chunks); err != nil {
		return nil, fmt.Errorf("channel %s: decode chunks: %w", channel, err)
	}
	off += chunksLen
	vectors, err := index.DecodeVectors(data[off:], meta.ChunkCount, meta.Dimension)
	if err != nil {
		return nil, fmt.Errorf("channel %s: decode vectors: %w", channel, err)
	}
	return index.New(meta, vectors, chunks)
}
