// Package storage keeps encoded stego images in a pebble database, keyed by
// KSUID so IDs sort by creation time.
package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"
)

// ErrArtifactNotFound is returned when no artifact has the given ID
var ErrArtifactNotFound = errors.New("artifact not found")

// Artifact is a stored image
type Artifact struct {
	ID          ksuid.KSUID
	ContentType string
	Data        []byte
}

// CreatedAt returns the time encoded in the artifact ID
func (a *Artifact) CreatedAt() time.Time {
	return a.ID.Time()
}

// ArtifactStore persists artifacts in pebble
type ArtifactStore struct {
	db *pebble.DB
}

// Writes are synced before returning: an ID handed to a caller must
// survive a crash.
var writeOptions = pebble.Sync

// Open opens or creates an artifact store at path.
func Open(path string) (*ArtifactStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open artifact store at %s: %w", path, err)
	}
	return &ArtifactStore{db: db}, nil
}

// Create stores data under a new ID.
func (s *ArtifactStore) Create(contentType string, data []byte) (ksuid.KSUID, error) {
	value, err := encodeValue(contentType, data)
	if err != nil {
		return ksuid.Nil, err
	}

	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), value, writeOptions); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to store artifact: %w", err)
	}
	return id, nil
}

// Read returns the artifact with the given ID.
func (s *ArtifactStore) Read(id ksuid.KSUID) (*Artifact, error) {
	value, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, id)
		}
		return nil, fmt.Errorf("failed to read artifact %s: %w", id, err)
	}
	defer closer.Close()

	// value is only valid until closer.Close
	contentType, data, err := decodeValue(value)
	if err != nil {
		return nil, fmt.Errorf("artifact %s: %w", id, err)
	}
	return &Artifact{
		ID:          id,
		ContentType: contentType,
		Data:        append([]byte(nil), data...),
	}, nil
}

// Delete removes the artifact with the given ID.
func (s *ArtifactStore) Delete(id ksuid.KSUID) error {
	_, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrArtifactNotFound, id)
		}
		return fmt.Errorf("failed to read artifact %s: %w", id, err)
	}
	closer.Close()

	if err := s.db.Delete(id.Bytes(), writeOptions); err != nil {
		return fmt.Errorf("failed to delete artifact %s: %w", id, err)
	}
	return nil
}

// Close flushes and closes the database
func (s *ArtifactStore) Close() error {
	return s.db.Close()
}

// Values are [len(contentType) u8][contentType][data].
func encodeValue(contentType string, data []byte) ([]byte, error) {
	if len(contentType) > 255 {
		return nil, fmt.Errorf("content type too long: %d bytes", len(contentType))
	}
	value := make([]byte, 0, 1+len(contentType)+len(data))
	value = append(value, byte(len(contentType)))
	value = append(value, contentType...)
	value = append(value, data...)
	return value, nil
}

func decodeValue(value []byte) (string, []byte, error) {
	if len(value) == 0 {
		return "", nil, errors.New("empty artifact record")
	}
	n := int(value[0])
	if len(value) < 1+n {
		return "", nil, errors.New("truncated artifact record")
	}
	return string(value[1 : 1+n]), value[1+n:], nil
}
