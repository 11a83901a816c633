// Package assets persists photo and receipt binaries on disk, keyed by
// content address. It is its own concurrency domain: callers reach it only
// through these methods and it never touches the entity store.
package assets

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// Errors surfaced by the asset store. A load of a missing asset is not an
// error; the entity store may legitimately reference assets that have
// drifted away.
var (
	ErrStorageFull       = errors.New("asset storage full")
	ErrWriteFailed       = errors.New("asset write failed")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// lockStripes bounds the per-identifier lock table.
const lockStripes = 64

// Store is a content-addressed blob store. Operations on the same
// identifier are serialized; distinct identifiers proceed concurrently.
type Store struct {
	dir   string
	locks [lockStripes]sync.Mutex
}

// NewStore opens (creating if needed) an asset store rooted at dir.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating asset directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// lock returns the stripe guarding an identifier.
func (s *Store) lock(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &s.locks[h.Sum32()%lockStripes]
}

// path shards assets by identifier prefix to keep directories small.
func (s *Store) path(id string) string {
	if len(id) < 2 {
		return filepath.Join(s.dir, id)
	}
	return filepath.Join(s.dir, id[:2], id)
}

// Save normalizes an image and stores it under its content address.
// Identical inputs yield the same identifier, so saves are idempotent and
// duplicate photos share one blob. The owner hint is only used in logs.
func (s *Store) Save(ctx context.Context, data []byte, owner string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	normalized, err := Normalize(data)
	if err != nil {
		return "", err
	}

	sum := blake2b.Sum256(normalized)
	id := hex.EncodeToString(sum[:])

	if err := s.write(id, normalized); err != nil {
		slog.Error("asset save failed", "asset", id, "owner", owner, "error", err)
		return "", err
	}

	slog.Debug("asset saved", "asset", id, "owner", owner, "bytes", len(normalized))
	return id, nil
}

// ValidID reports whether id has the shape Save produces: lowercase hex, at
// least one shard prefix long. Identifiers come from untrusted archives, so
// anything else (path separators, dot segments) is rejected before it can
// reach the filesystem.
func ValidID(id string) bool {
	if len(id) < 2 {
		return false
	}
	for i := 0; i < len(id); i++ {
		c := id[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Put stores already-normalized bytes under a caller-supplied identifier.
// Used by restore, where archives carry assets under their original ids; the
// identifier must pass ValidID so an archive entry can never name a path
// outside the store root.
func (s *Store) Put(ctx context.Context, id string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ValidID(id) {
		return fmt.Errorf("%w: invalid identifier %q", ErrWriteFailed, id)
	}
	return s.write(id, data)
}

// write persists a blob atomically: tempfile in the target directory, then
// rename. The stripe lock serializes concurrent writes to the same id.
func (s *Store) write(id string, data []byte) error {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	target := s.path(id)
	if _, err := os.Stat(target); err == nil {
		// Content-addressed: same id means same bytes.
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return wrapWrite(err)
	}

	tmp := filepath.Join(filepath.Dir(target), "tmp-"+uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		os.Remove(tmp)
		return wrapWrite(err)
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return wrapWrite(err)
	}
	return nil
}

func wrapWrite(err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		return fmt.Errorf("%w: %v", ErrStorageFull, err)
	}
	return fmt.Errorf("%w: %v", ErrWriteFailed, err)
}

// Load returns an asset's bytes, or (nil, nil) when the identifier does not
// resolve. Missing assets are a tolerated drift condition, reported by the
// caller as a dangling reference, never an error here.
func (s *Store) Load(ctx context.Context, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading asset %s: %w", id, err)
	}
	return data, nil
}

// Exists reports whether an identifier resolves to a stored asset.
func (s *Store) Exists(id string) bool {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	_, err := os.Stat(s.path(id))
	return err == nil
}

// Delete removes an asset. Deleting a missing identifier is a no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting asset %s: %w", id, err)
	}
	return nil
}

// Missing returns the identifiers from refs that do not resolve to a stored
// asset, for the dangling-reference report.
func (s *Store) Missing(refs []string) []string {
	var missing []string
	for _, id := range refs {
		if !s.Exists(id) {
			missing = append(missing, id)
		}
	}
	return missing
}
