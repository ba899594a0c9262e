// SPDX-License-Identifier: MIT

package artifact

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
)

const (
	edgePrefix     = "edges/"
	artifactPrefix = "artifact/"
)

// Index is a subject-keyed store for scalar results and artifact paths.
// It is safe for concurrent use.
type Index struct {
	db     *badger.DB
	closed atomic.Bool
}

// IndexOptions configures OpenIndex.
type IndexOptions struct {
	Dir      string       // required unless InMemory
	InMemory bool         // tests
	Logger   *slog.Logger // nil silences badger
}

// badgerLogger adapts slog to badger.Logger.
type badgerLogger struct{ l *slog.Logger }

func (b badgerLogger) Errorf(f string, args ...any)   { b.l.Error(strings.TrimSpace(fmt.Sprintf(f, args...))) }
func (b badgerLogger) Warningf(f string, args ...any) { b.l.Warn(strings.TrimSpace(fmt.Sprintf(f, args...))) }
func (b badgerLogger) Infof(f string, args ...any)    { b.l.Debug(strings.TrimSpace(fmt.Sprintf(f, args...))) }
func (b badgerLogger) Debugf(f string, args ...any)   { b.l.Debug(strings.TrimSpace(fmt.Sprintf(f, args...))) }

// OpenIndex opens (creating if needed) an index.
func OpenIndex(o IndexOptions) (*Index, error) {
	var opts badger.Options
	switch {
	case o.InMemory:
		opts = badger.DefaultOptions("").WithInMemory(true)
	case o.Dir == "":
		return nil, errors.New("OpenIndex: dir is required")
	default:
		if err := os.MkdirAll(o.Dir, 0o750); err != nil {
			return nil, fmt.Errorf("OpenIndex: %w", err)
		}
		opts = badger.DefaultOptions(o.Dir)
	}
	if o.Logger != nil {
		opts = opts.WithLogger(badgerLogger{l: o.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("OpenIndex %s: %w", o.Dir, err)
	}

	return &Index{db: db}, nil
}

// Close releases the store. Further calls fail with ErrIndexClosed.
func (ix *Index) Close() error {
	if ix.closed.Swap(true) {
		return nil
	}

	return ix.db.Close()
}

func (ix *Index) check(op string) error {
	if ix.closed.Load() {
		return fmt.Errorf("%s: %w", op, ErrIndexClosed)
	}

	return nil
}

// PutEdgeCount records the edge count of subject, replacing any previous value.
func (ix *Index) PutEdgeCount(subject string, edges uint64) error {
	if err := ix.check("PutEdgeCount"); err != nil {
		return err
	}
	var v [8]byte
	binary.BigEndian.PutUint64(v[:], edges)
	err := ix.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(edgePrefix+subject), v[:])
	})
	if err != nil {
		return fmt.Errorf("PutEdgeCount %s: %w", subject, err)
	}

	return nil
}

// EdgeCount returns the recorded edge count of subject.
// Errors: ErrNotFound.
func (ix *Index) EdgeCount(subject string) (uint64, error) {
	if err := ix.check("EdgeCount"); err != nil {
		return 0, err
	}
	var out uint64
	err := ix.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(edgePrefix + subject))
		if err != nil {
			return err
		}
		return item.Value(func(v []byte) error {
			if len(v) != 8 {
				return fmt.Errorf("value of %d bytes: %w", len(v), ErrMalformed)
			}
			out = binary.BigEndian.Uint64(v)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, fmt.Errorf("EdgeCount %s: %w", subject, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("EdgeCount %s: %w", subject, err)
	}

	return out, nil
}

// EdgeCounts returns every recorded subject → edge count.
func (ix *Index) EdgeCounts() (map[string]uint64, error) {
	if err := ix.check("EdgeCounts"); err != nil {
		return nil, err
	}
	out := make(map[string]uint64)
	err := ix.scan(edgePrefix, func(key string, v []byte) error {
		if len(v) != 8 {
			return fmt.Errorf("%s: value of %d bytes: %w", key, len(v), ErrMalformed)
		}
		out[key] = binary.BigEndian.Uint64(v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("EdgeCounts: %w", err)
	}

	return out, nil
}

// PutArtifact records the path of a named artifact of subject.
func (ix *Index) PutArtifact(subject, name, path string) error {
	if err := ix.check("PutArtifact"); err != nil {
		return err
	}
	err := ix.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(artifactPrefix+subject+"/"+name), []byte(path))
	})
	if err != nil {
		return fmt.Errorf("PutArtifact %s/%s: %w", subject, name, err)
	}

	return nil
}

// Artifacts returns name → path for subject.
func (ix *Index) Artifacts(subject string) (map[string]string, error) {
	if err := ix.check("Artifacts"); err != nil {
		return nil, err
	}
	out := make(map[string]string)
	err := ix.scan(artifactPrefix+subject+"/", func(name string, v []byte) error {
		out[name] = string(v)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("Artifacts %s: %w", subject, err)
	}

	return out, nil
}

// scan calls fn with the key suffix and value of every key under prefix.
func (ix *Index) scan(prefix string, fn func(key string, v []byte) error) error {
	return ix.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := strings.TrimPrefix(string(item.Key()), prefix)
			if err := item.Value(func(v []byte) error { return fn(key, v) }); err != nil {
				return err
			}
		}
		return nil
	})
}
