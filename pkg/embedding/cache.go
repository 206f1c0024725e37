package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	badger "github.com/dgraph-io/badger/v4"
)

// CachedProvider is a read-through embedding cache backed by BadgerDB.
// Hits skip the wrapped provider entirely; misses are fetched in one
// sub-batch and written back. Keys include the model name so one cache
// directory can serve several models.
type CachedProvider struct {
	next  Provider
	db    *badger.DB
	model string
}

// NewCachedProvider opens (or creates) the cache at path and wraps next.
func NewCachedProvider(next Provider, path, model string) (*CachedProvider, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening embedding cache: %w", err)
	}
	return &CachedProvider{next: next, db: db, model: model}, nil
}

// EmbedBatch implements Provider.
func (c *CachedProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missIdx []int
	var missTexts []string

	err := c.db.View(func(txn *badger.Txn) error {
		for i, text := range texts {
			item, err := txn.Get(c.key(text))
			if errors.Is(err, badger.ErrKeyNotFound) {
				missIdx = append(missIdx, i)
				missTexts = append(missTexts, text)
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				out[i] = decodeVector(val)
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading embedding cache: %w", err)
	}

	if len(missTexts) == 0 {
		return out, nil
	}

	vecs, err := c.next.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	err = c.db.Update(func(txn *badger.Txn) error {
		for j, vec := range vecs {
			out[missIdx[j]] = vec
			if err := txn.Set(c.key(missTexts[j]), encodeVector(vec)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("writing embedding cache: %w", err)
	}
	return out, nil
}

// Close implements Provider, closing both the cache and the wrapped provider.
func (c *CachedProvider) Close() error {
	dbErr := c.db.Close()
	nextErr := c.next.Close()
	if dbErr != nil {
		return dbErr
	}
	return nextErr
}

func (c *CachedProvider) key(text string) []byte {
	h := sha256.New()
	h.Write([]byte(c.model))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return h.Sum(nil)
}

func encodeVector(vec []float32) []byte {
	buf := make([]byte, 4*len(vec))
	for i, v := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeVector(buf []byte) []float32 {
	vec := make([]float32, len(buf)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return vec
}
