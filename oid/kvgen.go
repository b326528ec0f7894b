package oid

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/errors"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/natsclient"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

// Store is the slice of the KV surface the generator needs. Satisfied by
// *natsclient.KVStore.
type Store interface {
	Get(ctx context.Context, key string) (*natsclient.KVEntry, error)
	Create(ctx context.Context, key string, value []byte) (uint64, error)
	UpdateWithRetry(ctx context.Context, key string, updateFn func(current []byte) ([]byte, error)) error
}

// Bucket keys.
const (
	counterKey      = "vidcounter"
	linecardNextKey = "lcnext"
	hardwarePrefix  = "hwinfo."
)

// KVGenerator persists index counters in a JetStream KV bucket. All
// increments are read-modify-CAS-update loops, so concurrent bridges sharing
// a bucket never issue the same index twice.
type KVGenerator struct {
	store      Store
	counterKey string
}

// KVOption configures a KVGenerator.
type KVOption func(*KVGenerator)

// WithCounterKey overrides the object index counter key. Bridges sharing a
// bucket but managing disjoint identifier spaces use distinct keys.
func WithCounterKey(key string) KVOption {
	return func(g *KVGenerator) {
		if key != "" {
			g.counterKey = key
		}
	}
}

// NewKVGenerator creates a generator over the given store.
func NewKVGenerator(store Store, opts ...KVOption) *KVGenerator {
	g := &KVGenerator{store: store, counterKey: counterKey}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NextObjectIndex implements IndexGenerator. One global counter covers every
// type and linecard.
func (g *KVGenerator) NextObjectIndex(ctx context.Context, _ otai.ObjectType, _ otai.ObjectID) (uint64, error) {
	var allocated uint64

	err := g.store.UpdateWithRetry(ctx, g.counterKey, func(current []byte) ([]byte, error) {
		value, err := parseCounter(current)
		if err != nil {
			return nil, err
		}
		allocated = value + 1
		return []byte(strconv.FormatUint(allocated, 10)), nil
	})
	if err != nil {
		return 0, errors.WrapTransient(
			fmt.Errorf("%w: %w", errors.ErrStorageUnavailable, err),
			"KVGenerator", "NextObjectIndex", "increment counter")
	}

	return allocated, nil
}

// LinecardIndex implements IndexGenerator. The hardware info mapping is
// create-if-absent: when two bridges race to map the same device, the loser
// reads the winner's index.
func (g *KVGenerator) LinecardIndex(ctx context.Context, hardwareInfo string) (uint32, error) {
	key := hardwarePrefix + hex.EncodeToString([]byte(hardwareInfo))

	if index, ok, err := g.lookupLinecard(ctx, key); err != nil {
		return 0, err
	} else if ok {
		return index, nil
	}

	// No mapping yet. Reserve the next index, then try to claim the key.
	var candidate uint64
	err := g.store.UpdateWithRetry(ctx, linecardNextKey, func(current []byte) ([]byte, error) {
		value, err := parseCounter(current)
		if err != nil {
			return nil, err
		}
		candidate = value
		return []byte(strconv.FormatUint(value+1, 10)), nil
	})
	if err != nil {
		return 0, errors.WrapTransient(
			fmt.Errorf("%w: %w", errors.ErrStorageUnavailable, err),
			"KVGenerator", "LinecardIndex", "reserve linecard index")
	}
	if candidate > uint64(MaxLinecardIndex) {
		return 0, errors.WrapFatal(
			fmt.Errorf("linecard index space exhausted at %d", candidate),
			"KVGenerator", "LinecardIndex", "reserve linecard index")
	}

	if _, err := g.store.Create(ctx, key, []byte(strconv.FormatUint(candidate, 10))); err != nil {
		if natsclient.IsKVConflictError(err) {
			// Lost the claim race. The reserved index is abandoned.
			index, ok, err := g.lookupLinecard(ctx, key)
			if err != nil {
				return 0, err
			}
			if ok {
				return index, nil
			}
		}
		return 0, errors.WrapTransient(
			fmt.Errorf("%w: %w", errors.ErrStorageUnavailable, err),
			"KVGenerator", "LinecardIndex", "claim hardware mapping")
	}

	return uint32(candidate), nil
}

func (g *KVGenerator) lookupLinecard(ctx context.Context, key string) (uint32, bool, error) {
	entry, err := g.store.Get(ctx, key)
	if err != nil {
		if natsclient.IsKVNotFoundError(err) {
			return 0, false, nil
		}
		return 0, false, errors.WrapTransient(
			fmt.Errorf("%w: %w", errors.ErrStorageUnavailable, err),
			"KVGenerator", "LinecardIndex", "read hardware mapping")
	}

	value, err := strconv.ParseUint(string(entry.Value), 10, 32)
	if err != nil || value > uint64(MaxLinecardIndex) {
		return 0, false, errors.WrapFatal(
			fmt.Errorf("corrupt linecard mapping %q for key %s", entry.Value, key),
			"KVGenerator", "LinecardIndex", "parse hardware mapping")
	}

	return uint32(value), true, nil
}

func parseCounter(raw []byte) (uint64, error) {
	if len(raw) == 0 {
		return 0, nil
	}
	value, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt counter value %q: %w", raw, err)
	}
	return value, nil
}
