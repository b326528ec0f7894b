package oid

import (
	"context"
	"fmt"
	"sync"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/errors"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

// Identifier bit layout.
const (
	objectTypeShift   = 56
	linecardShift     = 48
	objectIndexMask   = uint64(1)<<linecardShift - 1
	linecardIndexMask = uint64(0xff)

	// MaxLinecardIndex is the largest linecard index that fits in the
	// identifier layout.
	MaxLinecardIndex = uint32(linecardIndexMask)

	// MaxObjectIndex is the largest per-device object index.
	MaxObjectIndex = objectIndexMask
)

// Encode packs an object type, linecard index and object index into an
// identifier. Inputs outside the field widths are truncated.
func Encode(t otai.ObjectType, linecardIndex uint32, objectIndex uint64) otai.ObjectID {
	return otai.ObjectID(uint64(t)<<objectTypeShift |
		(uint64(linecardIndex)&linecardIndexMask)<<linecardShift |
		objectIndex&objectIndexMask)
}

// TypeOf extracts the object type field. Identifiers carrying an unknown
// type decode to ObjectTypeNull.
func TypeOf(id otai.ObjectID) otai.ObjectType {
	t := otai.ObjectType(uint64(id) >> objectTypeShift)
	if !t.Valid() {
		return otai.ObjectTypeNull
	}
	return t
}

// LinecardIndexOf extracts the linecard index field.
func LinecardIndexOf(id otai.ObjectID) uint32 {
	return uint32(uint64(id) >> linecardShift & linecardIndexMask)
}

// ObjectIndexOf extracts the object index field.
func ObjectIndexOf(id otai.ObjectID) uint64 {
	return uint64(id) & objectIndexMask
}

// Manager allocates virtual object identifiers. Allocation state lives in
// the injected IndexGenerator; the manager itself only tracks which linecard
// indexes it has handed out, so decode queries can reject identifiers that
// were never issued here.
type Manager struct {
	gen    IndexGenerator
	logger Logger

	mu        sync.RWMutex
	linecards map[uint32]string // index -> hardware info
}

// Logger is the minimal logging surface the manager needs.
type Logger interface {
	Printf(format string, v ...any)
	Errorf(format string, v ...any)
	Debugf(format string, v ...any)
}

// NewManager creates a manager over the given counter store.
func NewManager(gen IndexGenerator, logger Logger) *Manager {
	if logger == nil {
		logger = nopLogger{}
	}
	return &Manager{
		gen:       gen,
		logger:    logger,
		linecards: make(map[uint32]string),
	}
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
func (nopLogger) Errorf(string, ...any) {}
func (nopLogger) Debugf(string, ...any) {}

// AllocateLinecardID returns the identifier for the linecard described by
// hardwareInfo. The index behind the identifier is looked up or created in
// the persistent store, so repeated calls with the same hardware info return
// the same identifier, including across process restarts. Returns
// NullObjectID with an error when the store is unreachable.
func (m *Manager) AllocateLinecardID(ctx context.Context, hardwareInfo string) (otai.ObjectID, error) {
	index, err := m.gen.LinecardIndex(ctx, hardwareInfo)
	if err != nil {
		m.logger.Errorf("linecard index lookup failed for %q: %v", hardwareInfo, err)
		return otai.NullObjectID, errors.Wrap(err, "Manager", "AllocateLinecardID", "resolve linecard index")
	}
	if index > MaxLinecardIndex {
		return otai.NullObjectID, errors.WrapFatal(
			fmt.Errorf("linecard index %d exceeds maximum %d", index, MaxLinecardIndex),
			"Manager", "AllocateLinecardID", "encode identifier")
	}

	m.mu.Lock()
	m.linecards[index] = hardwareInfo
	m.mu.Unlock()

	id := Encode(otai.ObjectTypeLinecard, index, 0)
	m.logger.Debugf("Allocated linecard id %s for hardware info %q", id, hardwareInfo)
	return id, nil
}

// AllocateObjectID returns a fresh identifier of the given type scoped to
// linecardID. Returns NullObjectID when linecardID is not a linecard
// identifier issued by this manager or when the counter store fails. Issued
// identifiers never repeat while the counter store lives.
func (m *Manager) AllocateObjectID(ctx context.Context, t otai.ObjectType, linecardID otai.ObjectID) (otai.ObjectID, error) {
	if !t.Valid() || t == otai.ObjectTypeLinecard {
		return otai.NullObjectID, errors.WrapInvalid(
			fmt.Errorf("cannot allocate object of type %s", t),
			"Manager", "AllocateObjectID", "validate type")
	}
	if !m.isKnownLinecard(linecardID) {
		return otai.NullObjectID, errors.WrapInvalid(
			fmt.Errorf("%s is not a known linecard id", linecardID),
			"Manager", "AllocateObjectID", "validate linecard")
	}

	index, err := m.gen.NextObjectIndex(ctx, t, linecardID)
	if err != nil {
		m.logger.Errorf("object index allocation failed for type %s: %v", t, err)
		return otai.NullObjectID, errors.Wrap(err, "Manager", "AllocateObjectID", "next object index")
	}
	if index > MaxObjectIndex {
		return otai.NullObjectID, errors.WrapFatal(
			fmt.Errorf("object index %d exceeds maximum", index),
			"Manager", "AllocateObjectID", "encode identifier")
	}

	id := Encode(t, LinecardIndexOf(linecardID), index)
	m.logger.Debugf("Allocated %s id %s under linecard %s", t, id, linecardID)
	return id, nil
}

// ObjectTypeOf returns the object type encoded in id, or ObjectTypeNull for
// the null identifier and identifiers with an unknown type tag.
func (m *Manager) ObjectTypeOf(id otai.ObjectID) otai.ObjectType {
	if id == otai.NullObjectID {
		return otai.ObjectTypeNull
	}
	return TypeOf(id)
}

// LinecardIDOf returns the identifier of the linecard that owns id, or
// NullObjectID when id is malformed or references a linecard this manager
// never issued.
func (m *Manager) LinecardIDOf(id otai.ObjectID) otai.ObjectID {
	if id == otai.NullObjectID || TypeOf(id) == otai.ObjectTypeNull {
		return otai.NullObjectID
	}

	index := LinecardIndexOf(id)

	m.mu.RLock()
	_, known := m.linecards[index]
	m.mu.RUnlock()
	if !known {
		return otai.NullObjectID
	}

	return Encode(otai.ObjectTypeLinecard, index, 0)
}

// Clear drops the in-memory linecard bookkeeping. The persistent counter
// store is untouched, so identifiers allocated after Clear still never
// collide with earlier ones.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.linecards = make(map[uint32]string)
	m.mu.Unlock()
}

func (m *Manager) isKnownLinecard(id otai.ObjectID) bool {
	if id == otai.NullObjectID || TypeOf(id) != otai.ObjectTypeLinecard || ObjectIndexOf(id) != 0 {
		return false
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.linecards[LinecardIndexOf(id)]
	return ok
}
