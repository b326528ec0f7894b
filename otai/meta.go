package otai

import (
	"fmt"
	"sync"
)

// ValueType describes the active field of an attribute Value
type ValueType int

// Attribute value types
const (
	ValueTypeUint64 ValueType = iota
	ValueTypeDouble
	ValueTypeString
	ValueTypeBool
	ValueTypeObjectID
	ValueTypeObjectIDList
	ValueTypeNotifyHandler
)

// StatValueType describes how a counter value is represented
type StatValueType int

// Counter value types
const (
	StatValueTypeUint64 StatValueType = iota
	StatValueTypeDouble
)

// AttrID identifies an attribute within an object type
type AttrID uint32

// CustomRangeStart marks the beginning of the reserved local-extension
// attribute range. Attributes at or above this id on the linecard type are
// serviced locally by the bridge and never sent to the remote agent.
const CustomRangeStart AttrID = 0x10000000

// StatID identifies a statistic counter within an object type
type StatID uint32

// AttrMetadata describes one attribute of an object type
type AttrMetadata struct {
	ID   AttrID
	Name string
	Type ValueType
}

// StatMetadata describes one statistic counter of an object type
type StatMetadata struct {
	ID   StatID
	Name string
	Type StatValueType
}

// ObjectTypeInfo holds the schema for one object type
type ObjectTypeInfo struct {
	Type  ObjectType
	Attrs []AttrMetadata
	Stats []StatMetadata
}

// catalog is the process-wide type schema, written once during init and
// read-only afterwards.
var (
	catalogMu sync.RWMutex
	catalog   = map[ObjectType]*typeSchema{}
)

type typeSchema struct {
	info        ObjectTypeInfo
	attrsByID   map[AttrID]*AttrMetadata
	attrsByName map[string]*AttrMetadata
	statsByID   map[StatID]*StatMetadata
	statsByName map[string]*StatMetadata
}

// RegisterObjectType installs the schema for an object type. Registering
// the same type twice replaces the previous schema.
func RegisterObjectType(info ObjectTypeInfo) {
	s := &typeSchema{
		info:        info,
		attrsByID:   make(map[AttrID]*AttrMetadata, len(info.Attrs)),
		attrsByName: make(map[string]*AttrMetadata, len(info.Attrs)),
		statsByID:   make(map[StatID]*StatMetadata, len(info.Stats)),
		statsByName: make(map[string]*StatMetadata, len(info.Stats)),
	}
	for i := range info.Attrs {
		a := &info.Attrs[i]
		s.attrsByID[a.ID] = a
		s.attrsByName[a.Name] = a
	}
	for i := range info.Stats {
		st := &info.Stats[i]
		s.statsByID[st.ID] = st
		s.statsByName[st.Name] = st
	}

	catalogMu.Lock()
	defer catalogMu.Unlock()
	catalog[info.Type] = s
}

// AttrInfo looks up attribute metadata by id
func AttrInfo(t ObjectType, id AttrID) (*AttrMetadata, error) {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	s, ok := catalog[t]
	if !ok {
		return nil, fmt.Errorf("object type %s not registered", t)
	}
	a, ok := s.attrsByID[id]
	if !ok {
		return nil, fmt.Errorf("attribute %d not defined for %s", id, t)
	}
	return a, nil
}

// AttrInfoByName looks up attribute metadata by serialized name
func AttrInfoByName(t ObjectType, name string) (*AttrMetadata, error) {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	s, ok := catalog[t]
	if !ok {
		return nil, fmt.Errorf("object type %s not registered", t)
	}
	a, ok := s.attrsByName[name]
	if !ok {
		return nil, fmt.Errorf("attribute %q not defined for %s", name, t)
	}
	return a, nil
}

// StatInfo looks up statistic metadata by id
func StatInfo(t ObjectType, id StatID) (*StatMetadata, error) {
	catalogMu.RLock()
	defer catalogMu.RUnlock()
	s, ok := catalog[t]
	if !ok {
		return nil, fmt.Errorf("object type %s not registered", t)
	}
	st, ok := s.statsByID[id]
	if !ok {
		return nil, fmt.Errorf("stat %d not defined for %s", id, t)
	}
	return st, nil
}

// Meta is the external metadata/validation component consulted by the
// notification dispatcher before user callbacks run. Implementations may
// mutate shared metadata state; the bridge guarantees calls are serialized
// with caller-side API operations.
type Meta interface {
	// ProcessNotification validates and updates cross-object metadata
	// state for an inbound event carrying the given object id.
	ProcessNotification(name string, id ObjectID)
}

// MetaRef is a capability handle to the Meta component. It returns nil once
// the component has been torn down; holders must check at every use and
// treat nil as "drop the work", never as a fault.
type MetaRef func() Meta
