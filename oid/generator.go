package oid

import (
	"context"
	"sync"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

// IndexGenerator hands out the raw index values packed into identifiers.
// Implementations decide durability: KVGenerator persists counters so
// allocations survive restarts, MemGenerator does not.
type IndexGenerator interface {
	// NextObjectIndex returns the next object index. The counter is global
	// across types and linecards, so every issued index is unique.
	NextObjectIndex(ctx context.Context, t otai.ObjectType, linecardID otai.ObjectID) (uint64, error)

	// LinecardIndex resolves the linecard index for a hardware info string,
	// creating a new mapping when none exists. The same hardware info always
	// resolves to the same index.
	LinecardIndex(ctx context.Context, hardwareInfo string) (uint32, error)
}

// MemGenerator is an in-memory IndexGenerator. State is lost on restart, so
// it is only suitable for tests and for simulating a cold boot.
type MemGenerator struct {
	mu        sync.Mutex
	next      uint64
	nextLC    uint32
	linecards map[string]uint32
}

// NewMemGenerator creates an empty in-memory generator.
func NewMemGenerator() *MemGenerator {
	return &MemGenerator{linecards: make(map[string]uint32)}
}

// NextObjectIndex implements IndexGenerator.
func (g *MemGenerator) NextObjectIndex(_ context.Context, _ otai.ObjectType, _ otai.ObjectID) (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return g.next, nil
}

// LinecardIndex implements IndexGenerator.
func (g *MemGenerator) LinecardIndex(_ context.Context, hardwareInfo string) (uint32, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if index, ok := g.linecards[hardwareInfo]; ok {
		return index, nil
	}
	index := g.nextLC
	g.nextLC++
	g.linecards[hardwareInfo] = index
	return index, nil
}
