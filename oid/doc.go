// Package oid allocates and decodes the 64-bit virtual object identifiers
// the bridge hands to callers.
//
// An identifier packs three fields: bits 63..56 carry the object type,
// bits 55..48 the linecard index, and bits 47..0 a monotonically increasing
// object index. The null identifier is all zeroes.
//
// Object indexes come from an IndexGenerator, a persistent counter store
// injected at construction. KVGenerator backs the counters with a NATS
// JetStream Key-Value bucket so allocations survive a process restart;
// MemGenerator keeps them in memory for tests. Linecard indexes are keyed
// by the device's hardware information string, so the same physical device
// resolves to the same identifier across restarts.
package oid
