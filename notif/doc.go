// Package notif defines the typed notifications the remote agent emits and
// the decode registry that turns raw event messages into them.
//
// Four categories exist: linecard operational state changes, linecard
// alarms, optical channel monitor spectrum scans, and OTDR scan results.
// Every notification exposes the object identifier used to resolve its
// owning linecard and knows how to invoke its own entry in a PointerSet,
// so the dispatcher never type-switches on event names.
package notif
