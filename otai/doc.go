// Package otai holds the domain model shared by the bridge: object types,
// virtual object identifiers, remote status codes, attribute values and
// their wire representation, statistics metadata, and the process-wide type
// schema catalog.
//
// The catalog is a read-only oracle after init: object type schemas map
// attribute ids to names and value types, and statistic ids to names and
// counter value types. The attribute codec (EncodeAttrs/DecodeAttrs) turns
// typed attribute lists into ordered field/value pairs and back, including
// the count-only representation used on the buffer-overflow path.
//
// Identifier allocation lives in package oid; this package only defines the
// ObjectID value and its serialized form.
package otai
