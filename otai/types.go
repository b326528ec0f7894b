package otai

import (
	"fmt"
	"strconv"
	"strings"
)

// ObjectType identifies the kind of object an identifier refers to.
type ObjectType uint8

// Object types managed by the bridge. Values are wire-stable: they are
// embedded in virtual object identifiers and must not be reordered.
const (
	ObjectTypeNull ObjectType = iota
	ObjectTypeLinecard
	ObjectTypePort
	ObjectTypeTransceiver
	ObjectTypeLogicalChannel
	ObjectTypeOpticalChannel
	ObjectTypeOCM
	ObjectTypeOTDR
	ObjectTypeAttenuator
	objectTypeMax
)

var objectTypeNames = map[ObjectType]string{
	ObjectTypeNull:           "NULL",
	ObjectTypeLinecard:       "LINECARD",
	ObjectTypePort:           "PORT",
	ObjectTypeTransceiver:    "TRANSCEIVER",
	ObjectTypeLogicalChannel: "LOGICAL_CHANNEL",
	ObjectTypeOpticalChannel: "OPTICAL_CHANNEL",
	ObjectTypeOCM:            "OCM",
	ObjectTypeOTDR:           "OTDR",
	ObjectTypeAttenuator:     "ATTENUATOR",
}

// Valid reports whether t is a known, non-null object type
func (t ObjectType) Valid() bool {
	return t > ObjectTypeNull && t < objectTypeMax
}

// String returns the serialized object type name used in command keys
func (t ObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
}

// ParseObjectType parses a serialized object type name
func ParseObjectType(s string) (ObjectType, error) {
	for t, name := range objectTypeNames {
		if name == s {
			return t, nil
		}
	}
	return ObjectTypeNull, fmt.Errorf("unknown object type %q", s)
}

// ObjectID is a virtual object identifier. It encodes the object type, the
// owning linecard index and a uniqueness counter; see package oid for the
// layout. The zero value is the distinguished null id.
type ObjectID uint64

// NullObjectID signals absence or allocation failure
const NullObjectID ObjectID = 0

// String returns the serialized form used in command keys, e.g. "oid:0x1a2b"
func (id ObjectID) String() string {
	return fmt.Sprintf("oid:0x%x", uint64(id))
}

// ParseObjectID parses a serialized object identifier
func ParseObjectID(s string) (ObjectID, error) {
	raw, ok := strings.CutPrefix(s, "oid:0x")
	if !ok {
		return NullObjectID, fmt.Errorf("malformed object id %q", s)
	}
	v, err := strconv.ParseUint(raw, 16, 64)
	if err != nil {
		return NullObjectID, fmt.Errorf("malformed object id %q: %w", s, err)
	}
	return ObjectID(v), nil
}

// ObjectKey builds the command key "<objectType>:<serializedObjectId>"
func ObjectKey(t ObjectType, id ObjectID) string {
	return t.String() + ":" + id.String()
}

// Status is the result code returned by the remote agent. Non-success
// values are passed through to callers verbatim.
type Status int32

// Remote agent status codes
const (
	StatusSuccess               Status = 0
	StatusFailure               Status = -1
	StatusNotImplemented        Status = -2
	StatusInsufficientResources Status = -3
	StatusBufferOverflow        Status = -4
	StatusInvalidParameter      Status = -5
	StatusItemNotFound          Status = -6
	StatusItemAlreadyExists     Status = -7
)

var statusNames = map[Status]string{
	StatusSuccess:               "SUCCESS",
	StatusFailure:               "FAILURE",
	StatusNotImplemented:        "NOT_IMPLEMENTED",
	StatusInsufficientResources: "INSUFFICIENT_RESOURCES",
	StatusBufferOverflow:        "BUFFER_OVERFLOW",
	StatusInvalidParameter:      "INVALID_PARAMETER",
	StatusItemNotFound:          "ITEM_NOT_FOUND",
	StatusItemAlreadyExists:     "ITEM_ALREADY_EXISTS",
}

// String returns the serialized status name
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int32(s))
}

// ParseStatus parses a serialized status name. Unknown names map to
// StatusFailure with an error so a corrupt response cannot masquerade as
// success.
func ParseStatus(s string) (Status, error) {
	for st, name := range statusNames {
		if name == s {
			return st, nil
		}
	}
	return StatusFailure, fmt.Errorf("unknown status %q", s)
}

// FieldValue is one ordered field/value pair on the wire
type FieldValue struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// NullFieldValue is the sentinel pair sent on create when the caller
// supplied no attributes, so the remote store always has a row for the
// object.
var NullFieldValue = FieldValue{Field: "NULL", Value: "NULL"}
