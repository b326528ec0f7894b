package otai

import (
	"fmt"
	"strconv"
)

// StatValue holds one decoded counter value. The active field follows the
// counter's StatValueType in the catalog.
type StatValue struct {
	U64 uint64
	D64 float64
}

// SerializeCounterIDs renders a type-tagged counter-id list as ordered
// field/value pairs. The field carries the counter name; the value is
// empty, the remote agent fills it in the response.
func SerializeCounterIDs(t ObjectType, ids []StatID) ([]FieldValue, error) {
	fields := make([]FieldValue, 0, len(ids))
	for _, id := range ids {
		meta, err := StatInfo(t, id)
		if err != nil {
			return nil, err
		}
		fields = append(fields, FieldValue{Field: meta.Name, Value: ""})
	}
	return fields, nil
}

// DecodeStatValue parses one counter value from its textual representation
// per its declared value type.
func DecodeStatValue(t ObjectType, id StatID, text string) (StatValue, error) {
	meta, err := StatInfo(t, id)
	if err != nil {
		return StatValue{}, err
	}
	switch meta.Type {
	case StatValueTypeUint64:
		u, err := strconv.ParseUint(text, 10, 64)
		if err != nil {
			return StatValue{}, fmt.Errorf("parse %s: %w", meta.Name, err)
		}
		return StatValue{U64: u}, nil
	case StatValueTypeDouble:
		d, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return StatValue{}, fmt.Errorf("parse %s: %w", meta.Name, err)
		}
		return StatValue{D64: d}, nil
	default:
		return StatValue{}, fmt.Errorf("unsupported stat value type %d for %s", meta.Type, meta.Name)
	}
}
