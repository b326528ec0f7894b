package otai

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/errors"
)

// OIDList is a variable-length object identifier list. On input (get
// requests) len(List) is the caller's capacity hint; on output Count holds
// the number of valid entries, or the required capacity when the response
// did not fit.
type OIDList struct {
	Count uint32
	List  []ObjectID
}

// Value holds an attribute value. The active field is determined by the
// attribute's ValueType in the catalog.
type Value struct {
	U64     uint64
	D64     float64
	Str     string
	Bool    bool
	OID     ObjectID
	OIDList OIDList
	// Handler carries a caller-supplied notification callback for
	// notification-pointer attributes. Only presence crosses the wire.
	Handler any
}

// Attribute pairs an attribute id with its value
type Attribute struct {
	ID    AttrID
	Value Value
}

// serializeValue renders a value per its declared type. With countOnly set,
// list-typed values carry only their length.
func serializeValue(meta *AttrMetadata, v Value, countOnly bool) string {
	switch meta.Type {
	case ValueTypeUint64:
		return strconv.FormatUint(v.U64, 10)
	case ValueTypeDouble:
		return strconv.FormatFloat(v.D64, 'g', -1, 64)
	case ValueTypeString:
		return v.Str
	case ValueTypeBool:
		return strconv.FormatBool(v.Bool)
	case ValueTypeObjectID:
		return v.OID.String()
	case ValueTypeObjectIDList:
		if countOnly {
			return fmt.Sprintf("%d:null", len(v.OIDList.List))
		}
		items := make([]string, len(v.OIDList.List))
		for i, id := range v.OIDList.List {
			items[i] = id.String()
		}
		if len(items) == 0 {
			return "0:null"
		}
		return fmt.Sprintf("%d:%s", len(items), strings.Join(items, ","))
	case ValueTypeNotifyHandler:
		if v.Handler != nil {
			return "0x1"
		}
		return "0x0"
	default:
		return ""
	}
}

// deserializeValue parses a serialized value per its declared type. With
// countOnly set, list-typed values parse only their length into Count.
func deserializeValue(meta *AttrMetadata, s string, v *Value, countOnly bool) error {
	switch meta.Type {
	case ValueTypeUint64:
		u, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", meta.Name, err)
		}
		v.U64 = u
	case ValueTypeDouble:
		d, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parse %s: %w", meta.Name, err)
		}
		v.D64 = d
	case ValueTypeString:
		v.Str = s
	case ValueTypeBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("parse %s: %w", meta.Name, err)
		}
		v.Bool = b
	case ValueTypeObjectID:
		id, err := ParseObjectID(s)
		if err != nil {
			return fmt.Errorf("parse %s: %w", meta.Name, err)
		}
		v.OID = id
	case ValueTypeObjectIDList:
		countStr, rest, found := strings.Cut(s, ":")
		if !found {
			return fmt.Errorf("parse %s: malformed list %q", meta.Name, s)
		}
		count, err := strconv.ParseUint(countStr, 10, 32)
		if err != nil {
			return fmt.Errorf("parse %s: malformed list count %q", meta.Name, countStr)
		}
		v.OIDList.Count = uint32(count)
		if countOnly || rest == "null" {
			v.OIDList.List = nil
			return nil
		}
		items := strings.Split(rest, ",")
		if uint64(len(items)) != count {
			return fmt.Errorf("parse %s: list count %d does not match %d items", meta.Name, count, len(items))
		}
		v.OIDList.List = make([]ObjectID, len(items))
		for i, item := range items {
			id, err := ParseObjectID(item)
			if err != nil {
				return fmt.Errorf("parse %s: %w", meta.Name, err)
			}
			v.OIDList.List[i] = id
		}
	case ValueTypeNotifyHandler:
		// Only presence crosses the wire; nothing to recover.
	default:
		return fmt.Errorf("parse %s: unsupported value type %d", meta.Name, meta.Type)
	}
	return nil
}

// EncodeAttrs serializes an attribute list into ordered field/value pairs
func EncodeAttrs(t ObjectType, attrs []Attribute, countOnly bool) ([]FieldValue, error) {
	fields := make([]FieldValue, 0, len(attrs))
	for _, attr := range attrs {
		meta, err := AttrInfo(t, attr.ID)
		if err != nil {
			return nil, err
		}
		fields = append(fields, FieldValue{
			Field: meta.Name,
			Value: serializeValue(meta, attr.Value, countOnly),
		})
	}
	return fields, nil
}

// DecodeAttrs parses ordered field/value pairs back into an attribute list.
// The NULL:NULL sentinel pair is skipped.
func DecodeAttrs(t ObjectType, fields []FieldValue, countOnly bool) ([]Attribute, error) {
	attrs := make([]Attribute, 0, len(fields))
	for _, fv := range fields {
		if fv.Field == NullFieldValue.Field {
			continue
		}
		meta, err := AttrInfoByName(t, fv.Field)
		if err != nil {
			return nil, err
		}
		attr := Attribute{ID: meta.ID}
		if err := deserializeValue(meta, fv.Value, &attr.Value, countOnly); err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	return attrs, nil
}

// ClearOIDValues zeroes embedded object-id payloads in the attribute list,
// keeping list lengths as capacity hints. Callers reuse buffers, so the
// payloads may contain garbage that must not leak into outbound requests.
func ClearOIDValues(t ObjectType, attrs []Attribute) {
	for i := range attrs {
		meta, err := AttrInfo(t, attrs[i].ID)
		if err != nil {
			continue
		}
		switch meta.Type {
		case ValueTypeObjectID:
			attrs[i].Value.OID = NullObjectID
		case ValueTypeObjectIDList:
			for j := range attrs[i].Value.OIDList.List {
				attrs[i].Value.OIDList.List[j] = NullObjectID
			}
			attrs[i].Value.OIDList.Count = 0
		}
	}
}

// TransferAttrs moves decoded response values into the caller's attribute
// buffers. src and dst must line up one to one; any shape mismatch is a
// contract violation reported as ErrProtocolDesync. With countOnly set only
// list lengths transfer (the overflow path). A list result that does not
// fit the caller's buffer yields ErrBufferOverflow carrying the required
// length; scalar results already transferred are left intact.
func TransferAttrs(t ObjectType, src, dst []Attribute, countOnly bool) error {
	if len(src) != len(dst) {
		return errors.Wrap(
			fmt.Errorf("%w: got %d attributes, expected %d", errors.ErrProtocolDesync, len(src), len(dst)),
			"AttributeList", "TransferAttrs", "match response shape")
	}

	var overflow error
	for i := range dst {
		if src[i].ID != dst[i].ID {
			return errors.Wrap(
				fmt.Errorf("%w: attribute %d is %d, expected %d", errors.ErrProtocolDesync, i, src[i].ID, dst[i].ID),
				"AttributeList", "TransferAttrs", "match attribute ids")
		}
		meta, err := AttrInfo(t, dst[i].ID)
		if err != nil {
			return err
		}
		switch meta.Type {
		case ValueTypeObjectIDList:
			required := src[i].Value.OIDList.Count
			dst[i].Value.OIDList.Count = required
			if int(required) > len(dst[i].Value.OIDList.List) {
				overflow = errors.Overflow(required)
				continue
			}
			if countOnly {
				continue
			}
			copy(dst[i].Value.OIDList.List, src[i].Value.OIDList.List)
		default:
			handler := dst[i].Value.Handler
			dst[i].Value = src[i].Value
			dst[i].Value.Handler = handler
		}
	}
	return overflow
}
