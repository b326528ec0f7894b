package otai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectTypeRoundTrip(t *testing.T) {
	for ot := ObjectTypeLinecard; ot < objectTypeMax; ot++ {
		parsed, err := ParseObjectType(ot.String())
		require.NoError(t, err, "type %s should parse", ot)
		assert.Equal(t, ot, parsed)
	}
}

func TestParseObjectType_Unknown(t *testing.T) {
	_, err := ParseObjectType("SWITCH")
	assert.Error(t, err)
}

func TestObjectIDSerialization(t *testing.T) {
	tests := []struct {
		name string
		id   ObjectID
		want string
	}{
		{"null", NullObjectID, "oid:0x0"},
		{"small", ObjectID(0x2a), "oid:0x2a"},
		{"full width", ObjectID(0x0102000000000003), "oid:0x102000000000003"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.String())

			parsed, err := ParseObjectID(tt.want)
			require.NoError(t, err)
			assert.Equal(t, tt.id, parsed)
		})
	}
}

func TestParseObjectID_Malformed(t *testing.T) {
	for _, s := range []string{"", "0x1", "oid:1", "oid:0xzz", "OID:0x1"} {
		_, err := ParseObjectID(s)
		assert.Error(t, err, "input %q", s)
	}
}

func TestObjectKey(t *testing.T) {
	key := ObjectKey(ObjectTypePort, ObjectID(0x21))
	assert.Equal(t, "PORT:oid:0x21", key)
}

func TestStatusRoundTrip(t *testing.T) {
	for st := range statusNames {
		parsed, err := ParseStatus(st.String())
		require.NoError(t, err)
		assert.Equal(t, st, parsed)
	}
}

func TestParseStatus_UnknownIsFailure(t *testing.T) {
	st, err := ParseStatus("SOMETHING_ODD")
	assert.Error(t, err)
	assert.Equal(t, StatusFailure, st)
}
