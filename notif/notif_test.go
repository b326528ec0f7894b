package notif

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/errors"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

func TestDecode_LinecardStateChange(t *testing.T) {
	n, err := Decode(NameLinecardStateChange,
		`{"linecard_id":"oid:0x100000000000000","oper_status":"ACTIVE"}`, nil)
	require.NoError(t, err)

	sc, ok := n.(LinecardStateChange)
	require.True(t, ok)
	assert.Equal(t, otai.ObjectID(0x100000000000000), sc.LinecardID)
	assert.Equal(t, "ACTIVE", sc.OperStatus)
	assert.Equal(t, sc.LinecardID, n.ObjectID())
}

func TestDecode_LinecardAlarm(t *testing.T) {
	n, err := Decode(NameLinecardAlarm,
		`{"linecard_id":"oid:0x100000000000000","type":"RX_LOS","severity":"CRITICAL","text":"loss of signal","time_created":1724990000,"cleared":false}`,
		nil)
	require.NoError(t, err)

	alarm, ok := n.(LinecardAlarm)
	require.True(t, ok)
	assert.Equal(t, "RX_LOS", alarm.Type)
	assert.Equal(t, "CRITICAL", alarm.Severity)
	assert.False(t, alarm.Cleared)
}

func TestDecode_OCMSpectrumPower(t *testing.T) {
	n, err := Decode(NameOCMSpectrumPower,
		`{"ocm_id":"oid:0x600000000000001","spectrum":[{"lower_frequency":191300000,"upper_frequency":191350000,"power":-3.5}]}`,
		nil)
	require.NoError(t, err)

	scan, ok := n.(OCMSpectrumPower)
	require.True(t, ok)
	require.Len(t, scan.Spectrum, 1)
	assert.InDelta(t, -3.5, scan.Spectrum[0].Power, 1e-9)
}

func TestDecode_OTDRResult(t *testing.T) {
	n, err := Decode(NameOTDRResult,
		`{"otdr_id":"oid:0x700000000000001","scan_time":1724990000,"distance_range":80.0,"events":[{"type":"REFLECTION","length":12.5,"loss":0.3}]}`,
		nil)
	require.NoError(t, err)

	result, ok := n.(OTDRResult)
	require.True(t, ok)
	assert.InDelta(t, 80.0, result.DistanceRange, 1e-9)
	require.Len(t, result.Events, 1)
	assert.Equal(t, "REFLECTION", result.Events[0].Type)
}

func TestDecode_UnknownName(t *testing.T) {
	_, err := Decode("fan_speed", `{}`, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnknownNotification)
}

func TestDecode_BadPayload(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{nope`},
		{"bad object id", `{"linecard_id":"0xzz","oper_status":"ACTIVE"}`},
		{"missing status", `{"linecard_id":"oid:0x100000000000000"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(NameLinecardStateChange, tt.data, nil)
			assert.Error(t, err)
		})
	}
}

func TestInvoke_DispatchesToMatchingPointer(t *testing.T) {
	var gotState *LinecardStateChange
	var gotAlarm *LinecardAlarm

	ps := PointerSet{
		OnLinecardStateChange: func(n LinecardStateChange) { gotState = &n },
		OnLinecardAlarm:       func(n LinecardAlarm) { gotAlarm = &n },
	}

	state := LinecardStateChange{LinecardID: 1, OperStatus: "ACTIVE"}
	require.NoError(t, state.Invoke(ps))
	require.NotNil(t, gotState)
	assert.Equal(t, "ACTIVE", gotState.OperStatus)
	assert.Nil(t, gotAlarm)

	alarm := LinecardAlarm{LinecardID: 1, Type: "RX_LOS"}
	require.NoError(t, alarm.Invoke(ps))
	require.NotNil(t, gotAlarm)
}

func TestInvoke_NilPointerErrors(t *testing.T) {
	notifications := []Notification{
		LinecardStateChange{},
		LinecardAlarm{},
		OCMSpectrumPower{},
		OTDRResult{},
	}

	for _, n := range notifications {
		assert.Error(t, n.Invoke(PointerSet{}), n.Name())
	}
}
