package bridge

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/channel"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/notif"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

func stateChangeEvent(id otai.ObjectID, status string) channel.EventMessage {
	return channel.EventMessage{
		Name: notif.NameLinecardStateChange,
		Data: fmt.Sprintf(`{"linecard_id":"%s","oper_status":"%s"}`, id, status),
	}
}

func TestDispatcher_DeliversToSessionHandler(t *testing.T) {
	agent := newFakeAgent()
	b := newTestBridge(t, agent, nil)
	meta := &fakeMeta{}
	b.SetMeta(func() otai.Meta { return meta })

	var got []string
	id := createLinecard(t, b, "serial=AB01", otai.Attribute{
		ID: otai.LinecardAttrStateChangeNotify,
		Value: otai.Value{Handler: func(n notif.LinecardStateChange) {
			got = append(got, n.OperStatus)
		}},
	})

	agent.notify(t, stateChangeEvent(id, "ACTIVE"))
	agent.notify(t, stateChangeEvent(id, "INACTIVE"))

	assert.Equal(t, []string{"ACTIVE", "INACTIVE"}, got)
	assert.Equal(t, 2, meta.count())
}

func TestDispatcher_DropsWithoutMeta(t *testing.T) {
	agent := newFakeAgent()
	b := newTestBridge(t, agent, nil)

	var delivered int
	id := createLinecard(t, b, "serial=AB01", otai.Attribute{
		ID: otai.LinecardAttrStateChangeNotify,
		Value: otai.Value{Handler: func(notif.LinecardStateChange) {
			delivered++
		}},
	})

	// No meta component was ever registered
	agent.notify(t, stateChangeEvent(id, "ACTIVE"))
	assert.Zero(t, delivered)
}

func TestDispatcher_DropsOnExpiredMeta(t *testing.T) {
	agent := newFakeAgent()
	b := newTestBridge(t, agent, nil)

	meta := &fakeMeta{}
	alive := true
	b.SetMeta(func() otai.Meta {
		if !alive {
			return nil
		}
		return meta
	})

	var delivered int
	id := createLinecard(t, b, "serial=AB01", otai.Attribute{
		ID: otai.LinecardAttrStateChangeNotify,
		Value: otai.Value{Handler: func(notif.LinecardStateChange) {
			delivered++
		}},
	})

	agent.notify(t, stateChangeEvent(id, "ACTIVE"))
	require.Equal(t, 1, delivered)

	// Meta component torn down: events are dropped, not a fault
	alive = false
	agent.notify(t, stateChangeEvent(id, "INACTIVE"))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 1, meta.count())

	// And delivery resumes once it comes back
	alive = true
	agent.notify(t, stateChangeEvent(id, "ACTIVE"))
	assert.Equal(t, 2, delivered)
}

func TestDispatcher_SkipsUnknownLinecard(t *testing.T) {
	agent := newFakeAgent()
	b := newTestBridge(t, agent, nil)
	meta := &fakeMeta{}
	b.SetMeta(func() otai.Meta { return meta })

	var delivered int
	createLinecard(t, b, "serial=AB01", otai.Attribute{
		ID: otai.LinecardAttrStateChangeNotify,
		Value: otai.Value{Handler: func(notif.LinecardStateChange) {
			delivered++
		}},
	})

	// Event for a linecard this bridge never created
	foreign := otai.ObjectID(0x0133_0000_0000_0000)
	agent.notify(t, stateChangeEvent(foreign, "ACTIVE"))
	assert.Zero(t, delivered)
}

func TestDispatcher_UnknownEventNameDoesNotWedge(t *testing.T) {
	agent := newFakeAgent()
	b := newTestBridge(t, agent, nil)
	meta := &fakeMeta{}
	b.SetMeta(func() otai.Meta { return meta })

	var delivered int
	id := createLinecard(t, b, "serial=AB01", otai.Attribute{
		ID: otai.LinecardAttrStateChangeNotify,
		Value: otai.Value{Handler: func(notif.LinecardStateChange) {
			delivered++
		}},
	})

	agent.notify(t, channel.EventMessage{Name: "vendor_extension_event", Data: "{}"})
	assert.Zero(t, delivered)

	// The dispatcher keeps working after an undecodable event
	agent.notify(t, stateChangeEvent(id, "ACTIVE"))
	assert.Equal(t, 1, delivered)
}

func TestDispatcher_CallbackOverridesPointers(t *testing.T) {
	agent := newFakeAgent()
	b := newTestBridge(t, agent, nil)
	meta := &fakeMeta{}
	b.SetMeta(func() otai.Meta { return meta })

	var viaSession, viaOverride int
	id := createLinecard(t, b, "serial=AB01", otai.Attribute{
		ID: otai.LinecardAttrStateChangeNotify,
		Value: otai.Value{Handler: func(notif.LinecardStateChange) {
			viaSession++
		}},
	})

	b.RegisterNotificationCallback(func(n notif.Notification, ps notif.PointerSet) notif.PointerSet {
		ps.OnLinecardStateChange = func(notif.LinecardStateChange) {
			viaOverride++
		}
		return ps
	})

	agent.notify(t, stateChangeEvent(id, "ACTIVE"))
	assert.Zero(t, viaSession)
	assert.Equal(t, 1, viaOverride)
}

func TestDispatcher_NoHandlerRegistered(t *testing.T) {
	agent := newFakeAgent()
	b := newTestBridge(t, agent, nil)
	meta := &fakeMeta{}
	b.SetMeta(func() otai.Meta { return meta })

	// Session exists but carries no state-change handler
	id := createLinecard(t, b, "serial=AB01")

	agent.notify(t, stateChangeEvent(id, "ACTIVE"))

	// Consistency processing still ran; only user delivery failed
	assert.Equal(t, 1, meta.count())
}
