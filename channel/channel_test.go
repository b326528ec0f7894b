package channel

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/errors"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

// fakeConn records published commands and lets tests inject inbound
// messages on the subscribed subjects.
type fakeConn struct {
	mu        sync.Mutex
	published []CommandMessage
	handlers  map[string]func(context.Context, []byte)
	flushed   int
}

func newFakeConn() *fakeConn {
	return &fakeConn{handlers: make(map[string]func(context.Context, []byte))}
}

func (f *fakeConn) Publish(_ context.Context, _ string, data []byte) error {
	var msg CommandMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return err
	}
	f.mu.Lock()
	f.published = append(f.published, msg)
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) Subscribe(_ context.Context, subject string, handler func(context.Context, []byte)) error {
	f.mu.Lock()
	f.handlers[subject] = handler
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) Flush() error {
	f.mu.Lock()
	f.flushed++
	f.mu.Unlock()
	return nil
}

func (f *fakeConn) deliver(t *testing.T, subject string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)

	f.mu.Lock()
	handler := f.handlers[subject]
	f.mu.Unlock()
	require.NotNil(t, handler, "no handler for subject %s", subject)
	handler(context.Background(), data)
}

func (f *fakeConn) deliverRaw(t *testing.T, subject string, raw []byte) {
	t.Helper()
	f.mu.Lock()
	handler := f.handlers[subject]
	f.mu.Unlock()
	require.NotNil(t, handler)
	handler(context.Background(), raw)
}

func (f *fakeConn) commands() []CommandMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]CommandMessage(nil), f.published...)
}

func newStarted(t *testing.T, conn *fakeConn, opts ...Option) *Channel {
	t.Helper()
	c := New(conn, opts...)
	require.NoError(t, c.Start(context.Background()))
	return c
}

func TestChannel_SendEncodesCommand(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn)

	fields := []otai.FieldValue{{Field: "OTAI_PORT_ATTR_PORT_TYPE", Value: "LINE"}}
	err := c.Send(context.Background(), "PORT:oid:0x2000100000001", OpCreate, fields)
	require.NoError(t, err)

	cmds := conn.commands()
	require.Len(t, cmds, 1)
	assert.Equal(t, "PORT:oid:0x2000100000001", cmds[0].Key)
	assert.Equal(t, OpCreate, cmds[0].Op)
	assert.Equal(t, fields, cmds[0].Fields)
}

func TestChannel_SendRejectsUnknownOp(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn)

	err := c.Send(context.Background(), "PORT:oid:0x1", Op("upsert"), nil)
	require.Error(t, err)
	assert.Empty(t, conn.commands())
}

func TestChannel_WaitReturnsResponse(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn)

	conn.deliver(t, DefaultSubjects().Response, ResponseMessage{
		Status: "SUCCESS",
		Fields: []otai.FieldValue{{Field: "OTAI_PORT_ATTR_OPER_STATUS", Value: "ACTIVE"}},
	})

	status, fields, err := c.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, otai.StatusSuccess, status)
	require.Len(t, fields, 1)
	assert.Equal(t, "ACTIVE", fields[0].Value)
}

func TestChannel_WaitPassesRemoteStatusThrough(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn)

	conn.deliver(t, DefaultSubjects().Response, ResponseMessage{Status: "ITEM_NOT_FOUND"})

	status, _, err := c.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, otai.StatusItemNotFound, status)
}

func TestChannel_WaitTimeout(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn, WithWaitTimeout(20*time.Millisecond))

	start := time.Now()
	_, _, err := c.Wait(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrTimeout)
	assert.Less(t, time.Since(start), time.Second)
}

func TestChannel_WaitContextCancel(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn, WithWaitTimeout(0))

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, _, err := c.Wait(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChannel_WaitUnknownStatusIsDesync(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn)

	conn.deliver(t, DefaultSubjects().Response, ResponseMessage{Status: "BANANAS"})

	_, _, err := c.Wait(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrProtocolDesync)
	assert.True(t, errors.IsFatal(err))
}

func TestChannel_MalformedResponseDropped(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn, WithWaitTimeout(20*time.Millisecond))

	conn.deliverRaw(t, DefaultSubjects().Response, []byte("{not json"))

	// The garbage never reaches Wait; it times out instead
	_, _, err := c.Wait(context.Background())
	assert.ErrorIs(t, err, errors.ErrTimeout)
}

func TestChannel_ResponsesFIFO(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn)

	for _, s := range []string{"SUCCESS", "FAILURE", "ITEM_ALREADY_EXISTS"} {
		conn.deliver(t, DefaultSubjects().Response, ResponseMessage{Status: s})
	}

	want := []otai.Status{otai.StatusSuccess, otai.StatusFailure, otai.StatusItemAlreadyExists}
	for _, expected := range want {
		status, _, err := c.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, expected, status)
	}
}

func TestChannel_EventsReachHandler(t *testing.T) {
	conn := newFakeConn()
	c := New(conn)

	var mu sync.Mutex
	var got []EventMessage
	c.OnEvent(func(_ context.Context, event EventMessage) {
		mu.Lock()
		got = append(got, event)
		mu.Unlock()
	})
	require.NoError(t, c.Start(context.Background()))

	conn.deliver(t, DefaultSubjects().Notification, EventMessage{
		Name: "linecard_state",
		Data: "oid:0x1000100000000",
	})

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, "linecard_state", got[0].Name)
}

func TestChannel_StopDropsInbound(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn, WithWaitTimeout(20*time.Millisecond))

	fired := false
	c.OnEvent(func(context.Context, EventMessage) { fired = true })

	c.Stop()

	conn.deliver(t, DefaultSubjects().Response, ResponseMessage{Status: "SUCCESS"})
	conn.deliver(t, DefaultSubjects().Notification, EventMessage{Name: "alarm"})

	_, _, err := c.Wait(context.Background())
	assert.ErrorIs(t, err, errors.ErrTimeout)
	assert.False(t, fired)

	err = c.Send(context.Background(), "PORT:oid:0x1", OpGet, nil)
	assert.ErrorIs(t, err, errors.ErrChannelClosed)
}

func TestChannel_StartTwiceFails(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn)

	assert.Error(t, c.Start(context.Background()))
}

func TestChannel_RestartAfterStop(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn)

	c.Stop()
	err := c.Send(context.Background(), "PORT:oid:0x1", OpGet, nil)
	require.ErrorIs(t, err, errors.ErrChannelClosed)

	require.NoError(t, c.Start(context.Background()))

	require.NoError(t, c.Send(context.Background(), "PORT:oid:0x1", OpGet, nil))
	conn.deliver(t, DefaultSubjects().Response, ResponseMessage{Status: "SUCCESS"})

	status, _, err := c.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, otai.StatusSuccess, status)
}

func TestChannel_RestartDiscardsBufferedResponses(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn, WithWaitTimeout(20*time.Millisecond))

	// A response arrives with nobody waiting, then the channel cycles.
	conn.deliver(t, DefaultSubjects().Response, ResponseMessage{Status: "ITEM_ALREADY_EXISTS"})
	c.Stop()
	require.NoError(t, c.Start(context.Background()))

	_, _, err := c.Wait(context.Background())
	assert.ErrorIs(t, err, errors.ErrTimeout)
}

func TestChannel_LateResponseNeverAnswersNextCommand(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn, WithWaitTimeout(20*time.Millisecond))

	// First command times out before its response arrives.
	require.NoError(t, c.Send(context.Background(), "PORT:oid:0x1", OpCreate, nil))
	_, _, err := c.Wait(context.Background())
	require.ErrorIs(t, err, errors.ErrTimeout)

	// The late answer lands after the caller gave up.
	conn.deliver(t, DefaultSubjects().Response, ResponseMessage{Status: "ITEM_ALREADY_EXISTS"})

	// The next command gets its own response, not the stale one.
	require.NoError(t, c.Send(context.Background(), "PORT:oid:0x2", OpCreate, nil))
	conn.deliver(t, DefaultSubjects().Response, ResponseMessage{Status: "SUCCESS"})

	status, _, err := c.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, otai.StatusSuccess, status)
}

func TestChannel_Flush(t *testing.T) {
	conn := newFakeConn()
	c := newStarted(t, conn)

	require.NoError(t, c.Flush())
	assert.Equal(t, 1, conn.flushed)
}
