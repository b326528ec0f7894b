package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/errors"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

// Conn is the slice of the transport the channel needs. Satisfied by
// *natsclient.Client.
type Conn interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Subscribe(ctx context.Context, subject string, handler func(context.Context, []byte)) error
	Flush() error
}

// Logger is the minimal logging surface the channel needs.
type Logger interface {
	Printf(format string, v ...any)
	Errorf(format string, v ...any)
	Debugf(format string, v ...any)
}

// Subjects names the three streams the channel multiplexes over the
// transport.
type Subjects struct {
	Command      string
	Response     string
	Notification string
}

// DefaultSubjects returns the subject names used when none are configured.
func DefaultSubjects() Subjects {
	return Subjects{
		Command:      "otai.command",
		Response:     "otai.response",
		Notification: "otai.notification",
	}
}

// DefaultWaitTimeout bounds Wait when no explicit timeout is configured.
const DefaultWaitTimeout = 60 * time.Second

const defaultInboxSize = 16

// EventHandler receives decoded notification messages on the transport's
// delivery goroutine.
type EventHandler func(ctx context.Context, event EventMessage)

// Channel sends commands to the remote agent and hands back correlated
// responses. Responses are FIFO and 1:1 with the most recently sent command,
// so callers sharing a channel must serialize Send+Wait as one unit; the
// channel itself enforces nothing.
type Channel struct {
	conn     Conn
	subjects Subjects
	timeout  time.Duration // 0 means wait indefinitely
	logger   Logger

	inbox chan ResponseMessage

	handlerMu sync.RWMutex
	onEvent   EventHandler

	// lifecycleMu guards Start/Stop transitions. Subjects are subscribed
	// once for the channel's lifetime; accepting gates inbound delivery and
	// outbound sends so the channel can stop and start again.
	lifecycleMu sync.Mutex
	subscribed  bool
	accepting   atomic.Bool
}

// Option configures a Channel.
type Option func(*Channel)

// WithSubjects overrides the transport subject names.
func WithSubjects(s Subjects) Option {
	return func(c *Channel) { c.subjects = s }
}

// WithWaitTimeout bounds every Wait call. Zero waits indefinitely.
func WithWaitTimeout(d time.Duration) Option {
	return func(c *Channel) { c.timeout = d }
}

// WithLogger sets a custom logger.
func WithLogger(logger Logger) Option {
	return func(c *Channel) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInboxSize sets the response buffer depth.
func WithInboxSize(n int) Option {
	return func(c *Channel) {
		if n > 0 {
			c.inbox = make(chan ResponseMessage, n)
		}
	}
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
func (nopLogger) Errorf(string, ...any) {}
func (nopLogger) Debugf(string, ...any) {}

// New creates a channel over the given transport. Start must be called
// before Send or Wait.
func New(conn Conn, opts ...Option) *Channel {
	c := &Channel{
		conn:     conn,
		subjects: DefaultSubjects(),
		timeout:  DefaultWaitTimeout,
		logger:   nopLogger{},
		inbox:    make(chan ResponseMessage, defaultInboxSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnEvent registers the notification handler. Must be set before Start;
// events arriving with no handler registered are dropped.
func (c *Channel) OnEvent(handler EventHandler) {
	c.handlerMu.Lock()
	c.onEvent = handler
	c.handlerMu.Unlock()
}

// Start subscribes to the response and notification subjects and opens the
// channel for traffic. The transport delivers both streams on its own
// goroutine, never the caller's. A stopped channel may be started again;
// responses left over from the previous run are discarded.
func (c *Channel) Start(ctx context.Context) error {
	c.lifecycleMu.Lock()
	defer c.lifecycleMu.Unlock()

	if c.accepting.Load() {
		return errors.WrapInvalid(
			fmt.Errorf("channel already started"),
			"Channel", "Start", "subscribe")
	}

	if !c.subscribed {
		if err := c.conn.Subscribe(ctx, c.subjects.Response, c.handleResponse); err != nil {
			return errors.WrapTransient(err, "Channel", "Start", "subscribe responses")
		}
		if err := c.conn.Subscribe(ctx, c.subjects.Notification, c.handleEvent); err != nil {
			return errors.WrapTransient(err, "Channel", "Start", "subscribe notifications")
		}
		c.subscribed = true
	}

	c.drainInbox()
	c.accepting.Store(true)

	c.logger.Debugf("Channel started: cmd=%s rsp=%s ntf=%s",
		c.subjects.Command, c.subjects.Response, c.subjects.Notification)
	return nil
}

// Stop halts inbound delivery and outbound sends. Messages arriving after
// Stop are dropped, so state torn down after Stop returns is never touched
// by a late response or notification.
func (c *Channel) Stop() {
	c.accepting.Store(false)
}

// drainInbox discards buffered responses. A response sitting in the inbox
// belongs to an abandoned command and must never answer a newer one.
func (c *Channel) drainInbox() {
	for {
		select {
		case msg := <-c.inbox:
			c.logger.Errorf("Discarding stale response with status %q", msg.Status)
		default:
			return
		}
	}
}

// Send publishes one command. Fire and forget: the caller pairs it with
// exactly one Wait.
func (c *Channel) Send(ctx context.Context, key string, op Op, fields []otai.FieldValue) error {
	if !op.Valid() {
		return errors.WrapInvalid(
			fmt.Errorf("unknown command kind %q", op),
			"Channel", "Send", "validate op")
	}
	if !c.accepting.Load() {
		return errors.WrapInvalid(errors.ErrChannelClosed, "Channel", "Send", "check state")
	}

	// A late response to a command whose Wait already timed out may still
	// be buffered. Clear it now so the coming Wait can only observe the
	// answer to this command.
	c.drainInbox()

	msg := CommandMessage{Key: key, Op: op, Fields: fields}
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.WrapInvalid(err, "Channel", "Send", "marshal command")
	}

	if err := c.conn.Publish(ctx, c.subjects.Command, data); err != nil {
		return errors.WrapTransient(err, "Channel", "Send", "publish command")
	}

	c.logger.Debugf("Sent %s command for %s (%d fields)", op, key, len(fields))
	return nil
}

// Wait blocks until exactly one response arrives, the configured timeout
// elapses, or ctx is cancelled. With a zero timeout it blocks until a
// response arrives or ctx is done.
func (c *Channel) Wait(ctx context.Context) (otai.Status, []otai.FieldValue, error) {
	var timeoutCh <-chan time.Time
	if c.timeout > 0 {
		timer := time.NewTimer(c.timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case msg := <-c.inbox:
		status, err := otai.ParseStatus(msg.Status)
		if err != nil {
			// A response we cannot interpret means the streams are out of
			// step with the agent.
			return otai.StatusFailure, nil, errors.WrapFatal(
				fmt.Errorf("%w: unknown status %q", errors.ErrProtocolDesync, msg.Status),
				"Channel", "Wait", "parse status")
		}
		return status, msg.Fields, nil
	case <-timeoutCh:
		return otai.StatusFailure, nil, errors.WrapTransient(
			fmt.Errorf("%w after %v", errors.ErrTimeout, c.timeout),
			"Channel", "Wait", "await response")
	case <-ctx.Done():
		return otai.StatusFailure, nil, errors.WrapTransient(ctx.Err(), "Channel", "Wait", "await response")
	}
}

// Flush forces buffered outbound commands to the transport.
func (c *Channel) Flush() error {
	if err := c.conn.Flush(); err != nil {
		return errors.WrapTransient(err, "Channel", "Flush", "flush transport")
	}
	return nil
}

func (c *Channel) handleResponse(_ context.Context, raw []byte) {
	if !c.accepting.Load() {
		return
	}

	var msg ResponseMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.logger.Errorf("Dropping malformed response: %v", err)
		return
	}

	select {
	case c.inbox <- msg:
	default:
		// No caller is waiting and the buffer is full. The response belongs
		// to an abandoned command; keeping it would desynchronize the next
		// Wait.
		c.logger.Errorf("Response inbox full, dropping response with status %q", msg.Status)
	}
}

func (c *Channel) handleEvent(ctx context.Context, raw []byte) {
	if !c.accepting.Load() {
		return
	}

	var msg EventMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		c.logger.Errorf("Dropping malformed notification: %v", err)
		return
	}

	c.handlerMu.RLock()
	handler := c.onEvent
	c.handlerMu.RUnlock()

	if handler == nil {
		c.logger.Debugf("No notification handler registered, dropping %q", msg.Name)
		return
	}

	handler(ctx, msg)
}
