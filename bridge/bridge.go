package bridge

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/channel"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/errors"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/metric"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/notif"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/oid"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

// NotificationCallback is the caller-registered top-level hook. The
// dispatcher hands it every decoded notification together with the current
// session pointer snapshot; the returned set is the one actually invoked,
// so the callback can substitute or suppress individual pointers.
type NotificationCallback func(n notif.Notification, pointers notif.PointerSet) notif.PointerSet

// Bridge is the public surface of the client. One Bridge manages one
// linecard over one channel.
//
// The api mutex serializes the send+wait round trip of every operation and
// the dispatcher's metadata-processing step: the channel multiplexes a
// single response stream, so exactly one command may be in flight.
type Bridge struct {
	ch      *channel.Channel
	ids     *oid.Manager
	logger  *slog.Logger
	metrics *metric.Metrics

	apiMu sync.Mutex

	mu          sync.RWMutex
	initialized bool
	session     *session
	callback    NotificationCallback
	metaRef     otai.MetaRef
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithMetrics attaches bridge instrumentation.
func WithMetrics(m *metric.Metrics) Option {
	return func(b *Bridge) { b.metrics = m }
}

// New creates a bridge over the given channel and identifier manager. The
// bridge is Uninitialized until Initialize succeeds.
func New(ch *channel.Channel, ids *oid.Manager, opts ...Option) *Bridge {
	b := &Bridge{
		ch:     ch,
		ids:    ids,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Initialize starts inbound delivery and resets local identifier and
// session state. Fails with ErrAlreadyInitialized when repeated.
func (b *Bridge) Initialize(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.initialized {
		return errors.WrapInvalid(errors.ErrAlreadyInitialized, "Bridge", "Initialize", "check state")
	}

	b.ch.OnEvent(b.handleEvent)
	if err := b.ch.Start(ctx); err != nil {
		return errors.Wrap(err, "Bridge", "Initialize", "start channel")
	}

	b.ids.Clear()
	b.session = nil
	b.initialized = true

	b.logger.Info("bridge initialized")
	return nil
}

// Uninitialize stops inbound delivery, then clears identifier and session
// state. The ordering is a hard invariant: once Stop returns no notification
// can observe the cleared state.
func (b *Bridge) Uninitialize(_ context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return errors.WrapInvalid(errors.ErrNotInitialized, "Bridge", "Uninitialize", "check state")
	}

	b.ch.Stop()

	b.session = nil
	b.ids.Clear()
	b.initialized = false

	b.logger.Info("bridge uninitialized")
	return nil
}

// RegisterNotificationCallback registers the top-level notification hook.
func (b *Bridge) RegisterNotificationCallback(cb NotificationCallback) {
	b.mu.Lock()
	b.callback = cb
	b.mu.Unlock()
}

// SetMeta installs the metadata capability handle. The dispatcher calls the
// handle on every notification; a nil return means the component is gone
// and the notification is dropped.
func (b *Bridge) SetMeta(ref otai.MetaRef) {
	b.mu.Lock()
	b.metaRef = ref
	b.mu.Unlock()
}

// ObjectTypeOf decodes the object type of an issued identifier.
func (b *Bridge) ObjectTypeOf(id otai.ObjectID) otai.ObjectType {
	return b.ids.ObjectTypeOf(id)
}

// LinecardIDOf decodes the owning linecard of an issued identifier.
func (b *Bridge) LinecardIDOf(id otai.ObjectID) otai.ObjectID {
	return b.ids.LinecardIDOf(id)
}

func (b *Bridge) requireInitialized(component, method string) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.initialized {
		return errors.WrapInvalid(errors.ErrNotInitialized, component, method, "check state")
	}
	return nil
}

// roundTrip sends one command and blocks for its response as one atomic
// unit under the api mutex.
func (b *Bridge) roundTrip(ctx context.Context, key string, op channel.Op, fields []otai.FieldValue) (otai.Status, []otai.FieldValue, error) {
	b.apiMu.Lock()
	defer b.apiMu.Unlock()

	start := time.Now()
	if err := b.ch.Send(ctx, key, op, fields); err != nil {
		return otai.StatusFailure, nil, err
	}

	status, respFields, err := b.ch.Wait(ctx)

	if b.metrics != nil {
		b.metrics.RecordCommand(string(op), time.Since(start))
		if err == nil {
			b.metrics.RecordResponse(status.String())
		}
	}

	return status, respFields, err
}
