package bridge

import (
	"context"
	"fmt"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/channel"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/errors"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

// Create allocates an identifier for a new object and announces it to the
// remote agent. For the linecard type the identifier is the stable one
// derived from the hardware info creation attribute and a successful create
// instantiates the session; for every other type the identifier is a fresh
// one scoped to linecardID.
func (b *Bridge) Create(ctx context.Context, t otai.ObjectType, linecardID otai.ObjectID, attrs []otai.Attribute) (otai.ObjectID, error) {
	if err := b.requireInitialized("Bridge", "Create"); err != nil {
		return otai.NullObjectID, err
	}

	var id otai.ObjectID
	var err error
	if t == otai.ObjectTypeLinecard {
		id, err = b.ids.AllocateLinecardID(ctx, hardwareInfo(attrs))
	} else {
		id, err = b.ids.AllocateObjectID(ctx, t, linecardID)
	}
	if err != nil || id == otai.NullObjectID {
		// Nothing was sent; the agent never learns about this object.
		return otai.NullObjectID, errors.Wrap(
			fmt.Errorf("%w: %v", errors.ErrInsufficientResources, err),
			"Bridge", "Create", "allocate identifier")
	}

	fields, err := otai.EncodeAttrs(t, attrs, false)
	if err != nil {
		return otai.NullObjectID, errors.WrapInvalid(err, "Bridge", "Create", "encode attributes")
	}
	if len(fields) == 0 {
		// The agent's store needs a row even for an attributeless object.
		fields = []otai.FieldValue{otai.NullFieldValue}
	}

	status, _, err := b.roundTrip(ctx, otai.ObjectKey(t, id), channel.OpCreate, fields)
	if err != nil {
		return otai.NullObjectID, err
	}
	if status != otai.StatusSuccess {
		return otai.NullObjectID, errors.Wrap(errors.Remote(status.String()), "Bridge", "Create", "create object")
	}

	if t == otai.ObjectTypeLinecard {
		b.mu.Lock()
		b.session = newSession(id, attrs)
		b.mu.Unlock()
		b.logger.Info("linecard session established", "id", id.String())
	}

	return id, nil
}

// Remove deletes an object on the remote agent. A successful linecard
// remove drops the session.
func (b *Bridge) Remove(ctx context.Context, t otai.ObjectType, id otai.ObjectID) error {
	if err := b.requireInitialized("Bridge", "Remove"); err != nil {
		return err
	}

	status, _, err := b.roundTrip(ctx, otai.ObjectKey(t, id), channel.OpRemove, nil)
	if err != nil {
		return err
	}
	if status != otai.StatusSuccess {
		return errors.Wrap(errors.Remote(status.String()), "Bridge", "Remove", "remove object")
	}

	if t == otai.ObjectTypeLinecard {
		b.mu.Lock()
		if b.session != nil && b.session.linecardID == id {
			b.session = nil
			b.logger.Info("linecard session dropped", "id", id.String())
		}
		b.mu.Unlock()
	}

	return nil
}

// Set writes one attribute. Attribute ids in the local extension range on
// the linecard type never reach the agent: the flush pseudo attribute
// drains the channel's outbound buffer and returns immediately. A
// successful remote set on the linecard updates the session's notification
// pointer table from the attribute.
func (b *Bridge) Set(ctx context.Context, t otai.ObjectType, id otai.ObjectID, attr otai.Attribute) error {
	if err := b.requireInitialized("Bridge", "Set"); err != nil {
		return err
	}

	if t == otai.ObjectTypeLinecard && attr.ID >= otai.CustomRangeStart {
		if attr.ID == otai.LinecardAttrFlush {
			return b.ch.Flush()
		}
		return errors.WrapInvalid(
			fmt.Errorf("%w: extension attribute %d", errors.ErrNotImplemented, attr.ID),
			"Bridge", "Set", "intercept local attribute")
	}

	fields, err := otai.EncodeAttrs(t, []otai.Attribute{attr}, false)
	if err != nil {
		return errors.WrapInvalid(err, "Bridge", "Set", "encode attribute")
	}

	status, _, err := b.roundTrip(ctx, otai.ObjectKey(t, id), channel.OpSet, fields)
	if err != nil {
		return err
	}
	if status != otai.StatusSuccess {
		return errors.Wrap(errors.Remote(status.String()), "Bridge", "Set", "set attribute")
	}

	if t == otai.ObjectTypeLinecard {
		b.mu.RLock()
		session := b.session
		b.mu.RUnlock()
		if session != nil && session.linecardID == id {
			if err := session.updateNotifications(attr); err != nil {
				b.logger.Warn("notification pointer not updated", "attr", attr.ID, "error", err)
			}
		}
	}

	return nil
}

// Get reads attributes into the caller's buffers. List lengths in attrs are
// capacity hints only; embedded identifier payloads are cleared before
// encoding so caller buffer garbage never reaches the wire. An undersized
// list buffer yields ErrBufferOverflow with required lengths stored in the
// attribute counts.
func (b *Bridge) Get(ctx context.Context, t otai.ObjectType, id otai.ObjectID, attrs []otai.Attribute) error {
	if err := b.requireInitialized("Bridge", "Get"); err != nil {
		return err
	}

	otai.ClearOIDValues(t, attrs)

	fields, err := otai.EncodeAttrs(t, attrs, true)
	if err != nil {
		return errors.WrapInvalid(err, "Bridge", "Get", "encode attributes")
	}

	status, respFields, err := b.roundTrip(ctx, otai.ObjectKey(t, id), channel.OpGet, fields)
	if err != nil {
		return err
	}

	switch status {
	case otai.StatusSuccess:
		if len(respFields) == 0 && len(attrs) > 0 {
			return errors.WrapFatal(
				fmt.Errorf("%w: success with no returned fields", errors.ErrProtocolDesync),
				"Bridge", "Get", "decode response")
		}
		decoded, err := otai.DecodeAttrs(t, respFields, false)
		if err != nil {
			return errors.WrapFatal(
				fmt.Errorf("%w: %v", errors.ErrProtocolDesync, err),
				"Bridge", "Get", "decode response")
		}
		return otai.TransferAttrs(t, decoded, attrs, false)

	case otai.StatusBufferOverflow:
		// The agent returns required lengths only; transfer the counts so
		// the caller can size the retry.
		decoded, err := otai.DecodeAttrs(t, respFields, true)
		if err != nil {
			return errors.WrapFatal(
				fmt.Errorf("%w: %v", errors.ErrProtocolDesync, err),
				"Bridge", "Get", "decode overflow response")
		}
		if err := otai.TransferAttrs(t, decoded, attrs, true); err != nil {
			return err
		}
		return errors.Overflow(maxListCount(attrs))

	default:
		return errors.Wrap(errors.Remote(status.String()), "Bridge", "Get", "get attributes")
	}
}

// GetStats reads counters. The response must carry exactly one value per
// requested counter in request order; any shape mismatch is protocol
// desynchronization, not a user error.
func (b *Bridge) GetStats(ctx context.Context, t otai.ObjectType, id otai.ObjectID, counterIDs []otai.StatID) ([]otai.StatValue, error) {
	if err := b.requireInitialized("Bridge", "GetStats"); err != nil {
		return nil, err
	}

	fields, err := otai.SerializeCounterIDs(t, counterIDs)
	if err != nil {
		return nil, errors.WrapInvalid(err, "Bridge", "GetStats", "encode counter ids")
	}

	status, respFields, err := b.roundTrip(ctx, otai.ObjectKey(t, id), channel.OpGetStats, fields)
	if err != nil {
		return nil, err
	}
	if status != otai.StatusSuccess {
		return nil, errors.Wrap(errors.Remote(status.String()), "Bridge", "GetStats", "read counters")
	}

	if len(respFields) != len(counterIDs) {
		return nil, errors.WrapFatal(
			fmt.Errorf("%w: got %d counter values, expected %d",
				errors.ErrProtocolDesync, len(respFields), len(counterIDs)),
			"Bridge", "GetStats", "match response shape")
	}

	values := make([]otai.StatValue, len(counterIDs))
	for i, statID := range counterIDs {
		info, err := otai.StatInfo(t, statID)
		if err != nil {
			return nil, errors.WrapInvalid(err, "Bridge", "GetStats", "resolve counter")
		}
		if respFields[i].Field != info.Name {
			return nil, errors.WrapFatal(
				fmt.Errorf("%w: counter %d is %q, expected %q",
					errors.ErrProtocolDesync, i, respFields[i].Field, info.Name),
				"Bridge", "GetStats", "match counter order")
		}
		values[i], err = otai.DecodeStatValue(t, statID, respFields[i].Value)
		if err != nil {
			return nil, errors.WrapFatal(
				fmt.Errorf("%w: %v", errors.ErrProtocolDesync, err),
				"Bridge", "GetStats", "decode counter value")
		}
	}

	return values, nil
}

// ClearStats resets counters on the remote agent.
func (b *Bridge) ClearStats(ctx context.Context, t otai.ObjectType, id otai.ObjectID, counterIDs []otai.StatID) error {
	if err := b.requireInitialized("Bridge", "ClearStats"); err != nil {
		return err
	}

	fields, err := otai.SerializeCounterIDs(t, counterIDs)
	if err != nil {
		return errors.WrapInvalid(err, "Bridge", "ClearStats", "encode counter ids")
	}

	status, _, err := b.roundTrip(ctx, otai.ObjectKey(t, id), channel.OpClearStats, fields)
	if err != nil {
		return err
	}
	if status != otai.StatusSuccess {
		return errors.Wrap(errors.Remote(status.String()), "Bridge", "ClearStats", "clear counters")
	}

	return nil
}

// GetStatsExt is reserved for mode-qualified counter reads.
func (b *Bridge) GetStatsExt(_ context.Context, _ otai.ObjectType, _ otai.ObjectID, _ []otai.StatID, _ string) ([]otai.StatValue, error) {
	return nil, errors.WrapInvalid(errors.ErrNotImplemented, "Bridge", "GetStatsExt", "extended statistics")
}

// hardwareInfo extracts the linecard hardware info creation attribute. An
// absent attribute maps to the empty string, which is still a stable key.
func hardwareInfo(attrs []otai.Attribute) string {
	for _, attr := range attrs {
		if attr.ID == otai.LinecardAttrHardwareInfo {
			return attr.Value.Str
		}
	}
	return ""
}

func maxListCount(attrs []otai.Attribute) uint32 {
	var max uint32
	for _, attr := range attrs {
		if attr.Value.OIDList.Count > max {
			max = attr.Value.OIDList.Count
		}
	}
	return max
}
