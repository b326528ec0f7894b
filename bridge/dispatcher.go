package bridge

import (
	"context"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/channel"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/notif"
)

// Dispatch results recorded in metrics.
const (
	resultDispatched = "dispatched"
	resultDropped    = "dropped"
	resultError      = "error"
)

// handleEvent runs on the channel's delivery goroutine. Failures here are
// logged and dropped; they must never reach or crash a caller thread.
func (b *Bridge) handleEvent(_ context.Context, msg channel.EventMessage) {
	n, err := notif.Decode(msg.Name, msg.Data, msg.Fields)
	if err != nil {
		b.logger.Warn("dropping undecodable notification", "name", msg.Name, "error", err)
		b.recordNotification(msg.Name, resultDropped)
		return
	}

	b.mu.RLock()
	metaRef := b.metaRef
	session := b.session
	callback := b.callback
	b.mu.RUnlock()

	if metaRef == nil {
		b.logger.Warn("dropping notification, no metadata handle", "name", n.Name())
		b.recordNotification(n.Name(), resultDropped)
		return
	}
	meta := metaRef()
	if meta == nil {
		b.logger.Warn("dropping notification, metadata component gone", "name", n.Name())
		b.recordNotification(n.Name(), resultDropped)
		return
	}

	// Metadata processing mutates shared state, so it holds the same lock
	// as the caller-side round trips.
	b.apiMu.Lock()
	meta.ProcessNotification(n.Name(), n.ObjectID())
	b.apiMu.Unlock()

	linecardID := b.ids.LinecardIDOf(n.ObjectID())

	if session == nil || session.linecardID != linecardID {
		b.logger.Warn("no linecard session for notification, skipping dispatch",
			"name", n.Name(), "linecard", linecardID.String())
		b.recordNotification(n.Name(), resultDropped)
		return
	}

	pointers := session.notifications()
	if callback != nil {
		pointers = callback(n, pointers)
	}

	if err := n.Invoke(pointers); err != nil {
		b.logger.Warn("notification not delivered", "name", n.Name(), "error", err)
		b.recordNotification(n.Name(), resultError)
		return
	}

	b.recordNotification(n.Name(), resultDispatched)
}

func (b *Bridge) recordNotification(name, result string) {
	if b.metrics != nil {
		b.metrics.RecordNotification(name, result)
	}
}
