package bridge

import (
	"fmt"
	"sync"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/notif"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

// session is the live linecard context. At most one exists per bridge; it is
// created on a successful linecard create and dropped on remove or teardown.
// The dispatcher reads the pointer table through a snapshot, callers mutate
// it through Set, so access is guarded by the session mutex.
type session struct {
	linecardID otai.ObjectID

	mu       sync.Mutex
	pointers notif.PointerSet
}

func newSession(linecardID otai.ObjectID, attrs []otai.Attribute) *session {
	s := &session{linecardID: linecardID}
	for _, attr := range attrs {
		// Creation attributes may carry initial notification pointers.
		// Anything malformed is skipped; create already validated the list.
		_ = s.updateNotifications(attr)
	}
	return s
}

// updateNotifications mutates exactly the pointer named by the attribute id.
// Attributes outside the notification table are ignored.
func (s *session) updateNotifications(attr otai.Attribute) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch attr.ID {
	case otai.LinecardAttrStateChangeNotify:
		return assignPointer(&s.pointers.OnLinecardStateChange, attr.Value.Handler)
	case otai.LinecardAttrAlarmNotify:
		return assignPointer(&s.pointers.OnLinecardAlarm, attr.Value.Handler)
	case otai.LinecardAttrOCMSpectrumPowerNotify:
		return assignPointer(&s.pointers.OnOCMSpectrumPower, attr.Value.Handler)
	case otai.LinecardAttrOTDRResultNotify:
		return assignPointer(&s.pointers.OnOTDRResult, attr.Value.Handler)
	}
	return nil
}

// notifications returns a copy of the pointer table. The dispatcher invokes
// callbacks from the copy, outside any lock.
func (s *session) notifications() notif.PointerSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointers
}

func assignPointer[T any](dst *func(T), handler any) error {
	if handler == nil {
		*dst = nil
		return nil
	}
	fn, ok := handler.(func(T))
	if !ok {
		return fmt.Errorf("handler has type %T, expected %T", handler, *dst)
	}
	*dst = fn
	return nil
}
