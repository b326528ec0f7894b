package notif

import (
	"fmt"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/errors"
	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

// PointerSet is the callback table for user-facing dispatch. A nil entry
// means the caller never registered for that category.
type PointerSet struct {
	OnLinecardStateChange func(LinecardStateChange)
	OnLinecardAlarm       func(LinecardAlarm)
	OnOCMSpectrumPower    func(OCMSpectrumPower)
	OnOTDRResult          func(OTDRResult)
}

// Notification is one decoded event from the remote agent. ObjectID returns
// the embedded identifier used to resolve the owning linecard; Invoke runs
// the matching callback from the pointer set.
type Notification interface {
	Name() string
	ObjectID() otai.ObjectID
	Invoke(ps PointerSet) error
}

// decodeFunc turns one raw event payload into a typed notification.
type decodeFunc func(data string, fields []otai.FieldValue) (Notification, error)

var registry = map[string]decodeFunc{
	NameLinecardStateChange: decodeLinecardStateChange,
	NameLinecardAlarm:       decodeLinecardAlarm,
	NameOCMSpectrumPower:    decodeOCMSpectrumPower,
	NameOTDRResult:          decodeOTDRResult,
}

// Decode resolves the event name against the registry and decodes the
// payload. Unknown names return ErrUnknownNotification; the dispatcher
// drops those with a warning rather than failing.
func Decode(name, data string, fields []otai.FieldValue) (Notification, error) {
	decode, ok := registry[name]
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: %q", errors.ErrUnknownNotification, name),
			"notif", "Decode", "resolve event name")
	}

	n, err := decode(data, fields)
	if err != nil {
		return nil, errors.WrapInvalid(err, "notif", "Decode", fmt.Sprintf("decode %s payload", name))
	}
	return n, nil
}
