package notif

import (
	"encoding/json"
	"fmt"

	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

// Event names on the notification stream.
const (
	NameLinecardStateChange = "linecard_state_change"
	NameLinecardAlarm       = "linecard_alarm"
	NameOCMSpectrumPower    = "ocm_spectrum_power"
	NameOTDRResult          = "otdr_result"
)

// LinecardStateChange reports an operational status transition of the
// managed linecard.
type LinecardStateChange struct {
	LinecardID otai.ObjectID
	OperStatus string
}

func (n LinecardStateChange) Name() string            { return NameLinecardStateChange }
func (n LinecardStateChange) ObjectID() otai.ObjectID { return n.LinecardID }

func (n LinecardStateChange) Invoke(ps PointerSet) error {
	if ps.OnLinecardStateChange == nil {
		return fmt.Errorf("no handler registered for %s", n.Name())
	}
	ps.OnLinecardStateChange(n)
	return nil
}

// LinecardAlarm reports an alarm raised or cleared on the linecard.
type LinecardAlarm struct {
	LinecardID  otai.ObjectID
	Type        string
	Severity    string
	Text        string
	TimeCreated uint64
	Cleared     bool
}

func (n LinecardAlarm) Name() string            { return NameLinecardAlarm }
func (n LinecardAlarm) ObjectID() otai.ObjectID { return n.LinecardID }

func (n LinecardAlarm) Invoke(ps PointerSet) error {
	if ps.OnLinecardAlarm == nil {
		return fmt.Errorf("no handler registered for %s", n.Name())
	}
	ps.OnLinecardAlarm(n)
	return nil
}

// SpectrumSlice is one frequency slice of an OCM scan.
type SpectrumSlice struct {
	LowerFrequency uint64  `json:"lower_frequency"`
	UpperFrequency uint64  `json:"upper_frequency"`
	Power          float64 `json:"power"`
}

// OCMSpectrumPower carries one optical channel monitor scan.
type OCMSpectrumPower struct {
	OCMID    otai.ObjectID
	Spectrum []SpectrumSlice
}

func (n OCMSpectrumPower) Name() string            { return NameOCMSpectrumPower }
func (n OCMSpectrumPower) ObjectID() otai.ObjectID { return n.OCMID }

func (n OCMSpectrumPower) Invoke(ps PointerSet) error {
	if ps.OnOCMSpectrumPower == nil {
		return fmt.Errorf("no handler registered for %s", n.Name())
	}
	ps.OnOCMSpectrumPower(n)
	return nil
}

// OTDREvent is one reflection event detected along the fiber.
type OTDREvent struct {
	Type   string  `json:"type"`
	Length float64 `json:"length"`
	Loss   float64 `json:"loss"`
}

// OTDRResult carries the outcome of one OTDR scan.
type OTDRResult struct {
	OTDRID        otai.ObjectID
	ScanTime      uint64
	DistanceRange float64
	Events        []OTDREvent
}

func (n OTDRResult) Name() string            { return NameOTDRResult }
func (n OTDRResult) ObjectID() otai.ObjectID { return n.OTDRID }

func (n OTDRResult) Invoke(ps PointerSet) error {
	if ps.OnOTDRResult == nil {
		return fmt.Errorf("no handler registered for %s", n.Name())
	}
	ps.OnOTDRResult(n)
	return nil
}

// Wire payload shapes. Object ids travel in their serialized text form.

type linecardStateChangePayload struct {
	LinecardID string `json:"linecard_id"`
	OperStatus string `json:"oper_status"`
}

func decodeLinecardStateChange(data string, _ []otai.FieldValue) (Notification, error) {
	var p linecardStateChangePayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	id, err := otai.ParseObjectID(p.LinecardID)
	if err != nil {
		return nil, err
	}
	if p.OperStatus == "" {
		return nil, fmt.Errorf("missing oper_status")
	}
	return LinecardStateChange{LinecardID: id, OperStatus: p.OperStatus}, nil
}

type linecardAlarmPayload struct {
	LinecardID  string `json:"linecard_id"`
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	Text        string `json:"text"`
	TimeCreated uint64 `json:"time_created"`
	Cleared     bool   `json:"cleared"`
}

func decodeLinecardAlarm(data string, _ []otai.FieldValue) (Notification, error) {
	var p linecardAlarmPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	id, err := otai.ParseObjectID(p.LinecardID)
	if err != nil {
		return nil, err
	}
	return LinecardAlarm{
		LinecardID:  id,
		Type:        p.Type,
		Severity:    p.Severity,
		Text:        p.Text,
		TimeCreated: p.TimeCreated,
		Cleared:     p.Cleared,
	}, nil
}

type ocmSpectrumPowerPayload struct {
	OCMID    string          `json:"ocm_id"`
	Spectrum []SpectrumSlice `json:"spectrum"`
}

func decodeOCMSpectrumPower(data string, _ []otai.FieldValue) (Notification, error) {
	var p ocmSpectrumPowerPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	id, err := otai.ParseObjectID(p.OCMID)
	if err != nil {
		return nil, err
	}
	return OCMSpectrumPower{OCMID: id, Spectrum: p.Spectrum}, nil
}

type otdrResultPayload struct {
	OTDRID        string      `json:"otdr_id"`
	ScanTime      uint64      `json:"scan_time"`
	DistanceRange float64     `json:"distance_range"`
	Events        []OTDREvent `json:"events"`
}

func decodeOTDRResult(data string, _ []otai.FieldValue) (Notification, error) {
	var p otdrResultPayload
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, err
	}
	id, err := otai.ParseObjectID(p.OTDRID)
	if err != nil {
		return nil, err
	}
	return OTDRResult{
		OTDRID:        id,
		ScanTime:      p.ScanTime,
		DistanceRange: p.DistanceRange,
		Events:        p.Events,
	}, nil
}
