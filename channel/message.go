package channel

import (
	"github.com/zhengweitang-zwt/sonic-otn-laireds/otai"
)

// Op tags the kind of command a message carries.
type Op string

// Command kinds understood by the remote agent.
const (
	OpCreate     Op = "create"
	OpRemove     Op = "remove"
	OpSet        Op = "set"
	OpGet        Op = "get"
	OpGetStats   Op = "get-stats"
	OpClearStats Op = "clear-stats"
)

// Valid reports whether op is one of the defined command kinds.
func (o Op) Valid() bool {
	switch o {
	case OpCreate, OpRemove, OpSet, OpGet, OpGetStats, OpClearStats:
		return true
	}
	return false
}

// CommandMessage is the outbound wire form of one command. Key follows the
// "<objectType>:<serializedObjectId>" pattern.
type CommandMessage struct {
	Key    string            `json:"key"`
	Op     Op                `json:"op"`
	Fields []otai.FieldValue `json:"fields"`
}

// ResponseMessage is the inbound wire form of one response. Status carries
// the textual status name.
type ResponseMessage struct {
	Status string            `json:"status"`
	Fields []otai.FieldValue `json:"fields"`
}

// EventMessage is an unsolicited notification from the agent. Name selects
// the event category, Data carries the category-specific payload, Fields
// carry any auxiliary pairs.
type EventMessage struct {
	Name   string            `json:"name"`
	Data   string            `json:"data"`
	Fields []otai.FieldValue `json:"fields"`
}
