package events

import (
	"encoding/json"
	"time"
)

const (
	OpCreated Op = "created"
	OpUpdated Op = "updated"
	OpDeleted Op = "deleted"
)

type (
	// Op is the kind of mutation that happened to a transaction.
	Op string

	// MutationMessage tells downstream consumers that a transaction changed.
	// It carries only the id; consumers refetch the record from the API,
	// which stays the source of truth.
	MutationMessage struct {
		Op        Op        `json:"op"`
		ID        string    `json:"id"`
		Timestamp time.Time `json:"timestamp"`
	}
)

func NewMutationMessage(op Op, id string) *MutationMessage {
	return &MutationMessage{Op: op, ID: id, Timestamp: time.Now()}
}

func (m *MutationMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func MutationMessageFromJSON(data []byte) (*MutationMessage, error) {
	var msg MutationMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
