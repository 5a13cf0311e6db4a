package distrib

import (
	"encoding/json"
	"fmt"
	"time"
)

// MessageType represents the type of a pipeline message
type MessageType uint8

const (
	// MsgTask carries a sweep.Task from coordinator to worker
	MsgTask MessageType = iota

	// MsgResult carries a ResultPayload from worker to coordinator
	MsgResult
)

// Message is the base pipeline message
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Data      []byte      `json:"data,omitempty"`
}

// NewMessage creates a new message with the given type and data
func NewMessage(msgType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      msgType,
		Timestamp: time.Now().Unix(),
		Data:      dataBytes,
	}, nil
}

// Encode serializes the message for the wire
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// ParseMessage deserializes a wire message
func ParseMessage(data []byte) (*Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to parse message: %w", err)
	}
	return &msg, nil
}

// Decode decodes message data into the provided interface
func (m *Message) Decode(v any) error {
	return json.Unmarshal(m.Data, v)
}

// ResultPayload is the outcome a worker reports for one task.
type ResultPayload struct {
	TaskID          string    `json:"task_id"`
	Ordinal         int       `json:"ordinal"`
	WorkerID        string    `json:"worker_id"`
	BestFitness     float64   `json:"best_fitness"`
	Communities     [][]int64 `json:"communities,omitempty"`
	Generations     int       `json:"generation"`
	Seed            int64     `json:"seed"`
	DurationSeconds float64   `json:"duration_seconds"`
	Error           string    `json:"error,omitempty"`
}
