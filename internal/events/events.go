package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Event types emitted by the interview editor service.
const (
	EventQuestionSetSaved  = "question_set.saved"
	EventQuestionSetReset  = "question_set.reset"
	EventRolloutCompleted  = "question_set.rollout_completed"
	EventProfilesGenerated = "candidate.profiles_generated"
)

const eventSource = "interview-editor-service"

// TopicEditorEvents is the bus topic all editor events are published to.
const TopicEditorEvents = "interview-editor.events"

// Event is the envelope published to the message bus.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with a fresh ID and timestamp.
func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Version:   "1.0",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher publishes editor events to the message bus.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close() error
}

// QuestionSetSavedEvent is emitted after a successful save.
type QuestionSetSavedEvent struct {
	QuestionSetID string `json:"questionSetId"`
	JobID         string `json:"jobId"`
	CandidateID   string `json:"candidateId"`
	SectionCount  int    `json:"sectionCount"`
	QuestionCount int    `json:"questionCount"`
}

// RolloutCompletedEvent is emitted after an apply-to-all finishes.
type RolloutCompletedEvent struct {
	JobID      string `json:"jobId"`
	Successful int    `json:"successful"`
	Failed     int    `json:"failed"`
	Skipped    int    `json:"skipped"`
}

// QuestionSetResetEvent is emitted after a candidate's set is deleted.
type QuestionSetResetEvent struct {
	JobID       string `json:"jobId"`
	CandidateID string `json:"candidateId"`
}

// ProfilesGeneratedEvent is emitted after a background profile batch run.
type ProfilesGeneratedEvent struct {
	Requested int `json:"requested"`
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// watermillPublisher adapts any watermill publisher to EventPublisher.
type watermillPublisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

func (p *watermillPublisher) Publish(ctx context.Context, topic string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.Metadata.Set("source", event.Source)

	if err := p.publisher.Publish(topic, msg); err != nil {
		p.logger.Error("failed to publish event", "topic", topic, "event_type", event.Type, "error", err)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event published", "topic", topic, "event_type", event.Type, "event_id", event.ID)
	return nil
}

func (p *watermillPublisher) Close() error {
	return p.publisher.Close()
}

// NewKafkaEventPublisher creates a Kafka-backed publisher.
func NewKafkaEventPublisher(brokers []string, logger *slog.Logger) (EventPublisher, error) {
	publisher, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:   brokers,
			Marshaler: kafka.DefaultMarshaler{},
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
	}

	return &watermillPublisher{publisher: publisher, logger: logger}, nil
}

// NewLocalEventPublisher creates an in-process publisher for deployments
// without Kafka.
func NewLocalEventPublisher(logger *slog.Logger) EventPublisher {
	publisher := gochannel.NewGoChannel(
		gochannel.Config{},
		watermill.NewSlogLogger(logger),
	)

	return &watermillPublisher{publisher: publisher, logger: logger}
}

// MockEventPublisher records events for tests.
type MockEventPublisher struct {
	mu     sync.Mutex
	events []Event
	logger *slog.Logger
}

func NewMockEventPublisher(logger *slog.Logger) *MockEventPublisher {
	return &MockEventPublisher{logger: logger}
}

func (m *MockEventPublisher) Publish(ctx context.Context, topic string, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockEventPublisher) Close() error { return nil }

// GetPublishedEvents returns a copy of everything published so far.
func (m *MockEventPublisher) GetPublishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// ClearEvents resets the recorded events.
func (m *MockEventPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
