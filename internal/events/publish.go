package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/atelier-ai/styling-assistant/internal/model"
)

const (
	// StreamName is the name of the stylist events stream.
	StreamName = "STYLIST"

	// SubjectPrefix is the prefix for all stylist subjects.
	SubjectPrefix = "stylist"
)

// GenerationEvent marks the start or completion of a generation run.
type GenerationEvent struct {
	SessionID   string    `json:"session_id"`
	ScriptIndex int       `json:"script_index"`
	Outcome     string    `json:"outcome,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// MessageSubject returns the subject for a committed message.
func MessageSubject(sessionID string, role model.Role) string {
	return fmt.Sprintf("%s.%s.msg.%s", SubjectPrefix, sessionID, role)
}

// GenerationSubject returns the subject for a generation event.
func GenerationSubject(sessionID, phase string) string {
	return fmt.Sprintf("%s.%s.gen.%s", SubjectPrefix, sessionID, phase)
}

func (p *Publisher) ensureStream(ctx context.Context) error {
	_, err := p.js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	_, err = p.js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      7 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Styling assistant messages and generation events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	return nil
}

// MessageCommitted publishes a committed transcript message. Publishes
// asynchronously: commits must never block on the broker.
func (p *Publisher) MessageCommitted(msg *model.Message) {
	if p == nil || msg == nil {
		return
	}
	p.publish(MessageSubject(msg.SessionID, msg.Role), msg)
}

// GenerationStarted publishes the start of a generation run.
func (p *Publisher) GenerationStarted(sessionID string, scriptIndex int) {
	if p == nil {
		return
	}
	p.publish(GenerationSubject(sessionID, "started"), &GenerationEvent{
		SessionID:   sessionID,
		ScriptIndex: scriptIndex,
		CreatedAt:   time.Now(),
	})
}

// GenerationCompleted publishes the completion of a generation run.
// Outcome is "committed" or "orphaned".
func (p *Publisher) GenerationCompleted(sessionID string, scriptIndex int, outcome string) {
	if p == nil {
		return
	}
	p.publish(GenerationSubject(sessionID, "completed"), &GenerationEvent{
		SessionID:   sessionID,
		ScriptIndex: scriptIndex,
		Outcome:     outcome,
		CreatedAt:   time.Now(),
	})
}

func (p *Publisher) publish(subject string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		p.log.Error("failed to marshal event", zap.String("subject", subject), zap.Error(err))
		return
	}
	if _, err := p.js.PublishAsync(subject, data); err != nil {
		p.log.Error("failed to publish event", zap.String("subject", subject), zap.Error(err))
	}
}
