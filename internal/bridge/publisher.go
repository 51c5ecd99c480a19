package bridge

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// ReplyPublisher publishes reply envelopes to caller-supplied reply-to
// streams, stamping each message with the caller's correlation token.
type ReplyPublisher struct {
	client *goredis.Client
}

func NewReplyPublisher(client *goredis.Client) *ReplyPublisher {
	return &ReplyPublisher{client: client}
}

// SendReply serializes the envelope and appends it to the replyTo
// stream. The correlation token travels as message metadata, echoed
// unmodified so the caller can match response to request.
func (p *ReplyPublisher) SendReply(ctx context.Context, replyTo, correlationID string, envelope ReplyEnvelope) error {
	payload, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal reply: %w", err)
	}

	args := &goredis.XAddArgs{
		Stream: replyTo,
		Values: map[string]any{
			fieldCorrelationID: correlationID,
			fieldPayload:       payload,
		},
	}
	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish reply to %s: %w", replyTo, err)
	}
	return nil
}
