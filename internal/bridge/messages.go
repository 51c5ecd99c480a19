package bridge

import (
	"fmt"
	"strconv"

	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/models"
)

// Stream field names carried on every request and reply message.
const (
	fieldUserID        = "userId"
	fieldCorrelationID = "correlationId"
	fieldReplyTo       = "replyTo"
	fieldPayload       = "payload"
)

// ReplyStatus tags the outcome carried by a reply envelope. A caller
// always receives a reply; absence of one means the message itself was
// lost, never that the lookup failed.
type ReplyStatus string

const (
	ReplyStatusOK       ReplyStatus = "ok"
	ReplyStatusNotFound ReplyStatus = "not_found"
	ReplyStatusError    ReplyStatus = "error"
)

// ReplyEnvelope is the JSON payload published to the caller's reply-to
// queue. Transactions is present only when Status is ok.
type ReplyEnvelope struct {
	Status       ReplyStatus          `json:"status"`
	Message      string               `json:"message,omitempty"`
	Transactions []models.Transaction `json:"transactions,omitempty"`
}

// request is a parsed inbound query message.
type request struct {
	UserID        int
	CorrelationID string
	ReplyTo       string
}

// parseRequest extracts the payload and transport metadata from a
// stream message's field map.
func parseRequest(values map[string]any) (request, error) {
	rawUserID, ok := values[fieldUserID].(string)
	if !ok {
		return request{}, fmt.Errorf("missing %s field", fieldUserID)
	}
	userID, err := strconv.Atoi(rawUserID)
	if err != nil {
		return request{}, fmt.Errorf("invalid %s %q", fieldUserID, rawUserID)
	}

	correlationID, ok := values[fieldCorrelationID].(string)
	if !ok || correlationID == "" {
		return request{}, fmt.Errorf("missing %s field", fieldCorrelationID)
	}
	replyTo, ok := values[fieldReplyTo].(string)
	if !ok || replyTo == "" {
		return request{}, fmt.Errorf("missing %s field", fieldReplyTo)
	}

	return request{UserID: userID, CorrelationID: correlationID, ReplyTo: replyTo}, nil
}
