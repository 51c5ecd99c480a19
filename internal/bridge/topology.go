// Package bridge implements the broker request/reply protocol that
// lets sibling services query transaction data without a direct
// network call. Queues are Redis Streams; the bridge joins each request
// stream with a dedicated consumer group (at-least-once delivery),
// performs the matching query and publishes a tagged reply envelope to
// the caller-supplied reply-to stream, echoing the caller's correlation
// token.
package bridge

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"
)

// Well-known queue names. The request queues are consumed by this
// service; the companion response queues are declared for the calling
// services' benefit and never consumed here.
const (
	QueueAccountRequest  = "account-request"
	QueueAccountResponse = "account-response"
	QueueBudgetRequest   = "budget-request"
	QueueBudgetResponse  = "budget-response"
)

// Topology is the process-wide queue configuration, passed explicitly
// to the bridge constructor rather than scattered as string literals.
type Topology struct {
	// Group is the consumer-group name used on every request queue.
	Group string

	AccountRequestQueue  string
	AccountResponseQueue string
	BudgetRequestQueue   string
	BudgetResponseQueue  string
}

// DefaultTopology returns the well-known queue layout with the given
// consumer group.
func DefaultTopology(group string) Topology {
	return Topology{
		Group:                group,
		AccountRequestQueue:  QueueAccountRequest,
		AccountResponseQueue: QueueAccountResponse,
		BudgetRequestQueue:   QueueBudgetRequest,
		BudgetResponseQueue:  QueueBudgetResponse,
	}
}

// Declare creates the request-queue consumer groups and makes sure the
// response streams exist. Safe to call repeatedly: an already-existing
// group is not an error.
func (t Topology) Declare(ctx context.Context, client *goredis.Client) error {
	streams := []string{
		t.AccountRequestQueue,
		t.AccountResponseQueue,
		t.BudgetRequestQueue,
		t.BudgetResponseQueue,
	}
	for _, stream := range streams {
		err := client.XGroupCreateMkStream(ctx, stream, t.Group, "0").Err()
		if err != nil && !strings.Contains(err.Error(), "BUSYGROUP") {
			return fmt.Errorf("failed to declare queue %s: %w", stream, err)
		}
	}
	return nil
}
