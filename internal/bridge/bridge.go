package bridge

import (
	"context"
	"fmt"
	"time"

	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/cqrs"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/errs"
	"github.com/My-Budget-Buddy/Budget-Buddy-TransactionService/internal/models"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	readBatchSize = 10
	readBlock     = 5 * time.Second
)

// TransactionQuerier defines the read operations the bridge maps
// inbound requests onto.
type TransactionQuerier interface {
	GetTransactionsByUser(ctx context.Context, q cqrs.GetTransactionsByUserQuery) ([]models.Transaction, error)
	GetTransactionsExcludingIncome(ctx context.Context, q cqrs.GetTransactionsExcludingIncomeQuery) ([]models.Transaction, error)
}

// ReplySender publishes a reply envelope to a caller-supplied queue.
type ReplySender interface {
	SendReply(ctx context.Context, replyTo, correlationID string, envelope ReplyEnvelope) error
}

// Bridge consumes query requests from the account and budget request
// queues and replies on the queue each message names. Handlers are pure
// reads, so redelivery of the same message is harmless.
type Bridge struct {
	client   *goredis.Client
	topology Topology
	consumer string
	queries  TransactionQuerier
	replies  ReplySender
	log      *logrus.Logger
}

func New(client *goredis.Client, topology Topology, queries TransactionQuerier, replies ReplySender, log *logrus.Logger) *Bridge {
	return &Bridge{
		client:   client,
		topology: topology,
		// Unique per process so replicas can share the consumer group.
		consumer: fmt.Sprintf("%s-%s", topology.Group, uuid.NewString()),
		queries:  queries,
		replies:  replies,
		log:      log,
	}
}

// Start declares the topology and runs one listener per request queue
// until ctx is cancelled.
func (b *Bridge) Start(ctx context.Context) error {
	if err := b.topology.Declare(ctx, b.client); err != nil {
		return err
	}

	go b.listen(ctx, b.topology.AccountRequestQueue, b.handleAccountRequest)
	go b.listen(ctx, b.topology.BudgetRequestQueue, b.handleBudgetRequest)

	b.log.WithFields(logrus.Fields{
		"group":    b.topology.Group,
		"consumer": b.consumer,
	}).Info("bridge started")
	return nil
}

type queryFunc func(ctx context.Context, userID int) ([]models.Transaction, error)

func (b *Bridge) handleAccountRequest(ctx context.Context, userID int) ([]models.Transaction, error) {
	return b.queries.GetTransactionsByUser(ctx, cqrs.GetTransactionsByUserQuery{UserID: userID})
}

func (b *Bridge) handleBudgetRequest(ctx context.Context, userID int) ([]models.Transaction, error) {
	return b.queries.GetTransactionsExcludingIncome(ctx, cqrs.GetTransactionsExcludingIncomeQuery{UserID: userID})
}

func (b *Bridge) listen(ctx context.Context, queue string, handle queryFunc) {
	log := b.log.WithField("queue", queue)
	log.Info("listening for requests")

	for {
		select {
		case <-ctx.Done():
			log.Info("listener stopping")
			return
		default:
			if err := b.readMessages(ctx, queue, handle); err != nil {
				log.WithError(err).Error("failed to read messages")
				time.Sleep(time.Second)
			}
		}
	}
}

func (b *Bridge) readMessages(ctx context.Context, queue string, handle queryFunc) error {
	streams, err := b.client.XReadGroup(ctx, &goredis.XReadGroupArgs{
		Group:    b.topology.Group,
		Consumer: b.consumer,
		Streams:  []string{queue, ">"},
		Count:    readBatchSize,
		Block:    readBlock,
	}).Result()

	if err == goredis.Nil {
		return nil // No messages
	}
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("failed to read from %s: %w", queue, err)
	}

	for _, stream := range streams {
		for _, message := range stream.Messages {
			if err := b.processMessage(ctx, queue, message, handle); err != nil {
				// Leave unacked; the transport will redeliver.
				b.log.WithError(err).WithFields(logrus.Fields{
					"queue":   queue,
					"message": message.ID,
				}).Error("failed to process request")
				continue
			}
			if err := b.client.XAck(ctx, queue, b.topology.Group, message.ID).Err(); err != nil {
				b.log.WithError(err).WithFields(logrus.Fields{
					"queue":   queue,
					"message": message.ID,
				}).Warn("failed to ack message")
			}
		}
	}
	return nil
}

// processMessage handles one inbound request end to end. A malformed
// message is logged and dropped (there is nowhere to reply to); every
// well-formed request gets exactly one reply envelope.
func (b *Bridge) processMessage(ctx context.Context, queue string, message goredis.XMessage, handle queryFunc) error {
	req, err := parseRequest(message.Values)
	if err != nil {
		b.log.WithError(err).WithFields(logrus.Fields{
			"queue":   queue,
			"message": message.ID,
		}).Warn("dropping malformed request")
		return nil
	}

	transactions, err := handle(ctx, req.UserID)
	envelope := buildEnvelope(transactions, err)

	if err := b.replies.SendReply(ctx, req.ReplyTo, req.CorrelationID, envelope); err != nil {
		return err
	}

	b.log.WithFields(logrus.Fields{
		"queue":         queue,
		"userId":        req.UserID,
		"correlationId": req.CorrelationID,
		"replyTo":       req.ReplyTo,
		"status":        envelope.Status,
	}).Info("request handled")
	return nil
}

// buildEnvelope classifies a query outcome into a tagged reply. The
// caller always hears back, even when the lookup found nothing.
func buildEnvelope(transactions []models.Transaction, err error) ReplyEnvelope {
	switch {
	case err == nil:
		return ReplyEnvelope{Status: ReplyStatusOK, Transactions: transactions}
	case errs.IsNotFound(err):
		return ReplyEnvelope{Status: ReplyStatusNotFound, Message: err.Error()}
	default:
		return ReplyEnvelope{Status: ReplyStatusError, Message: "failed to query transactions"}
	}
}
