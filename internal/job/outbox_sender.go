package job

import (
	"context"
	"log"
	"time"

	"qipad/internal/mq"
	"qipad/internal/repository"
)

// OutboxSender drains PENDING outbox messages to Kafka. Messages that keep
// failing are parked as FAILED after maxRetries so one bad payload cannot
// wedge the queue.
type OutboxSender struct {
	outbox     *repository.OutboxRepository
	producer   *mq.Producer
	interval   time.Duration
	batchSize  int
	maxRetries int
}

func NewOutboxSender(outbox *repository.OutboxRepository, producer *mq.Producer, maxRetries int) *OutboxSender {
	return &OutboxSender{
		outbox:     outbox,
		producer:   producer,
		interval:   5 * time.Second,
		batchSize:  100,
		maxRetries: maxRetries,
	}
}

func (s *OutboxSender) Run(ctx context.Context) {
	log.Printf("[outbox] sender started, interval=%s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[outbox] sender stopped")
			return
		case <-ticker.C:
			s.drain()
		}
	}
}

func (s *OutboxSender) drain() {
	msgs, err := s.outbox.ListPending(s.batchSize)
	if err != nil {
		log.Printf("[outbox] list pending: %v", err)
		return
	}
	for i := range msgs {
		msg := &msgs[i]
		if err := s.producer.Send(msg.Topic, msg.MessageKey, msg.Payload); err != nil {
			log.Printf("[outbox] send id=%d topic=%s: %v", msg.ID, msg.Topic, err)
			if err := s.outbox.IncrementRetry(msg.ID); err != nil {
				log.Printf("[outbox] increment retry id=%d: %v", msg.ID, err)
				continue
			}
			if msg.RetryCount+1 >= s.maxRetries {
				if err := s.outbox.MarkFailed(msg.ID); err != nil {
					log.Printf("[outbox] mark failed id=%d: %v", msg.ID, err)
				}
			}
			continue
		}
		if err := s.outbox.MarkSent(msg.ID); err != nil {
			log.Printf("[outbox] mark sent id=%d: %v", msg.ID, err)
		}
	}
}
