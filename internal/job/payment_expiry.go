package job

import (
	"context"
	"log"
	"time"

	"qipad/internal/service"
)

// PaymentExpirySweep expires abandoned PENDING payments so half-finished
// checkouts do not linger as settleable transactions.
type PaymentExpirySweep struct {
	payments *service.PaymentService
	interval time.Duration
	batch    int
}

func NewPaymentExpirySweep(payments *service.PaymentService) *PaymentExpirySweep {
	return &PaymentExpirySweep{payments: payments, interval: 10 * time.Minute, batch: 200}
}

func (s *PaymentExpirySweep) Run(ctx context.Context) {
	log.Printf("[payment-sweep] started, interval=%s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[payment-sweep] stopped")
			return
		case <-ticker.C:
			n, err := s.payments.ExpireStale(s.batch)
			if err != nil {
				log.Printf("[payment-sweep] %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[payment-sweep] expired %d payments", n)
			}
		}
	}
}
