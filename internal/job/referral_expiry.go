package job

import (
	"context"
	"log"
	"time"

	"qipad/internal/service"
)

// ReferralExpirySweep marks referrals that stayed PENDING past the window
// as EXPIRED so late qualifying events can no longer pay out.
type ReferralExpirySweep struct {
	referrals *service.ReferralService
	interval  time.Duration
}

func NewReferralExpirySweep(referrals *service.ReferralService) *ReferralExpirySweep {
	return &ReferralExpirySweep{referrals: referrals, interval: time.Hour}
}

func (s *ReferralExpirySweep) Run(ctx context.Context) {
	log.Printf("[referral-sweep] started, interval=%s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("[referral-sweep] stopped")
			return
		case <-ticker.C:
			n, err := s.referrals.ExpireStale()
			if err != nil {
				log.Printf("[referral-sweep] %v", err)
				continue
			}
			if n > 0 {
				log.Printf("[referral-sweep] expired %d referrals", n)
			}
		}
	}
}
