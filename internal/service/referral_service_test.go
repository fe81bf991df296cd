package service

import (
	"errors"
	"fmt"
	"testing"

	"qipad/internal/domain"

	"gorm.io/gorm"
)

func TestReferralCreateErr(t *testing.T) {
	t.Run("duplicate key means already referred", func(t *testing.T) {
		if got := referralCreateErr(gorm.ErrDuplicatedKey); got != domain.ErrDuplicateReferral {
			t.Errorf("err = %v, want ErrDuplicateReferral", got)
		}
	})

	t.Run("wrapped duplicate key recognized", func(t *testing.T) {
		wrapped := fmt.Errorf("create referral: %w", gorm.ErrDuplicatedKey)
		if got := referralCreateErr(wrapped); got != domain.ErrDuplicateReferral {
			t.Errorf("err = %v, want ErrDuplicateReferral", got)
		}
	})

	t.Run("transient failure passes through", func(t *testing.T) {
		// A dropped connection must not be reported as "already referred".
		dbDown := errors.New("driver: bad connection")
		if got := referralCreateErr(dbDown); got != dbDown {
			t.Errorf("err = %v, want the original error", got)
		}
	})
}
