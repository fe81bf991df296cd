package domain

const (
	RoleEntrepreneur = "ENTREPRENEUR"
	RoleInvestor     = "INVESTOR"
)

// Ledger entry types. Positive amounts are credits, negative are debits.
const (
	LedgerTypeDeposit       = "DEPOSIT"
	LedgerTypeEarn          = "EARN"
	LedgerTypeReferralBonus = "REFERRAL_BONUS"
	LedgerTypeSpend         = "SPEND"
	LedgerTypeRefund        = "REFUND"
)

const (
	PaymentPurposeDeposit             = "DEPOSIT"
	PaymentPurposeEventRegistration   = "EVENT_REGISTRATION"
	PaymentPurposeInvestment          = "INVESTMENT"
	PaymentPurposeCompanyRegistration = "COMPANY_REGISTRATION"
)

const (
	PaymentStatusPending   = "PENDING"
	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusExpired   = "EXPIRED"
)

const (
	ReferralStatusPending  = "PENDING"
	ReferralStatusCredited = "CREDITED"
	ReferralStatusExpired  = "EXPIRED"
)

const (
	InvestmentTypeInvest  = "INVEST"
	InvestmentTypeSupport = "SUPPORT"
)

const (
	InvestmentStatusPending   = "PENDING"
	InvestmentStatusCompleted = "COMPLETED"
	InvestmentStatusFailed    = "FAILED"
)

const (
	ProjectStatusOpen   = "OPEN"
	ProjectStatusFunded = "FUNDED"
	ProjectStatusClosed = "CLOSED"
)

const (
	RegistrationStatusPending   = "PENDING"
	RegistrationStatusConfirmed = "CONFIRMED"
	RegistrationStatusFailed    = "FAILED"
)

const (
	CompanyStatusPendingPayment = "PENDING_PAYMENT"
	CompanyStatusActive         = "ACTIVE"
)

const (
	JobStatusOpen   = "OPEN"
	JobStatusClosed = "CLOSED"
)

// One QP (Qipad Point) equals one rupee; amounts are stored in paise.
const PaisePerQP int64 = 100

// PlatformFeePercent is charged on investments and support, collected
// out-of-band (trust-based), never auto-deducted from the wallet.
const PlatformFeePercent = 2

// Setting keys (system_settings table).
const (
	SettingJoiningBonusQP     = "joining_bonus_qp"     // granted to every new user
	SettingReferredTopUpQP    = "referred_top_up_qp"   // extra bonus when signed up with a code
	SettingReferrerBonusQP    = "referrer_bonus_qp"    // paid once the referred user qualifies
	SettingReferralExpiryDays = "referral_expiry_days" // pending referrals expire after this
	SettingPaymentExpiryHours = "payment_expiry_hours" // abandoned PENDING payments expire after this
	SettingCompanyRegFeeQP    = "company_registration_fee_qp"
)
