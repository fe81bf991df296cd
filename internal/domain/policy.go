package domain

// Credit actions that cost QP. The cost table is the single source of truth
// for both the affordability check and the deduction - the literals must not
// be duplicated at call sites.
const (
	ActionInnovation = "innovation"
	ActionJob        = "job"
	ActionEvent      = "event"
	ActionCompany    = "company"
)

var creditCostsQP = map[string]int64{
	ActionInnovation: 100,
	ActionJob:        50,
	ActionEvent:      25,
	ActionCompany:    200,
}

// CostPaise returns the cost of an action in paise.
// The second return is false for actions not in the policy table.
func CostPaise(action string) (int64, bool) {
	qp, ok := creditCostsQP[action]
	if !ok {
		return 0, false
	}
	return qp * PaisePerQP, true
}

// Affordability is the structured result of a credit check.
type Affordability struct {
	HasEnoughCredits bool  `json:"has_enough_credits"`
	CurrentBalance   int64 `json:"current_balance_paise"`
	Cost             int64 `json:"cost_paise"`
	Shortfall        int64 `json:"shortfall_paise"`
}

// CheckAffordability compares a balance against an action cost.
// Pure; callers resolve the balance first.
func CheckAffordability(balancePaise, costPaise int64) Affordability {
	a := Affordability{CurrentBalance: balancePaise, Cost: costPaise}
	if balancePaise >= costPaise {
		a.HasEnoughCredits = true
	} else {
		a.Shortfall = costPaise - balancePaise
	}
	return a
}
