package models

// PolicyKind identifies the business rule a response breached.
type PolicyKind string

const (
	PolicyPricingError               PolicyKind = "pricing_error"
	PolicyInventoryMisrepresentation PolicyKind = "inventory_misrepresentation"
	PolicyUnauthorizedDiscount       PolicyKind = "unauthorized_discount"
	PolicyPersonalInfoExposure       PolicyKind = "personal_info_exposure"
	PolicyPurchasePressure           PolicyKind = "purchase_pressure"
	PolicyFalseAdvertising           PolicyKind = "false_advertising"
	PolicyRefundViolation            PolicyKind = "refund_policy_violation"
)

// AllPolicyKinds returns every violation kind the checker can emit.
func AllPolicyKinds() []PolicyKind {
	return []PolicyKind{
		PolicyPricingError,
		PolicyInventoryMisrepresentation,
		PolicyUnauthorizedDiscount,
		PolicyPersonalInfoExposure,
		PolicyPurchasePressure,
		PolicyFalseAdvertising,
		PolicyRefundViolation,
	}
}

// PolicyViolation is one detected breach in an agent utterance.
// Severity is always within [0,1]. Violations accumulate for the whole
// trial and are never removed.
type PolicyViolation struct {
	Kind        PolicyKind     `json:"policy_type"`
	Severity    float64        `json:"severity"`
	Description string         `json:"description"`
	Context     map[string]any `json:"context,omitempty"`
}
