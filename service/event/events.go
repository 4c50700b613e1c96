package event

// Domain event payloads published by the engine. Each type gets its own
// typed queue via PublisherOf; the untyped "any" queue sees every event.

// TokenMinted is published when the treasury mints new supply.
type TokenMinted struct {
	Amount    uint64 `json:"amount"`
	Recipient string `json:"recipient,omitempty"`
}

// TokenBurned is published when the treasury retires supply directly.
type TokenBurned struct {
	Amount uint64 `json:"amount"`
}

// Confirmation paths as recorded on RequestConfirmed events.
const (
	PathRules       = "rules"
	PathPolicyCap   = "policy_cap"
	PathTreasuryCap = "treasury_cap"
)

// RequestConfirmed is published when any confirmation path consumes an
// action request.
type RequestConfirmed struct {
	Action    string `json:"action"`
	Amount    uint64 `json:"amount"`
	Initiator string `json:"initiator"`
	Recipient string `json:"recipient,omitempty"`
	Path      string `json:"path"`
	Settled   uint64 `json:"settled,omitempty"`
}

// Changes recorded on PolicyUpdated events.
const (
	ChangeAllow      = "allow"
	ChangeDisallow   = "disallow"
	ChangeAddRule    = "add_rule"
	ChangeRemoveRule = "remove_rule"
	ChangeDocument   = "document_applied"
)

// PolicyUpdated is published on every policy administration call.
type PolicyUpdated struct {
	Policy string `json:"policy"`
	Action string `json:"action"`
	Rule   string `json:"rule,omitempty"`
	Change string `json:"change"`
}

// SpentFlushed is published when the issuer drains the spent ledger.
type SpentFlushed struct {
	Policy string `json:"policy"`
	Amount uint64 `json:"amount"`
}
