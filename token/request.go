package token

import (
	"sort"

	"github.com/viant/clasp/rule"
)

// Built-in action names. Custom issuer-defined actions use their own names
// via NewRequest.
const (
	ActionTransfer = "transfer"
	ActionSpend    = "spend"
	ActionToCoin   = "to_coin"
	ActionFromCoin = "from_coin"
)

// ActionRequest is the short-lived protocol object that represents "action X
// with these parameters is in progress and needs authorization". Rules stamp
// approvals onto it, then exactly one confirmation path consumes it. A
// request that is never consumed fails the enclosing unit of work - see
// Guard.
type ActionRequest struct {
	action    string
	amount    uint64
	initiator string
	recipient string
	spent     *Balance
	approvals map[string]struct{}
	consumed  bool
}

// NewRequest creates a request snapshotting the essential parameters of an
// action. The built-in entry points call it internally; issuers use it
// directly for custom actions. An empty recipient means the action has none.
func NewRequest(action string, amount uint64, initiator, recipient string) *ActionRequest {
	return &ActionRequest{
		action:    action,
		amount:    amount,
		initiator: initiator,
		recipient: recipient,
		approvals: make(map[string]struct{}),
	}
}

// Action returns the action name.
func (r *ActionRequest) Action() string { return r.action }

// Amount returns the amount snapshot taken when the request was created.
func (r *ActionRequest) Amount() uint64 { return r.amount }

// Initiator returns the address that started the action.
func (r *ActionRequest) Initiator() string { return r.initiator }

// Recipient returns the recipient address and whether one is present.
func (r *ActionRequest) Recipient() (string, bool) {
	return r.recipient, r.recipient != ""
}

// HasSpent reports whether the request carries value pending settlement.
func (r *ActionRequest) HasSpent() bool { return r.spent != nil }

// SpentValue returns the amount pending settlement, zero when none.
func (r *ActionRequest) SpentValue() uint64 { return r.spent.Value() }

// Approvals returns the rule identities stamped so far, sorted for
// deterministic inspection.
func (r *ActionRequest) Approvals() []string {
	keys := make([]string, 0, len(r.approvals))
	for key := range r.approvals {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// HasApproval reports whether the rule identified by key has stamped the
// request.
func (r *ActionRequest) HasApproval(key string) bool {
	_, ok := r.approvals[key]
	return ok
}

// AddApproval stamps the witness's rule identity onto the request. The
// witness value itself is the authorization: only code that can produce a
// value of the rule's type can stamp that rule's approval. Stamping twice
// has no additional effect.
func (r *ActionRequest) AddApproval(witness interface{}) error {
	if r.consumed {
		return ErrRequestConsumed
	}
	r.approvals[rule.Key(witness)] = struct{}{}
	return nil
}

// Consumed reports whether a confirmation path already resolved the request.
func (r *ActionRequest) Consumed() bool { return r.consumed }

// ExtractSpent removes and returns the pending balance. It fails with
// ErrNoPendingBalance when the request carries none.
func (r *ActionRequest) ExtractSpent() (*Balance, error) {
	if r.consumed {
		return nil, ErrRequestConsumed
	}
	if r.spent == nil {
		return nil, ErrNoPendingBalance
	}
	spent := r.spent
	r.spent = nil
	return spent, nil
}

// Finish marks the request consumed and returns the receipt with the action
// metadata. It fails when the request was already consumed or still carries
// a pending balance no confirmation path settled.
func (r *ActionRequest) Finish() (*Receipt, error) {
	if r.consumed {
		return nil, ErrRequestConsumed
	}
	if r.spent != nil {
		return nil, ErrPendingBalance
	}
	r.consumed = true
	return &Receipt{
		Action:    r.action,
		Amount:    r.amount,
		Initiator: r.initiator,
		Recipient: r.recipient,
	}, nil
}

// Receipt carries the action metadata returned by a successful confirmation.
type Receipt struct {
	Action    string `json:"action"`
	Amount    uint64 `json:"amount"`
	Initiator string `json:"initiator"`
	Recipient string `json:"recipient,omitempty"`
}
