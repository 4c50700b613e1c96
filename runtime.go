package clasp

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/viant/clasp/internal/clock"
	"github.com/viant/clasp/internal/idgen"
	"github.com/viant/clasp/policy"
	"github.com/viant/clasp/progress"
	"github.com/viant/clasp/service/dao"
	"github.com/viant/clasp/service/dao/document"
	"github.com/viant/clasp/service/event"
	"github.com/viant/clasp/token"
	"github.com/viant/clasp/tracing"
)

// ConfirmationRecord is the audit entry stored for every confirmed request.
type ConfirmationRecord struct {
	ID        string         `json:"id"`
	Receipt   *token.Receipt `json:"receipt"`
	Path      string         `json:"path"`
	Settled   uint64         `json:"settled,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Runtime holds the live engine state and exposes every token and policy
// operation. All mutating calls record spans and publish domain events.
type Runtime struct {
	treasury      *token.TreasuryCap
	policy        *policy.Policy
	adminCap      *policy.AdminCap
	guard         *token.Guard
	documents     *document.Service
	events        *event.Service
	confirmations dao.Service[string, ConfirmationRecord]
	progress      *progress.Progress
}

// Treasury returns the treasury capability.
func (r *Runtime) Treasury() *token.TreasuryCap { return r.treasury }

// Policy returns the engine policy.
func (r *Runtime) Policy() *policy.Policy { return r.policy }

// AdminCap returns the policy admin capability.
func (r *Runtime) AdminCap() *policy.AdminCap { return r.adminCap }

// Guard returns the open-request tracker.
func (r *Runtime) Guard() *token.Guard { return r.guard }

// Confirmations returns the confirmation audit store.
func (r *Runtime) Confirmations() dao.Service[string, ConfirmationRecord] {
	return r.confirmations
}

// Progress returns the engine request counters.
func (r *Runtime) Progress() *progress.Progress {
	return r.progress
}

// ---------------------------------------------------------------------------
// Supply operations
// ---------------------------------------------------------------------------

// Mint creates new tokens against the treasury supply.
func (r *Runtime) Mint(ctx context.Context, amount uint64, recipient string) (*token.Token, error) {
	ctx, span := tracing.StartSpan(ctx, "treasury.mint", "INTERNAL")
	t, err := r.treasury.Mint(amount)
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	publishTyped(ctx, r, "", "TokenMinted", event.TokenMinted{Amount: amount, Recipient: recipient})
	return t, nil
}

// Burn retires a token directly against the treasury, no request involved.
func (r *Runtime) Burn(ctx context.Context, t *token.Token) (uint64, error) {
	ctx, span := tracing.StartSpan(ctx, "treasury.burn", "INTERNAL")
	amount, err := r.treasury.Burn(t)
	tracing.EndSpan(span, err)
	if err != nil {
		return 0, err
	}
	publishTyped(ctx, r, "", "TokenBurned", event.TokenBurned{Amount: amount})
	return amount, nil
}

// ---------------------------------------------------------------------------
// Request creation
// ---------------------------------------------------------------------------

// Transfer turns the whole token into a pending transfer request. The
// request is tracked until one of the confirmation paths resolves it.
func (r *Runtime) Transfer(t *token.Token, initiator, recipient string) *token.ActionRequest {
	r.progress.Update(progress.Delta{Opened: 1})
	return r.guard.Track(token.Transfer(t, initiator, recipient))
}

// Spend turns the whole token into a pending spend request carrying the
// balance to be retired.
func (r *Runtime) Spend(t *token.Token, initiator string) *token.ActionRequest {
	r.progress.Update(progress.Delta{Opened: 1})
	return r.guard.Track(token.Spend(t, initiator))
}

// ToCoin converts the token into a free coin plus a pending request.
func (r *Runtime) ToCoin(t *token.Token, initiator string) (*token.Coin, *token.ActionRequest) {
	coin, request := token.ToCoin(t, initiator)
	r.progress.Update(progress.Delta{Opened: 1})
	return coin, r.guard.Track(request)
}

// FromCoin converts a free coin back into a token plus a pending request.
func (r *Runtime) FromCoin(c *token.Coin, initiator string) (*token.Token, *token.ActionRequest) {
	t, request := token.FromCoin(c, initiator)
	r.progress.Update(progress.Delta{Opened: 1})
	return t, r.guard.Track(request)
}

// AssertResolved fails when any tracked request is still unresolved. Call it
// at the end of a logical transaction.
func (r *Runtime) AssertResolved() error {
	return r.guard.AssertResolved()
}

// Verify runs every rule the policy requires for the request's action,
// letting each stamp its approval on the request.
func (r *Runtime) Verify(ctx context.Context, request *token.ActionRequest) error {
	_, span := tracing.StartSpan(ctx, "rules.verify", "INTERNAL")
	err := r.documents.Verify(r.policy, request)
	tracing.EndSpan(span, err)
	return err
}

// ---------------------------------------------------------------------------
// Confirmation paths
// ---------------------------------------------------------------------------

// Confirm resolves a request through the policy rule set. Requests carrying
// a spent balance must use ConfirmMut instead.
func (r *Runtime) Confirm(ctx context.Context, request *token.ActionRequest) (*token.Receipt, error) {
	ctx, span := tracing.StartSpan(ctx, "policy.confirm", "INTERNAL")
	receipt, err := r.policy.ConfirmRequest(request)
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	r.record(ctx, receipt, event.PathRules, 0)
	return receipt, nil
}

// ConfirmMut resolves a spend request through the policy rule set, folding
// its balance into the policy spent ledger.
func (r *Runtime) ConfirmMut(ctx context.Context, request *token.ActionRequest) (*token.Receipt, error) {
	ctx, span := tracing.StartSpan(ctx, "policy.confirmMut", "INTERNAL")
	receipt, err := r.policy.ConfirmRequestMut(request)
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	r.record(ctx, receipt, event.PathRules, 0)
	return receipt, nil
}

// ConfirmWithAdminCap resolves a request by authority of the policy admin
// capability, bypassing rules.
func (r *Runtime) ConfirmWithAdminCap(ctx context.Context, request *token.ActionRequest) (*token.Receipt, error) {
	ctx, span := tracing.StartSpan(ctx, "policy.confirmWithAdminCap", "INTERNAL")
	receipt, err := policy.ConfirmWithPolicyCap(r.adminCap, request)
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	r.record(ctx, receipt, event.PathPolicyCap, 0)
	return receipt, nil
}

// ConfirmWithTreasury resolves a request by authority of the treasury,
// settling any carried balance against the supply immediately.
func (r *Runtime) ConfirmWithTreasury(ctx context.Context, request *token.ActionRequest) (*token.Receipt, error) {
	spent := uint64(0)
	if request != nil && request.HasSpent() {
		spent = request.SpentValue()
	}
	ctx, span := tracing.StartSpan(ctx, "treasury.confirm", "INTERNAL")
	receipt, err := policy.ConfirmWithTreasuryCap(r.treasury, request)
	tracing.EndSpan(span, err)
	if err != nil {
		return nil, err
	}
	r.record(ctx, receipt, event.PathTreasuryCap, spent)
	return receipt, nil
}

// Flush settles the policy spent ledger against the treasury supply.
func (r *Runtime) Flush(ctx context.Context) (uint64, error) {
	ctx, span := tracing.StartSpan(ctx, "policy.flush", "INTERNAL")
	amount, err := r.policy.Flush(r.treasury)
	tracing.EndSpan(span, err)
	if err != nil {
		return 0, err
	}
	r.progress.Update(progress.Delta{SpentSettled: amount})
	publishTyped(ctx, r, "", "SpentFlushed", event.SpentFlushed{Policy: r.policy.ID(), Amount: amount})
	return amount, nil
}

// ---------------------------------------------------------------------------
// Policy administration
// ---------------------------------------------------------------------------

// Allow permits an action on the policy.
func (r *Runtime) Allow(ctx context.Context, action string) error {
	if err := r.policy.Allow(r.adminCap, action); err != nil {
		return err
	}
	r.publishChange(ctx, action, "", event.ChangeAllow)
	return nil
}

// Disallow removes an action from the policy, dropping its rules.
func (r *Runtime) Disallow(ctx context.Context, action string) error {
	if err := r.policy.Disallow(r.adminCap, action); err != nil {
		return err
	}
	r.publishChange(ctx, action, "", event.ChangeDisallow)
	return nil
}

// AddRuleForAction requires the identified rule's approval for the action.
func (r *Runtime) AddRuleForAction(ctx context.Context, action, key string) error {
	if err := r.policy.AddRuleForAction(r.adminCap, action, key); err != nil {
		return err
	}
	r.publishChange(ctx, action, key, event.ChangeAddRule)
	return nil
}

// RemoveRuleForAction drops the rule requirement from the action.
func (r *Runtime) RemoveRuleForAction(ctx context.Context, action, key string) error {
	if err := r.policy.RemoveRuleForAction(r.adminCap, action, key); err != nil {
		return err
	}
	r.publishChange(ctx, action, key, event.ChangeRemoveRule)
	return nil
}

// ---------------------------------------------------------------------------
// Document hot-swap helpers
// ---------------------------------------------------------------------------

// ApplyDocument loads the policy document at location and applies it to the
// engine policy.
func (r *Runtime) ApplyDocument(ctx context.Context, location string) error {
	if r == nil || r.documents == nil {
		return fmt.Errorf("runtime not fully initialised, document service missing")
	}
	ctx, span := tracing.StartSpan(ctx, "document.apply", "INTERNAL")
	var err error
	defer func() { tracing.EndSpan(span, err) }()
	doc, err := r.documents.Load(ctx, location)
	if err != nil {
		return err
	}
	if err = r.documents.Apply(doc, r.policy, r.adminCap); err != nil {
		return err
	}
	r.publishChange(ctx, "", doc.Name, event.ChangeDocument)
	return nil
}

// RefreshDocument discards any cached copy of the document at the given
// location. The next ApplyDocument reloads it from storage.
func (r *Runtime) RefreshDocument(location string) error {
	if r == nil || r.documents == nil {
		return fmt.Errorf("runtime not fully initialised, document service missing")
	}
	r.documents.Refresh(location)
	return nil
}

// UpsertDocument parses the supplied YAML bytes and caches the resulting
// document under the specified location. When data is nil the call falls
// back to RefreshDocument, causing a lazy reload on next use.
func (r *Runtime) UpsertDocument(location string, data []byte) error {
	if r == nil || r.documents == nil {
		return fmt.Errorf("runtime not fully initialised, document service missing")
	}
	if data == nil {
		return r.RefreshDocument(location)
	}
	doc, err := r.documents.DecodeYAML(data)
	if err != nil {
		return fmt.Errorf("failed to decode policy document: %w", err)
	}
	if doc.Source == nil {
		doc.Source = &document.Source{URL: location}
	} else {
		doc.Source.URL = location
	}
	r.documents.Upsert(location, doc)
	return nil
}

// ---------------------------------------------------------------------------
// Internals
// ---------------------------------------------------------------------------

func (r *Runtime) record(ctx context.Context, receipt *token.Receipt, path string, settled uint64) {
	delta := progress.Delta{SpentSettled: settled}
	switch path {
	case event.PathRules:
		delta.ConfirmedByRules = 1
	case event.PathPolicyCap:
		delta.ConfirmedByAdmin = 1
	case event.PathTreasuryCap:
		delta.ConfirmedByIssuer = 1
	}
	r.progress.Update(delta)

	entry := &ConfirmationRecord{
		ID:        idgen.New(),
		Receipt:   receipt,
		Path:      path,
		Settled:   settled,
		CreatedAt: clock.Now(),
	}
	if err := r.confirmations.Save(ctx, entry); err != nil {
		log.Printf("failed to journal confirmation %s: %v", entry.ID, err)
	}
	publishTyped(ctx, r, receipt.Action, "RequestConfirmed", event.RequestConfirmed{
		Action:    receipt.Action,
		Amount:    receipt.Amount,
		Initiator: receipt.Initiator,
		Recipient: receipt.Recipient,
		Path:      path,
		Settled:   settled,
	})
}

func (r *Runtime) publishChange(ctx context.Context, action, rule, change string) {
	publishTyped(ctx, r, action, "PolicyUpdated", event.PolicyUpdated{
		Policy: r.policy.ID(),
		Action: action,
		Rule:   rule,
		Change: change,
	})
}

func publishTyped[T any](ctx context.Context, r *Runtime, action, eventType string, data T) {
	if r.events == nil {
		return
	}
	publisher, err := event.PublisherOf[T](r.events)
	if err != nil {
		log.Printf("failed to resolve publisher for %s event: %v", eventType, err)
		return
	}
	err = publisher.Publish(ctx, event.NewEvent(&event.Context{
		PolicyID:  r.policy.ID(),
		Action:    action,
		EventType: eventType,
	}, data))
	if err != nil {
		log.Printf("failed to publish %s event: %v", eventType, err)
	}
}

