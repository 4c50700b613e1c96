// Package policy implements the per-asset rule registry: which rule
// approvals each action requires, the typed per-rule configuration slots,
// the spent-value ledger and the four confirmation paths that consume an
// ActionRequest. All administrative mutations require the AdminCap created
// together with the policy.
package policy
