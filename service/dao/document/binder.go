package document

import (
	"github.com/viant/clasp/policy"
	"github.com/viant/clasp/rule"
	"github.com/viant/clasp/token"
)

// Binder connects a rule implementation to the document loader: it builds
// up the rule's config from per-action references and installs it on a
// policy. The built-in rules implement it; custom rules only need to if
// they want to be referenced from documents.
type Binder interface {
	rule.Rule

	// BindConfig folds one rule reference into the rule's config under
	// construction. config is nil on first call; action is the action the
	// reference appeared under and arg its optional argument.
	BindConfig(config interface{}, action, arg string) (interface{}, error)

	// Install attaches the finished config to the policy, replacing any
	// previous one. A nil config installs nothing.
	Install(p *policy.Policy, cap *policy.AdminCap, config interface{}) error
}

// ConfigDecoder is implemented by binders whose config can be supplied
// through the document's configs section.
type ConfigDecoder interface {
	DecodeConfig(raw interface{}) (interface{}, error)
}

// Verifier is implemented by rules that can stamp approvals on requests. All
// built-in rules implement it; a rule without it can only be satisfied by an
// out-of-band approval.
type Verifier interface {
	Verify(p *policy.Policy, request *token.ActionRequest) error
}
