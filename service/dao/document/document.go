// Package document loads, caches and applies declarative policy documents.
// A document names an asset policy and lists, per action, the rule
// references required to authorize it:
//
//	name: regulated-eur
//	actions:
//	  transfer: ["denylist", "limiter(3000)"]
//	  spend: ["limiter(500)"]
//	  to_coin: []
//	configs:
//	  denylist:
//	    addresses: [0xbad]
//
// Applying a document drives the policy admin API: every listed action is
// allowed, every referenced rule is required and rule configs are installed.
package document

import (
	"github.com/viant/clasp/service/dao/document/ruleref"
)

// Document is a parsed policy document.
type Document struct {
	Name    string
	Source  *Source
	Actions map[string][]*ruleref.Ref
	Configs map[string]interface{}
}

// Source records where the document was loaded from.
type Source struct {
	URL string
}
