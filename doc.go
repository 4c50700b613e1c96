// Package clasp implements a closed-loop asset engine: an issuer-controlled
// token whose every action (transfer, spend, coin conversion) produces a
// pending request that must be resolved by policy rules, by the policy admin
// capability or by the treasury before the action takes effect.
//
// The root package wires the pieces together; the domain lives in the token
// and policy packages, built-in rules under rule/, and declarative policy
// documents under service/dao/document.
package clasp
