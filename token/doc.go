// Package token implements the closed-loop token container: the Balance
// value primitive, the Token wrapper users hold, the TreasuryCap issuer
// capability and the ActionRequest protocol object that every policed
// action produces and that exactly one confirmation path must consume.
package token
