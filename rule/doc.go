// Package rule defines the identity scheme of the pluggable rule protocol.
// A rule is any module that can stamp one approval onto an ActionRequest.
// Its identity is the Go type of its witness value: possession of a witness
// is the authorization to stamp, so rule packages keep their witness type
// unexported and never let the value escape.
package rule
