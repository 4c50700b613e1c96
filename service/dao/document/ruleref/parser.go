// Package ruleref parses rule references found in policy documents, in the
// format: ruleName or ruleName(argument), for example "denylist" or
// "limiter(3000)".
package ruleref

import (
	"fmt"
	"strings"

	"github.com/viant/parsly"
)

// Ref is a parsed rule reference.
type Ref struct {
	Name string
	Arg  string
}

// Parse parses a single rule reference. The whole input must be consumed;
// trailing content is an error.
func Parse(input []byte) (*Ref, error) {
	cursor := parsly.NewCursor("", input, 0)
	ref, err := parseRef(cursor)
	if err != nil {
		return nil, err
	}
	cursor.MatchOne(whitespaceToken)
	if cursor.Pos < cursor.InputSize {
		return nil, fmt.Errorf("unexpected trailing input %q in rule reference %q",
			cursor.Input[cursor.Pos:], input)
	}
	return ref, nil
}

func parseRef(cursor *parsly.Cursor) (*Ref, error) {
	ref := &Ref{}

	// Match the rule name (identifier)
	matched := cursor.MatchAfterOptional(whitespaceToken, identifierToken)
	if matched.Code != identifierToken.Code {
		return nil, cursor.NewError(identifierToken)
	}
	ref.Name = matched.Text(cursor)

	// An argument list is optional
	matched = cursor.MatchAfterOptional(whitespaceToken, openParenToken)
	if matched.Code != openParenToken.Code {
		return ref, nil
	}

	// Empty argument list: name()
	matched = cursor.MatchAny(closeParenToken, argumentToken)
	switch matched.Code {
	case closeParenToken.Code:
		return ref, nil
	case argumentToken.Code:
		ref.Arg = strings.TrimSpace(matched.Text(cursor))
	default:
		return nil, cursor.NewError(argumentToken)
	}

	// Match the closing parenthesis
	matched = cursor.MatchOne(closeParenToken)
	if matched.Code != closeParenToken.Code {
		return nil, cursor.NewError(closeParenToken)
	}
	return ref, nil
}
