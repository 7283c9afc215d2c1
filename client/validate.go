package client

import (
	"regexp"
	"strings"
)

// variableDefPattern matches variable definitions in an operation
// signature, e.g. `$id: ID!`, `$input: ProposalsInput` or `$ids: [ID!]!`.
var variableDefPattern = regexp.MustCompile(`\$(\w+)\s*:\s*(\[?[\w!]+\]?!?)`)

// emptySelectionPattern matches an empty selection set, e.g. `{ }`.
var emptySelectionPattern = regexp.MustCompile(`\{\s*\}`)

// ValidateQuery checks that the query text is well-formed: balanced
// braces and parentheses, a recognized operation form, and no empty
// selection sets. It is a shape check, not a full grammar parse.
func ValidateQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &ValidationError{Reason: "invalid query syntax"}
	}

	braces := 0
	parens := 0
	for _, r := range trimmed {
		switch r {
		case '{':
			braces++
		case '}':
			braces--
		case '(':
			parens++
		case ')':
			parens--
		}
		if braces < 0 || parens < 0 {
			return &ValidationError{Reason: "invalid query syntax"}
		}
	}
	if braces != 0 || parens != 0 {
		return &ValidationError{Reason: "invalid query syntax"}
	}

	if !strings.HasPrefix(trimmed, "query") &&
		!strings.HasPrefix(trimmed, "mutation") &&
		!strings.HasPrefix(trimmed, "subscription") &&
		!strings.HasPrefix(trimmed, "fragment") &&
		!strings.HasPrefix(trimmed, "{") {
		return &ValidationError{Reason: "invalid query syntax"}
	}

	if emptySelectionPattern.MatchString(trimmed) {
		return &ValidationError{Reason: "invalid query syntax"}
	}

	return nil
}

// ValidateVariables checks that every variable declared as non-nullable
// in the query's operation signature is present in variables. Values are
// not type-checked beyond presence.
func ValidateVariables(query string, variables map[string]any) error {
	signature := operationSignature(query)
	if signature == "" {
		return nil
	}

	for _, match := range variableDefPattern.FindAllStringSubmatch(signature, -1) {
		name, varType := match[1], match[2]
		if !strings.HasSuffix(varType, "!") {
			continue
		}
		if _, ok := variables[name]; !ok {
			return &ValidationError{Reason: "invalid query variables"}
		}
	}

	return nil
}

// operationSignature returns the parenthesized variable-definition list of
// the operation, or "" when the query declares no variables.
func operationSignature(query string) string {
	trimmed := strings.TrimSpace(query)
	if !strings.HasPrefix(trimmed, "query") &&
		!strings.HasPrefix(trimmed, "mutation") &&
		!strings.HasPrefix(trimmed, "subscription") {
		return ""
	}

	open := strings.Index(trimmed, "(")
	body := strings.Index(trimmed, "{")
	if open == -1 || (body != -1 && open > body) {
		return ""
	}

	depth := 0
	for i := open; i < len(trimmed); i++ {
		switch trimmed[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return trimmed[open : i+1]
			}
		}
	}
	return ""
}
