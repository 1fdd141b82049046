package operations

import (
	"regexp"
	"strings"
)

// returnTypeRe extracts a signature label's return type, matching after
// the closing paren and an arrow/colon token.
var returnTypeRe = regexp.MustCompile(`\)\s*(?::|=>|->)\s*(.+)`)

// paramRe matches one "name: type = default" parameter once the label
// has already been split on top-level commas by splitParameters.
var paramRe = regexp.MustCompile(`^(\w+)(\?)?:\s*(.+?)(?:\s*=\s*(.+))?$`)

// ParsedParameter is one parameter recovered from a signature label.
type ParsedParameter struct {
	Name     string `json:"name"`
	Optional bool   `json:"optional"`
	Type     string `json:"type,omitempty"`
	Default  string `json:"default,omitempty"`
}

// ParsedSignature is the structured form of a SignatureInformation label.
type ParsedSignature struct {
	ReturnType string            `json:"returnType,omitempty"`
	Parameters []ParsedParameter `json:"parameters,omitempty"`
}

// ParseSignatureLabel extracts a return type and parameter list from a
// signature help label such as "foo(a: string, b?: number = 1): void".
func ParseSignatureLabel(label string) ParsedSignature {
	var out ParsedSignature

	if m := returnTypeRe.FindStringSubmatch(label); m != nil {
		out.ReturnType = strings.TrimSpace(m[1])
	}

	open := strings.Index(label, "(")
	closeIdx := matchingParen(label, open)
	if open < 0 || closeIdx < 0 {
		return out
	}

	for _, part := range splitParameters(label[open+1 : closeIdx]) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if m := paramRe.FindStringSubmatch(part); m != nil {
			out.Parameters = append(out.Parameters, ParsedParameter{
				Name:     m[1],
				Optional: m[2] == "?",
				Type:     strings.TrimSpace(m[3]),
				Default:  strings.TrimSpace(m[4]),
			})
		} else {
			out.Parameters = append(out.Parameters, ParsedParameter{Name: part})
		}
	}
	return out
}

// matchingParen finds the index of the ) matching the ( at open.
func matchingParen(s string, open int) int {
	if open < 0 {
		return -1
	}
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// splitParameters splits a parameter list on top-level commas only,
// respecting nesting in <>, (), [], and {} so generic types and default
// values containing commas aren't split apart.
func splitParameters(s string) []string {
	var parts []string
	var depthAngle, depthParen, depthSquare, depthCurly int
	start := 0

	for i, r := range s {
		switch r {
		case '<':
			depthAngle++
		case '>':
			if depthAngle > 0 {
				depthAngle--
			}
		case '(':
			depthParen++
		case ')':
			depthParen--
		case '[':
			depthSquare++
		case ']':
			depthSquare--
		case '{':
			depthCurly++
		case '}':
			depthCurly--
		case ',':
			if depthAngle == 0 && depthParen == 0 && depthSquare == 0 && depthCurly == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	if start <= len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}
