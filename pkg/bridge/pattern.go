package bridge

import (
	"reflect"
	"regexp"
	"strings"
)

// paramKind classifies what Go type a matched argument is delivered as.
type paramKind int

const (
	paramString paramKind = iota
	paramInt
	paramFloat
)

func (k paramKind) goType() reflect.Type {
	switch k {
	case paramInt:
		return reflect.TypeOf(int(0))
	case paramFloat:
		return reflect.TypeOf(float64(0))
	default:
		return reflect.TypeOf("")
	}
}

// placeholders maps cucumber-expression parameters onto the regexp dialect
// the engine matches with. Order matters only for readability; the tokens
// do not prefix each other.
var placeholders = []struct {
	token   string
	capture string
	kind    paramKind
}{
	{"{int}", `(-?\d+)`, paramInt},
	{"{float}", `(-?\d*\.?\d+)`, paramFloat},
	{"{word}", `([^\s]+)`, paramString},
	{"{string}", `"([^"]*)"`, paramString},
	{"{}", `(.+)`, paramString},
}

// translatePattern normalizes a registered pattern into the anchored
// regexp handed to the engine plus the parameter kinds of its capture
// groups. Patterns that already look like regexps (anchored with ^ or $)
// pass through unchanged with string parameters; anything else is treated
// as a cucumber expression whose literal text is quoted.
//
// Matching itself stays in the engine; this only derives the adapter
// handler's signature.
func translatePattern(pattern string) (string, []paramKind, error) {
	if strings.HasPrefix(pattern, "^") || strings.HasSuffix(pattern, "$") {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return "", nil, err
		}
		return pattern, make([]paramKind, re.NumSubexp()), nil
	}

	var sb strings.Builder
	var kinds []paramKind
	sb.WriteString("^")

	rest := pattern
	for len(rest) > 0 {
		idx := strings.Index(rest, "{")
		if idx < 0 {
			sb.WriteString(regexp.QuoteMeta(rest))
			break
		}
		sb.WriteString(regexp.QuoteMeta(rest[:idx]))
		rest = rest[idx:]

		matched := false
		for _, ph := range placeholders {
			if strings.HasPrefix(rest, ph.token) {
				sb.WriteString(ph.capture)
				kinds = append(kinds, ph.kind)
				rest = rest[len(ph.token):]
				matched = true
				break
			}
		}
		if !matched {
			// Unknown brace construct, keep it literal.
			sb.WriteString(regexp.QuoteMeta("{"))
			rest = rest[1:]
		}
	}

	sb.WriteString("$")
	return sb.String(), kinds, nil
}
