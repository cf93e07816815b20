package expr

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-vgenform/pkg/visibility"
)

// Evaluator is a small, dependency-free rule evaluator used by rule files to
// describe branch predicates.
//
// Supported operators:
// - boolean checks: `hasFiles`
// - comparisons: `type == "fast"`, `model != runway`
// - boolean composition: `type == "fast" || hasFiles`, `!hasPrompt && hasFiles`
//
// Values are read from visibility.Context.Values (with dot-path traversal) and
// visibility.Context.Extras (via the `extras.` prefix).
type Evaluator struct{}

var _ visibility.Evaluator = (*Evaluator)(nil)

func New() *Evaluator { return &Evaluator{} }

// Eval compiles and evaluates rule in one step. An empty rule is true.
func (e *Evaluator) Eval(rule string, ctx visibility.Context) (bool, error) {
	program, err := Compile(rule)
	if err != nil {
		return false, err
	}
	return program.Eval(ctx)
}

// Program is a parsed rule ready for repeated evaluation.
type Program struct {
	source string
	root   exprNode
}

// Compile parses rule once so callers can evaluate it on every resolution
// without re-tokenizing.
func Compile(rule string) (Program, error) {
	trimmed := strings.TrimSpace(rule)
	program := Program{source: trimmed}
	if trimmed == "" {
		return program, nil
	}

	tokens, err := tokenize(trimmed)
	if err != nil {
		return Program{}, err
	}
	if len(tokens) == 0 {
		return program, nil
	}

	root, err := parseExpression(tokens)
	if err != nil {
		return Program{}, err
	}
	program.root = root
	return program, nil
}

// String returns the trimmed source rule.
func (p Program) String() string {
	return p.source
}

// Eval evaluates the program. A program compiled from an empty rule is true.
func (p Program) Eval(ctx visibility.Context) (bool, error) {
	if p.root == nil {
		return true, nil
	}
	return p.root.eval(ctx)
}

// Predicate adapts the program to a visibility.Predicate. Evaluation errors
// count as a non-match.
func (p Program) Predicate() visibility.Predicate {
	return func(s visibility.Signals) bool {
		ok, err := p.Eval(s.Context())
		return err == nil && ok
	}
}

type tokenKind int

const (
	tokenIdentifier tokenKind = iota
	tokenString
	tokenBool
	tokenNull
	tokenEq
	tokenNeq
	tokenAnd
	tokenOr
	tokenNot
	tokenLParen
	tokenRParen
)

type token struct {
	kind tokenKind
	raw  string
}

var operators = []struct {
	raw  string
	kind tokenKind
}{
	{"==", tokenEq},
	{"!=", tokenNeq},
	{"&&", tokenAnd},
	{"||", tokenOr},
	{"!", tokenNot},
	{"(", tokenLParen},
	{")", tokenRParen},
}

func tokenize(input string) ([]token, error) {
	var tokens []token
	i := 0

scan:
	for i < len(input) {
		ch := input[i]
		if isSpace(ch) {
			i++
			continue
		}

		for _, op := range operators {
			if strings.HasPrefix(input[i:], op.raw) {
				tokens = append(tokens, token{kind: op.kind, raw: op.raw})
				i += len(op.raw)
				continue scan
			}
		}

		switch ch {
		case '=', '&', '|':
			return nil, fmt.Errorf("visibility/expr: unexpected %q at offset %d", ch, i)
		case '"', '\'':
			end := closingQuote(input, i)
			if end < 0 {
				return nil, errors.New("visibility/expr: unterminated string literal")
			}
			raw := input[i : end+1]
			if ch == '\'' {
				raw = `"` + strings.ReplaceAll(raw[1:len(raw)-1], `"`, `\"`) + `"`
			}
			value, err := strconv.Unquote(raw)
			if err != nil {
				return nil, fmt.Errorf("visibility/expr: invalid string literal: %w", err)
			}
			tokens = append(tokens, token{kind: tokenString, raw: value})
			i = end + 1
			continue
		}

		start := i
		for i < len(input) && !isSpace(input[i]) && !strings.ContainsRune("()!=&|\"'", rune(input[i])) {
			i++
		}
		word := input[start:i]
		switch strings.ToLower(word) {
		case "true", "false":
			tokens = append(tokens, token{kind: tokenBool, raw: strings.ToLower(word)})
		case "null", "nil":
			tokens = append(tokens, token{kind: tokenNull, raw: "null"})
		default:
			tokens = append(tokens, token{kind: tokenIdentifier, raw: word})
		}
	}

	return tokens, nil
}

func closingQuote(input string, start int) int {
	quote := input[start]
	escaped := false
	for i := start + 1; i < len(input); i++ {
		switch {
		case escaped:
			escaped = false
		case input[i] == '\\':
			escaped = true
		case input[i] == quote:
			return i
		}
	}
	return -1
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

type exprNode interface {
	eval(ctx visibility.Context) (bool, error)
}

type exprBinary struct {
	op          tokenKind
	left, right exprNode
}

func (n exprBinary) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.left.eval(ctx)
	if err != nil {
		return false, err
	}
	// short circuit
	if n.op == tokenOr && ok {
		return true, nil
	}
	if n.op == tokenAnd && !ok {
		return false, nil
	}
	return n.right.eval(ctx)
}

type exprNot struct {
	inner exprNode
}

func (n exprNot) eval(ctx visibility.Context) (bool, error) {
	ok, err := n.inner.eval(ctx)
	return !ok, err
}

type exprCompare struct {
	identifier string
	negate     bool
	literal    token
}

func (n exprCompare) eval(ctx visibility.Context) (bool, error) {
	value, _ := lookup(ctx, n.identifier)

	var equal bool
	switch n.literal.kind {
	case tokenNull:
		equal = value == nil
	case tokenBool:
		equal = coerceBool(value) == (n.literal.raw == "true")
	case tokenString, tokenIdentifier:
		equal = coerceString(value) == n.literal.raw
	default:
		return false, fmt.Errorf("visibility/expr: unsupported literal %q", n.literal.raw)
	}
	return equal != n.negate, nil
}

type exprTruthy struct {
	identifier string
}

func (n exprTruthy) eval(ctx visibility.Context) (bool, error) {
	value, ok := lookup(ctx, n.identifier)
	if !ok {
		return false, nil
	}
	return truthy(value), nil
}

type tokenStream struct {
	tokens []token
	pos    int
}

func parseExpression(tokens []token) (exprNode, error) {
	stream := &tokenStream{tokens: tokens}
	node, err := parseBinary(stream, tokenOr)
	if err != nil {
		return nil, err
	}
	if stream.pos < len(stream.tokens) {
		return nil, fmt.Errorf("visibility/expr: unexpected token %q", stream.tokens[stream.pos].raw)
	}
	return node, nil
}

// parseBinary handles both precedence levels: || binds looser than &&.
func parseBinary(stream *tokenStream, op tokenKind) (exprNode, error) {
	next := func() (exprNode, error) {
		if op == tokenOr {
			return parseBinary(stream, tokenAnd)
		}
		return parseUnary(stream)
	}

	left, err := next()
	if err != nil {
		return nil, err
	}
	for stream.match(op) {
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = exprBinary{op: op, left: left, right: right}
	}
	return left, nil
}

func parseUnary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenNot) {
		inner, err := parseUnary(stream)
		if err != nil {
			return nil, err
		}
		return exprNot{inner: inner}, nil
	}
	return parsePrimary(stream)
}

func parsePrimary(stream *tokenStream) (exprNode, error) {
	if stream.match(tokenLParen) {
		inner, err := parseBinary(stream, tokenOr)
		if err != nil {
			return nil, err
		}
		if !stream.match(tokenRParen) {
			return nil, errors.New("visibility/expr: missing closing ')'")
		}
		return inner, nil
	}

	ident, ok := stream.consume(tokenIdentifier)
	if !ok {
		if stream.pos >= len(stream.tokens) {
			return nil, errors.New("visibility/expr: empty expression")
		}
		return nil, fmt.Errorf("visibility/expr: expected identifier, got %q", stream.tokens[stream.pos].raw)
	}

	for _, op := range []tokenKind{tokenEq, tokenNeq} {
		if !stream.match(op) {
			continue
		}
		if stream.pos >= len(stream.tokens) {
			return nil, errors.New("visibility/expr: missing literal")
		}
		lit := stream.tokens[stream.pos]
		stream.pos++
		switch lit.kind {
		case tokenString, tokenBool, tokenNull, tokenIdentifier:
			// bare identifiers on the right-hand side read as strings
		default:
			return nil, fmt.Errorf("visibility/expr: expected literal, got %q", lit.raw)
		}
		return exprCompare{identifier: ident.raw, negate: op == tokenNeq, literal: lit}, nil
	}

	return exprTruthy{identifier: ident.raw}, nil
}

func (s *tokenStream) match(kind tokenKind) bool {
	_, ok := s.consume(kind)
	return ok
}

func (s *tokenStream) consume(kind tokenKind) (token, bool) {
	if s.pos >= len(s.tokens) || s.tokens[s.pos].kind != kind {
		return token{}, false
	}
	out := s.tokens[s.pos]
	s.pos++
	return out, true
}

func lookup(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if rest, ok := strings.CutPrefix(key, "extras."); ok {
		value, found := ctx.Extras[rest]
		return value, found
	}
	value, found := ctx.Values[key]
	return value, found
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	default:
		return true
	}
}

func coerceBool(value any) bool {
	if text, ok := value.(string); ok {
		if parsed, err := strconv.ParseBool(strings.TrimSpace(text)); err == nil {
			return parsed
		}
	}
	return truthy(value)
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(value)
	}
}
