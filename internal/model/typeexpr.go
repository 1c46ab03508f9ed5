package model

import (
	"fmt"
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"

	"martianoff/unapplygen/generr"
)

const (
	whitespaceToken = iota
	identifierToken
	lessToken
	greaterToken
	commaToken
	wildcardToken
	dimsToken
	ampersandToken
)

var whitespaceMatcher = parsly.NewToken(whitespaceToken, "Whitespace", matcher.NewWhiteSpace())
var identifierMatcher = parsly.NewToken(identifierToken, "Identifier", &qualifiedIdentifierMatch{})
var lessMatcher = parsly.NewToken(lessToken, "<", matcher.NewByte('<'))
var greaterMatcher = parsly.NewToken(greaterToken, ">", matcher.NewByte('>'))
var commaMatcher = parsly.NewToken(commaToken, ",", matcher.NewByte(','))
var wildcardMatcher = parsly.NewToken(wildcardToken, "?", matcher.NewByte('?'))
var dimsMatcher = parsly.NewToken(dimsToken, "[]", matcher.NewFragment("[]"))
var ampersandMatcher = parsly.NewToken(ampersandToken, "&", matcher.NewByte('&'))

// qualifiedIdentifierMatch matches a dotted Java name such as java.util.Map.Entry.
type qualifiedIdentifierMatch struct{}

func (q *qualifiedIdentifierMatch) Match(cursor *parsly.Cursor) int {
	pos := cursor.Pos
	for {
		if pos >= cursor.InputSize || !isIdentifierStart(cursor.Input[pos]) {
			return 0
		}
		pos++
		for pos < cursor.InputSize && isIdentifierPart(cursor.Input[pos]) {
			pos++
		}
		if pos+1 < cursor.InputSize && cursor.Input[pos] == '.' && isIdentifierStart(cursor.Input[pos+1]) {
			pos++
			continue
		}
		return pos - cursor.Pos
	}
}

func isIdentifierStart(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' || b == '$'
}

func isIdentifierPart(b byte) bool {
	return isIdentifierStart(b) || (b >= '0' && b <= '9')
}

// ParseType parses a Java type expression. Unqualified names listed in
// typeVars are marked as type variables.
func ParseType(expr string, typeVars ...string) (TypeRef, error) {
	p := newTypeParser(expr, typeVars)
	ref, err := p.parseType()
	if err != nil {
		return TypeRef{}, err
	}
	if err := p.expectEOF(); err != nil {
		return TypeRef{}, err
	}
	return ref, nil
}

// ParseTypeParams parses method type parameter declarations such as
// "T extends java.lang.Comparable<T>". Bounds may refer to any of the
// declared parameters.
func ParseTypeParams(exprs []string) ([]TypeParam, error) {
	names := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		cursor := parsly.NewCursor("", []byte(expr), 0)
		matched := cursor.MatchAfterOptional(whitespaceMatcher, identifierMatcher)
		if matched.Code != identifierToken {
			return nil, generr.NewSyntaxError(expr, cursor.Pos+1, "expected type parameter name")
		}
		names = append(names, matched.Text(cursor))
	}

	params := make([]TypeParam, 0, len(exprs))
	for _, expr := range exprs {
		p := newTypeParser(expr, names)
		tp, err := p.parseTypeParam()
		if err != nil {
			return nil, err
		}
		if err := p.expectEOF(); err != nil {
			return nil, err
		}
		params = append(params, tp)
	}
	return params, nil
}

type typeParser struct {
	expr   string
	cursor *parsly.Cursor
	vars   map[string]bool
}

func newTypeParser(expr string, typeVars []string) *typeParser {
	vars := make(map[string]bool, len(typeVars))
	for _, v := range typeVars {
		vars[v] = true
	}
	return &typeParser{
		expr:   expr,
		cursor: parsly.NewCursor("", []byte(expr), 0),
		vars:   vars,
	}
}

func (p *typeParser) parseTypeParam() (TypeParam, error) {
	matched := p.cursor.MatchAfterOptional(whitespaceMatcher, identifierMatcher)
	if matched.Code != identifierToken {
		return TypeParam{}, p.errorf("expected type parameter name")
	}
	tp := TypeParam{Name: matched.Text(p.cursor)}
	if strings.Contains(tp.Name, ".") {
		return TypeParam{}, p.errorf("type parameter name %q must not be qualified", tp.Name)
	}
	if !p.acceptKeyword("extends") {
		return tp, nil
	}
	for {
		bound, err := p.parseType()
		if err != nil {
			return TypeParam{}, err
		}
		tp.Bounds = append(tp.Bounds, bound)
		if !p.accept(ampersandMatcher, ampersandToken) {
			return tp, nil
		}
	}
}

func (p *typeParser) parseType() (TypeRef, error) {
	matched := p.cursor.MatchAfterOptional(whitespaceMatcher, wildcardMatcher, identifierMatcher)
	switch matched.Code {
	case wildcardToken:
		ref := TypeRef{Name: Wildcard}
		if p.acceptKeyword("super") {
			return TypeRef{}, p.errorf("lower-bounded wildcards are not supported")
		}
		if p.acceptKeyword("extends") {
			bound, err := p.parseType()
			if err != nil {
				return TypeRef{}, err
			}
			ref.Bound = &bound
		}
		return ref, nil
	case identifierToken:
		name := matched.Text(p.cursor)
		ref := TypeRef{Name: name, Var: !strings.Contains(name, ".") && p.vars[name]}
		if p.accept(lessMatcher, lessToken) {
			args, err := p.parseTypeArgs()
			if err != nil {
				return TypeRef{}, err
			}
			ref.Args = args
		}
		for p.accept(dimsMatcher, dimsToken) {
			ref.Dims++
		}
		return ref, nil
	case parsly.EOF:
		return TypeRef{}, p.errorf("unexpected end of input")
	default:
		return TypeRef{}, p.errorf("expected type")
	}
}

func (p *typeParser) parseTypeArgs() ([]TypeRef, error) {
	var args []TypeRef
	for {
		arg, err := p.parseType()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		matched := p.cursor.MatchAfterOptional(whitespaceMatcher, commaMatcher, greaterMatcher)
		switch matched.Code {
		case commaToken:
		case greaterToken:
			return args, nil
		case parsly.EOF:
			return nil, p.errorf("unexpected end of input, expected '>'")
		default:
			return nil, p.errorf("expected ',' or '>'")
		}
	}
}

// accept consumes token if it is next, otherwise leaves the cursor untouched.
func (p *typeParser) accept(token *parsly.Token, code int) bool {
	pos := p.cursor.Pos
	if matched := p.cursor.MatchAfterOptional(whitespaceMatcher, token); matched.Code == code {
		return true
	}
	p.cursor.Pos = pos
	return false
}

func (p *typeParser) acceptKeyword(keyword string) bool {
	pos := p.cursor.Pos
	if matched := p.cursor.MatchAfterOptional(whitespaceMatcher, identifierMatcher); matched.Code == identifierToken && matched.Text(p.cursor) == keyword {
		return true
	}
	p.cursor.Pos = pos
	return false
}

func (p *typeParser) expectEOF() error {
	_ = p.cursor.MatchOne(whitespaceMatcher)
	if p.cursor.Pos < p.cursor.InputSize {
		return p.errorf("unexpected %q", string(p.cursor.Input[p.cursor.Pos:]))
	}
	return nil
}

func (p *typeParser) errorf(format string, args ...any) error {
	return generr.NewSyntaxError(p.expr, p.cursor.Pos+1, fmt.Sprintf(format, args...))
}
