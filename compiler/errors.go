package compiler

import "fmt"

// ErrorCode classifies parse diagnostics.
type ErrorCode uint8

const (
	ErrUnexpectedEOF ErrorCode = iota
	ErrMissingEndTag
	ErrInvalidEndTag
	ErrMissingInterpolationEnd
	ErrMissingAttributeValue
	ErrDuplicateAttribute
	ErrInvalidDirective
	ErrMissingForExpression
	ErrElseWithoutIf
)

func (c ErrorCode) String() string {
	switch c {
	case ErrUnexpectedEOF:
		return "unexpected end of template"
	case ErrMissingEndTag:
		return "missing end tag"
	case ErrInvalidEndTag:
		return "end tag without matching open tag"
	case ErrMissingInterpolationEnd:
		return "interpolation is missing its closing delimiter"
	case ErrMissingAttributeValue:
		return "attribute is missing its value"
	case ErrDuplicateAttribute:
		return "duplicate attribute"
	case ErrInvalidDirective:
		return "malformed directive"
	case ErrMissingForExpression:
		return "v-for requires an expression of the form 'item in source'"
	case ErrElseWithoutIf:
		return "v-else/v-else-if has no preceding v-if"
	}
	return "unknown parse error"
}

// SyntaxError is a structured parse diagnostic. Errors are collected through
// the OnError callback rather than thrown, so parsing can continue
// best-effort past them.
type SyntaxError struct {
	Code ErrorCode
	Loc  SourceLocation
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (line %d, column %d)", e.Code, e.Loc.Start.Line, e.Loc.Start.Column)
}
