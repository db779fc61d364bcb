package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// lexical
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005

	// syntax
	SynUnexpectedToken    Code = 2001
	SynExpectSemicolon    Code = 2002
	SynExpectIdentifier   Code = 2003
	SynExpectExpression   Code = 2004
	SynExpectType         Code = 2005
	SynUnclosedParen      Code = 2006
	SynUnclosedBrace      Code = 2007
	SynUnclosedBracket    Code = 2008
	SynUnexpectedTopLevel Code = 2009
	SynForBadHeader       Code = 2010

	// semantic
	SemaUnresolvedSymbol Code = 3001
	SemaDuplicateSymbol  Code = 3002
	SemaNotSubscriptable Code = 3003
	SemaInvalidOperands  Code = 3004
	SemaNotAssignable    Code = 3005
	SemaWhileNotAnalyzed Code = 3006
	SemaUnsupportedLoop  Code = 3007

	// io
	IOLoadFileError Code = 4001

	// vectorization analysis
	VecLoopVectorizable    Code = 6001
	VecLoopNotVectorizable Code = 6002

	// kernel synthesis
	KernGenerationFailed Code = 7001
	KernEmitted          Code = 7002
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Malformed numeric literal",
	LexUnterminatedChar:         "Unterminated character literal",
	SynUnexpectedToken:          "Unexpected token",
	SynExpectSemicolon:          "Expected ';'",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectExpression:         "Expected expression",
	SynExpectType:               "Expected type specifier",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynUnexpectedTopLevel:       "Unexpected token at top level",
	SynForBadHeader:             "Malformed for-loop header",
	SemaUnresolvedSymbol:        "Unresolved symbol",
	SemaDuplicateSymbol:         "Duplicate declaration",
	SemaNotSubscriptable:        "Subscripted value is not an array or pointer",
	SemaInvalidOperands:         "Invalid operands to operator",
	SemaNotAssignable:           "Expression is not assignable",
	SemaWhileNotAnalyzed:        "While loop is not analyzed for vectorization",
	SemaUnsupportedLoop:         "Loop shape is not supported",
	IOLoadFileError:             "Failed to load file",
	VecLoopVectorizable:         "Loop is vectorizable",
	VecLoopNotVectorizable:      "Loop is not vectorizable",
	KernGenerationFailed:        "Kernel generation failed",
	KernEmitted:                 "Kernel emitted",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("VEC%04d", ic)
	case ic >= 7000 && ic < 8000:
		return fmt.Sprintf("KRN%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
