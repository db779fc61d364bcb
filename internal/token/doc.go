// Package token defines the lexical vocabulary of the C subset accepted by loopkern.
//
// Comments, whitespace and preprocessor lines never become tokens; the lexer
// drops them as trivia.
package token
