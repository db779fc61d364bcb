package token

var keywords = map[string]Kind{
	"void":     KwVoid,
	"char":     KwChar,
	"short":    KwShort,
	"int":      KwInt,
	"long":     KwLong,
	"float":    KwFloat,
	"double":   KwDouble,
	"signed":   KwSigned,
	"unsigned": KwUnsigned,
	"const":    KwConst,
	"volatile": KwVolatile,
	"static":   KwStatic,
	"extern":   KwExtern,
	"register": KwRegister,
	"auto":     KwAuto,
	"for":      KwFor,
	"while":    KwWhile,
	"do":       KwDo,
	"if":       KwIf,
	"else":     KwElse,
	"return":   KwReturn,
	"break":    KwBreak,
	"continue": KwContinue,
	"sizeof":   KwSizeof,
}

// LookupKeyword reports the keyword kind for ident. C keywords are case-sensitive.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
