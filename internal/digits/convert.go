package digits

import (
	"math/big"
	"strconv"
	"strings"

	apperrors "github.com/agbru/gsmul/internal/errors"
)

// MaxNumeralBase is the largest base whose digits can be written as single
// characters (0-9 then a-z). Larger bases use the list notation.
const MaxNumeralBase = 36

const numeralAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// FromUint64 splits n into its digits in the given base.
func FromUint64(n uint64, base int) (Digits, error) {
	if err := ValidateBase(base); err != nil {
		return nil, err
	}
	if n == 0 {
		return Digits{0}, nil
	}
	b := uint64(base)
	var rev Digits
	for n > 0 {
		rev = append(rev, int(n%b))
		n /= b
	}
	return reverse(rev), nil
}

// FromBigInt splits a non-negative n into its digits in the given base.
func FromBigInt(n *big.Int, base int) (Digits, error) {
	if err := ValidateBase(base); err != nil {
		return nil, err
	}
	if n == nil || n.Sign() < 0 {
		return nil, apperrors.NewValidationError("value", "must be a non-negative integer", n)
	}
	if n.Sign() == 0 {
		return Digits{0}, nil
	}

	bigBase := big.NewInt(int64(base))
	v := new(big.Int).Set(n)
	var mod big.Int
	var rev Digits
	for v.Sign() > 0 {
		v.DivMod(v, bigBase, &mod)
		rev = append(rev, int(mod.Int64()))
	}
	return reverse(rev), nil
}

// ToBigInt evaluates d in the given base.
func ToBigInt(d Digits, base int) (*big.Int, error) {
	if err := Validate(d, base, ""); err != nil {
		return nil, err
	}
	bigBase := big.NewInt(int64(base))
	x := new(big.Int)
	var bv big.Int
	for _, v := range d {
		bv.SetInt64(int64(v))
		x.Mul(x, bigBase)
		x.Add(x, &bv)
	}
	return x, nil
}

// Parse reads an operand written either as a numeral ("1024", "ff",
// "1_000") or as an explicit digit list ("[1, 0, 2, 4]", "1,0,2,4",
// "12:0:255"). Numerals need a base of at most MaxNumeralBase; larger bases
// always use the list notation. Leading zeros are kept.
func Parse(s string, base int) (Digits, error) {
	if err := ValidateBase(base); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(s)
	if text == "" {
		return nil, &ParseError{Input: s, Pos: -1, Reason: "no digits"}
	}
	if base > MaxNumeralBase || strings.ContainsAny(text, "[],:") {
		return parseList(s, text, base)
	}
	return parseNumeral(s, text, base)
}

func parseNumeral(input, text string, base int) (Digits, error) {
	d := make(Digits, 0, len(text))
	for pos := 0; pos < len(text); pos++ {
		c := text[pos]
		if c == '_' {
			continue
		}
		v := numeralValue(c)
		if v < 0 {
			return nil, &ParseError{Input: input, Pos: pos, Reason: "unexpected character " + strconv.QuoteRune(rune(c))}
		}
		if v >= base {
			return nil, &InvalidDigitError{Index: len(d), Digit: v, Base: base}
		}
		d = append(d, v)
	}
	if len(d) == 0 {
		return nil, &ParseError{Input: input, Pos: -1, Reason: "no digits"}
	}
	return d, nil
}

func parseList(input, text string, base int) (Digits, error) {
	if strings.HasPrefix(text, "[") != strings.HasSuffix(text, "]") {
		return nil, &ParseError{Input: input, Pos: -1, Reason: "unbalanced brackets"}
	}
	text = strings.TrimSuffix(strings.TrimPrefix(text, "["), "]")
	if strings.TrimSpace(text) == "" {
		return nil, &ParseError{Input: input, Pos: -1, Reason: "no digits"}
	}

	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == ':' })
	if len(fields) != strings.Count(text, ",")+strings.Count(text, ":")+1 {
		return nil, &ParseError{Input: input, Pos: -1, Reason: "empty digit between separators"}
	}

	d := make(Digits, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			return nil, &ParseError{Input: input, Pos: -1, Reason: "empty digit between separators"}
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, &ParseError{Input: input, Pos: -1, Reason: "digit " + strconv.Quote(f) + " is not an integer"}
		}
		d[i] = v
	}
	if err := Validate(d, base, ""); err != nil {
		return nil, err
	}
	return d, nil
}

// numeralValue maps 0-9, a-z and A-Z to 0..35, anything else to -1.
func numeralValue(c byte) int {
	switch {
	case '0' <= c && c <= '9':
		return int(c - '0')
	case 'a' <= c && c <= 'z':
		return int(c-'a') + 10
	case 'A' <= c && c <= 'Z':
		return int(c-'A') + 10
	}
	return -1
}

// Format renders d as a numeral when base allows it ("16384", "ff") and as a
// colon-separated list otherwise ("12:0:255").
func Format(d Digits, base int) string {
	if base > MaxNumeralBase || !fitsNumeral(d) {
		return joinDigits(d, ":")
	}
	var sb strings.Builder
	sb.Grow(len(d))
	for _, v := range d {
		sb.WriteByte(numeralAlphabet[v])
	}
	return sb.String()
}

// FormatList renders d as "[1, 6, 3, 8, 4]".
func FormatList(d Digits) string {
	return "[" + joinDigits(d, ", ") + "]"
}

func fitsNumeral(d Digits) bool {
	for _, v := range d {
		if v < 0 || v >= MaxNumeralBase {
			return false
		}
	}
	return true
}

func joinDigits(d Digits, sep string) string {
	parts := make([]string, len(d))
	for i, v := range d {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, sep)
}

func reverse(d Digits) Digits {
	for i, j := 0, len(d)-1; i < j; i, j = i+1, j-1 {
		d[i], d[j] = d[j], d[i]
	}
	return d
}
