package digits

// RowHook is called by MultiplyObserved after each pass over the multiplicant,
// with the number of multiplier digits consumed so far and the total. A
// non-nil return aborts the multiplication and is handed back to the caller.
type RowHook func(done, total int) error

// Multiply returns x*y in the given base using long multiplication.
//
// Both operands are most-significant digit first and may carry leading zeros;
// the product never does, except for the single digit [0]. The operands are
// not modified. Empty operands, digits outside [0, base) and bases outside
// [MinBase, MaxBase] are rejected with an error that matches
// apperrors.ErrInvalidInput, and no product is returned in that case.
func Multiply(x, y Digits, base int) (Digits, error) {
	return MultiplyObserved(x, y, base, nil)
}

// MultiplyObserved is Multiply with a hook invoked after every outer pass.
// A nil hook is allowed.
func MultiplyObserved(x, y Digits, base int, hook RowHook) (Digits, error) {
	for i, d := range []Digits{x, y} {
		if err := Validate(d, base, operandName(i)); err != nil {
			return nil, err
		}
	}

	// The longer operand drives the inner loop; on a tie x keeps that role.
	multiplicant, multiplier := x, y
	if len(multiplier) > len(multiplicant) {
		multiplicant, multiplier = multiplier, multiplicant
	}

	// (b^m - 1)(b^n - 1) < b^(m+n), so m+n slots always hold the product.
	res := make([]uint64, len(multiplicant)+len(multiplier))
	b := uint64(base)
	total := len(multiplier)

	for i := len(multiplier) - 1; i >= 0; i-- {
		var carry uint64
		md := uint64(multiplier[i])
		for j := len(multiplicant) - 1; j >= 0; j-- {
			product := md*uint64(multiplicant[j]) + carry + res[i+j+1]
			res[i+j+1] = product % b
			carry = product / b
		}
		// Slot i is still untouched by earlier passes, so this stays below base.
		res[i] += carry

		if hook != nil {
			if err := hook(total-i, total); err != nil {
				return nil, err
			}
		}
	}

	start := 0
	for start < len(res)-1 && res[start] == 0 {
		start++
	}
	out := make(Digits, len(res)-start)
	for k, v := range res[start:] {
		out[k] = int(v)
	}
	return out, nil
}
