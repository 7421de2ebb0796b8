package ledger

import (
	"math"
	"math/bits"

	"artist-platform/internal/domains/artist/model"
)

// CheckedAdd returns ErrNumericalOverflow instead of wrapping
func CheckedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, model.NewArtistErrorf(model.ErrNumericalOverflow, "%d + %d", a, b)
	}
	return sum, nil
}

func CheckedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, model.NewArtistErrorf(model.ErrNumericalOverflow, "%d - %d", a, b)
	}
	return diff, nil
}

// CheckedIncU8 is used for the per-artist work counter
func CheckedIncU8(v uint8) (uint8, error) {
	if v == math.MaxUint8 {
		return 0, model.NewArtistErrorf(model.ErrNumericalOverflow, "%d + 1 exceeds u8", v)
	}
	return v + 1, nil
}
