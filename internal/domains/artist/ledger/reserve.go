package ledger

import (
	"math"
	"math/bits"

	"artist-platform/internal/domains/artist/model"
)

// ReservePolicy prices storage: an account must hold
// (AccountOverhead + MaxSize(kind)) * LamportsPerByteYear * ExemptionYears lamports.
// A zero rate disables reserves.
type ReservePolicy struct {
	LamportsPerByteYear uint64
	ExemptionYears      uint64
	AccountOverhead     uint64
}

// DefaultReservePolicy mirrors common ledger storage pricing
var DefaultReservePolicy = ReservePolicy{
	LamportsPerByteYear: 3480,
	ExemptionYears:      2,
	AccountOverhead:     128,
}

// MinimumReserve saturates at MaxUint64 instead of wrapping
func (p ReservePolicy) MinimumReserve(kind model.RecordKind) uint64 {
	if p.LamportsPerByteYear == 0 || p.ExemptionYears == 0 {
		return 0
	}
	size, carry := bits.Add64(p.AccountOverhead, uint64(model.MaxSize(kind)), 0)
	if carry != 0 {
		return math.MaxUint64
	}
	hi, perYear := bits.Mul64(size, p.LamportsPerByteYear)
	if hi != 0 {
		return math.MaxUint64
	}
	hi, total := bits.Mul64(perYear, p.ExemptionYears)
	if hi != 0 {
		return math.MaxUint64
	}
	return total
}
