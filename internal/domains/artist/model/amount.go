package model

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// DefaultDecimals is the number of decimal places between a lamport and one display unit
const DefaultDecimals = 9

// LamportsToDecimal renders a lamport amount in display units
func LamportsToDecimal(lamports uint64, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), -decimals)
}

// DecimalToLamports converts a stored NUMERIC(20,0) value back to lamports
func DecimalToLamports(d decimal.Decimal) (uint64, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("negative balance %s", d.String())
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Errorf("fractional balance %s", d.String())
	}
	n := d.BigInt()
	if !n.IsUint64() {
		return 0, fmt.Errorf("balance %s: %w", d.String(), ErrNumericalOverflow)
	}
	return n.Uint64(), nil
}

// LamportsDecimal is the exact NUMERIC form of a lamport amount
func LamportsDecimal(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(lamports), 0)
}
