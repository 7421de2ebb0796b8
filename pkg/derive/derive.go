package derive

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

const (
	// MaxSeeds is the maximum number of seeds, bump excluded
	MaxSeeds = 16
	// MaxSeedLength is the maximum byte length of one seed
	MaxSeedLength = 32

	addressMarker = "DerivedAddress"
)

var (
	ErrTooManySeeds   = errors.New("too many seeds")
	ErrSeedTooLong    = errors.New("seed is too long")
	ErrNoViableBump   = errors.New("no viable bump found")
	ErrInvalidAddress = errors.New("seeds do not produce a valid address")
)

// Address is a 32 byte derived location
type Address = [32]byte

// Deriver maps a seed tuple to a deterministic address and its bump
type Deriver interface {
	Derive(seeds ...[]byte) (Address, uint8, error)
	CreateAddress(bump uint8, seeds ...[]byte) (Address, error)
}

// Blake2bDeriver hashes seeds under a namespace key with blake2b-256.
// An address is valid when the top bit of its last byte is clear; the bump is the
// first byte, counting down from 255, that produces a valid address.
type Blake2bDeriver struct {
	namespace []byte
}

// NewBlake2bDeriver returns a deriver scoped to namespace (at most 64 bytes)
func NewBlake2bDeriver(namespace string) (*Blake2bDeriver, error) {
	if len(namespace) > blake2b.Size {
		return nil, fmt.Errorf("namespace must be at most %d bytes", blake2b.Size)
	}
	return &Blake2bDeriver{namespace: []byte(namespace)}, nil
}

// Derive searches bumps 255..0 and returns the first valid address
func (d *Blake2bDeriver) Derive(seeds ...[]byte) (Address, uint8, error) {
	if err := checkSeeds(seeds); err != nil {
		return Address{}, 0, err
	}
	for bump := 255; bump >= 0; bump-- {
		addr, err := d.hash(uint8(bump), seeds)
		if err != nil {
			return Address{}, 0, err
		}
		if onCurve(addr) {
			continue
		}
		return addr, uint8(bump), nil
	}
	return Address{}, 0, ErrNoViableBump
}

// CreateAddress recomputes an address from a persisted bump
func (d *Blake2bDeriver) CreateAddress(bump uint8, seeds ...[]byte) (Address, error) {
	if err := checkSeeds(seeds); err != nil {
		return Address{}, err
	}
	addr, err := d.hash(bump, seeds)
	if err != nil {
		return Address{}, err
	}
	if onCurve(addr) {
		return Address{}, ErrInvalidAddress
	}
	return addr, nil
}

func (d *Blake2bDeriver) hash(bump uint8, seeds [][]byte) (Address, error) {
	var addr Address
	h, err := blake2b.New256(d.namespace)
	if err != nil {
		return addr, fmt.Errorf("init blake2b: %w", err)
	}
	for _, seed := range seeds {
		// length prefix keeps ("ab","c") and ("a","bc") apart
		h.Write([]byte{byte(len(seed))})
		h.Write(seed)
	}
	h.Write([]byte{bump})
	h.Write([]byte(addressMarker))
	copy(addr[:], h.Sum(nil))
	return addr, nil
}

func onCurve(addr Address) bool {
	return addr[31]&0x80 != 0
}

func checkSeeds(seeds [][]byte) error {
	if len(seeds) > MaxSeeds {
		return fmt.Errorf("%w: %d", ErrTooManySeeds, len(seeds))
	}
	for i, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return fmt.Errorf("%w: seed %d has %d bytes", ErrSeedTooLong, i, len(seed))
		}
	}
	return nil
}
