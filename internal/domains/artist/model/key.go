package model

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// KeyLength is the byte length of identity keys and derived addresses
const KeyLength = 32

// Key identifies an identity (wallet owner) or a record address
type Key [KeyLength]byte

// Address is a Key that points at a stored account
type Address = Key

// ZeroKey is the all-zero key, never a valid owner
var ZeroKey Key

// ParseKey parses a 64 character hex string
func ParseKey(s string) (Key, error) {
	var k Key
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(s) != KeyLength*2 {
		return k, fmt.Errorf("key must be %d hex characters, got %d", KeyLength*2, len(s))
	}
	if _, err := hex.Decode(k[:], []byte(s)); err != nil {
		return k, fmt.Errorf("invalid key: %w", err)
	}
	return k, nil
}

// MustParseKey is ParseKey for constants and tests
func MustParseKey(s string) Key {
	k, err := ParseKey(s)
	if err != nil {
		panic(err)
	}
	return k
}

func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// Short returns the first 8 hex characters, for log lines
func (k Key) Short() string {
	return hex.EncodeToString(k[:4])
}

func (k Key) IsZero() bool {
	return k == ZeroKey
}

func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
