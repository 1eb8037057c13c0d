package wallet

import (
	"github.com/mr-tron/base58"
)

// Identity is a Solana wallet address used as the partition key for all
// per-wallet state. The zero value means "no wallet connected".
type Identity string

// None is the disconnected identity. Store keys derived from it use a
// sentinel partition so anonymous data never mixes with a real wallet's.
const None Identity = ""

// Sentinel is the store partition used when no wallet is connected.
const Sentinel = "disconnected"

// addressLen is the byte length of a Solana public key.
const addressLen = 32

// Parse validates a Solana address and returns it as an Identity.
// A valid address is the base58 encoding of a 32-byte public key.
func Parse(address string) (Identity, error) {
	if address == "" {
		return None, ErrMissingAddress
	}

	raw, err := base58.Decode(address)
	if err != nil {
		return None, ErrInvalidAddress
	}
	if len(raw) != addressLen {
		return None, ErrInvalidAddress
	}

	return Identity(address), nil
}

// IsZero reports whether no wallet is connected.
func (id Identity) IsZero() bool {
	return id == None
}

// String returns the address, or the sentinel partition when disconnected.
func (id Identity) String() string {
	if id.IsZero() {
		return Sentinel
	}
	return string(id)
}

// Short returns a truncated display form (first and last four characters).
func (id Identity) Short() string {
	s := string(id)
	if len(s) <= 8 {
		return s
	}
	return s[:4] + "..." + s[len(s)-4:]
}
