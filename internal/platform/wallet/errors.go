package wallet

import "errors"

var (
	ErrMissingAddress = errors.New("wallet address is required")
	ErrInvalidAddress = errors.New("invalid Solana address (must be base58 of a 32-byte key)")
	ErrNotConnected   = errors.New("wallet not connected")
)
