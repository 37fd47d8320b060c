package bech32

import "errors"

// Errors
var (
	ErrBitRepackDataLoss        = errors.New("bit repack would discard significant bits")
	ErrInvalidBitWidth          = errors.New("bit group width must be between 1 and 8")
	ErrInvalidDataValue         = errors.New("data value does not fit in source bit width")
	ErrInvalidAlphabetCharacter = errors.New("character not in bech32 alphabet")
	ErrChecksumMismatch         = errors.New("bech32 checksum mismatch")
	ErrInvalidPrefix            = errors.New("invalid human-readable prefix")
	ErrMissingSeparator         = errors.New("missing bech32 separator")
	ErrMixedCase                = errors.New("bech32 string uses mixed case")
	ErrInvalidLength            = errors.New("bech32 string too short for checksum")
	ErrInvalidParams            = errors.New("invalid bech32 codec parameters")
)
