package bech32

import (
	"fmt"
	"strings"
)

const (
	// Charset is the BIP-173 data alphabet.
	Charset = "qpzry9x8gf2tvdw0s3jn54khce6mua7l"

	// Separator splits the human-readable prefix from the data part.
	Separator = '1'

	// ChecksumLength is the number of 5-bit checksum symbols.
	ChecksumLength = 6
)

// Params are the constants a Codec works from.
type Params struct {
	Generators  [5]uint32
	Alphabet    string
	Separator   byte
	ChecksumLen int
}

// StandardParams returns the BIP-173 bech32 constants.
func StandardParams() Params {
	return Params{
		Generators:  [5]uint32{0x3b6a57b2, 0x26508e6d, 0x1ea119fa, 0x3d4233dd, 0x2a1462b3},
		Alphabet:    Charset,
		Separator:   Separator,
		ChecksumLen: ChecksumLength,
	}
}

// Codec encodes and decodes bech32 strings for one parameter set.
// A Codec is immutable once built and safe for concurrent use.
type Codec struct {
	params  Params
	reverse [128]int8
}

// NewCodec validates params and builds the reverse alphabet table.
func NewCodec(params Params) (*Codec, error) {
	if len(params.Alphabet) != 32 {
		return nil, fmt.Errorf("%w: alphabet has %d characters, want 32",
			ErrInvalidParams, len(params.Alphabet))
	}
	// 30-bit polymod state holds at most six 5-bit groups
	if params.ChecksumLen < 1 || params.ChecksumLen > 6 {
		return nil, fmt.Errorf("%w: checksum length %d", ErrInvalidParams, params.ChecksumLen)
	}

	c := &Codec{params: params}
	for i := range c.reverse {
		c.reverse[i] = -1
	}
	for i := 0; i < len(params.Alphabet); i++ {
		ch := params.Alphabet[i]
		if ch >= 128 || ch == params.Separator || c.reverse[ch] != -1 {
			return nil, fmt.Errorf("%w: bad alphabet character %q", ErrInvalidParams, ch)
		}
		if ch >= 'A' && ch <= 'Z' {
			return nil, fmt.Errorf("%w: alphabet must be lowercase", ErrInvalidParams)
		}
		c.reverse[ch] = int8(i)
	}

	return c, nil
}

// Standard returns a Codec over StandardParams.
func Standard() *Codec {
	c, err := NewCodec(StandardParams())
	if err != nil {
		panic(err)
	}
	return c
}

// Params returns the codec's constants.
func (c *Codec) Params() Params {
	return c.params
}

// Encode maps prefix, data and the computed checksum to a bech32 string.
// Every data value must be a 5-bit symbol.
func (c *Codec) Encode(hrp string, data []byte) (string, error) {
	if err := ValidatePrefix(hrp); err != nil {
		return "", err
	}
	for i, v := range data {
		if v >= 32 {
			return "", fmt.Errorf("%w: %d at position %d wider than 5 bits", ErrInvalidDataValue, v, i)
		}
	}

	checksum := c.CreateChecksum(hrp, data)

	var sb strings.Builder
	sb.Grow(len(hrp) + 1 + len(data) + len(checksum))
	sb.WriteString(hrp)
	sb.WriteByte(c.params.Separator)
	for _, v := range data {
		sb.WriteByte(c.params.Alphabet[v])
	}
	for _, v := range checksum {
		sb.WriteByte(c.params.Alphabet[v])
	}

	return sb.String(), nil
}

// Decode splits s on its last separator, maps the data part back to 5-bit
// symbols and verifies the checksum. The returned data excludes the checksum.
// An all-uppercase string is accepted and normalised to lowercase.
func (c *Codec) Decode(s string) (string, []byte, error) {
	hrp, data, err := c.decodeSymbols(s)
	if err != nil {
		return "", nil, err
	}

	if err := c.VerifyChecksum(hrp, data); err != nil {
		return "", nil, err
	}

	return hrp, data[:len(data)-c.params.ChecksumLen], nil
}

// decodeSymbols maps s to its prefix and data symbols, checksum included.
//
// Every failure a single changed character can cause is reported as an
// alphabet or checksum error, wrapped together with the structural one.
func (c *Codec) decodeSymbols(s string) (string, []byte, error) {
	if pos, ok := mixedCase(s); !ok {
		return "", nil, fmt.Errorf("%w: %w: %q at position %d",
			ErrMixedCase, ErrInvalidAlphabetCharacter, s[pos], pos)
	}
	s = strings.ToLower(s)

	pos := strings.LastIndexByte(s, c.params.Separator)
	if pos < 0 {
		return "", nil, fmt.Errorf("%w: %w", ErrMissingSeparator, ErrChecksumMismatch)
	}

	hrp := s[:pos]
	if err := ValidatePrefix(hrp); err != nil {
		return "", nil, err
	}

	part := s[pos+1:]
	data := make([]byte, len(part))
	for i := 0; i < len(part); i++ {
		ch := part[i]
		if ch >= 128 || c.reverse[ch] < 0 {
			return "", nil, fmt.Errorf("%w: %q at position %d",
				ErrInvalidAlphabetCharacter, ch, pos+1+i)
		}
		data[i] = byte(c.reverse[ch])
	}

	if len(data) < c.params.ChecksumLen {
		return "", nil, fmt.Errorf("%w: %w: %d data characters",
			ErrInvalidLength, ErrChecksumMismatch, len(data))
	}

	return hrp, data, nil
}

// mixedCase returns true when s uses a single letter case. Otherwise it
// returns false and the position of the first letter in the minority case.
func mixedCase(s string) (int, bool) {
	var upper, lower int
	firstUpper, firstLower := -1, -1
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case ch >= 'A' && ch <= 'Z':
			upper++
			if firstUpper < 0 {
				firstUpper = i
			}
		case ch >= 'a' && ch <= 'z':
			lower++
			if firstLower < 0 {
				firstLower = i
			}
		}
	}
	switch {
	case upper == 0 || lower == 0:
		return 0, true
	case upper <= lower:
		return firstUpper, false
	default:
		return firstLower, false
	}
}

// EncodeFromBytes repacks 8-bit payload bytes to 5-bit symbols, padding the
// tail, and encodes them.
func (c *Codec) EncodeFromBytes(hrp string, payload []byte) (string, error) {
	data, err := ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("repack payload: %w", err)
	}
	return c.Encode(hrp, data)
}

// DecodeToBytes decodes s and repacks its symbols to 8-bit bytes without
// padding.
func (c *Codec) DecodeToBytes(s string) (string, []byte, error) {
	hrp, data, err := c.Decode(s)
	if err != nil {
		return "", nil, err
	}
	payload, err := ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", nil, fmt.Errorf("repack data: %w", err)
	}
	return hrp, payload, nil
}

// Encode encodes with the standard codec.
func Encode(hrp string, data []byte) (string, error) {
	return Standard().Encode(hrp, data)
}

// Decode decodes with the standard codec.
func Decode(s string) (string, []byte, error) {
	return Standard().Decode(s)
}

// ValidatePrefix accepts non-empty printable ASCII without uppercase letters.
// A character outside that range is also an ErrInvalidAlphabetCharacter.
func ValidatePrefix(hrp string) error {
	if hrp == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPrefix)
	}
	for i := 0; i < len(hrp); i++ {
		ch := hrp[i]
		if ch < 33 || ch > 126 {
			return fmt.Errorf("%w: %w: %q at position %d",
				ErrInvalidPrefix, ErrInvalidAlphabetCharacter, ch, i)
		}
		if ch >= 'A' && ch <= 'Z' {
			return fmt.Errorf("%w: uppercase character %q", ErrInvalidPrefix, ch)
		}
	}
	return nil
}
