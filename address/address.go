// Package address builds enterprise address payloads from public keys and
// renders them as bech32 strings.
//
// Derivation is a pure pipeline:
//
//	public key -> Blake2b-224 fingerprint -> header ++ fingerprint
//	           -> 8-to-5 bit repack -> bech32 with checksum
//
// A Deriver holds only immutable parameters and may be shared between
// goroutines.
package address

import (
	"encoding/hex"
	"errors"
	"fmt"

	"Addrforge/bech32"
	"Addrforge/digest"
)

const (
	PublicKeySize = digest.PublicKeySize

	PrefixMainnet = "addr"
	PrefixTestnet = "addr_test"
)

// Errors
var (
	ErrInvalidKeyLength       = digest.ErrInvalidKeyLength
	ErrInvalidHeaderParameter = errors.New("invalid address header parameter")
	ErrInvalidPayload         = errors.New("invalid address payload")
	ErrPrefixMismatch         = errors.New("address prefix does not match network")
)

// PublicKey is a raw 32-byte public key.
type PublicKey [PublicKeySize]byte

// NewPublicKey copies data into a PublicKey.
func NewPublicKey(data []byte) (PublicKey, error) {
	var pk PublicKey
	if len(data) != PublicKeySize {
		return pk, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidKeyLength, len(data), PublicKeySize)
	}
	copy(pk[:], data)
	return pk, nil
}

func (pk PublicKey) Hex() string {
	return hex.EncodeToString(pk[:])
}

// Params select the header and prefix of derived addresses.
type Params struct {
	Kind    Kind
	Network Network
	Prefix  string
}

// DefaultParams returns enterprise key-hash params with the conventional
// prefix for network.
func DefaultParams(network Network) Params {
	return Params{
		Kind:    KindEnterpriseKey,
		Network: network,
		Prefix:  PrefixFor(network),
	}
}

// PrefixFor returns the conventional human-readable prefix for network.
func PrefixFor(network Network) string {
	if network == NetworkMainnet {
		return PrefixMainnet
	}
	return PrefixTestnet
}

// Validate checks the header parameters and the prefix.
func (p Params) Validate() error {
	if _, err := NewHeader(p.Kind, p.Network); err != nil {
		return err
	}
	return bech32.ValidatePrefix(p.Prefix)
}

// Derivation is the result of deriving one address, with every
// intermediate value kept for tooling.
type Derivation struct {
	PublicKey   PublicKey
	Fingerprint Fingerprint
	Payload     Payload
	Address     string
}

// Decoded is a parsed address string.
type Decoded struct {
	Prefix  string
	Payload Payload
}

func (d *Decoded) Kind() Kind {
	return d.Payload.Header().Kind()
}

func (d *Decoded) Network() Network {
	return d.Payload.Header().Network()
}

func (d *Decoded) Fingerprint() Fingerprint {
	return d.Payload.Fingerprint()
}

// Deriver derives addresses for one set of Params.
type Deriver struct {
	params Params
	codec  *bech32.Codec
}

// NewDeriver validates params. A nil codec selects the standard bech32 one.
func NewDeriver(params Params, codec *bech32.Codec) (*Deriver, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if codec == nil {
		codec = bech32.Standard()
	}
	return &Deriver{params: params, codec: codec}, nil
}

// Params returns the deriver's parameters.
func (d *Deriver) Params() Params {
	return d.params
}

// Derive turns a 32-byte public key into an address.
func (d *Deriver) Derive(pub []byte) (*Derivation, error) {
	if d.params.Kind != KindEnterpriseKey {
		return nil, fmt.Errorf("%w: %s addresses do not hash a key", ErrInvalidHeaderParameter, d.params.Kind)
	}

	pk, err := NewPublicKey(pub)
	if err != nil {
		return nil, err
	}

	sum, err := digest.Fingerprint(pk[:])
	if err != nil {
		return nil, fmt.Errorf("fingerprint: %w", err)
	}
	fp := Fingerprint(sum)

	payload, err := BuildPayload(d.params.Kind, d.params.Network, fp)
	if err != nil {
		return nil, err
	}

	addr, err := d.Encode(payload)
	if err != nil {
		return nil, err
	}

	return &Derivation{
		PublicKey:   pk,
		Fingerprint: fp,
		Payload:     payload,
		Address:     addr,
	}, nil
}

// Encode renders payload under the deriver's prefix.
func (d *Deriver) Encode(payload Payload) (string, error) {
	addr, err := d.codec.EncodeFromBytes(d.params.Prefix, payload[:])
	if err != nil {
		return "", fmt.Errorf("encode address: %w", err)
	}
	return addr, nil
}

// Parse decodes any well-formed address, whatever its prefix or network.
func (d *Deriver) Parse(addr string) (*Decoded, error) {
	return parse(d.codec, addr)
}

// Verify parses addr and checks that it belongs to the deriver's prefix
// and network.
func (d *Deriver) Verify(addr string) (*Decoded, error) {
	dec, err := d.Parse(addr)
	if err != nil {
		return nil, err
	}
	if dec.Prefix != d.params.Prefix || dec.Network() != d.params.Network {
		return nil, fmt.Errorf("%w: %s on %s, want %s on %s", ErrPrefixMismatch,
			dec.Prefix, dec.Network(), d.params.Prefix, d.params.Network)
	}
	return dec, nil
}

// Derive derives an address with the standard codec.
func Derive(pub []byte, params Params) (*Derivation, error) {
	d, err := NewDeriver(params, nil)
	if err != nil {
		return nil, err
	}
	return d.Derive(pub)
}

// Parse decodes addr with the standard codec.
func Parse(addr string) (*Decoded, error) {
	return parse(bech32.Standard(), addr)
}

func parse(codec *bech32.Codec, addr string) (*Decoded, error) {
	prefix, data, err := codec.DecodeToBytes(addr)
	if err != nil {
		return nil, fmt.Errorf("decode address: %w", err)
	}
	payload, err := ParsePayload(data)
	if err != nil {
		return nil, err
	}
	return &Decoded{Prefix: prefix, Payload: payload}, nil
}

func (d *Derivation) FingerprintHex() string {
	return d.Fingerprint.Hex()
}

func (d *Derivation) PayloadHex() string {
	return d.Payload.Hex()
}

func (d *Derivation) PublicKeyHex() string {
	return d.PublicKey.Hex()
}
