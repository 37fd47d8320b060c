package address

import (
	"bytes"
	"encoding/hex"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Addrforge/bech32"
)

const rfc8032Pub = "d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a"

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func TestBuildPayloadZeroFingerprint(t *testing.T) {
	p, err := BuildPayload(KindEnterpriseKey, NetworkTestnet, Fingerprint{})
	require.NoError(t, err)

	want := append([]byte{0x60}, make([]byte, 28)...)
	assert.Equal(t, want, p.Bytes())
	assert.Equal(t, Header(0x60), p.Header())
	assert.Equal(t, KindEnterpriseKey, p.Header().Kind())
	assert.Equal(t, NetworkTestnet, p.Header().Network())
}

func TestNewHeader(t *testing.T) {
	cases := []struct {
		kind    Kind
		network Network
		want    Header
	}{
		{KindEnterpriseKey, NetworkTestnet, 0x60},
		{KindEnterpriseKey, NetworkMainnet, 0x61},
		{KindEnterpriseScript, NetworkTestnet, 0x70},
		{KindEnterpriseScript, NetworkMainnet, 0x71},
	}
	for _, tc := range cases {
		h, err := NewHeader(tc.kind, tc.network)
		require.NoError(t, err)
		assert.Equal(t, tc.want, h)
	}

	_, err := NewHeader(Kind(0), NetworkTestnet)
	assert.True(t, errors.Is(err, ErrInvalidHeaderParameter))
	_, err = NewHeader(Kind(16), NetworkTestnet)
	assert.True(t, errors.Is(err, ErrInvalidHeaderParameter))
	_, err = NewHeader(KindEnterpriseKey, Network(2))
	assert.True(t, errors.Is(err, ErrInvalidHeaderParameter))

	_, err = BuildPayload(KindEnterpriseKey, Network(15), Fingerprint{})
	assert.True(t, errors.Is(err, ErrInvalidHeaderParameter))
}

func TestParsePayload(t *testing.T) {
	raw := append([]byte{0x61}, bytes.Repeat([]byte{0xab}, 28)...)
	p, err := ParsePayload(raw)
	require.NoError(t, err)
	assert.Equal(t, NetworkMainnet, p.Header().Network())
	assert.Equal(t, bytes.Repeat([]byte{0xab}, 28), p.Fingerprint().Bytes())

	_, err = ParsePayload(raw[:28])
	assert.True(t, errors.Is(err, ErrInvalidPayload))

	raw[0] = 0x05
	_, err = ParsePayload(raw)
	assert.True(t, errors.Is(err, ErrInvalidHeaderParameter))
}

func TestDeriveKnownVectors(t *testing.T) {
	cases := []struct {
		name    string
		pub     string
		network Network
		fp      string
		want    string
	}{
		{
			name:    "zero key testnet",
			pub:     "0000000000000000000000000000000000000000000000000000000000000000",
			network: NetworkTestnet,
			fp:      "f9dca21a6c826ec8acb4cf395cbc24351937bfe6560b2683ab8b415f",
			want:    "addr_test1vruaegs6djpxaj9vkn8njh9uys63jdaluetqkf5r4w95zhc8sctxa",
		},
		{
			name:    "zero key mainnet",
			pub:     "0000000000000000000000000000000000000000000000000000000000000000",
			network: NetworkMainnet,
			fp:      "f9dca21a6c826ec8acb4cf395cbc24351937bfe6560b2683ab8b415f",
			want:    "addr1v8uaegs6djpxaj9vkn8njh9uys63jdaluetqkf5r4w95zhcucvhfc",
		},
		{
			name:    "rfc8032 key testnet",
			pub:     rfc8032Pub,
			network: NetworkTestnet,
			fp:      "35dedd2982a03cf39e7dce03c839994ffdec2ec6b04f1cf2d40e61a3",
			want:    "addr_test1vq6aahffs2sreuu70h8q8jpen98lmmpwc6cy788j6s8xrgc64xuck",
		},
		{
			name:    "rfc8032 key mainnet",
			pub:     rfc8032Pub,
			network: NetworkMainnet,
			fp:      "35dedd2982a03cf39e7dce03c839994ffdec2ec6b04f1cf2d40e61a3",
			want:    "addr1vy6aahffs2sreuu70h8q8jpen98lmmpwc6cy788j6s8xrgcpajqhn",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Derive(mustHex(t, tc.pub), DefaultParams(tc.network))
			require.NoError(t, err)
			assert.Equal(t, tc.fp, d.FingerprintHex())
			assert.Equal(t, tc.pub, d.PublicKeyHex())
			assert.Equal(t, tc.want, d.Address)
			assert.Len(t, d.PayloadHex(), PayloadSize*2)
		})
	}
}

func TestEncodeKnownPayloads(t *testing.T) {
	// key and script hash vectors from CIP-19
	hash := mustHex(t, "9493315cd92eb5d8c4304e67b7e16ae36d61d34502694657811a2c8e")
	var fp Fingerprint
	copy(fp[:], hash)

	cases := []struct {
		params Params
		want   string
	}{
		{DefaultParams(NetworkTestnet), "addr_test1vz2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzerspjrlsz"},
		{DefaultParams(NetworkMainnet), "addr1vx2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzers66hrl8"},
		{Params{Kind: KindEnterpriseScript, Network: NetworkTestnet, Prefix: PrefixTestnet},
			"addr_test1wz2fxv2umyhttkxyxp8x0dlpdt3k6cwng5pxj3jhsydzersg6ll8z"},
	}

	for _, tc := range cases {
		d, err := NewDeriver(tc.params, nil)
		require.NoError(t, err)
		payload, err := BuildPayload(tc.params.Kind, tc.params.Network, fp)
		require.NoError(t, err)

		addr, err := d.Encode(payload)
		require.NoError(t, err)
		assert.Equal(t, tc.want, addr)

		dec, err := d.Verify(addr)
		require.NoError(t, err)
		assert.Equal(t, payload, dec.Payload)
		assert.Equal(t, tc.params.Kind, dec.Kind())
		assert.Equal(t, fp, dec.Fingerprint())
	}
}

func TestZeroPayloadAddress(t *testing.T) {
	d, err := NewDeriver(DefaultParams(NetworkTestnet), nil)
	require.NoError(t, err)

	payload, err := BuildPayload(KindEnterpriseKey, NetworkTestnet, Fingerprint{})
	require.NoError(t, err)

	addr, err := d.Encode(payload)
	require.NoError(t, err)
	assert.Equal(t, "addr_test1vqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqqd9tg5t", addr)
}

func TestDeriveErrors(t *testing.T) {
	_, err := Derive(make([]byte, 31), DefaultParams(NetworkTestnet))
	assert.True(t, errors.Is(err, ErrInvalidKeyLength))

	_, err = Derive(make([]byte, 32), Params{Kind: KindEnterpriseKey, Network: 9, Prefix: "addr"})
	assert.True(t, errors.Is(err, ErrInvalidHeaderParameter))

	_, err = Derive(make([]byte, 32), Params{Kind: KindEnterpriseScript, Network: NetworkTestnet, Prefix: "addr"})
	assert.True(t, errors.Is(err, ErrInvalidHeaderParameter))

	_, err = Derive(make([]byte, 32), Params{Kind: KindEnterpriseKey, Network: NetworkTestnet})
	assert.True(t, errors.Is(err, bech32.ErrInvalidPrefix))

	_, err = Derive(make([]byte, 32), Params{Kind: KindEnterpriseKey, Network: NetworkTestnet, Prefix: "Addr"})
	assert.True(t, errors.Is(err, bech32.ErrInvalidPrefix))
}

func TestParseRoundTrip(t *testing.T) {
	d, err := NewDeriver(DefaultParams(NetworkMainnet), nil)
	require.NoError(t, err)

	for i := 0; i < 32; i++ {
		pub := bytes.Repeat([]byte{byte(i)}, 32)
		derived, err := d.Derive(pub)
		require.NoError(t, err)

		dec, err := Parse(derived.Address)
		require.NoError(t, err)
		assert.Equal(t, PrefixMainnet, dec.Prefix)
		assert.Equal(t, derived.Payload, dec.Payload)
		assert.Equal(t, NetworkMainnet, dec.Network())
	}
}

func TestParseErrors(t *testing.T) {
	d, err := Derive(mustHex(t, rfc8032Pub), DefaultParams(NetworkTestnet))
	require.NoError(t, err)

	last := d.Address[len(d.Address)-1]
	swap := byte('q')
	if last == swap {
		swap = 'p'
	}
	_, err = Parse(d.Address[:len(d.Address)-1] + string(swap))
	assert.True(t, errors.Is(err, bech32.ErrChecksumMismatch))

	_, err = Parse(d.Address[:len(d.Address)-1] + "b")
	assert.True(t, errors.Is(err, bech32.ErrInvalidAlphabetCharacter))

	// a valid bech32 string whose data is not a payload
	short, err := bech32.Encode("addr_test", []byte{12, 0, 0})
	require.NoError(t, err)
	_, err = Parse(short)
	assert.Error(t, err)

	mainnet, err := NewDeriver(DefaultParams(NetworkMainnet), nil)
	require.NoError(t, err)
	_, err = mainnet.Verify(d.Address)
	assert.True(t, errors.Is(err, ErrPrefixMismatch))
}

func TestDeriveDeterministicConcurrent(t *testing.T) {
	d, err := NewDeriver(DefaultParams(NetworkTestnet), nil)
	require.NoError(t, err)

	pub := mustHex(t, rfc8032Pub)
	want, err := d.Derive(pub)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := d.Derive(pub)
			if err == nil {
				results[i] = got.Address
			}
		}(i)
	}
	wg.Wait()

	for _, addr := range results {
		assert.Equal(t, want.Address, addr)
	}
}

func TestParseNames(t *testing.T) {
	n, err := ParseNetwork("Mainnet")
	require.NoError(t, err)
	assert.Equal(t, NetworkMainnet, n)

	k, err := ParseKind("script")
	require.NoError(t, err)
	assert.Equal(t, KindEnterpriseScript, k)

	_, err = ParseNetwork("moon")
	assert.True(t, errors.Is(err, ErrInvalidHeaderParameter))
	_, err = ParseKind("stake")
	assert.True(t, errors.Is(err, ErrInvalidHeaderParameter))

	assert.Equal(t, "testnet", NetworkTestnet.String())
	assert.Equal(t, "enterprise-key", KindEnterpriseKey.String())
}
