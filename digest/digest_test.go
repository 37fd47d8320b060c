package digest

import (
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSumKnownVectors(t *testing.T) {
	sum, err := Sum(nil, 28)
	require.NoError(t, err)
	assert.Equal(t, "836cc68931c2e4e3e838602eca1902591d216837bafddfe6f0c8cb07", hex.EncodeToString(sum))

	sum, err = Sum([]byte("abc"), 64)
	require.NoError(t, err)
	assert.Equal(t,
		"ba80a53f981c4d0d6a2797b69f12f6e94c212f14685ac4b74b12bb6fdbffa2d1"+
			"7d87c5392aab792dc252d5de4533cc9518d38aa8dbf1925ab92386edd4009923",
		hex.EncodeToString(sum))
}

func TestSumSizeRange(t *testing.T) {
	for _, size := range []int{0, -1, 65} {
		_, err := Sum([]byte("x"), size)
		assert.True(t, errors.Is(err, ErrInvalidDigestSize), "size %d", size)
	}

	sum, err := Sum([]byte("x"), 1)
	require.NoError(t, err)
	assert.Len(t, sum, 1)
}

func TestFingerprint(t *testing.T) {
	fp, err := Fingerprint(make([]byte, 32))
	require.NoError(t, err)
	assert.Equal(t, "f9dca21a6c826ec8acb4cf395cbc24351937bfe6560b2683ab8b415f", hex.EncodeToString(fp[:]))

	// RFC 8032 test 1 public key
	pub, _ := hex.DecodeString("d75a980182b10ab7d54bfed3c964073a0ee172f3daa62325af021a68f707511a")
	fp, err = Fingerprint(pub)
	require.NoError(t, err)
	assert.Equal(t, "35dedd2982a03cf39e7dce03c839994ffdec2ec6b04f1cf2d40e61a3", hex.EncodeToString(fp[:]))

	again, err := Fingerprint(pub)
	require.NoError(t, err)
	assert.Equal(t, fp, again)
}

func TestFingerprintKeyLength(t *testing.T) {
	for _, n := range []int{0, 31, 33, 64} {
		_, err := Fingerprint(make([]byte, n))
		assert.True(t, errors.Is(err, ErrInvalidKeyLength), "length %d", n)
	}
}
