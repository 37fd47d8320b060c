package bech32

// ExpandPrefix returns the high 3 bits of every prefix character, a zero,
// then the low 5 bits of every character.
func ExpandPrefix(hrp string) []byte {
	ret := make([]byte, 0, len(hrp)*2+1)
	for i := 0; i < len(hrp); i++ {
		ret = append(ret, hrp[i]>>5)
	}
	ret = append(ret, 0)
	for i := 0; i < len(hrp); i++ {
		ret = append(ret, hrp[i]&31)
	}
	return ret
}

// Polymod runs the BCH checksum over values in GF(32).
func (c *Codec) Polymod(values []byte) uint32 {
	chk := uint32(1)
	for _, v := range values {
		top := chk >> 25
		chk = (chk&0x1ffffff)<<5 ^ uint32(v)
		for i, g := range c.params.Generators {
			if (top>>uint(i))&1 == 1 {
				chk ^= g
			}
		}
	}
	return chk
}

// CreateChecksum computes the checksum symbols for hrp and data.
func (c *Codec) CreateChecksum(hrp string, data []byte) []byte {
	n := c.params.ChecksumLen

	values := ExpandPrefix(hrp)
	values = append(values, data...)
	values = append(values, make([]byte, n)...)
	mod := c.Polymod(values) ^ 1

	ret := make([]byte, n)
	for i := 0; i < n; i++ {
		ret[i] = byte((mod >> uint(5*(n-1-i))) & 31)
	}
	return ret
}

// VerifyChecksum checks that the polymod of hrp and data, checksum tail
// included, is 1.
func (c *Codec) VerifyChecksum(hrp string, data []byte) error {
	values := ExpandPrefix(hrp)
	values = append(values, data...)
	if c.Polymod(values) != 1 {
		return ErrChecksumMismatch
	}
	return nil
}
