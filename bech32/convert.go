package bech32

import "fmt"

// ConvertBits regroups a bitstream of fromBits-wide values into toBits-wide
// values, MSB first across the whole sequence.
//
// With pad set, a trailing partial group is emitted left-aligned and filled
// with zero bits. Without it, leftover bits must be zero padding shorter than
// one source group, otherwise ErrBitRepackDataLoss is returned.
func ConvertBits(data []byte, fromBits, toBits uint8, pad bool) ([]byte, error) {
	if fromBits < 1 || fromBits > 8 || toBits < 1 || toBits > 8 {
		return nil, fmt.Errorf("%w: from %d to %d", ErrInvalidBitWidth, fromBits, toBits)
	}

	var acc uint32
	var bits uint8
	maxv := uint32(1)<<toBits - 1
	ret := make([]byte, 0, len(data)*int(fromBits)/int(toBits)+1)

	for i, value := range data {
		if uint32(value)>>fromBits != 0 {
			return nil, fmt.Errorf("%w: %d at position %d wider than %d bits",
				ErrInvalidDataValue, value, i, fromBits)
		}
		acc = acc<<fromBits | uint32(value)
		bits += fromBits
		for bits >= toBits {
			bits -= toBits
			ret = append(ret, byte((acc>>bits)&maxv))
		}
	}

	if pad {
		if bits > 0 {
			ret = append(ret, byte((acc<<(toBits-bits))&maxv))
		}
		return ret, nil
	}

	if bits >= fromBits {
		return nil, fmt.Errorf("%w: %d unconsumed bits", ErrBitRepackDataLoss, bits)
	}
	if (acc<<(toBits-bits))&maxv != 0 {
		return nil, fmt.Errorf("%w: non-zero padding", ErrBitRepackDataLoss)
	}

	return ret, nil
}
