package midi

// Mode is how a bound control's value is interpreted
type Mode int

const (
	// Absolute values are the direct 0-127 target
	Absolute Mode = iota
	// RelativeTwosComplement values are signed detent ticks, see DecodeRelative
	RelativeTwosComplement
)

func (m Mode) String() string {
	if m == RelativeTwosComplement {
		return "relative"
	}
	return "absolute"
}

// DecodeRelative converts a 7-bit two's complement encoder tick to a signed
// delta: 0-63 are positive, 64-127 are value-128.
func DecodeRelative(value uint8) int {
	v := int(value & 0x7F)
	if v >= 64 {
		return v - 128
	}
	return v
}

// Clamp limits v to [lo, hi]. If hi < lo the result is lo.
func Clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
