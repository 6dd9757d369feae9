package session

// Quantization is the clip-trigger quantization setting
type Quantization int

const (
	QuantizeNone Quantization = iota
	Quantize8Bars
	Quantize4Bars
	Quantize2Bars
	QuantizeBar
	QuantizeHalf
	QuantizeHalfTriplet
	QuantizeQuarter
	QuantizeQuarterTriplet
	QuantizeEighth
	QuantizeEighthTriplet
	QuantizeSixteenth
	QuantizeSixteenthTriplet
	QuantizeThirtySecond
)

// QuantizationSteps is the fixed order the quantization encoder walks through
var QuantizationSteps = []Quantization{
	QuantizeNone,
	Quantize8Bars,
	Quantize4Bars,
	Quantize2Bars,
	QuantizeBar,
	QuantizeHalf,
	QuantizeHalfTriplet,
	QuantizeQuarter,
	QuantizeQuarterTriplet,
	QuantizeEighth,
	QuantizeEighthTriplet,
	QuantizeSixteenth,
	QuantizeSixteenthTriplet,
	QuantizeThirtySecond,
}

// Step returns q's position in QuantizationSteps, or 0 if unknown
func (q Quantization) Step() int {
	for i, s := range QuantizationSteps {
		if s == q {
			return i
		}
	}
	return 0
}

func (q Quantization) String() string {
	names := [...]string{
		"none", "8 bars", "4 bars", "2 bars", "1 bar", "1/2", "1/2T",
		"1/4", "1/4T", "1/8", "1/8T", "1/16", "1/16T", "1/32",
	}
	if int(q) >= 0 && int(q) < len(names) {
		return names[q]
	}
	return "unknown"
}
