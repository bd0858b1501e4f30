package value

// Volume is a gain ratio where 128 is 100%.
type Volume int32

const (
	VolumeFull Volume = 128
	volumeUnit        = 128.0
)

// VolumeFromRatio converts a gain ratio, truncating toward zero.
func VolumeFromRatio(ratio float32) Volume {
	return Volume(int32(volumeUnit * ratio))
}

// Ratio returns the volume as a gain ratio.
func (v Volume) Ratio() float32 {
	return float32(v) / volumeUnit
}

// Scale multiplies the volume by factor.
func (v Volume) Scale(factor float32) Volume {
	return VolumeFromRatio(v.Ratio() * factor)
}

// PanVolume is the stereo balance: 0 full left, 64 centered, 128 full right.
//
// Values below 0 or above 128 invert and amplify the opposite channel in
// pxtone; they are carried unchanged.
type PanVolume int32

const (
	PanLeft   PanVolume = 0
	PanCenter PanVolume = 64
	PanRight  PanVolume = 128

	panHalf = 64
)

// PanFromSeparate converts from left and right levels out of 64.
func PanFromSeparate(left, right int32) PanVolume {
	if left < panHalf {
		return PanVolume(2*panHalf - left)
	}
	return PanVolume(right)
}

// PanFromRatios converts from left and right gain ratios.
func PanFromRatios(left, right float32) PanVolume {
	return PanFromSeparate(int32(left*panHalf), int32(right*panHalf))
}

// Separate returns left and right levels out of 64.
func (p PanVolume) Separate() (int32, int32) {
	return min(panHalf, 2*panHalf-int32(p)), min(panHalf, int32(p))
}

// Ratios returns left and right gain ratios.
func (p PanVolume) Ratios() (float32, float32) {
	left, right := p.Separate()
	return float32(left) / panHalf, float32(right) / panHalf
}
