package tensor

import (
	"fmt"
	"math"
)

// QuantParams holds per-tensor quantization parameters for Int8/Uint8 data.
// Symmetric quantization (Int8) uses ZeroPoint 0; asymmetric quantization
// (Uint8) shifts by ZeroPoint.
type QuantParams struct {
	Scale     float32
	ZeroPoint int32
}

// DefaultQuantParams returns unit-scale parameters.
func DefaultQuantParams() QuantParams {
	return QuantParams{Scale: 1}
}

// QuantizationParams describes per-tensor or per-channel quantization.
// When PerChannelScales is non-empty the parameters are per-channel along
// Axis; otherwise Scale and ZeroPoint apply to the whole tensor.
type QuantizationParams struct {
	Scale     float32
	ZeroPoint int32

	PerChannelScales     []float32
	PerChannelZeroPoints []int32

	Axis int

	// Symmetric asserts that zero points are zero; per-channel zero points
	// may then be left empty.
	Symmetric bool
}

// NewQuantizationParams returns per-tensor parameters with the given scale
// and zero point, quantizing along channel axis 1 by default.
func NewQuantizationParams(scale float32, zeroPoint int32) QuantizationParams {
	return QuantizationParams{Scale: scale, ZeroPoint: zeroPoint, Axis: 1}
}

// IsPerChannel reports whether the parameters carry per-channel scales.
func (qp QuantizationParams) IsPerChannel() bool {
	return len(qp.PerChannelScales) > 0
}

// Equal compares all fields, including the per-channel vectors.
func (qp QuantizationParams) Equal(other QuantizationParams) bool {
	if qp.Scale != other.Scale || qp.ZeroPoint != other.ZeroPoint ||
		qp.Axis != other.Axis || qp.Symmetric != other.Symmetric {
		return false
	}
	if len(qp.PerChannelScales) != len(other.PerChannelScales) ||
		len(qp.PerChannelZeroPoints) != len(other.PerChannelZeroPoints) {
		return false
	}
	for i := range qp.PerChannelScales {
		if qp.PerChannelScales[i] != other.PerChannelScales[i] {
			return false
		}
	}
	for i := range qp.PerChannelZeroPoints {
		if qp.PerChannelZeroPoints[i] != other.PerChannelZeroPoints[i] {
			return false
		}
	}
	return true
}

// Validate checks internal consistency: positive scales, and matching
// per-channel vector lengths when zero points are materialized.
func (qp QuantizationParams) Validate() error {
	if !qp.IsPerChannel() {
		if qp.Scale <= 0 {
			return fmt.Errorf("%w: scale %v", ErrNonPositiveScale, qp.Scale)
		}
		return nil
	}
	for i, s := range qp.PerChannelScales {
		if s <= 0 {
			return fmt.Errorf("%w: channel %d scale %v", ErrNonPositiveScale, i, s)
		}
	}
	if !qp.Symmetric && len(qp.PerChannelZeroPoints) != 0 &&
		len(qp.PerChannelZeroPoints) != len(qp.PerChannelScales) {
		return fmt.Errorf("%w: %d scales vs %d zero points", ErrInvalidQuantRange,
			len(qp.PerChannelScales), len(qp.PerChannelZeroPoints))
	}
	return nil
}

func clampFloat(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func roundFloat(v float32) float32 {
	return float32(math.Round(float64(v)))
}

// QuantizeSymmetricInt8 quantizes value with zero point 0, clamping to the
// int8 range.
func QuantizeSymmetricInt8(value, scale float32) (int8, error) {
	if scale <= 0 {
		return 0, fmt.Errorf("%w: scale %v", ErrNonPositiveScale, scale)
	}
	scaled := roundFloat(value / scale)
	return int8(clampFloat(scaled, -128, 127)), nil
}

// QuantizeAsymmetricUint8 quantizes value with the given zero point,
// clamping to the uint8 range.
func QuantizeAsymmetricUint8(value, scale float32, zeroPoint int32) (uint8, error) {
	if scale <= 0 {
		return 0, fmt.Errorf("%w: scale %v", ErrNonPositiveScale, scale)
	}
	scaled := roundFloat(value/scale) + float32(zeroPoint)
	return uint8(clampFloat(scaled, 0, 255)), nil
}

// DequantizeSymmetricInt8 is the linear inverse of QuantizeSymmetricInt8.
func DequantizeSymmetricInt8(value int8, scale float32) float32 {
	return float32(value) * scale
}

// DequantizeAsymmetricUint8 is the linear inverse of QuantizeAsymmetricUint8.
func DequantizeAsymmetricUint8(value uint8, scale float32, zeroPoint int32) float32 {
	return (float32(value) - float32(zeroPoint)) * scale
}

// CalculateSymmetricQuantParams derives symmetric parameters mapping
// [-absMax, absMax] onto the target range. Int8 maps to [-127, 127]
// (reserving -128); Uint8 maps to [0, 255]. A near-zero range yields unit
// scale.
func CalculateSymmetricQuantParams(minVal, maxVal float32, target DataType) (QuantizationParams, error) {
	if !target.IsQuantized() {
		return QuantizationParams{}, fmt.Errorf("%w: target %s is not quantizable", ErrUnknownDType, target)
	}

	params := QuantizationParams{Symmetric: true, Axis: 1}

	absMax := float32(math.Max(math.Abs(float64(minVal)), math.Abs(float64(maxVal))))
	if absMax < 1e-8 {
		params.Scale = 1
		return params, nil
	}

	if target == Int8 {
		params.Scale = absMax / 127
	} else {
		params.Scale = absMax / 255
	}
	return params, nil
}

// CalculateAsymmetricQuantParams derives asymmetric Uint8 parameters
// mapping [minVal, maxVal] onto [0, 255]. The zero point is the quantized
// value representing 0.0, clamped to the uint8 range.
func CalculateAsymmetricQuantParams(minVal, maxVal float32, target DataType) (QuantizationParams, error) {
	if target != Uint8 {
		return QuantizationParams{}, fmt.Errorf("%w: asymmetric quantization targets uint8, got %s",
			ErrUnknownDType, target)
	}
	if minVal >= maxVal {
		return QuantizationParams{}, fmt.Errorf("%w: min %v >= max %v", ErrInvalidQuantRange, minVal, maxVal)
	}

	params := QuantizationParams{Axis: 1}

	span := maxVal - minVal
	if span < 1e-8 {
		params.Scale = 1
		params.ZeroPoint = int32(roundFloat(-minVal))
		return params, nil
	}

	params.Scale = span / 255
	zp := int32(roundFloat(-minVal / params.Scale))
	if zp < 0 {
		zp = 0
	} else if zp > 255 {
		zp = 255
	}
	params.ZeroPoint = zp
	return params, nil
}

// CalculatePerChannelQuantParams applies the scalar calculators per channel.
// Zero points are materialized only for asymmetric quantization.
func CalculatePerChannelQuantParams(channelMin, channelMax []float32, axis int, symmetric bool, target DataType) (QuantizationParams, error) {
	if len(channelMin) != len(channelMax) {
		return QuantizationParams{}, fmt.Errorf("%w: %d mins vs %d maxes", ErrInvalidQuantRange,
			len(channelMin), len(channelMax))
	}
	if len(channelMin) == 0 {
		return QuantizationParams{}, fmt.Errorf("%w: empty channel ranges", ErrInvalidQuantRange)
	}

	params := QuantizationParams{Axis: axis, Symmetric: symmetric, Scale: 1}
	params.PerChannelScales = make([]float32, len(channelMin))
	if !symmetric {
		params.PerChannelZeroPoints = make([]int32, len(channelMin))
	}

	for i := range channelMin {
		if symmetric {
			p, err := CalculateSymmetricQuantParams(channelMin[i], channelMax[i], target)
			if err != nil {
				return QuantizationParams{}, err
			}
			params.PerChannelScales[i] = p.Scale
		} else {
			p, err := CalculateAsymmetricQuantParams(channelMin[i], channelMax[i], target)
			if err != nil {
				return QuantizationParams{}, err
			}
			params.PerChannelScales[i] = p.Scale
			params.PerChannelZeroPoints[i] = p.ZeroPoint
		}
	}
	return params, nil
}

// QuantizeBufferSymmetricInt8 quantizes input into output with a single
// shared scale. The scale is validated once; elements never fail
// individually.
func QuantizeBufferSymmetricInt8(input []float32, output []int8, scale float32) error {
	if scale <= 0 {
		return fmt.Errorf("%w: scale %v", ErrNonPositiveScale, scale)
	}
	invScale := 1 / scale
	for i, v := range input {
		output[i] = int8(clampFloat(roundFloat(v*invScale), -128, 127))
	}
	return nil
}

// QuantizeBufferAsymmetricUint8 quantizes input into output with a shared
// scale and zero point.
func QuantizeBufferAsymmetricUint8(input []float32, output []uint8, scale float32, zeroPoint int32) error {
	if scale <= 0 {
		return fmt.Errorf("%w: scale %v", ErrNonPositiveScale, scale)
	}
	invScale := 1 / scale
	zp := float32(zeroPoint)
	for i, v := range input {
		output[i] = uint8(clampFloat(roundFloat(v*invScale+zp), 0, 255))
	}
	return nil
}

// DequantizeBufferSymmetricInt8 dequantizes input into output.
func DequantizeBufferSymmetricInt8(input []int8, output []float32, scale float32) {
	for i, v := range input {
		output[i] = float32(v) * scale
	}
}

// DequantizeBufferAsymmetricUint8 dequantizes input into output.
func DequantizeBufferAsymmetricUint8(input []uint8, output []float32, scale float32, zeroPoint int32) {
	zp := float32(zeroPoint)
	for i, v := range input {
		output[i] = (float32(v) - zp) * scale
	}
}
