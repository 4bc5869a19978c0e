package shipping

// DefaultVolumetricDivisor is the common carrier divisor for cm³.
const DefaultVolumetricDivisor = 5000.0

// Weight is the billed weight breakdown of a package.
type Weight struct {
	Actual     float64
	Volumetric float64
	Chargeable float64
}

// ChargeableWeight bills the greater of the actual weight and the box's
// volumetric weight (box volume / divisor, in the unit of actual weight).
// A non-positive divisor uses DefaultVolumetricDivisor.
func ChargeableWeight(box PackagingBox, actual, divisor float64) Weight {
	if divisor <= 0 {
		divisor = DefaultVolumetricDivisor
	}
	volumetric := box.Volume() / divisor
	return Weight{
		Actual:     actual,
		Volumetric: volumetric,
		Chargeable: max(actual, volumetric),
	}
}
