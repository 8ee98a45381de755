// Package units holds the unit conversions and physical constants shared by
// the GN-model packages. The model itself works in its native units
// (THz, TBaud, W, km, 1/W/km); everything arriving in engineering units
// (dBm, GHz, dB/km) goes through here exactly once.
package units

import "math"

const (
	// PlanckJs is Planck's constant in J*s.
	PlanckJs = 6.62607015e-34

	// CBandRefTHz is the conventional C-band reference frequency (193.414 THz,
	// anchor of the ITU-T 50 GHz grid) used for ASE noise evaluation.
	CBandRefTHz = 193.414

	// RefBandwidthTHz is the 12.5 GHz OSNR reference bandwidth expressed in THz.
	RefBandwidthTHz = 0.0125
)

// DBToLinear converts a power ratio in dB to linear units.
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/10)
}

// LinearToDB converts a linear power ratio to dB. Returns -Inf for zero and
// NaN for negative input, mirroring math.Log10.
func LinearToDB(lin float64) float64 {
	return 10 * math.Log10(lin)
}

// DBmToWatt converts a power level in dBm to Watts.
func DBmToWatt(dbm float64) float64 {
	return 1e-3 * math.Pow(10, dbm/10)
}

// WattToDBm converts a power in Watts to dBm.
func WattToDBm(w float64) float64 {
	return 10*math.Log10(w) + 30
}

// FieldAttenuation converts a fibre loss coefficient in dB/km to the field
// attenuation coefficient in 1/km (Np/km, /20 convention) used by the GN
// integral.
func FieldAttenuation(lossDBPerKm float64) float64 {
	return lossDBPerKm / 20 / math.Log10(math.E)
}
