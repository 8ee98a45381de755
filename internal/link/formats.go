package link

// Format pairs a modulation format with the GSNR it needs at the receiver to
// reach the FEC threshold. Thresholds are typical pre-FEC figures for 32 GBaud
// coherent transceivers.
type Format struct {
	Name          string  `json:"name"`
	BitsPerSymbol int     `json:"bits_per_symbol"`
	RequiredSNRdB float64 `json:"required_snr_db"`
}

// Formats lists the supported modulation formats, least demanding first.
var Formats = []Format{
	{Name: "PM-BPSK", BitsPerSymbol: 2, RequiredSNRdB: 9.0},
	{Name: "PM-QPSK", BitsPerSymbol: 4, RequiredSNRdB: 12.0},
	{Name: "PM-8QAM", BitsPerSymbol: 6, RequiredSNRdB: 16.0},
	{Name: "PM-16QAM", BitsPerSymbol: 8, RequiredSNRdB: 18.6},
	{Name: "PM-32QAM", BitsPerSymbol: 10, RequiredSNRdB: 21.6},
	{Name: "PM-64QAM", BitsPerSymbol: 12, RequiredSNRdB: 24.6},
}

// FormatByName looks up a format by its name. The second return is false if
// the name is unknown.
func FormatByName(name string) (Format, bool) {
	for _, f := range Formats {
		if f.Name == name {
			return f, true
		}
	}
	return Format{}, false
}

// BestFormat returns the highest-order format whose SNR requirement is met by
// gsnrDB. The second return is false when not even the least demanding format
// fits.
func BestFormat(gsnrDB float64) (Format, bool) {
	var best Format
	found := false
	for _, f := range Formats {
		if gsnrDB >= f.RequiredSNRdB {
			best = f
			found = true
		}
	}
	return best, found
}
