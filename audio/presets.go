package audio

// FilterPreset carries the default settings a controller gets when it
// enables a filter type without explicit parameters.
type FilterPreset struct {
	Type      FilterType
	Cutoff    float32
	Resonance float32
	GainDB    float32
	Name      string
}

var filterPresets = map[FilterType]FilterPreset{
	FilterNone:        {FilterNone, 0, 1, 0, "None"},
	FilterLowpass:     {FilterLowpass, 800, 3, 0, "Low Pass"},
	FilterHighpass:    {FilterHighpass, 800, 3, 0, "High Pass"},
	FilterBandpass:    {FilterBandpass, 1200, 4, 0, "Band Pass"},
	FilterNotch:       {FilterNotch, 1000, 5, 0, "Notch"},
	FilterAllpass:     {FilterAllpass, 1000, 3, 0, "All Pass"},
	FilterPeaking:     {FilterPeaking, 1000, 3, 9, "Peaking EQ"},
	FilterLowShelf:    {FilterLowShelf, 200, 1, 9, "Low Shelf"},
	FilterHighShelf:   {FilterHighShelf, 5000, 1, 8, "High Shelf"},
	FilterResonant:    {FilterResonant, 800, 12, 0, "Resonant"},
	FilterScratch:     {FilterScratch, 0, 0, 0, "Scratch"},
	FilterTurntablism: {FilterTurntablism, 0, 0, 0, "Turntablism"},
}

// GetFilterPreset returns the defaults for a filter type; unknown types
// fall back to the none preset.
func GetFilterPreset(typ FilterType) FilterPreset {
	if p, ok := filterPresets[typ]; ok {
		return p
	}
	return filterPresets[FilterNone]
}
