package postfx

// SettingsBuilderOption configures Settings during construction.
type SettingsBuilderOption func(*Settings)

// WithBloom sets the bloom configuration.
//
// Parameters:
//   - b: the bloom settings
//
// Returns:
//   - SettingsBuilderOption: a function that applies the bloom settings
func WithBloom(b BloomSettings) SettingsBuilderOption {
	return func(s *Settings) {
		s.Bloom = b
	}
}

// WithToneMapping sets the tone mapping mode.
func WithToneMapping(mode ToneMappingMode) SettingsBuilderOption {
	return func(s *Settings) {
		s.ToneMapping = mode
	}
}

// WithColorAdjustments sets the exposure, contrast, filter, hue shift and saturation controls.
func WithColorAdjustments(c ColorAdjustments) SettingsBuilderOption {
	return func(s *Settings) {
		s.ColorAdjustments = c
	}
}

// WithWhiteBalance sets the white balance.
func WithWhiteBalance(w WhiteBalance) SettingsBuilderOption {
	return func(s *Settings) {
		s.WhiteBalance = w
	}
}

// WithShadowsMidtonesHighlights sets the three-band tint.
func WithShadowsMidtonesHighlights(smh ShadowsMidtonesHighlights) SettingsBuilderOption {
	return func(s *Settings) {
		s.ShadowsMidtonesHighlights = smh
	}
}
