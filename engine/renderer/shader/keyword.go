package shader

// Keyword is a global shader variant switch.
type Keyword int

const (
	KeywordLightsPerObject Keyword = iota
	KeywordClipping
	KeywordPremultiplyAlpha
	KeywordShadowsClip
	KeywordShadowsDither
)

var keywordNames = [...]string{
	KeywordLightsPerObject:  "_LIGHTS_PER_OBJECT",
	KeywordClipping:         "_CLIPPING",
	KeywordPremultiplyAlpha: "_PREMULTIPLY_ALPHA",
	KeywordShadowsClip:      "_SHADOWS_CLIP",
	KeywordShadowsDither:    "_SHADOWS_DITHER",
}

func (k Keyword) String() string {
	if int(k) < 0 || int(k) >= len(keywordNames) {
		return "_UNKNOWN_KEYWORD"
	}
	return keywordNames[k]
}
