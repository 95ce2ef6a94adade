package quality

// VoiceResult is the outcome of matching a draft against a variant's voice profile.
type VoiceResult struct {
	Variant          string   `json:"variant"`
	Supported        bool     `json:"supported"`
	MatchedPatterns  []string `json:"matched_patterns"`
	ExpectedPatterns []string `json:"expected_patterns"`
	MissingPatterns  []string `json:"missing_patterns"`
	PatternScore     float64  `json:"pattern_score"`
	Authentic        bool     `json:"authentic"`
}

// TargetRange is an inclusive word window
type TargetRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// LengthResult is the outcome of the length-compliance check.
type LengthResult struct {
	WordCount       int         `json:"word_count"`
	TargetWords     int         `json:"target_words"`
	TargetRange     TargetRange `json:"target_range"`
	WithinRange     bool        `json:"within_range"`
	VariationFactor float64     `json:"variation_factor"`
	Compliant       bool        `json:"compliant"`
}

// AIResult is the outcome of the AI-tell scan.
type AIResult struct {
	DetectedPhrases  []string `json:"detected_phrases"`
	DetectedLabels   []string `json:"detected_labels"`
	AIScore          float64  `json:"ai_score"`
	Threshold        float64  `json:"threshold"`
	PassesDetection  bool     `json:"passes_detection"`
	CatalogueVersion int      `json:"catalogue_version"`
}

// Report combines the three analyses into one verdict. A Report is built
// fresh for every call and never modified afterwards.
type Report struct {
	Voice           VoiceResult  `json:"voice_result"`
	Length          LengthResult `json:"length_result"`
	AI              AIResult     `json:"ai_result"`
	OverallQuality  float64      `json:"overall_quality"`
	Recommendations []string     `json:"recommendations"`
	PassesAllChecks bool         `json:"passes_all_checks"`
}
