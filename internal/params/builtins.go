package params

// Consumer buckets for the prompt layer
const (
	ConsumerVoice      = "voice_instructions"
	ConsumerTechnical  = "technical_guidance"
	ConsumerEnrichment = "enrichment"
)

// Builtins returns the parameters the generator understands, in prompt order.
func Builtins() []Definition {
	return []Definition{
		{
			Name:        "sentence_rhythm_variation",
			Category:    "voice",
			Description: "How much sentence length and cadence should swing",
			Consumer:    ConsumerVoice,
			Scale:       Scale10,
			Context:     ContextLengthBucket,
		},
		{
			Name:        "imperfection_tolerance",
			Category:    "humanness",
			Description: "How much draft-like roughness (asides, self-corrections) is allowed",
			Consumer:    ConsumerVoice,
			Scale:       Scale10,
			Context:     ContextLengthBucket,
		},
		{
			Name:        "jargon_level",
			Category:    "technical",
			Description: "Density of domain-specific vocabulary",
			Consumer:    ConsumerTechnical,
			Scale:       Scale10,
			Context:     ContextDefault,
		},
		{
			Name:        "professional_formality",
			Category:    "tone",
			Description: "Register from conversational to formal",
			Consumer:    ConsumerVoice,
			Scale:       Scale10,
			Context:     ContextDefault,
		},
		{
			Name:        "engagement_style",
			Category:    "engagement",
			Description: "How directly the text addresses and invites the reader",
			Consumer:    ConsumerEnrichment,
			Scale:       Scale3,
			Context:     ContextDefault,
		},
		{
			Name:        "emotional_tone",
			Category:    "tone",
			Description: "How openly feeling is expressed",
			Consumer:    ConsumerEnrichment,
			Scale:       Scale3,
			Context:     ContextDefault,
		},
	}
}
