// Package quality scores generated drafts for voice authenticity, length
// compliance and AI-tell phrasing.
package quality

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/vampirenirmal/qualitygate/internal/length"
)

const (
	DefaultVariationPercent = 50
	DefaultAIThreshold      = 0.70

	authenticThreshold = 0.6
	scorePerPhrase     = 0.2

	voiceWeight  = 0.4
	lengthWeight = 0.3
	aiWeight     = 0.3

	lengthFailCredit = 0.5
	aiFailCredit     = 0.3

	maxListed = 2
)

// VoiceProfile maps a variant id to its ordered pattern rules.
type VoiceProfile map[string][]string

type voicePattern struct {
	source string
	re     *regexp.Regexp
}

// Analyzer holds compiled voice profiles and the AI-tell catalogue. It has no
// mutable state and is safe for concurrent use.
type Analyzer struct {
	voices           map[string][]voicePattern
	tells            []compiledRule
	catalogueVersion int
}

// NewAnalyzer compiles every pattern up front; a pattern that does not
// compile is a configuration error.
func NewAnalyzer(profiles VoiceProfile, catalogue Catalogue) (*Analyzer, error) {
	a := &Analyzer{
		voices:           make(map[string][]voicePattern, len(profiles)),
		catalogueVersion: catalogue.Version,
	}

	variants := make([]string, 0, len(profiles))
	for v := range profiles {
		variants = append(variants, v)
	}
	sort.Strings(variants)
	for _, variant := range variants {
		patterns := make([]voicePattern, 0, len(profiles[variant]))
		for i, p := range profiles[variant] {
			re, err := compilePattern("quality", fmt.Sprintf("voices.%s[%d]", variant, i), p)
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, voicePattern{source: p, re: re})
		}
		a.voices[variant] = patterns
	}

	tells, err := catalogue.compile()
	if err != nil {
		return nil, err
	}
	a.tells = tells
	return a, nil
}

// Variants lists the profiled variants in sorted order
func (a *Analyzer) Variants() []string {
	out := make([]string, 0, len(a.voices))
	for v := range a.voices {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// AnalyzeVoice matches text against variant's patterns. An unknown variant is
// reported as unsupported with a zero score, not as an error.
func (a *Analyzer) AnalyzeVoice(text, variant string) VoiceResult {
	patterns, ok := a.voices[variant]
	result := VoiceResult{
		Variant:          variant,
		Supported:        ok,
		MatchedPatterns:  []string{},
		ExpectedPatterns: make([]string, 0, len(patterns)),
		MissingPatterns:  []string{},
	}
	for _, p := range patterns {
		result.ExpectedPatterns = append(result.ExpectedPatterns, p.source)
		if p.re.MatchString(text) {
			result.MatchedPatterns = append(result.MatchedPatterns, p.source)
		} else {
			result.MissingPatterns = append(result.MissingPatterns, p.source)
		}
	}
	result.PatternScore = float64(len(result.MatchedPatterns)) / float64(max(len(result.ExpectedPatterns), 1))
	result.Authentic = result.PatternScore >= authenticThreshold
	return result
}

// AnalyzeLength checks text against targetWords ± variationPercent.
func (a *Analyzer) AnalyzeLength(text string, targetWords, variationPercent int) LengthResult {
	spread := float64(variationPercent) / 100.0
	minWords := int(math.Floor(float64(targetWords) * (1 - spread)))
	maxWords := int(math.Floor(float64(targetWords) * (1 + spread)))
	count := length.CountWords(text)

	factor := 0.0
	if targetWords > 0 {
		factor = math.Abs(float64(count-targetWords)) / float64(targetWords)
	}
	within := count >= minWords && count <= maxWords
	return LengthResult{
		WordCount:       count,
		TargetWords:     targetWords,
		TargetRange:     TargetRange{Min: minWords, Max: maxWords},
		WithinRange:     within,
		VariationFactor: factor,
		Compliant:       within,
	}
}

// AnalyzeAIDetection scans text for catalogue phrases. Each catalogue entry
// counts once however often it appears.
func (a *Analyzer) AnalyzeAIDetection(text string, threshold float64) AIResult {
	result := AIResult{
		DetectedPhrases:  []string{},
		DetectedLabels:   []string{},
		Threshold:        threshold,
		CatalogueVersion: a.catalogueVersion,
	}
	for _, rule := range a.tells {
		match := rule.re.FindString(text)
		if match == "" {
			continue
		}
		result.DetectedPhrases = append(result.DetectedPhrases, strings.ToLower(strings.Trim(match, " \t\n.!?,")))
		result.DetectedLabels = append(result.DetectedLabels, rule.label)
	}
	result.AIScore = math.Min(float64(len(result.DetectedPhrases))*scorePerPhrase, 1.0)
	result.PassesDetection = result.AIScore <= 1-threshold
	return result
}

type analyzeOptions struct {
	variationPercent int
	aiThreshold      float64
}

// AnalyzeOption tunes a single Analyze call
type AnalyzeOption func(*analyzeOptions)

// WithVariationPercent sets the length tolerance around the target. Zero
// demands the exact target.
func WithVariationPercent(percent int) AnalyzeOption {
	return func(o *analyzeOptions) {
		o.variationPercent = percent
	}
}

// WithAIThreshold sets the required humanness threshold. At 1.0 any detected
// phrase fails.
func WithAIThreshold(threshold float64) AnalyzeOption {
	return func(o *analyzeOptions) {
		o.aiThreshold = threshold
	}
}

// Analyze runs all three analyses and combines them into a Report. Options
// that are not supplied fall back to DefaultVariationPercent and
// DefaultAIThreshold; supplied values are used as given.
func (a *Analyzer) Analyze(text, variant string, targetWords int, opts ...AnalyzeOption) Report {
	o := analyzeOptions{
		variationPercent: DefaultVariationPercent,
		aiThreshold:      DefaultAIThreshold,
	}
	for _, opt := range opts {
		opt(&o)
	}

	voice := a.AnalyzeVoice(text, variant)
	lengthResult := a.AnalyzeLength(text, targetWords, o.variationPercent)
	ai := a.AnalyzeAIDetection(text, o.aiThreshold)

	lengthCredit := lengthFailCredit
	if lengthResult.Compliant {
		lengthCredit = 1.0
	}
	aiCredit := aiFailCredit
	if ai.PassesDetection {
		aiCredit = 1.0
	}

	return Report{
		Voice:           voice,
		Length:          lengthResult,
		AI:              ai,
		OverallQuality:  voiceWeight*voice.PatternScore + lengthWeight*lengthCredit + aiWeight*aiCredit,
		Recommendations: recommendations(voice, lengthResult, ai),
		PassesAllChecks: voice.Authentic && lengthResult.Compliant && ai.PassesDetection,
	}
}

// recommendations emits one fix per failing dimension, always in the order
// voice, length, AI.
func recommendations(voice VoiceResult, lengthResult LengthResult, ai AIResult) []string {
	recs := []string{}
	if !voice.Authentic {
		if !voice.Supported {
			recs = append(recs, fmt.Sprintf("No voice profile exists for variant %q; voice authenticity cannot be confirmed", voice.Variant))
		} else {
			recs = append(recs, fmt.Sprintf("Strengthen the %s voice (%d/%d patterns matched); work in: %s",
				voice.Variant, len(voice.MatchedPatterns), len(voice.ExpectedPatterns), quoteList(voice.MissingPatterns)))
		}
	}
	if !lengthResult.Compliant {
		recs = append(recs, fmt.Sprintf("Adjust length: draft has %d words, target range is %d-%d",
			lengthResult.WordCount, lengthResult.TargetRange.Min, lengthResult.TargetRange.Max))
	}
	if !ai.PassesDetection {
		recs = append(recs, fmt.Sprintf("Rewrite AI-sounding phrases: %s", quoteList(ai.DetectedPhrases)))
	}
	return recs
}

func quoteList(items []string) string {
	n := min(len(items), maxListed)
	quoted := make([]string, 0, n)
	for _, item := range items[:n] {
		quoted = append(quoted, fmt.Sprintf("%q", item))
	}
	return strings.Join(quoted, ", ")
}
