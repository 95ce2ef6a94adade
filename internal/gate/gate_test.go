package gate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"go.uber.org/goleak"

	"github.com/vampirenirmal/qualitygate/internal/config"
	"github.com/vampirenirmal/qualitygate/internal/core"
	"github.com/vampirenirmal/qualitygate/internal/params"
)

const (
	mentorDraft = "In my experience the trade-off is simple. We shipped the cache on Friday and nothing caught fire. " +
		"Why? Because we measured first and kept the rollback script close to hand all weekend."
	sloppyDraft = "Furthermore, it is important to note that we must delve into the ever-evolving landscape of caching " +
		"in this fast-paced world, and that is a testament to our team."
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// lowSource always picks the bottom of the window
type lowSource struct{}

func (lowSource) IntInRange(min, _ int) int { return min }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGate(t *testing.T) *Gate {
	t.Helper()
	cfg, err := config.LoadFile("../config/testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	g, err := New(cfg, WithLogger(quietLogger()), WithRandomSource(lowSource{}))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return g
}

func TestNewRejectsBadVoicePattern(t *testing.T) {
	cfg, err := config.LoadFile("../config/testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	cfg.Voices["broken"] = []string{`(unclosed`}

	_, err = New(cfg, WithLogger(quietLogger()))
	if !errors.Is(err, core.ErrInvalidPattern) {
		t.Errorf("New() error = %v, want ErrInvalidPattern", err)
	}
}

func TestNewUsesConfiguredCatalogue(t *testing.T) {
	cfg, err := config.LoadFile("../config/testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	cfg.AITells = []config.AITellRule{{Label: "synergy", Pattern: `\bsynergy\b`}}

	g, err := New(cfg, WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	got := g.Analyzer().AnalyzeAIDetection("Pure synergy. Furthermore, more synergy.", 0.7)
	if len(got.DetectedPhrases) != 1 || got.DetectedPhrases[0] != "synergy" {
		t.Errorf("DetectedPhrases = %v, want [synergy]", got.DetectedPhrases)
	}
	if got.CatalogueVersion != 0 {
		t.Errorf("CatalogueVersion = %d, want 0 for a configured list", got.CatalogueVersion)
	}
}

func TestPlan(t *testing.T) {
	g := newTestGate(t)

	plan, err := g.Plan("tweet", map[string]int{
		"sentence_rhythm_variation": 9,
		"jargon_level":              2,
		"engagement_style":          2,
	})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if plan.MinWords != 20 || plan.MaxWords != 40 || plan.TargetWords != 20 {
		t.Errorf("Plan() window = [%d,%d] target %d, want [20,40] target 20",
			plan.MinWords, plan.MaxWords, plan.TargetWords)
	}
	if len(plan.Guidance) != 3 {
		t.Fatalf("Guidance = %d snippets, want 3", len(plan.Guidance))
	}

	voice := plan.Sections[params.ConsumerVoice]
	if len(voice) != 1 || voice[0] != "Break rhythm hard: fragment, then a run-on thought." {
		t.Errorf("voice section = %v", voice)
	}
	if got := plan.Sections[params.ConsumerTechnical]; len(got) != 1 || !strings.HasPrefix(got[0], "Avoid technical terms") {
		t.Errorf("technical section = %v", got)
	}
	if got := plan.Sections[params.ConsumerEnrichment]; len(got) != 1 || got[0] != "End with one open question." {
		t.Errorf("enrichment section = %v", got)
	}
}

func TestPlanErrors(t *testing.T) {
	g := newTestGate(t)

	tests := []struct {
		name      string
		component string
		knobs     map[string]int
		wantErr   error
	}{
		{"unknown component", "banner", nil, core.ErrUnknownComponent},
		{"unknown parameter", "tweet", map[string]int{"sarcasm": 3}, core.ErrUnknownParameter},
		{"value out of scale", "tweet", map[string]int{"emotional_tone": 7}, core.ErrValueOutOfScale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Plan(tt.component, tt.knobs)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Plan() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	g := newTestGate(t)

	tests := []struct {
		name          string
		draft         Draft
		wantAccepted  bool
		wantRetry     bool
		wantExhausted bool
		wantStrict    bool
	}{
		{
			name:         "passing first attempt",
			draft:        Draft{ComponentType: "tweet", Variant: "technical_mentor", Text: mentorDraft, Attempt: 1},
			wantAccepted: true,
			wantStrict:   true,
		},
		{
			name:       "too short first attempt",
			draft:      Draft{ComponentType: "tweet", Variant: "technical_mentor", Text: "In my experience, trade-offs win.", Attempt: 1},
			wantRetry:  true,
			wantStrict: true,
		},
		{
			name:       "ai phrasing retried",
			draft:      Draft{ComponentType: "tweet", Variant: "technical_mentor", Text: sloppyDraft, Attempt: 2},
			wantRetry:  true,
			wantStrict: false,
		},
		{
			name:          "last attempt never retried",
			draft:         Draft{ComponentType: "tweet", Variant: "technical_mentor", Text: sloppyDraft, Attempt: 3},
			wantExhausted: true,
		},
		{
			name:       "unknown variant retried",
			draft:      Draft{ComponentType: "tweet", Variant: "pirate", Text: mentorDraft, Attempt: 1},
			wantRetry:  true,
			wantStrict: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := g.Evaluate(context.Background(), tt.draft)
			if err != nil {
				t.Fatalf("Evaluate() error: %v", err)
			}
			if v.Accepted != tt.wantAccepted || v.Retry != tt.wantRetry || v.Exhausted != tt.wantExhausted {
				t.Errorf("Evaluate() accepted=%v retry=%v exhausted=%v, want %v %v %v; recommendations %v",
					v.Accepted, v.Retry, v.Exhausted, tt.wantAccepted, tt.wantRetry, tt.wantExhausted, v.Report.Recommendations)
			}
			if v.StrictCheck != tt.wantStrict {
				t.Errorf("StrictCheck = %v, want %v", v.StrictCheck, tt.wantStrict)
			}
			if v.ID == "" || v.DraftRef != tt.draft.ID() {
				t.Errorf("Verdict identity = %q / %q", v.ID, v.DraftRef)
			}
			if v.TargetWords != 30 {
				t.Errorf("TargetWords = %d, want component target 30", v.TargetWords)
			}
		})
	}
}

func TestEvaluateUsesDraftTarget(t *testing.T) {
	g := newTestGate(t)
	v, err := g.Evaluate(context.Background(), Draft{
		Ref: "d-1", ComponentType: "tweet", Variant: "technical_mentor", Text: mentorDraft, Attempt: 1, TargetWords: 22,
	})
	if err != nil {
		t.Fatalf("Evaluate() error: %v", err)
	}
	if v.TargetWords != 22 || v.Report.Length.TargetRange.Min != 11 || v.Report.Length.TargetRange.Max != 33 {
		t.Errorf("length report = %+v, want target 22 range [11,33]", v.Report.Length)
	}
	if v.DraftRef != "d-1" {
		t.Errorf("DraftRef = %q, want d-1", v.DraftRef)
	}
}

func TestEvaluateErrors(t *testing.T) {
	g := newTestGate(t)

	_, err := g.Evaluate(context.Background(), Draft{ComponentType: "banner", Variant: "technical_mentor", Text: mentorDraft, Attempt: 1})
	if !core.IsConfigurationError(err) {
		t.Errorf("unknown component error = %v, want configuration error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Evaluate(ctx, Draft{ComponentType: "tweet", Variant: "technical_mentor", Text: mentorDraft, Attempt: 1})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled context error = %v, want context.Canceled", err)
	}
}

func TestEvaluateBatchKeepsOrder(t *testing.T) {
	g := newTestGate(t)

	drafts := make([]Draft, 0, 24)
	for i := 0; i < 24; i++ {
		text := mentorDraft
		if i%3 == 0 {
			text = sloppyDraft
		}
		drafts = append(drafts, Draft{ComponentType: "tweet", Variant: "technical_mentor", Text: text, Attempt: 1 + i%3})
	}

	verdicts, err := g.EvaluateBatch(context.Background(), drafts)
	if err != nil {
		t.Fatalf("EvaluateBatch() error: %v", err)
	}
	if len(verdicts) != len(drafts) {
		t.Fatalf("EvaluateBatch() = %d verdicts, want %d", len(verdicts), len(drafts))
	}
	for i, v := range verdicts {
		if v.DraftRef != drafts[i].ID() || v.Attempt != drafts[i].Attempt {
			t.Errorf("verdict %d belongs to %s attempt %d", i, v.DraftRef, v.Attempt)
		}
		if wantAccepted := i%3 != 0; v.Accepted != wantAccepted {
			t.Errorf("verdict %d accepted = %v, want %v", i, v.Accepted, wantAccepted)
		}
	}
}

func TestEvaluateBatchStopsOnConfigurationError(t *testing.T) {
	g := newTestGate(t)
	drafts := []Draft{
		{ComponentType: "tweet", Variant: "technical_mentor", Text: mentorDraft, Attempt: 1},
		{ComponentType: "banner", Variant: "technical_mentor", Text: mentorDraft, Attempt: 1},
		{ComponentType: "caption", Variant: "casual_storyteller", Text: mentorDraft, Attempt: 1},
	}

	verdicts, err := g.EvaluateBatch(context.Background(), drafts)
	if !errors.Is(err, core.ErrUnknownComponent) {
		t.Errorf("EvaluateBatch() error = %v, want ErrUnknownComponent", err)
	}
	if verdicts != nil {
		t.Errorf("EvaluateBatch() verdicts = %v, want nil on error", verdicts)
	}
}
