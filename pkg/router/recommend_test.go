package router

import "testing"

func TestRecommend_ConfidenceBuckets(t *testing.T) {
	r := testRouter(t, baseDoc)

	tests := []struct {
		name     string
		task     string
		wantText string
		wantConf float64
	}{
		{
			name:     "trigger plus pattern lands in the 0.6 bucket",
			task:     "implement wall-jump mechanic",
			wantText: "Primary: coder",
			wantConf: 0.6,
		},
		{
			name:     "single pattern lands in the 0.4 bucket",
			task:     "tune the physics",
			wantText: "Primary: coder",
			wantConf: 0.4,
		},
		{
			name:     "fallback lands in the 0.2 bucket",
			task:     "hello there",
			wantText: "Primary: coder",
			wantConf: 0.2,
		},
		{
			name:     "strong match lands in the 0.8 bucket",
			task:     "implement the mechanic with physics",
			wantText: "Primary: coder",
			wantConf: 0.8,
		},
		{
			name:     "workflow selection reports 0.9",
			task:     "prototype new gameplay",
			wantText: "Workflow: feature-development (design: designer → implement: coder)",
			wantConf: 0.9,
		},
		{
			name:     "supporting agents appear after the primary",
			task:     "mechanic design",
			wantText: "Primary: coder | Supporting: designer",
			wantConf: 0.4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := r.Recommend(tt.task)
			if rec.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", rec.Text, tt.wantText)
			}
			if rec.Confidence != tt.wantConf {
				t.Errorf("Confidence = %v, want %v", rec.Confidence, tt.wantConf)
			}
		})
	}
}

func TestRecommend_NoMatchPhrase(t *testing.T) {
	doc := `
agents:
  coder:
    patterns: ["mechanic"]
    triggers: []
routing:
  fallback: ""
  keywords: {}
  parallel_execution: {enabled: false, max_agents: 0}
workflows: {}
quality_gates: {}
`
	r := testRouter(t, doc)

	rec := r.Recommend("nothing matches this")
	if rec.Text != "No suitable agent or workflow found" {
		t.Errorf("Text = %q", rec.Text)
	}
	if rec.Confidence != 0.2 {
		t.Errorf("Confidence = %v, want 0.2", rec.Confidence)
	}
}

func TestRecommend_RecordsDecision(t *testing.T) {
	r := testRouter(t, baseDoc)

	rec := r.Recommend("implement wall-jump mechanic")
	if rec.Decision == nil {
		t.Fatal("Recommend() decision = nil")
	}
	if len(r.History()) != 1 {
		t.Errorf("history length = %d, want 1", len(r.History()))
	}
}
