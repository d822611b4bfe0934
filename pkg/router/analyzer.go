package router

import (
	"sort"
	"strings"
)

const (
	patternScore = 10
	triggerScore = 5
)

// Analyze scores every configured agent against the task description and
// detects a workflow. Pattern matches add 10, trigger substrings add 5,
// both additively with no cap. Agents scoring 0 are excluded entirely.
// Ties keep declaration order.
func (r *Router) Analyze(task string) Analysis {
	lower := strings.ToLower(task)

	type scoredAgent struct {
		name  string
		score int
	}
	var ranked []scoredAgent

	for _, name := range r.cfg.Agents.Names() {
		agent := r.cfg.Agents.Get(name)
		score := 0
		for _, re := range agent.Compiled {
			if re.MatchString(lower) {
				score += patternScore
			}
		}
		for _, trigger := range agent.Triggers {
			if strings.Contains(lower, strings.ToLower(trigger)) {
				score += triggerScore
			}
		}
		if score > 0 {
			ranked = append(ranked, scoredAgent{name: name, score: score})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	var analysis Analysis
	if len(ranked) > 0 {
		analysis.PrimaryAgent = ranked[0].name
		analysis.Confidence = ranked[0].score
		for _, s := range ranked[1:] {
			analysis.SupportingAgents = append(analysis.SupportingAgents, s.name)
		}
	} else if fallback := r.cfg.Routing.Fallback; fallback != "" {
		analysis.PrimaryAgent = fallback
		analysis.Confidence = 1
	}

	for _, name := range r.cfg.Workflows.Names() {
		matched := r.matchKeywords(lower, name)
		if len(matched) > 0 {
			analysis.Workflow = name
			analysis.Keywords = matched
			break
		}
	}

	return analysis
}

// matchKeywords scans every configured keyword category against the
// lower-cased task text. The workflow argument exists for parity with the
// original engine but does not filter which categories are scanned, so the
// first declared workflow is selected whenever any keyword matches at all.
// TODO: confirm with the orchestration config owners whether categories
// were meant to be scoped per workflow before changing this.
func (r *Router) matchKeywords(lowerTask, workflow string) []KeywordMatch {
	_ = workflow

	var matched []KeywordMatch
	for _, group := range r.cfg.Routing.Keywords.Groups {
		for _, term := range group.Terms {
			if strings.Contains(lowerTask, strings.ToLower(term)) {
				matched = append(matched, KeywordMatch{Category: group.Category, Term: term})
			}
		}
	}
	return matched
}
