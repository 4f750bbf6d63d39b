// ABOUTME: Fidelity metrics for the chunk-clean-merge pipeline
// ABOUTME: Deterministic scoring against scenario ground truth, no LLM judges

package fidelity

import (
	"fmt"
	"strings"

	"github.com/harper/transcript-tidy/internal/models"
)

// MetricsCalculator computes fidelity scores for benchmark scenarios
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateBoundaryAccuracy scores how many chunks sit exactly on the
// pinned [start,end) offsets. Anything under 1.0 means the chunk
// arithmetic drifted.
func (m *MetricsCalculator) CalculateBoundaryAccuracy(chunks []models.Chunk, want [][2]int) (float64, string) {
	if len(chunks) != len(want) {
		return 0.0, fmt.Sprintf("expected %d chunks, got %d", len(want), len(chunks))
	}

	wrong := []string{}
	for i, w := range want {
		if chunks[i].Start != w[0] || chunks[i].End != w[1] {
			wrong = append(wrong, fmt.Sprintf("chunk %d is [%d,%d), want [%d,%d)",
				i, chunks[i].Start, chunks[i].End, w[0], w[1]))
		}
	}

	if len(wrong) == 0 {
		return 1.0, "all chunk boundaries match the pinned offsets"
	}

	score := float64(len(want)-len(wrong)) / float64(len(want))
	return score, fmt.Sprintf("boundary drift: %s", strings.Join(wrong, "; "))
}

// CalculateSeamMatchRate reports the fraction of adjacent cleaned chunks
// whose seam still matches textually, meaning the merge can drop the
// duplicated overlap by exact comparison instead of falling back.
func (m *MetricsCalculator) CalculateSeamMatchRate(cleaned []string, overlap int) (float64, string) {
	if overlap == 0 {
		return 1.0, "no overlap configured, seam matching does not apply"
	}
	if len(cleaned) < 2 {
		return 1.0, "single chunk, no seams to match"
	}

	seams := len(cleaned) - 1
	matched := 0
	for i := 1; i < len(cleaned); i++ {
		if longestSeamRun(cleaned[i-1], cleaned[i], overlap*2) > 0 {
			matched++
		}
	}

	rate := float64(matched) / float64(seams)
	if rate == 1.0 {
		return 1.0, fmt.Sprintf("all %d seams matched textually", seams)
	}
	return rate, fmt.Sprintf("%d of %d seams matched, the rest fell back to overlap dropping", matched, seams)
}

// CalculateWordCoverage reports what fraction of the reference text's words
// survive in the merged output, counting duplicates.
func (m *MetricsCalculator) CalculateWordCoverage(merged, reference string) (float64, string) {
	refWords := strings.Fields(reference)
	if len(refWords) == 0 {
		return 1.0, "reference has no words"
	}

	mergedCounts := map[string]int{}
	for _, w := range strings.Fields(merged) {
		mergedCounts[w]++
	}

	covered := 0
	for _, w := range refWords {
		if mergedCounts[w] > 0 {
			mergedCounts[w]--
			covered++
		}
	}

	coverage := float64(covered) / float64(len(refWords))
	if coverage == 1.0 {
		return 1.0, fmt.Sprintf("all %d reference words present", len(refWords))
	}
	return coverage, fmt.Sprintf("%d of %d reference words present", covered, len(refWords))
}

// CalculateDeterminism compares two independent runs over the same input.
// The pipeline is sequential and the correctors are scripted, so anything
// but identical output is a defect.
func (m *MetricsCalculator) CalculateDeterminism(first, second string) (float64, string) {
	if first == second {
		return 1.0, "both passes produced identical output"
	}
	return 0.0, fmt.Sprintf("passes differ: %d vs %d runes", len([]rune(first)), len([]rune(second)))
}

// CalculateReconstruction compares the merged output against the
// corrector's whole-text output. Exact equality scores 1.0; otherwise the
// score degrades to word coverage.
func (m *MetricsCalculator) CalculateReconstruction(merged, reference string) (float64, string) {
	if merged == reference {
		return 1.0, "merged output equals the whole-text reference exactly"
	}
	coverage, _ := m.CalculateWordCoverage(merged, reference)
	return coverage, fmt.Sprintf(
		"merged output differs from the whole-text reference (%d vs %d runes), word coverage %.3f",
		len([]rune(merged)), len([]rune(reference)), coverage)
}

// EvaluateScenario runs the full fidelity evaluation for one scenario
func (m *MetricsCalculator) EvaluateScenario(scenario Scenario, outcome RunOutcome) Result {
	boundary, boundaryDetail := 1.0, "no pinned boundaries for this scenario"
	if scenario.GroundTruth.Boundaries != nil {
		boundary, boundaryDetail = m.CalculateBoundaryAccuracy(outcome.Chunks, scenario.GroundTruth.Boundaries)
	}

	seamRate, seamDetail := m.CalculateSeamMatchRate(outcome.Cleaned, scenario.Overlap)
	coverage, coverageDetail := m.CalculateWordCoverage(outcome.Merged, outcome.Reference)
	determinism, determinismDetail := m.CalculateDeterminism(outcome.Merged, outcome.SecondPass)
	reconstruction, reconstructionDetail := m.CalculateReconstruction(outcome.Merged, outcome.Reference)

	overall := (boundary + seamRate + coverage + determinism + reconstruction) / 5.0

	status := "PASS"
	switch {
	case boundary < 1.0:
		status = "FAIL"
	case determinism < 1.0:
		status = "FAIL"
	case seamRate < scenario.GroundTruth.MinSeamMatchRate:
		status = "FAIL"
	case coverage < scenario.GroundTruth.MinWordCoverage:
		status = "FAIL"
	case scenario.GroundTruth.ExactReconstruction && reconstruction < 1.0:
		status = "FAIL"
	case outcome.ResumeChecked && !outcome.ResumeMatched:
		status = "FAIL"
	}

	details := map[string]interface{}{
		"boundary_detail":       boundaryDetail,
		"seam_detail":           seamDetail,
		"coverage_detail":       coverageDetail,
		"determinism_detail":    determinismDetail,
		"reconstruction_detail": reconstructionDetail,
		"normalized_runes":      len([]rune(outcome.Normalized)),
		"merged_runes":          len([]rune(outcome.Merged)),
		"chunks":                len(outcome.Chunks),
	}
	if outcome.ResumeChecked {
		details["resume_matched"] = outcome.ResumeMatched
		details["resume_completed_before_failure"] = outcome.ResumeCompleted
	}

	return Result{
		ScenarioID:     scenario.ID,
		ScenarioName:   scenario.Name,
		BoundaryScore:  boundary,
		SeamMatchRate:  seamRate,
		WordCoverage:   coverage,
		Determinism:    determinism,
		Reconstruction: reconstruction,
		OverallScore:   overall,
		Status:         status,
		Details:        details,
	}
}

// longestSeamRun returns the length in runes of the longest run of text
// that both ends prev and starts cur, probing up to limit runes. This is
// an independent measurement of the seam the merge relies on.
func longestSeamRun(prev, cur string, limit int) int {
	p := []rune(prev)
	c := []rune(cur)
	max := limit
	if len(p) < max {
		max = len(p)
	}
	if len(c) < max {
		max = len(c)
	}
	for k := max; k > 0; k-- {
		if string(p[len(p)-k:]) == string(c[:k]) {
			return k
		}
	}
	return 0
}
