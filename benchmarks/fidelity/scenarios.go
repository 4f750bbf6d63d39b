// ABOUTME: Scenario data for pipeline fidelity benchmarks
// ABOUTME: Defines inputs, chunk geometry, and ground truth for each scenario

package fidelity

import (
	"fmt"
	"strings"
)

// Scenario is one fidelity benchmark: a transcript, the chunk geometry to
// cut it with, a scripted corrector, and the ground truth the pipeline
// output is held against.
type Scenario struct {
	ID          string
	Name        string
	Description string

	Text         string
	ChunkSize    int
	Overlap      int
	ContextRunes int
	Corrector    string // "echo" or "polish"

	// InterruptAt breaks the first pass after this many chunks and then
	// resumes from the checkpoint. Negative disables the resume phase.
	InterruptAt int

	GroundTruth GroundTruth
}

// GroundTruth defines the expected outcomes for a scenario
type GroundTruth struct {
	// Boundaries pins the exact [start,end) rune offsets of every chunk.
	// Nil skips the boundary check for inputs without a fixed length.
	Boundaries [][2]int

	// ExactReconstruction requires the merged output to equal the
	// corrector's whole-text output rune for rune.
	ExactReconstruction bool

	MinSeamMatchRate float64
	MinWordCoverage  float64
}

// Result is the outcome of one fidelity scenario
type Result struct {
	ScenarioID     string
	ScenarioName   string
	BoundaryScore  float64
	SeamMatchRate  float64
	WordCoverage   float64
	Determinism    float64
	Reconstruction float64
	OverallScore   float64
	Status         string // "PASS" or "FAIL"
	Details        map[string]interface{}
	ErrorMessage   string
}

// buildProse returns n single-spaced sentences. Each sentence carries its
// own number, so no window of text repeats and seam matching cannot latch
// onto a coincidental run.
func buildProse(n int) string {
	topics := []string{
		"microphone placement",
		"the guest introductions",
		"budget planning",
		"the quarterly roadmap",
		"error budgets",
		"release scheduling",
		"incident response",
		"the hiring pipeline",
	}

	var b strings.Builder
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "Segment %d of the recording covers %s and runs without pauses.",
			i, topics[i%len(topics)])
	}
	return b.String()
}

// buildCJKProse returns n numbered Japanese sentences with no spaces at
// all, exercising rune arithmetic on multi-byte text.
func buildCJKProse(n int) string {
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "第%d段の記録は話題%dを扱い、句読点なしで続く。", i, i*7%100)
	}
	return b.String()
}

// buildNoisySpeech returns numbered sentences salted with hesitation
// fillers, the raw material for the polish corrector.
func buildNoisySpeech(n int) string {
	fillers := []string{"um,", "uh", "er,", "ah"}

	var b strings.Builder
	for i := 1; i <= n; i++ {
		if i > 1 {
			b.WriteByte(' ')
		}
		if i%3 == 0 {
			b.WriteString(fillers[i%len(fillers)])
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "so the speaker describes step %d of the setup", i)
		if i%4 == 0 {
			b.WriteString(" you know")
		}
		b.WriteByte('.')
	}
	return b.String()
}

// exactRunes trims text to exactly n runes so chunk boundaries can be
// pinned. A trailing space would not survive normalization, so it is
// replaced with a full stop.
func exactRunes(text string, n int) string {
	runes := []rune(text)
	if len(runes) < n {
		panic(fmt.Sprintf("fidelity: generator produced %d runes, need %d", len(runes), n))
	}
	runes = runes[:n]
	if runes[n-1] == ' ' {
		runes[n-1] = '.'
	}
	return string(runes)
}

// GetUniformProse returns the plain echo round-trip scenario
func GetUniformProse() Scenario {
	return Scenario{
		ID:          "uniform_prose",
		Name:        "Uniform Prose Round-Trip",
		Description: "Echo correction over plain prose must reassemble the normalized input exactly",
		Text:        buildProse(40),
		ChunkSize:   800,
		Overlap:     120,

		ContextRunes: 120,
		Corrector:    "echo",
		InterruptAt:  -1,
		GroundTruth: GroundTruth{
			ExactReconstruction: true,
			MinSeamMatchRate:    1.0,
			MinWordCoverage:     1.0,
		},
	}
}

// GetBoundaryGeometry returns the pinned-arithmetic scenario: 20000 runes
// at size 9000 and overlap 500 must cut to exactly three chunks.
func GetBoundaryGeometry() Scenario {
	return Scenario{
		ID:          "boundary_geometry",
		Name:        "Pinned Chunk Geometry",
		Description: "20000 runes at 9000/500 must cut to [0,9000) [8500,17500) [17000,20000)",
		Text:        exactRunes(buildProse(300), 20000),
		ChunkSize:   9000,
		Overlap:     500,

		ContextRunes: 500,
		Corrector:    "echo",
		InterruptAt:  -1,
		GroundTruth: GroundTruth{
			Boundaries: [][2]int{
				{0, 9000},
				{8500, 17500},
				{17000, 20000},
			},
			ExactReconstruction: true,
			MinSeamMatchRate:    1.0,
			MinWordCoverage:     1.0,
		},
	}
}

// GetMultibyteText returns the multi-byte rune arithmetic scenario
func GetMultibyteText() Scenario {
	return Scenario{
		ID:          "multibyte_text",
		Name:        "Multi-Byte Rune Arithmetic",
		Description: "Chunk offsets count runes, not bytes, over spaceless Japanese text",
		Text:        exactRunes(buildCJKProse(60), 1200),
		ChunkSize:   400,
		Overlap:     60,

		ContextRunes: 60,
		Corrector:    "echo",
		InterruptAt:  -1,
		GroundTruth: GroundTruth{
			Boundaries: [][2]int{
				{0, 400},
				{340, 740},
				{680, 1080},
				{1020, 1200},
			},
			ExactReconstruction: true,
			MinSeamMatchRate:    1.0,
			MinWordCoverage:     1.0,
		},
	}
}

// GetSingleChunk returns the no-seam scenario: input smaller than one chunk
func GetSingleChunk() Scenario {
	return Scenario{
		ID:          "single_chunk",
		Name:        "Single Chunk Passthrough",
		Description: "Input below the chunk size makes one chunk and merging is the identity",
		Text:        exactRunes(buildProse(4), 220),
		ChunkSize:   9000,
		Overlap:     500,

		ContextRunes: 500,
		Corrector:    "echo",
		InterruptAt:  -1,
		GroundTruth: GroundTruth{
			Boundaries:          [][2]int{{0, 220}},
			ExactReconstruction: true,
			MinSeamMatchRate:    1.0,
			MinWordCoverage:     1.0,
		},
	}
}

// GetZeroOverlap returns the abutting-chunks scenario
func GetZeroOverlap() Scenario {
	return Scenario{
		ID:          "zero_overlap",
		Name:        "Zero Overlap Concatenation",
		Description: "With no overlap, chunks abut and merging is pure concatenation",
		Text:        exactRunes(buildProse(32), 2100),
		ChunkSize:   700,
		Overlap:     0,

		ContextRunes: 200,
		Corrector:    "echo",
		InterruptAt:  -1,
		GroundTruth: GroundTruth{
			Boundaries: [][2]int{
				{0, 700},
				{700, 1400},
				{1400, 2100},
			},
			ExactReconstruction: true,
			MinSeamMatchRate:    1.0,
			MinWordCoverage:     1.0,
		},
	}
}

// GetNoisySpeech returns the filler-stripping scenario. Polished seams can
// diverge when a filler straddles a chunk boundary, so the thresholds allow
// fallback merges while still requiring most words to survive.
func GetNoisySpeech() Scenario {
	return Scenario{
		ID:          "noisy_speech",
		Name:        "Noisy Speech Polish",
		Description: "Filler removal changes seam text; merging must still keep the content",
		Text:        buildNoisySpeech(60),
		ChunkSize:   600,
		Overlap:     80,

		ContextRunes: 80,
		Corrector:    "polish",
		InterruptAt:  -1,
		GroundTruth: GroundTruth{
			ExactReconstruction: false,
			MinSeamMatchRate:    0.5,
			MinWordCoverage:     0.9,
		},
	}
}

// GetInterruptedResume returns the checkpoint round-trip scenario: the
// first pass stops part way, the second resumes from the saved checkpoint,
// and the final output must match an uninterrupted run.
func GetInterruptedResume() Scenario {
	return Scenario{
		ID:          "interrupted_resume",
		Name:        "Interrupted Run Resume",
		Description: "A run that fails mid-way and resumes must produce the same output as one that never failed",
		Text:        buildProse(48),
		ChunkSize:   800,
		Overlap:     120,

		ContextRunes: 120,
		Corrector:    "echo",
		InterruptAt:  2,
		GroundTruth: GroundTruth{
			ExactReconstruction: true,
			MinSeamMatchRate:    1.0,
			MinWordCoverage:     1.0,
		},
	}
}

// GetAllScenarios returns every fidelity scenario
func GetAllScenarios() []Scenario {
	return []Scenario{
		GetUniformProse(),
		GetBoundaryGeometry(),
		GetMultibyteText(),
		GetSingleChunk(),
		GetZeroOverlap(),
		GetNoisySpeech(),
		GetInterruptedResume(),
	}
}
