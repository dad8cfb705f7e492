package scoring

import "math"

const (
	weightTime        = 0.4
	weightEfficiency  = 0.3
	weightCorrectness = 0.3

	// Time score decays linearly from 100 at t=0 to 0 at 30 minutes.
	maxCompletionTimeMs = 30 * 60 * 1000
)

// efficiencyMultipliers maps a canonical Big-O label to its score
// multiplier. Unknown or missing labels fall back to 1.0.
var efficiencyMultipliers = map[string]float64{
	"O(1)":       1.5,
	"O(log n)":   1.3,
	"O(n)":       1.0,
	"O(n log n)": 0.9,
	"O(n^2)":     0.7,
	"O(n^3)":     0.5,
	"O(2^n)":     0.4,
	"O(n!)":      0.3,
}

type Input struct {
	CompletionTimeMs int64
	ONotation        string // empty when undetected
	TestCasesPassed  int
	TotalTestCases   int
}

type Breakdown struct {
	TimeScore        float64 `json:"time_score"`
	EfficiencyScore  float64 `json:"efficiency_score"`
	CorrectnessScore float64 `json:"correctness_score"`
	FinalScore       float64 `json:"final_score"`
}

// Calculate maps completion time, detected complexity and test results to
// a final score in [0,100]. It is total: every input produces a score,
// missing labels and zero test totals fall through to documented defaults.
func Calculate(in Input) Breakdown {
	timeScore := round2(timeScore(in.CompletionTimeMs))
	efficiencyScore := round2(efficiencyScore(in.ONotation))
	correctnessScore := round2(correctnessScore(in.TestCasesPassed, in.TotalTestCases))

	final := round2(weightTime*timeScore + weightEfficiency*efficiencyScore + weightCorrectness*correctnessScore)

	return Breakdown{
		TimeScore:        timeScore,
		EfficiencyScore:  efficiencyScore,
		CorrectnessScore: correctnessScore,
		FinalScore:       final,
	}
}

func timeScore(completionTimeMs int64) float64 {
	if completionTimeMs <= 0 {
		return 100
	}
	if completionTimeMs >= maxCompletionTimeMs {
		return 0
	}
	return 100 * (1 - float64(completionTimeMs)/float64(maxCompletionTimeMs))
}

func efficiencyScore(oNotation string) float64 {
	multiplier, ok := efficiencyMultipliers[oNotation]
	if !ok {
		multiplier = 1.0
	}
	return math.Min(100, 50*multiplier)
}

func correctnessScore(passed, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(passed) / float64(total)
}

// round2 rounds half away from zero to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
