package domain

import (
	"fmt"
	"sort"
)

// voteTally is one distinct verdict with its supporter count and the
// average confidence of the judges who cast it.
type voteTally struct {
	code          VerdictCode
	count         int
	avgConfidence float64
}

// FallbackConsensus deterministically synthesizes a chief ruling from the
// panel's literal votes. It is the recovery path used whenever the chief
// judge call fails at the transport layer or returns unparsable output;
// both paths must produce identical results, so this function takes no
// input describing which failure occurred.
//
// Policy, for an n-judge panel:
//   - Exactly two verdicts with two votes each is a tie. It is broken by
//     the higher average confidence among each side's supporters; equal
//     averages fall back to lexical order of the verdict code, which keeps
//     the outcome independent of panel ordering.
//   - Every verdict appearing exactly once is a no-consensus split. The
//     ruling is forced to INFO regardless of the codes actually cast.
//   - Otherwise the top-voted verdict wins. Confidence is 70 when
//     unanimous, 65 for a 3-vote majority, and 60 for any smaller one.
func FallbackConsensus(panel []PanelJudgeResult) ChiefJudgeResult {
	tallies := tallyVotes(panel)
	if len(tallies) == 0 {
		return noConsensusResult()
	}

	numJudges := len(panel)
	topCount := tallies[0].count

	// A 2-2 deadlock needs the confidence tie-break.
	if len(tallies) >= 2 && tallies[0].count == 2 && tallies[1].count == 2 {
		return tieBreakResult(tallies[0], tallies[1])
	}

	// Every verdict cast exactly once: no majority exists at all.
	if topCount == 1 {
		return noConsensusResult()
	}

	return majorityResult(tallies[0], topCount, numJudges)
}

// tallyVotes groups the panel's literal verdict fields and orders the
// distinct verdicts by descending vote count. Verdicts with equal counts
// are ordered lexically by code so iteration order never decides a ruling.
func tallyVotes(panel []PanelJudgeResult) []voteTally {
	counts := make(map[VerdictCode]int)
	confidenceSums := make(map[VerdictCode]int)
	for _, p := range panel {
		counts[p.Verdict]++
		confidenceSums[p.Verdict] += p.Confidence
	}

	tallies := make([]voteTally, 0, len(counts))
	for code, count := range counts {
		tallies = append(tallies, voteTally{
			code:          code,
			count:         count,
			avgConfidence: float64(confidenceSums[code]) / float64(count),
		})
	}

	sort.Slice(tallies, func(i, j int) bool {
		if tallies[i].count != tallies[j].count {
			return tallies[i].count > tallies[j].count
		}
		return tallies[i].code < tallies[j].code
	})

	return tallies
}

// tieBreakResult resolves a 2-2 deadlock. The side whose supporters were
// more confident on average wins; tallies arrive pre-sorted lexically, so
// an exact confidence tie favors the lexically smaller code.
func tieBreakResult(first, second voteTally) ChiefJudgeResult {
	winner := first
	if second.avgConfidence > first.avgConfidence {
		winner = second
	}

	return ChiefJudgeResult{
		JudgeVerdict: JudgeVerdict{
			Verdict:    winner.code,
			Confidence: 55,
			Summary:    "The panel deadlocked 2-2; the tie was broken by judge confidence.",
			Reasoning: "The panel split evenly between two verdicts. The final ruling " +
				"follows the pair of judges who expressed higher average confidence.",
			KeyPoints: []string{"Tied vote broken by average confidence"},
		},
		Synthesis:  "Deterministic fallback: majority vote with a confidence-weighted tie-break.",
		Dissent:    "Two judges disagreed with the final ruling.",
		PanelSplit: "2-2 (tie broken)",
	}
}

// noConsensusResult covers panels where every judge voted differently.
func noConsensusResult() ChiefJudgeResult {
	return ChiefJudgeResult{
		JudgeVerdict: JudgeVerdict{
			Verdict:    VerdictINFO,
			Confidence: 50,
			Summary:    "The panel could not reach a consensus.",
			Reasoning: "Every judge reached a different verdict, so no majority ruling " +
				"exists. More information is needed before a fair ruling can be made.",
			KeyPoints: []string{"No majority decision"},
		},
		Synthesis:  "Deterministic fallback: no majority emerged from the panel.",
		Dissent:    "",
		PanelSplit: "split",
	}
}

// majorityResult handles clear majorities, including unanimity.
func majorityResult(top voteTally, topCount, numJudges int) ChiefJudgeResult {
	unanimous := topCount == numJudges

	confidence := 60
	switch {
	case unanimous:
		confidence = 70
	case topCount == 3:
		confidence = 65
	}

	split := fmt.Sprintf("%d-%d", topCount, numJudges-topCount)

	summary := fmt.Sprintf("The panel ruled %s.", split)
	keyPoints := []string{"Majority decision"}
	dissent := "Minority judge(s) disagreed with the ruling."
	if unanimous {
		summary = "The panel ruled unanimously."
		keyPoints = []string{"Unanimous decision"}
		dissent = ""
	}

	return ChiefJudgeResult{
		JudgeVerdict: JudgeVerdict{
			Verdict:    top.code,
			Confidence: confidence,
			Summary:    summary,
			Reasoning: "The ruling follows the panel's majority vote. Individual judge " +
				"reasoning is preserved alongside this verdict.",
			KeyPoints: keyPoints,
		},
		Synthesis:  "Deterministic fallback: the majority verdict carries the ruling.",
		Dissent:    dissent,
		PanelSplit: split,
	}
}
