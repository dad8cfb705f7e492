package scoring

import (
	"regexp"
	"strings"
)

// Big-O labels the heuristic can emit.
const (
	O1     = "O(1)"
	OLogN  = "O(log n)"
	ON     = "O(n)"
	ONLogN = "O(n log n)"
	ON2    = "O(n^2)"
	ON3    = "O(n^3)"
	O2N    = "O(2^n)"
	ONFact = "O(n!)"
)

var (
	loopRe    = regexp.MustCompile(`\b(for|while)\b`)
	funcDefRe = regexp.MustCompile(`(?:func|function|def)\s+([A-Za-z_]\w*)\s*\(`)
	sortRe    = regexp.MustCompile(`\bsort\w*\s*\(|\.sort\s*\(|\bsorted\s*\(`)
	anyFuncRe = regexp.MustCompile(`\bfunc\b|\bfunction\b|\bdef\b|=>`)
)

// DetectONotation guesses the Big-O class of a source string with ordered
// textual pattern tests, first match wins. This is a heuristic, not a
// static analyzer: it matches text, not control flow, and will misclassify
// adversarial or unusually formatted code.
func DetectONotation(code string) string {
	lower := strings.ToLower(code)

	// 1. Loop nesting depth.
	depth := maxLoopNesting(code)
	if depth >= 3 {
		return ON3
	}
	if depth == 2 {
		return ON2
	}

	// 2. Heavy self-recursion.
	if selfCallCount(code) > 2 {
		return O2N
	}

	// 3. Sort keywords.
	if sortRe.MatchString(lower) {
		return ONLogN
	}

	// 4. Binary search keywords.
	if strings.Contains(lower, "binary") && strings.Contains(lower, "search") {
		return OLogN
	}

	// 5. Exactly one loop.
	loops := loopRe.FindAllString(code, -1)
	if len(loops) == 1 {
		return ON
	}

	// 6. No loops, recursion or functions at all.
	if len(loops) == 0 && !anyFuncRe.MatchString(lower) {
		return O1
	}

	// 7. Default.
	return ON
}

// maxLoopNesting estimates how deeply loops nest by tracking the brace
// depth at which each loop keyword opens its block. Brace syntax only;
// indentation-scoped loops fall through to the single-loop rule.
func maxLoopNesting(code string) int {
	locs := loopRe.FindAllStringIndex(code, -1)
	loopAt := make(map[int]bool, len(locs))
	for _, l := range locs {
		loopAt[l[0]] = true
	}

	var stack []bool // true for frames opened by a loop header
	maxNest := 0
	openLoops := 0
	pendingLoop := false

	for i := 0; i < len(code); i++ {
		if loopAt[i] {
			pendingLoop = true
		}
		switch code[i] {
		case '{':
			stack = append(stack, pendingLoop)
			if pendingLoop {
				openLoops++
				if openLoops > maxNest {
					maxNest = openLoops
				}
			}
			pendingLoop = false
		case '}':
			if n := len(stack); n > 0 {
				if stack[n-1] {
					openLoops--
				}
				stack = stack[:n-1]
			}
		}
	}
	return maxNest
}

// selfCallCount returns the highest number of times any defined function
// name reappears as a call within the source, excluding definition sites.
func selfCallCount(code string) int {
	defs := funcDefRe.FindAllStringSubmatch(code, -1)
	max := 0
	for _, m := range defs {
		name := m[1]
		callRe := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\s*\(`)
		defRe := regexp.MustCompile(`(?:func|function|def)\s+` + regexp.QuoteMeta(name) + `\s*\(`)
		calls := len(callRe.FindAllString(code, -1)) - len(defRe.FindAllString(code, -1))
		if calls > max {
			max = calls
		}
	}
	return max
}
