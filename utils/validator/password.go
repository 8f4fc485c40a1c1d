package validator

import (
	"strings"
	"unicode/utf8"
)

// specialChars is the set accepted by the special-character rule.
const specialChars = `!@#$%^&*(),.?":{}|<>`

// Result is the outcome of evaluating one password.
type Result struct {
	Valid      bool            `json:"valid"`
	Violations []ViolationKind `json:"violations"`
}

type rule struct {
	kind  ViolationKind
	fails func(password, lower string, cfg *PolicyConfig) bool
}

// rules run in this order and every one of them runs, so the caller always
// gets the full list of corrections.
var rules = []rule{
	{MinLength, func(p, _ string, cfg *PolicyConfig) bool {
		return utf8.RuneCountInString(p) < cfg.MinLength
	}},
	{RequiresUppercase, func(p, _ string, _ *PolicyConfig) bool {
		return !containsByte(p, func(b byte) bool { return b >= 'A' && b <= 'Z' })
	}},
	{RequiresLowercase, func(p, _ string, _ *PolicyConfig) bool {
		return !containsByte(p, func(b byte) bool { return b >= 'a' && b <= 'z' })
	}},
	{RequiresDigit, func(p, _ string, _ *PolicyConfig) bool {
		return !containsByte(p, func(b byte) bool { return b >= '0' && b <= '9' })
	}},
	{RequiresSpecialChar, func(p, _ string, _ *PolicyConfig) bool {
		return !strings.ContainsAny(p, specialChars)
	}},
	{CommonPassword, func(_, lower string, cfg *PolicyConfig) bool {
		return containsAnyEntry(lower, cfg.CommonPasswords)
	}},
	{SequentialChars, func(_, lower string, cfg *PolicyConfig) bool {
		return hasSequentialRun(lower, cfg.SequentialAlphabets, cfg.MinSequentialRunLength)
	}},
	{RepeatingChars, func(p, _ string, cfg *PolicyConfig) bool {
		return hasRepeatRun(p, cfg.MinRepeatRunLength)
	}},
	{KeyboardPattern, func(_, lower string, cfg *PolicyConfig) bool {
		return containsAnyEntry(lower, cfg.KeyboardPatterns)
	}},
}

// Evaluate checks password against cfg. It never fails: any string, including
// an empty or non-ASCII one, is classified and the broken rules are returned
// in evaluation order.
func Evaluate(password string, cfg PolicyConfig) Result {
	lower := strings.ToLower(password)
	violations := make([]ViolationKind, 0, len(rules))

	for _, r := range rules {
		if r.fails(password, lower, &cfg) {
			violations = append(violations, r.kind)
		}
	}

	return Result{
		Valid:      len(violations) == 0,
		Violations: violations,
	}
}

// Has reports whether kind is among the result's violations.
func (r Result) Has(kind ViolationKind) bool {
	for _, v := range r.Violations {
		if v == kind {
			return true
		}
	}
	return false
}

// Only ASCII bytes can match, and multi-byte UTF-8 sequences never contain
// ASCII bytes, so scanning bytes is exact.
func containsByte(s string, match func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if match(s[i]) {
			return true
		}
	}
	return false
}

func containsAnyEntry(lower string, entries []string) bool {
	for _, entry := range entries {
		if entry == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(entry)) {
			return true
		}
	}
	return false
}

// hasSequentialRun slides a window of n runes over lower and reports whether
// any window is a substring of an alphabet read forwards or backwards.
func hasSequentialRun(lower string, alphabets []string, n int) bool {
	runes := []rune(lower)
	if n <= 0 || len(runes) < n {
		return false
	}

	candidates := make([]string, 0, len(alphabets)*2)
	for _, alphabet := range alphabets {
		a := strings.ToLower(alphabet)
		candidates = append(candidates, a, reverse(a))
	}

	for i := 0; i+n <= len(runes); i++ {
		window := string(runes[i : i+n])
		for _, c := range candidates {
			if strings.Contains(c, window) {
				return true
			}
		}
	}
	return false
}

// hasRepeatRun reports a run of n identical characters. Bytes that are not
// valid UTF-8 are compared as raw bytes, so distinct invalid bytes never form
// a run.
func hasRepeatRun(s string, n int) bool {
	if n <= 1 {
		return s != ""
	}
	prev := ""
	count := 0
	for i := 0; i < len(s); {
		_, size := utf8.DecodeRuneInString(s[i:])
		char := s[i : i+size]
		if count > 0 && char == prev {
			count++
		} else {
			prev = char
			count = 1
		}
		if count >= n {
			return true
		}
		i += size
	}
	return false
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
