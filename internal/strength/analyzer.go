// Package strength scores passwords and generates new ones.
package strength

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Symbols is the punctuation set counted as special characters.
const Symbols = `!@#$%^&*(),.?":{}|<>`

// Tier is the strength bucket of a score.
type Tier int

const (
	VeryWeak Tier = iota
	Weak
	Fair
	Good
	Strong
	VeryStrong
)

func (t Tier) String() string {
	switch t {
	case VeryWeak:
		return "Very weak"
	case Weak:
		return "Weak"
	case Fair:
		return "Fair"
	case Good:
		return "Good"
	case Strong:
		return "Strong"
	case VeryStrong:
		return "Very strong"
	default:
		return "Unknown"
	}
}

// TierOf maps a score to its tier.
func TierOf(score int) Tier {
	switch {
	case score >= 90:
		return VeryStrong
	case score >= 70:
		return Strong
	case score >= 50:
		return Good
	case score >= 30:
		return Fair
	case score >= 10:
		return Weak
	default:
		return VeryWeak
	}
}

// Criteria lists every check that contributes to the score.
type Criteria struct {
	Length8     bool
	Length12    bool
	Length16    bool
	Upper       bool
	Lower       bool
	Digit       bool
	Symbol      bool
	NotCommon   bool
	NoRepeat    bool
	NoSequence  bool
	MixedCase   bool
	HighEntropy bool
}

// Analysis is the result of Analyze.
type Analysis struct {
	Score       int
	Tier        Tier
	Suggestions []string
	Criteria    Criteria
}

const (
	suggestEmpty      = "Enter a password"
	suggestLength8    = "Use at least 8 characters"
	suggestLength12   = "Use 12 or more characters for better security"
	suggestLength16   = "16 or more characters give the best protection"
	suggestUpper      = "Add uppercase letters (A-Z)"
	suggestLower      = "Add lowercase letters (a-z)"
	suggestDigit      = "Add numbers (0-9)"
	suggestSymbol     = "Add special characters (!@#$%^&*)"
	suggestCommon     = "Avoid common passwords"
	suggestRepeat     = "Avoid three or more identical characters in a row"
	suggestSequence   = "Avoid sequences such as 123, abc or qwe"
	congratulation    = "Excellent! Your password is very secure"
	entropyThreshold  = 50.0
	sequenceWindowLen = 3
)

var sequences = []string{
	"0123456789",
	"abcdefghijklmnopqrstuvwxyz",
	"qwertyuiopasdfghjklzxcvbnm",
}

var commonPasswords = map[string]struct{}{}

func init() {
	for _, p := range []string{
		"password", "123456", "123456789", "12345", "qwerty", "abc123",
		"password123", "admin", "letmein", "welcome", "monkey", "1234567890",
		"123123", "password1", "iloveyou", "11111", "000000", "superman",
		"dragon", "sunshine", "princess", "azerty", "trustno1", "123321",
		"passw0rd", "football", "master", "jordan", "mustang", "access",
		"shadow", "baseball", "696969", "12345678", "hottie", "loveme",
		"batman", "zaq12wsx", "qazwsx", "michael", "michelle",
	} {
		commonPasswords[p] = struct{}{}
	}
}

// Analyzer scores passwords. The zero value is ready to use.
type Analyzer struct{}

// NewAnalyzer returns an Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze scores password from 0 to 100. It is deterministic.
func (a *Analyzer) Analyze(password string) Analysis {
	if password == "" {
		return Analysis{Score: 0, Tier: VeryWeak, Suggestions: []string{suggestEmpty}}
	}

	c := checkCriteria(password)
	score := scoreOf(c)
	return Analysis{
		Score:       score,
		Tier:        TierOf(score),
		Suggestions: suggestionsFor(c),
		Criteria:    c,
	}
}

func checkCriteria(password string) Criteria {
	n := utf8.RuneCountInString(password)
	return Criteria{
		Length8:     n >= 8,
		Length12:    n >= 12,
		Length16:    n >= 16,
		Upper:       strings.ContainsFunc(password, func(r rune) bool { return r >= 'A' && r <= 'Z' }),
		Lower:       strings.ContainsFunc(password, func(r rune) bool { return r >= 'a' && r <= 'z' }),
		Digit:       strings.ContainsFunc(password, func(r rune) bool { return r >= '0' && r <= '9' }),
		Symbol:      strings.ContainsAny(password, Symbols),
		NotCommon:   !isCommon(password),
		NoRepeat:    !hasRepeat(password),
		NoSequence:  !hasSequence(password),
		MixedCase:   hasMixedCase(password),
		HighEntropy: entropy(password) > entropyThreshold,
	}
}

func scoreOf(c Criteria) int {
	score := 0
	switch {
	case c.Length16:
		score += 30
	case c.Length12:
		score += 20
	case c.Length8:
		score += 10
	}

	for _, ok := range []bool{c.Upper, c.Lower, c.Digit, c.Symbol, c.NotCommon} {
		if ok {
			score += 10
		}
	}
	for _, ok := range []bool{c.NoRepeat, c.NoSequence, c.MixedCase, c.HighEntropy} {
		if ok {
			score += 5
		}
	}
	return min(max(score, 0), 100)
}

func suggestionsFor(c Criteria) []string {
	var out []string
	switch {
	case !c.Length8:
		out = append(out, suggestLength8)
	case !c.Length12:
		out = append(out, suggestLength12)
	case !c.Length16:
		out = append(out, suggestLength16)
	}

	checks := []struct {
		ok  bool
		msg string
	}{
		{c.Upper, suggestUpper},
		{c.Lower, suggestLower},
		{c.Digit, suggestDigit},
		{c.Symbol, suggestSymbol},
		{c.NotCommon, suggestCommon},
		{c.NoRepeat, suggestRepeat},
		{c.NoSequence, suggestSequence},
	}
	for _, chk := range checks {
		if !chk.ok {
			out = append(out, chk.msg)
		}
	}

	if len(out) == 0 {
		out = append(out, congratulation)
	}
	return out
}

func isCommon(password string) bool {
	_, ok := commonPasswords[strings.ToLower(password)]
	return ok
}

// hasRepeat reports three identical consecutive characters.
func hasRepeat(password string) bool {
	r := []rune(password)
	for i := 0; i+2 < len(r); i++ {
		if r[i] == r[i+1] && r[i+1] == r[i+2] {
			return true
		}
	}
	return false
}

// hasSequence reports any three character window of a known sequence, in
// either direction, ignoring case.
func hasSequence(password string) bool {
	lower := strings.ToLower(password)
	for _, seq := range sequences {
		for i := 0; i+sequenceWindowLen <= len(seq); i++ {
			w := seq[i : i+sequenceWindowLen]
			if strings.Contains(lower, w) || strings.Contains(lower, reverse(w)) {
				return true
			}
		}
	}
	return false
}

func reverse(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// hasMixedCase reports an uppercase letter after the first position and a
// lowercase letter anywhere.
func hasMixedCase(password string) bool {
	r := []rune(password)
	if len(r) < 2 {
		return false
	}
	upper := false
	for _, c := range r[1:] {
		if unicode.IsUpper(c) {
			upper = true
			break
		}
	}
	return upper && strings.ContainsFunc(password, unicode.IsLower)
}

func entropy(password string) float64 {
	pool := 0
	if strings.ContainsFunc(password, unicode.IsLower) {
		pool += 26
	}
	if strings.ContainsFunc(password, unicode.IsUpper) {
		pool += 26
	}
	if strings.ContainsFunc(password, unicode.IsDigit) {
		pool += 10
	}
	if strings.ContainsAny(password, Symbols) {
		pool += 18
	}
	if pool == 0 {
		return 0
	}
	return math.Log2(float64(pool)) * float64(utf8.RuneCountInString(password))
}
