package strength

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"strings"
)

const (
	// MinGeneratedLength is the shortest password GenerateStrong produces.
	MinGeneratedLength = 12

	// DefaultGeneratedLength is used when no length is configured.
	DefaultGeneratedLength = 16

	lowerChars = "abcdefghijklmnopqrstuvwxyz"
	upperChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars = "0123456789"

	memorableSeparators = "!@#$%&*"
)

var memorableWords = []string{
	"Castle", "Ocean", "Mountain", "Forest", "River", "Thunder", "Lightning",
	"Phoenix", "Dragon", "Tiger", "Eagle", "Wolf", "Bear", "Lion",
	"Crystal", "Diamond", "Ruby", "Emerald", "Silver", "Golden",
	"Storm", "Wind", "Fire", "Ice", "Star", "Moon", "Sun",
	"Magic", "Power", "Energy", "Force", "Spirit", "Dream", "Hope",
}

// Generator produces random passwords from a cryptographically secure source.
type Generator struct {
	analyzer *Analyzer
	rand     io.Reader
}

// NewGenerator returns a Generator reading from crypto/rand.
func NewGenerator(a *Analyzer) *Generator {
	if a == nil {
		a = NewAnalyzer()
	}
	return &Generator{analyzer: a, rand: rand.Reader}
}

func (g *Generator) intn(n int) (int, error) {
	v, err := rand.Int(g.rand, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return int(v.Int64()), nil
}

func (g *Generator) pick(chars string) (byte, error) {
	i, err := g.intn(len(chars))
	if err != nil {
		return 0, err
	}
	return chars[i], nil
}

// shuffle is a Fisher-Yates shuffle over the secure source.
func (g *Generator) shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		j, err := g.intn(i + 1)
		if err != nil {
			return err
		}
		b[i], b[j] = b[j], b[i]
	}
	return nil
}

// GenerateStrong returns a password of at least MinGeneratedLength characters
// containing every requested character class. Candidates scoring below Strong
// are discarded and generated again.
func (g *Generator) GenerateStrong(length int, includeSymbols bool) (string, error) {
	length = max(length, MinGeneratedLength)

	classes := []string{lowerChars, upperChars, digitChars}
	if includeSymbols {
		classes = append(classes, Symbols)
	}
	pool := strings.Join(classes, "")

	for {
		buf := make([]byte, 0, length)
		for _, class := range classes {
			c, err := g.pick(class)
			if err != nil {
				return "", err
			}
			buf = append(buf, c)
		}
		for len(buf) < length {
			c, err := g.pick(pool)
			if err != nil {
				return "", err
			}
			buf = append(buf, c)
		}
		if err := g.shuffle(buf); err != nil {
			return "", err
		}

		candidate := string(buf)
		if g.analyzer.Analyze(candidate).Tier >= Strong {
			return candidate, nil
		}
	}
}

// GenerateMemorable joins three or four distinct words with a random
// separator and appends a two digit number and the separator again, e.g.
// "Tiger#Moon#Ruby07#".
func (g *Generator) GenerateMemorable() (string, error) {
	n, err := g.intn(2)
	if err != nil {
		return "", err
	}
	n += 3

	words := make([]string, len(memorableWords))
	copy(words, memorableWords)
	// partial Fisher-Yates: the first n slots become the sample
	for i := 0; i < n; i++ {
		j, err := g.intn(len(words) - i)
		if err != nil {
			return "", err
		}
		words[i], words[i+j] = words[i+j], words[i]
	}

	sep, err := g.pick(memorableSeparators)
	if err != nil {
		return "", err
	}
	num, err := g.intn(100)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%02d%c", strings.Join(words[:n], string(sep)), num, sep), nil
}
