package services

import (
	"github.com/dmitrijs2005/pwvault/internal/strength"
)

// GenerateOptions selects the generator. Length and Symbols apply to strong
// passwords only.
type GenerateOptions struct {
	Memorable bool
	Length    int
	Symbols   bool
}

// PasswordService analyzes and generates passwords.
type PasswordService interface {
	Analyze(password string) strength.Analysis
	Generate(opts GenerateOptions) (string, error)
}

type passwordService struct {
	analyzer  *strength.Analyzer
	generator *strength.Generator
}

// NewPasswordService constructs a PasswordService.
func NewPasswordService() PasswordService {
	a := strength.NewAnalyzer()
	return &passwordService{analyzer: a, generator: strength.NewGenerator(a)}
}

func (p *passwordService) Analyze(password string) strength.Analysis {
	return p.analyzer.Analyze(password)
}

func (p *passwordService) Generate(opts GenerateOptions) (string, error) {
	if opts.Memorable {
		return p.generator.GenerateMemorable()
	}
	length := opts.Length
	if length <= 0 {
		length = strength.DefaultGeneratedLength
	}
	return p.generator.GenerateStrong(length, opts.Symbols)
}
