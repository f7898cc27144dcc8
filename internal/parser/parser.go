package parser

import "tmsync/internal/domain"

// Parser parses spec file contents into a structured test
type Parser interface {
	Parse(path string, text string) *domain.SpecTest
}
