package cli

import "tmsync/internal/config"

// Flags holds command-line flags
type Flags struct {
	Project    string
	Verbose    bool
	Processors int
	DryRun     bool
	NameFilter string
	ShowSteps  bool
	OpenErrors bool
}

// ToConfigFlags converts CLI flags to config flags
func (f *Flags) ToConfigFlags() config.Flags {
	return config.Flags{
		Processors: f.Processors,
		Verbose:    f.Verbose,
		DryRun:     f.DryRun,
		NameFilter: f.NameFilter,
		ShowSteps:  f.ShowSteps,
		OpenErrors: f.OpenErrors,
	}
}
