// Package analyzers provides all custom static analyzers for revmod.
package analyzers

import (
	"golang.org/x/tools/go/analysis"

	"github.com/ersonp/revmod/tools/revmod-lint/analyzers/txwrite"
)

// All returns all analyzers to run.
func All() []*analysis.Analyzer {
	return []*analysis.Analyzer{
		txwrite.Analyzer,
	}
}
