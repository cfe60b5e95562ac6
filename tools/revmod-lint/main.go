// revmod-lint is a custom static analyzer for revmod's revision store usage.
package main

import (
	"golang.org/x/tools/go/analysis/multichecker"

	"github.com/ersonp/revmod/tools/revmod-lint/analyzers"
)

func main() {
	multichecker.Main(analyzers.All()...)
}
