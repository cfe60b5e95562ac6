// Package txwrite detects revision writes made outside a WithinEntity callback.
package txwrite

import (
	"go/ast"
	"go/types"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"
)

// Analyzer reports revision writes called directly on a RevisionStore. Flag
// changes must run on the RevisionTx handed to WithinEntity.
var Analyzer = &analysis.Analyzer{
	Name:     "txwrite",
	Doc:      "detects revision writes made on a RevisionStore instead of the RevisionTx passed to WithinEntity",
	Requires: []*analysis.Analyzer{inspect.Analyzer},
	Run:      run,
}

// storeType is the interface whose writes must be transactional.
const storeType = "RevisionStore"

// writeMethods mutate revisions or their default flags.
var writeMethods = map[string]bool{
	"CreateRevision":   true,
	"SetRevisionFlags": true,
	"DeleteRevision":   true,
}

func run(pass *analysis.Pass) (interface{}, error) {
	inspect := pass.ResultOf[inspect.Analyzer].(*inspector.Inspector)

	nodeFilter := []ast.Node{
		(*ast.CallExpr)(nil),
	}

	inspect.Preorder(nodeFilter, func(n ast.Node) {
		call := n.(*ast.CallExpr)
		sel, ok := call.Fun.(*ast.SelectorExpr)
		if !ok || !writeMethods[sel.Sel.Name] {
			return
		}

		if isStoreInterface(pass.TypesInfo.TypeOf(sel.X)) {
			pass.Reportf(call.Pos(),
				"%s called on %s: run it on the RevisionTx inside WithinEntity",
				sel.Sel.Name, storeType)
		}
	})

	return nil, nil
}

func isStoreInterface(t types.Type) bool {
	if t == nil {
		return false
	}
	named, ok := t.(*types.Named)
	if !ok || named.Obj().Name() != storeType {
		return false
	}
	return types.IsInterface(named)
}
