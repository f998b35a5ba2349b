package handlers

import (
	"github.com/standardbeagle/rbdoc/internal/ast"
)

// handleEnums registers each constant assigned inside an `enums do ... end`
// block, in source order. Anything other than a constant assignment is skipped.
func handleEnums(p *Processor, stmt *ast.Node) error {
	for _, n := range stmt.Block().BodyStatements() {
		if !isConstantAssignment(n) {
			continue
		}
		left, right := assignmentParts(n)
		registerConstant(p, n, left, right)
	}
	return nil
}
