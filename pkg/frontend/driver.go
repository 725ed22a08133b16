package frontend

import (
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/scriptlang/pyfrontend/pkg/ast"
	"github.com/scriptlang/pyfrontend/pkg/ir"
	"github.com/scriptlang/pyfrontend/pkg/source"
)

// Lower drives the Module Driver's top-level orchestration (§4.7 Module
// Driver, §2 Dataflow): it runs the Scope Analyzer over the module's
// top-level statements, fails fatally if any name is still free at module
// scope, then lowers the module body into a single script_main function
// with an implicit `return None` on fall-through.
func Lower(file *source.File, mod *ast.Module, registry *BuiltinRegistry) (*ir.Module, error) {
	root, freeSpans, scopeMap, errs := AnalyzeModule(mod, registry, file)
	if len(errs) > 0 {
		return nil, errs[0]
	}

	if len(root.Free) > 0 {
		unresolved := make([]*source.SyntaxError, 0, len(root.Free))

		for _, name := range root.Free {
			unresolved = append(unresolved, source.NewSyntaxError(file, freeSpans[name], name))
		}

		return nil, source.UnresolvedNames(unresolved)
	}

	ctx := ir.NewContext()
	irMod := ctx.NewModule(moduleName(file))

	eng := &Engine{
		Registry: registry,
		Scopes:   scopeMap,
		Names:    NewNameAllocator(),
		File:     file,
		Module:   irMod,
		Ctx:      ctx,
	}

	fn := irMod.NewFunction("script_main")
	builder := ir.NewBuilder(ctx, fn)
	lc := EnterFunction(builder, root, 0)

	log.Debugf("lowering %s: %d top-level locals, %d top-level statements",
		file.Filename(), len(root.Locals), len(mod.Body))

	terminated, err := eng.lowerStmtList(lc, mod.Body)
	if err != nil {
		return nil, err
	}

	if !terminated {
		builder.Return(builder.MkReturn(builder.None()))
	}

	return irMod, nil
}

// moduleName derives an IR module name from a source file's basename,
// stripping its extension (e.g. "/a/b/hello.py" -> "hello").
func moduleName(file *source.File) string {
	base := filepath.Base(file.Filename())
	return strings.TrimSuffix(base, filepath.Ext(base))
}
