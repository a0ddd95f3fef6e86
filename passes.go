package quill

// OVERVIEW
//
// Module passes run between parsing and interpretation, in order:
//
//  1. importPass   — resolves every `use`, loads and parses the target
//     module, and copies the requested exports into this module's
//     tables. Imported functions keep their defining module's id so
//     their bodies still resolve names against their home module.
//  2. resolverPass — walks top-level declarations and populates the
//     module's function/struct/trait/const tables and its export list.
//     Trait impls are validated here (every trait method present,
//     no duplicate impl for the same trait). Const initializers are
//     evaluated once, eagerly, during this pass.
//
// A parse failure inside an imported module is fatal for the whole
// process: the importing module's state is not safely continuable, so
// the diagnostic is printed and the process exits.

import (
	"log/slog"
	"os"
)

// Pass is one pre-interpretation walk over a module's statements.
type Pass interface {
	Run(m *Module, ctx *Context, vm *VM) error
}

func modulePasses() []Pass {
	return []Pass{importPass{}, resolverPass{}}
}

//// Import pass ///////////////////////////////////////////////////////

type importPass struct{}

func (importPass) Run(m *Module, ctx *Context, vm *VM) error {
	for _, stmt := range m.ast.Stmts {
		use, ok := stmt.(*UseStmt)
		if !ok {
			continue
		}
		if err := runImport(use, m, ctx, vm); err != nil {
			return err
		}
	}
	return nil
}

func runImport(use *UseStmt, m *Module, ctx *Context, vm *VM) error {
	spec := stripQuotes(use.From.Literal())
	slog.Debug("importing", "spec", spec, "module", m.Name())

	loaded, err := ctx.LoadModule(m, spec)
	if err != nil {
		return runtimeErr(FailedToImportModule, use.From.Span,
			"failed to import module '%s': %s", spec, err)
	}
	ctx.UpsertModule(loaded)

	if err := loaded.Parse(ctx, vm); err != nil {
		PrintDiagnostic(err, loaded.Source())
		os.Exit(1)
	}

	for _, item := range use.Items {
		name := item.Literal()
		export := loaded.FindExport(name)
		if export == nil {
			return runtimeErr(ImportError, item.Span,
				"module '%s' has no export named '%s'", spec, name)
		}
		switch {
		case export.Fn != nil:
			m.functions = append(m.functions, &StoredFunction{
				Fn:             export.Fn.Fn,
				DefiningModule: loaded.ID(),
			})
		case export.Struct != nil:
			m.structs = append(m.structs, export.Struct)
		case export.Trait != nil:
			m.traits = append(m.traits, export.Trait)
		case export.Const != nil:
			m.consts = append(m.consts, export.Const)
		}
	}
	return nil
}

//// Resolver pass /////////////////////////////////////////////////////

type resolverPass struct{}

func (resolverPass) Run(m *Module, ctx *Context, vm *VM) error {
	for _, stmt := range m.ast.Stmts {
		var err error
		switch s := stmt.(type) {
		case *FnDecl:
			err = resolveFn(m, s)
		case *StructDecl:
			err = resolveStruct(m, s)
		case *TraitDecl:
			err = resolveTrait(m, s)
		case *StructImplDecl:
			err = resolveStructImpl(m, s)
		case *TraitImplDecl:
			err = resolveTraitImpl(m, s)
		case *ConstDecl:
			err = resolveConst(m, s, ctx, vm)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func resolveFn(m *Module, decl *FnDecl) error {
	stored := &StoredFunction{Fn: decl, DefiningModule: m.id}
	m.functions = append(m.functions, stored)
	if decl.Public {
		m.exports = append(m.exports, Export{Name: decl.Name, Fn: stored})
	}
	return nil
}

func resolveStruct(m *Module, decl *StructDecl) error {
	stored := &StoredStruct{Def: decl, DefiningModule: m.id}
	m.structs = append(m.structs, stored)
	if decl.Public {
		m.exports = append(m.exports, Export{Name: stored.Name(), Struct: stored})
	}
	return nil
}

func resolveTrait(m *Module, decl *TraitDecl) error {
	stored := &StoredTrait{Def: decl, DefiningModule: m.id}
	m.traits = append(m.traits, stored)
	if decl.Public {
		m.exports = append(m.exports, Export{Name: stored.Name(), Trait: stored})
	}
	return nil
}

func resolveStructImpl(m *Module, decl *StructImplDecl) error {
	name := decl.StructName.Literal()
	stored := m.FindStruct(name)
	if stored == nil {
		return runtimeErr(StructNotFound, decl.StructName.Span, "struct '%s' not found", name)
	}
	stored.Impls = append(stored.Impls, decl)
	return nil
}

func resolveTraitImpl(m *Module, decl *TraitImplDecl) error {
	structName := decl.StructName.Literal()
	traitName := decl.TraitName.Literal()

	stored := m.FindStruct(structName)
	if stored == nil {
		return runtimeErr(StructNotFound, decl.StructName.Span, "struct '%s' not found", structName)
	}
	trait := m.FindTrait(traitName)
	if trait == nil {
		return runtimeErr(TraitNotFound, decl.TraitName.Span, "trait '%s' not found", traitName)
	}
	if stored.ImplementsTrait(traitName) {
		return runtimeErr(StructAlreadyImplementsTrait, decl.TraitName.Span,
			"struct '%s' already implements trait '%s'", structName, traitName)
	}

	var missing []string
	for _, want := range trait.Def.Methods {
		found := false
		for _, have := range decl.Methods {
			if have.Name == want.Name {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, want.Name)
		}
	}
	if len(missing) > 0 {
		return errTraitMethodNotImplemented(traitName, missing, decl.TraitName.Span)
	}

	stored.TraitImpls = append(stored.TraitImpls, decl)
	return nil
}

func resolveConst(m *Module, decl *ConstDecl, ctx *Context, vm *VM) error {
	if err := m.interpretExpr(decl.Expr, ctx, vm); err != nil {
		return err
	}
	stored := &StoredConst{
		Ident:          decl.Ident,
		Value:          vm.Pop(),
		DefiningModule: m.id,
	}
	m.consts = append(m.consts, stored)
	if decl.Public {
		m.exports = append(m.exports, Export{Name: decl.Ident.Literal(), Const: stored})
	}
	return nil
}
