package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/vk/simgridgo/internal/component"
	"github.com/vk/simgridgo/internal/ctyutil"
	"github.com/vk/simgridgo/internal/ops"
	"github.com/vk/simgridgo/internal/registry"
	"github.com/vk/simgridgo/internal/simctx"
	"github.com/zclconf/go-cty/cty"
)

// Load reconstructs a saved model into the given context, which is entered
// for the duration so replayed constructions land in it. Documents are
// replayed strictly in the order components, ops, commands. Any failure is
// fatal for the whole load and leaves already-constructed state in place;
// the caller must treat the context as invalid on error.
func Load(ctx context.Context, s *simctx.Scope, c *simctx.Context, directory, customFolder string) error {
	if customFolder == "" {
		customFolder = "custom"
	}

	c.Enter()
	defer c.Exit()

	customDir := filepath.Join(directory, customFolder)
	if err := loadComponents(ctx, s, c, filepath.Join(directory, "components.json"), customDir); err != nil {
		return fmt.Errorf("loading components: %w", err)
	}
	if err := loadOps(ctx, s, c, filepath.Join(directory, "ops.json")); err != nil {
		return fmt.Errorf("loading ops: %w", err)
	}
	if err := loadCommands(ctx, s, c, filepath.Join(directory, "commands.json")); err != nil {
		return fmt.Errorf("loading commands: %w", err)
	}
	return nil
}

func loadComponents(ctx context.Context, s *simctx.Scope, c *simctx.Context, path, customDir string) error {
	var file componentsFile
	if err := readJSON(path, &file); err != nil {
		return err
	}

	// Decode every descriptor's values first so hyperparameter substitution
	// sees the whole document.
	type decoded struct {
		class  string
		args   []cty.Value
		kwargs map[string]cty.Value
	}
	components := make(map[string]*decoded, len(file.Components))
	order := make([]string, 0, len(file.Components))
	for cPath, doc := range file.Components {
		d := &decoded{
			class:  doc.Class,
			kwargs: make(map[string]cty.Value, len(doc.Kwargs)),
		}
		for i, raw := range doc.Args {
			v, err := ctyutil.FromJSON(raw)
			if err != nil {
				return fmt.Errorf("component %q: argument %d: %w", cPath, i, err)
			}
			d.args = append(d.args, v)
		}
		for key, raw := range doc.Kwargs {
			v, err := ctyutil.FromJSON(raw)
			if err != nil {
				return fmt.Errorf("component %q: keyword %q: %w", cPath, key, err)
			}
			d.kwargs[key] = v
		}
		components[cPath] = d
		order = append(order, cPath)
	}
	sort.Strings(order)

	// Substitute hyperparameter indirections back to their shared values and
	// remember each substitution so freshly built components carry a
	// parameter_map, keeping a later re-save deduplicated the same way.
	parameterMap := make(map[string]string)
	if len(file.Hyperparameters) > 0 {
		hyper := make(map[string]cty.Value, len(file.Hyperparameters))
		for pKey, raw := range file.Hyperparameters {
			v, err := ctyutil.FromJSON(raw)
			if err != nil {
				return fmt.Errorf("hyperparameter %q: %w", pKey, err)
			}
			hyper[pKey] = v
		}
		for _, cPath := range order {
			d := components[cPath]
			for cKey, cVal := range d.kwargs {
				if cVal.Type() != cty.String || cVal.IsNull() {
					continue
				}
				pVal, ok := hyper[cVal.AsString()]
				if !ok {
					continue
				}
				parameterMap[cKey] = cVal.AsString()
				d.kwargs[cKey] = pVal
			}
		}
	}

	for _, cPath := range order {
		d := components[cPath]
		name := cPath
		if idx := strings.LastIndex(name, "/"); idx >= 0 {
			name = name[idx+1:]
		}

		kwargs := d.kwargs
		if len(parameterMap) > 0 {
			pm, err := ctyutil.FromGo(parameterMap)
			if err != nil {
				return fmt.Errorf("component %q: rebuilding parameter map: %w", cPath, err)
			}
			kwargs = make(map[string]cty.Value, len(d.kwargs)+1)
			for k, v := range d.kwargs {
				kwargs[k] = v
			}
			kwargs[parameterMapKey] = pm
		}

		comp, err := simctx.BuildComponent(ctx, s, d.class, name, d.args, kwargs)
		if err != nil {
			return err
		}
		if loader, ok := c.LoaderFor(comp.Name()); ok {
			if err := loader.LoadState(ctx, customDir); err != nil {
				return fmt.Errorf("component %q: restoring custom state: %w", comp.Name(), err)
			}
		}
	}
	return nil
}

func loadOps(ctx context.Context, s *simctx.Scope, c *simctx.Context, path string) error {
	var specs []*ops.Spec
	if err := readJSON(path, &specs); err != nil {
		return err
	}
	for i, spec := range specs {
		op, err := evalOp(s, c, spec)
		if err != nil {
			return fmt.Errorf("op %d: %w", i, err)
		}
		// A top-level op with no destination still belongs to the build log
		// so a re-save reproduces the document.
		if spec.Destination == nil && op != nil {
			c.RegisterOp(op)
		}
	}
	return nil
}

// evalOp recursively realizes one op descriptor. A nil destination returns
// the constructed op for use by an enclosing expression; otherwise the op is
// bound into the destination compartment and registered, and nil is
// returned.
func evalOp(s *simctx.Scope, c *simctx.Context, spec *ops.Spec) (ops.Op, error) {
	attr, err := s.Registry().ResolveFromPath(spec.Class, registry.ResolveOptions{})
	if err != nil {
		return nil, err
	}
	if attr.Op == nil {
		return nil, fmt.Errorf("class %q is not an op class", spec.Class)
	}

	sources := make([]component.Source, 0, len(spec.Sources))
	for i, arg := range spec.Sources {
		switch {
		case arg.Node != nil:
			if arg.Node.Destination != nil {
				return nil, fmt.Errorf("source %d: nested op must not carry a destination", i)
			}
			nested, err := evalOp(s, c, arg.Node)
			if err != nil {
				return nil, err
			}
			sources = append(sources, nested)
		default:
			cp, err := c.CompartmentByRef(arg.Ref)
			if err != nil {
				return nil, err
			}
			sources = append(sources, cp)
		}
	}

	op, err := attr.Op(sources...)
	if err != nil {
		return nil, fmt.Errorf("constructing op class %q: %w", spec.Class, err)
	}

	if spec.Destination == nil {
		return op, nil
	}
	dest, err := c.CompartmentByRef(*spec.Destination)
	if err != nil {
		return nil, err
	}
	if err := simctx.BindOp(s, dest, op); err != nil {
		return nil, err
	}
	return nil, nil
}

func loadCommands(ctx context.Context, s *simctx.Scope, c *simctx.Context, path string) error {
	var docs map[string]commandDoc
	if err := readJSON(path, &docs); err != nil {
		return err
	}

	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		doc := docs[name]

		components := c.GetComponents(ctx, doc.Components...)
		if len(components) != len(doc.Components) {
			return fmt.Errorf("command %q: one or more referenced components are missing", name)
		}

		if doc.Class == simctx.DynamicCompiledClass {
			if _, _, err := c.CompileCommandKey(ctx, doc.CompileKey, name, components...); err != nil {
				return fmt.Errorf("command %q: %w", name, err)
			}
			continue
		}

		args := make([]cty.Value, 0, len(doc.Args))
		for i, raw := range doc.Args {
			v, err := ctyutil.FromJSON(raw)
			if err != nil {
				return fmt.Errorf("command %q: argument %d: %w", name, i, err)
			}
			args = append(args, v)
		}
		kwargs := make(map[string]cty.Value, len(doc.Kwargs))
		for key, raw := range doc.Kwargs {
			v, err := ctyutil.FromJSON(raw)
			if err != nil {
				return fmt.Errorf("command %q: keyword %q: %w", name, key, err)
			}
			kwargs[key] = v
		}

		if _, err := simctx.BuildCommand(ctx, s, doc.Class, name, components, args, kwargs); err != nil {
			return fmt.Errorf("command %q: %w", name, err)
		}
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return nil
}
