package persist

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/vk/simgridgo/internal/ctxlog"
	"github.com/vk/simgridgo/internal/ctyutil"
	"github.com/vk/simgridgo/internal/ops"
	"github.com/vk/simgridgo/internal/simctx"
	"github.com/zclconf/go-cty/cty"
)

// parameterMapKey is the keyword holding a component's hyperparameter
// declarations. It is save-time-only metadata and never appears in the
// written documents.
const parameterMapKey = "parameter_map"

// componentDoc is the serialized form of one component construction record.
type componentDoc struct {
	Class  string                     `json:"class"`
	Args   []json.RawMessage          `json:"args"`
	Kwargs map[string]json.RawMessage `json:"kwargs"`
}

// componentsFile is the top-level shape of components.json.
type componentsFile struct {
	Components      map[string]componentDoc    `json:"components"`
	Hyperparameters map[string]json.RawMessage `json:"hyperparameters,omitempty"`
}

// commandDoc is the serialized form of one command construction record.
type commandDoc struct {
	Class      string                     `json:"class"`
	Components []string                   `json:"components"`
	Args       []json.RawMessage          `json:"args,omitempty"`
	Kwargs     map[string]json.RawMessage `json:"kwargs,omitempty"`
	CompileKey string                     `json:"compile_key,omitempty"`
}

// Save flushes a context's build log into a freshly created model directory
// under directory and returns its path. With customSave, a custom/
// subdirectory is created and the context's save capability is invoked: a
// command registered as "save" takes precedence, otherwise every component
// with a save capability persists itself. The second return value is the
// custom directory, or "" when customSave is false.
func Save(ctx context.Context, c *simctx.Context, directory, modelName string, customSave bool) (string, string, error) {
	logger := ctxlog.FromContext(ctx)

	modelPath, err := MakeUniquePath(ctx, directory, modelName)
	if err != nil {
		return "", "", err
	}

	if err := writeOps(modelPath, c.Spec().Ops); err != nil {
		return "", "", err
	}
	if err := writeCommands(ctx, modelPath, c.Spec()); err != nil {
		return "", "", err
	}
	if err := writeComponents(ctx, modelPath, c.Spec()); err != nil {
		return "", "", err
	}

	if !customSave {
		return modelPath, "", nil
	}

	customPath := filepath.Join(modelPath, "custom")
	if err := os.MkdirAll(customPath, 0o755); err != nil {
		return "", "", fmt.Errorf("creating custom directory: %w", err)
	}
	if _, ok := c.Command("save"); ok {
		if err := c.Run(ctx, "save", map[string]cty.Value{"directory": cty.StringVal(customPath)}); err != nil {
			return "", "", fmt.Errorf("running save command: %w", err)
		}
	} else {
		logger.Warn("Context doesn't have a save command registered. Saving all components.",
			"context", c.Path())
		names := c.ComponentNames()
		sort.Strings(names)
		for _, name := range names {
			saver, ok := c.SaverFor(name)
			if !ok {
				continue
			}
			if err := saver.SaveState(ctx, customPath); err != nil {
				return "", "", fmt.Errorf("saving component %q: %w", name, err)
			}
		}
	}
	return modelPath, customPath, nil
}

func writeOps(modelPath string, specs []*ops.Spec) error {
	if specs == nil {
		specs = []*ops.Spec{}
	}
	return writeJSON(filepath.Join(modelPath, "ops.json"), specs)
}

func writeCommands(ctx context.Context, modelPath string, spec *simctx.BuildSpec) error {
	logger := ctxlog.FromContext(ctx)
	doc := make(map[string]commandDoc, len(spec.Commands))
	for name, rec := range spec.Commands {
		if rec.Class == simctx.DynamicCompiledClass {
			doc[name] = commandDoc{
				Class:      rec.Class,
				Components: rec.Components,
				CompileKey: rec.CompileKey,
			}
			continue
		}
		entry := commandDoc{
			Class:      rec.Class,
			Components: rec.Components,
			Args:       make([]json.RawMessage, 0, len(rec.Args)),
			Kwargs:     make(map[string]json.RawMessage, len(rec.Kwargs)),
		}
		for i, v := range rec.Args {
			raw, err := ctyutil.ToJSON(v)
			if err != nil {
				logger.Info("Failed to serialize command argument, dropping it.",
					"command", name, "index", i)
				continue
			}
			entry.Args = append(entry.Args, raw)
		}
		for key, v := range rec.Kwargs {
			raw, err := ctyutil.ToJSON(v)
			if err != nil {
				logger.Info("Failed to serialize command keyword argument, dropping it.",
					"command", name, "key", key)
				continue
			}
			entry.Kwargs[key] = raw
		}
		doc[name] = entry
	}
	return writeJSON(filepath.Join(modelPath, "commands.json"), doc)
}

// hyperTriple is one (component path, component keyword, value) occurrence
// of a hyperparameter name.
type hyperTriple struct {
	path  string
	cKey  string
	value cty.Value
}

func writeComponents(ctx context.Context, modelPath string, spec *simctx.BuildSpec) error {
	logger := ctxlog.FromContext(ctx)

	// Group every parameter-mapped keyword value by hyperparameter name.
	groups := make(map[string][]hyperTriple)
	var groupOrder []string
	for _, path := range spec.ComponentOrder {
		rec := spec.Components[path]
		pmVal, ok := rec.Kwargs[parameterMapKey]
		if !ok {
			continue
		}
		pm, err := ctyutil.StringMap(pmVal)
		if err != nil {
			logger.Warn("Ignoring malformed parameter_map.", "component", path, "error", err)
			continue
		}
		cKeys := make([]string, 0, len(pm))
		for cKey := range pm {
			cKeys = append(cKeys, cKey)
		}
		sort.Strings(cKeys)
		for _, cKey := range cKeys {
			pKey := pm[cKey]
			value, ok := rec.Kwargs[cKey]
			if !ok {
				logger.Warn("parameter_map references a missing keyword, skipping it.",
					"component", path, "keyword", cKey)
				continue
			}
			if _, seen := groups[pKey]; !seen {
				groupOrder = append(groupOrder, pKey)
			}
			groups[pKey] = append(groups[pKey], hyperTriple{path: path, cKey: cKey, value: value})
		}
	}

	// A hyperparameter materializes only when every grouped value agrees.
	hyperparameters := make(map[string]cty.Value)
	extracted := make(map[string]bool)
	for _, pKey := range groupOrder {
		triples := groups[pKey]
		shared := triples[0].value
		matched := true
		for _, t := range triples[1:] {
			if !t.value.RawEquals(shared) {
				matched = false
				break
			}
		}
		if !matched {
			logger.Warn("Unable to extract hyperparameter as it is mismatched between components. Parameter will not be extracted.",
				"hyperparameter", pKey)
			continue
		}
		hyperparameters[pKey] = shared
		extracted[pKey] = true
	}

	// Serialize descriptors, replacing extracted values with the
	// hyperparameter name and stripping the parameter_map keyword. The
	// in-memory build log is left untouched.
	substituted := make(map[string]map[string]cty.Value)
	for pKey, triples := range groups {
		if !extracted[pKey] {
			continue
		}
		for _, t := range triples {
			if substituted[t.path] == nil {
				substituted[t.path] = make(map[string]cty.Value)
			}
			substituted[t.path][t.cKey] = cty.StringVal(pKey)
		}
	}

	file := componentsFile{Components: make(map[string]componentDoc, len(spec.Components))}
	for _, path := range spec.ComponentOrder {
		rec := spec.Components[path]
		doc := componentDoc{
			Class:  rec.Class,
			Args:   make([]json.RawMessage, 0, len(rec.Args)),
			Kwargs: make(map[string]json.RawMessage, len(rec.Kwargs)),
		}
		for i, v := range rec.Args {
			raw, err := ctyutil.ToJSON(v)
			if err != nil {
				logger.Info("Failed to serialize positional argument, dropping it.",
					"component", path, "index", i)
				continue
			}
			doc.Args = append(doc.Args, raw)
		}
		for key, v := range rec.Kwargs {
			if key == parameterMapKey {
				continue
			}
			if sub, ok := substituted[path][key]; ok {
				v = sub
			}
			raw, err := ctyutil.ToJSON(v)
			if err != nil {
				logger.Info("Failed to serialize keyword argument, dropping it.",
					"component", path, "key", key)
				continue
			}
			doc.Kwargs[key] = raw
		}
		file.Components[path] = doc
	}

	if len(hyperparameters) > 0 {
		file.Hyperparameters = make(map[string]json.RawMessage, len(hyperparameters))
		for pKey, v := range hyperparameters {
			raw, err := ctyutil.ToJSON(v)
			if err != nil {
				return fmt.Errorf("serializing hyperparameter %q: %w", pKey, err)
			}
			file.Hyperparameters[pKey] = raw
		}
	}

	return writeJSON(filepath.Join(modelPath, "components.json"), file)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	return nil
}
