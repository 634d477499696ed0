/*
Package manifest loads module manifest files: the declaration layer telling
the resolver which classes exist and under which extra keywords they may be
referenced.

A manifest is an HCL document:

	module "simgridgo.modules.cell" {
	  attribute "Cell" {
	    keywords = ["cell", "graded_cell"]
	  }
	}

Manifests never create classes; they declare the surface the compiled Go
modules are expected to provide. Applying a manifest performs a strict
parity check against the registry, so a declared-but-unregistered class is a
startup error rather than a load-time surprise.
*/
package manifest

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/simgridgo/internal/ctxlog"
	"github.com/vk/simgridgo/internal/fsutil"
	"github.com/vk/simgridgo/internal/registry"
)

// File is the HCL schema of one manifest document.
type File struct {
	Modules []*ModuleBlock `hcl:"module,block"`
}

// ModuleBlock declares the attributes one registered module exports.
type ModuleBlock struct {
	Path       string            `hcl:"path,label"`
	Attributes []*AttributeBlock `hcl:"attribute,block"`
}

// AttributeBlock declares one resolvable class and its optional extra
// lookup keywords.
type AttributeBlock struct {
	Name     string   `hcl:"name,label"`
	Keywords []string `hcl:"keywords,optional"`
}

// LoadDir parses every .hcl manifest under dir and returns the merged
// declarations.
func LoadDir(ctx context.Context, dir string) ([]*ModuleBlock, error) {
	logger := ctxlog.FromContext(ctx)

	filePaths, err := fsutil.FindFilesByExtension(dir, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("walking manifest directory %q: %w", dir, err)
	}
	if len(filePaths) == 0 {
		logger.Warn("No .hcl manifest files found in path.", "path", dir)
		return nil, nil
	}

	parser := hclparse.NewParser()
	var modules []*ModuleBlock
	for _, filePath := range filePaths {
		hclFile, diags := parser.ParseHCLFile(filePath)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest file %s: %s", filePath, diags.Error())
		}
		var file File
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &file); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest file %s: %s", filePath, diags.Error())
		}
		modules = append(modules, file.Modules...)
		logger.Debug("Loaded manifest file.", "file", filePath, "modules", len(file.Modules))
	}
	return modules, nil
}

// Apply checks every declared module and attribute against the registry and
// installs the keyword aliases. All parity violations are collected and
// reported together.
func Apply(ctx context.Context, r *registry.Registry, modules []*ModuleBlock) error {
	logger := ctxlog.FromContext(ctx)
	var errs []string

	for _, mod := range modules {
		if !r.HasModule(mod.Path) {
			errs = append(errs, fmt.Sprintf("manifest declares module %q, but no Go module registered it", mod.Path))
			continue
		}
		for _, attr := range mod.Attributes {
			if _, ok := r.Lookup(mod.Path, attr.Name); !ok {
				errs = append(errs, fmt.Sprintf("manifest declares class %q in module %q, which is not registered", attr.Name, mod.Path))
				continue
			}
			for _, keyword := range attr.Keywords {
				if err := r.RegisterAlias(keyword, mod.Path, attr.Name); err != nil {
					errs = append(errs, err.Error())
				}
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("manifest validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	logger.Debug("Manifests applied successfully.", "modules", len(modules))
	return nil
}
