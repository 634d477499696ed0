package simctx

import (
	"github.com/vk/simgridgo/internal/ops"
	"github.com/zclconf/go-cty/cty"
)

// DynamicCompiledClass is the class marker recorded for commands produced by
// the compiler collaborator instead of a constructible class.
const DynamicCompiledClass = "dynamic_compiled"

// ComponentSpec is the recorded construction call for one component. Only
// argument values that survived the serializability filter are present.
type ComponentSpec struct {
	Class  string
	Args   []cty.Value
	Kwargs map[string]cty.Value
}

// CommandSpec is the recorded construction call for one command. For a
// statically constructed command Class names a resolvable class and
// Args/Kwargs replay the constructor; for a dynamically compiled one Class
// is DynamicCompiledClass and CompileKey replays the compilation.
type CommandSpec struct {
	Class      string
	Components []string
	Args       []cty.Value
	Kwargs     map[string]cty.Value
	CompileKey string
}

// BuildSpec is the normalized, serializable log of every construction call a
// context has observed: the source of truth for save and the replay script
// for load.
type BuildSpec struct {
	// Ops holds dumped op trees in registration order.
	Ops []*ops.Spec
	// Components maps component path to its construction record;
	// ComponentOrder preserves registration order.
	Components     map[string]*ComponentSpec
	ComponentOrder []string
	// Commands maps command name to its construction record; CommandOrder
	// preserves registration order.
	Commands     map[string]*CommandSpec
	CommandOrder []string
}

// NewBuildSpec creates an empty build log.
func NewBuildSpec() *BuildSpec {
	return &BuildSpec{
		Components: make(map[string]*ComponentSpec),
		Commands:   make(map[string]*CommandSpec),
	}
}
