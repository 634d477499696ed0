package app

import (
	"github.com/vk/simgridgo/internal/registry"
	"github.com/vk/simgridgo/modules/cell"
	"github.com/vk/simgridgo/modules/clamp"
	"github.com/vk/simgridgo/modules/simop"
)

// coreModules is the default set of class packages registered when the
// caller does not supply its own.
var coreModules = []registry.Module{
	&cell.Module{},
	&clamp.Module{},
	&simop.Module{},
}
