/*
Package persist converts a context's build log into the three on-disk JSON
documents of a saved model and reconstructs a context from them.

A saved model is a uniquely named directory containing:

	ops.json        ordered array of op descriptors
	commands.json   command name -> construction descriptor
	components.json {"components": {path: descriptor}, "hyperparameters"?: {...}}
	custom/         opaque per-component state written by save capabilities

Save performs hyperparameter deduplication: keyword values that several
components share under one hyperparameter name (declared through their
parameter_map keyword) are written once, with each component's keyword
replaced by the hyperparameter name. Mismatched values abandon the
extraction for that name with a diagnostic and keep the literals.

Load replays the documents strictly in the order components, ops, commands.
Any unreadable document, unresolvable class, or missing referenced component
is fatal for the whole load; nothing already constructed is rolled back, so
callers must discard the target context on error.
*/
package persist
