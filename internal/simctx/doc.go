/*
Package simctx implements the hierarchical naming and scoping mechanism at
the center of model assembly.

A Scope is an explicit, process-scoped state object: it owns the table of
contexts keyed by absolute path, the "currently active path" cursor used for
name resolution, and references to the class registry and command compiler
collaborator. Nothing in this package is a package-level global; hosts create
a Scope and pass it by reference.

A Context owns a set of named components and commands and records every
construction call it observes into a normalized build spec: three ordered
logs (ops, components, commands) that the persist package flushes to disk
and replays on load.

Scoping discipline is strictly LIFO: Enter pushes the context's path as the
scope's current path, Exit restores the previous one. Interleaved entry from
concurrent flows is unsupported; callers serialize assembly passes.
*/
package simctx
