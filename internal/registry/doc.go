// Package registry provides the central "glue" for the class system.
//
// The Registry stores mappings between the string identifiers recorded in
// saved model documents (e.g. "Cell", "Multiclamp", "Add") and the compiled
// Go factories that construct the matching objects. Classes are grouped under
// dotted module paths, mirroring how a hosting application organises its
// packages, and the resolver finds a module by its final path segment against
// an explicit table populated during startup.
//
// During application startup the registry is populated by the Go modules
// themselves and then cross-checked against the declared manifests, so a
// descriptor can never reference a class that no code provides.
package registry
