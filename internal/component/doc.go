/*
Package component defines the contract every stateful unit in a simulated
network must satisfy, along with the Compartment value slots those units
expose to the op system.

A component is identified by a name unique within its owning context and by
an absolute path derived from the context path at construction time. The
path is a reconstruction key only; components never hold a live reference to
their context.

Optional behaviour (persisting state to a custom directory, restoring it,
clamping compartment values) is expressed through small capability
interfaces rather than runtime attribute probing. Callers check a capability
once, at registration time, and remember the result.
*/
package component
