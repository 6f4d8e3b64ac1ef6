// Package simulation ties the lever engine to its collaborators.
//
// A [Controller] owns the simulation state exclusively: the plank geometry,
// the object registry and the derived balance. Each mutation runs as one
// synchronous unit of work:
//
//  1. validate the plank coordinate (input gate)
//  2. append the object to the registry
//  3. recompute the balance from the full object list
//  4. notify the [Presenter]
//  5. save through the [Gateway]
//
// Collaborator failures never abort a mutation. A failed save or load is
// logged and the controller carries on with its in-memory state; a missing
// presenter or gateway simply skips that step.
//
// The controller is not safe for concurrent use. Callers that accept
// concurrent input, such as the HTTP server, serialise access themselves.
package simulation
