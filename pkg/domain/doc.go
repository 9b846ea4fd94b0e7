/*
Package domain contains the core domain models and value rules for the Flowline engine.

It defines the workflow definition (Graph and Node), the per-run State container,
the error taxonomy raised by the traversal engine and the truthiness and merge rules
used to decide branches. This package is kept pure and free of external dependencies
like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Node: A named step with a type (task, condition, loop), a handler name and a branch table.
  - Graph: An immutable workflow definition (name, entry point, nodes).
  - State: The mutable data bag threaded through a single run, with its execution log.
  - Decision: The explicit result form for condition handlers (branch + partial update).
*/
package domain
