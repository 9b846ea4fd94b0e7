/*
Package ports defines the driven ports (interfaces) used around the Flowline engine.

These interfaces decouple run tracking from external implementations, allowing
the run manager to work with various storage backends and lock providers.

# Key Interfaces

  - RunStore: Responsible for persisting and loading Run records.
  - RunLocker: Serializes writes to a single run record across replicas.
*/
package ports
