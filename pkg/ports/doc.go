/*
Package ports defines the driven ports (interfaces) of the validator.

These interfaces decouple the library from external implementations, so named
schemas can live in memory, on disk or in Redis without the callers noticing.

# Key Interfaces

  - SchemaStore: persists and retrieves schemas by name.

RunSchemaStoreContract is the shared test suite every SchemaStore adapter runs.
*/
package ports
