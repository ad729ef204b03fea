/*
Package ports defines the driven ports (interfaces) for the Aura engine.

These interfaces decouple the dialog engine from external implementations, allowing
it to work with various session backends, lock providers and notification channels.

# Key Interfaces

  - SessionStore: Responsible for creating, loading, saving and deleting session state.
  - DistributedLocker: Provides distributed locking for handling concurrent session access.
  - Notifier: Delivers a plain-text message (e.g. the conversation transcript) to a recipient.
*/
package ports
