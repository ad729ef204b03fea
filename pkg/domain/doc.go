/*
Package domain contains the core domain models of the Aura dialog engine.

It defines the webhook wire types exchanged with the voice assistant platform, the
per-user Session that the state machine reads and mutates, and the lifecycle events
emitted while a turn is processed. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Request / Response: The JSON envelope of a single conversational turn.
  - Session: Captures the runtime snapshot of a conversation (Current Element, Results, Log).
  - Turn: One {user utterance, assistant reply} pair appended to the session log.
  - LifecycleHooks: Callbacks for observing element entry, answers and action failures.
*/
package domain
