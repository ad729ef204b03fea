/*
Package aura is a voice-assistant webhook that advises on mattress models.

A conversation is a fixed script of questions. Each webhook turn carries the caller's latest
utterance; the engine validates it against the current question, stores the canonical answer
in the session, and replies with the next prompt. After weight and firmness preferences are
collected it recommends three models from the catalog and offers a manager call. When a phone
number is captured the transcript is mailed to the manager and the conversation ends.

# Architecture

The engine is hexagonal. The dialog core (pkg/dialog) knows nothing about HTTP, SMTP or Redis:

  - Driving adapter: pkg/adapters/http serves the Yandex Alice JSON protocol.
  - Driven ports: ports.SessionStore, ports.DistributedLocker and ports.Notifier.
  - Adapters: in-memory and Redis stores, Redis locks, SMTP delivery.

Turns on the same session are serialized by session.Manager. Side effects that talk to the
network (the transcript e-mail) run after the session lock is released.

# Usage

	eng, err := aura.New(
		aura.WithNotifier(smtpNotifier, "manager@example.com"),
		aura.WithLogger(logger),
	)
	if err != nil {
		log.Fatal(err)
	}
	http.ListenAndServe(":8080", httpadapter.NewHandler(eng))
*/
package aura
