/*
Package dialog implements the reusable turn-based dialog engine.

A Script is an ordered list of Elements. Each element asks one question, validates the
answer through a Checker and may run Actions when it is presented (OnPrepare) or after
its answer has been accepted (OnComplete). Transitions are pluggable: a Script consults
its Transition strategies in order and falls back to "next in sequence, wrapping around".

# Turn Lifecycle

 1. A "new" request resets the session and presents the first element with the greeting.
 2. Otherwise the utterance is checked against the current element.
 3. A miss re-prompts with a "didn't understand" phrase and the checker help; state is kept.
 4. A hit stores the canonical answer, moves to the next element, runs its OnPrepare and
    finally the previous element's OnComplete.

Every turn appends exactly one entry to the session log. Side-effects that may block
(e.g. e-mail delivery) are deferred by actions and executed after the per-session lock
has been released.
*/
package dialog
