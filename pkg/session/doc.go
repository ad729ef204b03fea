/*
Package session implements session management and persistence orchestration.

It guarantees that at most one turn is in flight per session id by pairing a
reference-counted local mutex with an optional distributed lock, so replicas behind
a load balancer can share a store without interleaving transitions.
*/
package session
