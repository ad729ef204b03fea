package dialog

import (
	"fmt"

	"github.com/aretw0/aura/pkg/domain"
)

// Router maps canonical answers to element ids with a fallback.
type Router struct {
	routes   map[string]string
	fallback string
}

// NewRouter copies routes, so later changes to the argument do not leak into the router.
// Answers are matched by their fmt.Sprint form, which lets numeric answers route too.
func NewRouter(routes map[string]string, fallback string) *Router {
	r := &Router{
		routes:   make(map[string]string, len(routes)),
		fallback: fallback,
	}
	for answer, target := range routes {
		r.routes[answer] = target
	}
	return r
}

// Next returns the element id for an answer.
func (r *Router) Next(answer any) string {
	if target, ok := r.routes[fmt.Sprint(answer)]; ok {
		return target
	}
	return r.fallback
}

// For adapts the router into a Transition that only fires after elementID.
// An empty fallback lets the script continue with its default sequence.
func (r *Router) For(elementID string) Transition {
	return func(currentID string, answer any, _ *domain.Session) string {
		if currentID != elementID {
			return ""
		}
		return r.Next(answer)
	}
}
