package gateway

import (
	"fmt"
	"sort"
)

// Resolver maps a payment method name to its Gateway.
// It is built once at startup and only read afterwards.
type Resolver struct {
	gateways map[string]Gateway
}

// NewResolver registers the given gateways by Method().
// Two gateways reporting the same method is a configuration error.
func NewResolver(gateways ...Gateway) (*Resolver, error) {
	m := make(map[string]Gateway, len(gateways))
	for _, g := range gateways {
		if g == nil {
			return nil, fmt.Errorf("%w: nil gateway", ErrInvalidConfig)
		}
		method := g.Method()
		if method == "" {
			return nil, fmt.Errorf("%w: gateway with empty method", ErrInvalidConfig)
		}
		if _, exists := m[method]; exists {
			return nil, fmt.Errorf("%w for: %s", ErrDuplicateMethod, method)
		}
		m[method] = g
	}

	return &Resolver{gateways: m}, nil
}

// Resolve returns the gateway registered for method (exact match)
func (r *Resolver) Resolve(method string) (Gateway, error) {
	g, ok := r.gateways[method]
	if !ok {
		return nil, fmt.Errorf("%w: no payment gateway found for payment method %q", ErrUnknownMethod, method)
	}
	return g, nil
}

// Methods returns registered method names in ascending order
func (r *Resolver) Methods() []string {
	methods := make([]string, 0, len(r.gateways))
	for method := range r.gateways {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}
