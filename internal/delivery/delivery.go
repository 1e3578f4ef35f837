// Package delivery defines the contract every transport implementation satisfies.
package delivery

import "context"

// Delivery is a servable transport (HTTP today; the interface keeps room for more).
type Delivery interface {
	Serve(ctx context.Context) error
}
