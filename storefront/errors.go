package storefront

import "fmt"

// StateError is a user-facing rejection of a storefront action. The state is
// left unchanged when one is returned.
type StateError struct {
	Message string
}

func (e *StateError) Error() string { return e.Message }

var (
	ErrEmptyCart         = &StateError{Message: "Your cart is empty!"}
	ErrAlreadyInWishlist = &StateError{Message: "This item is already in your wishlist!"}
)

// APIError is a non-2xx answer from the product or auth API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", e.Status, e.Message)
}
