package cafe

import "github.com/pkg/errors"

// Business-rule violations are sentinel errors so handlers can map them to
// a conflict-class response without string matching.
var (
	ErrOrderNotFound       = errors.New("order not found")
	ErrDuplicateName       = errors.New("order name already exists")
	ErrOrderLimit          = errors.New("maximum number of orders reached")
	ErrInvalidOrder        = errors.New("order must have at least one item with a positive amount")
	ErrNotActive           = errors.New("order is not active")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrInsufficientStock   = errors.New("insufficient inventory stock")
	ErrInvalidAmount       = errors.New("item amount is invalid")
	ErrDuplicateItem       = errors.New("inventory item already exists")
	ErrItemNotFound        = errors.New("item not found")
)
