package reconcile

import "errors"

var (
	// ErrPaymentInFlight means a payment for this wallet is already being
	// submitted. The caller should keep the pay affordance disabled until
	// the in-flight operation completes.
	ErrPaymentInFlight = errors.New("a payment is already in flight for this wallet")
)
