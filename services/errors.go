package services

import "fmt"

// ValidationError covers request-body problems gin's binding cannot express,
// such as an unparseable scheduled date. Maps to 400.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// GatewayAuthError means the client-credentials exchange failed or the
// credentials are absent. Fatal for the enclosing request; the client may
// retry the whole flow.
type GatewayAuthError struct {
	Err error
}

func (e *GatewayAuthError) Error() string {
	return fmt.Sprintf("gateway authentication failed: %v", e.Err)
}

func (e *GatewayAuthError) Unwrap() error {
	return e.Err
}

// GatewayRequestError carries the gateway's status code and body for
// server-side diagnostics. The body is never echoed to the caller.
type GatewayRequestError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("gateway %s failed: status=%d body=%s", e.Op, e.StatusCode, e.Body)
}

func (e *GatewayRequestError) Unwrap() error {
	return e.Err
}

// PaymentNotCompletedError is returned when the gateway reports a capture
// status other than COMPLETED. Terminal for this attempt; the client has to
// restart from intent creation.
type PaymentNotCompletedError struct {
	Status string
}

func (e *PaymentNotCompletedError) Error() string {
	return fmt.Sprintf("payment not completed, gateway status %q", e.Status)
}

// AmountMismatchError means funds were captured but the captured amount does
// not reconcile with the order total. Requires manual follow-up.
type AmountMismatchError struct {
	Captured float64
	Expected float64
}

func (e *AmountMismatchError) Error() string {
	return fmt.Sprintf("captured amount %.2f does not match expected %.2f", e.Captured, e.Expected)
}
