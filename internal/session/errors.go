package session

import "fmt"

// AuthError is a failed sign-in, sign-up or sign-out.
type AuthError struct {
	Op  string
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// ValidationError rejects input before any remote call is made.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// SignupError reports a sign-up that failed after the identity was created.
// The identity has been deleted again.
type SignupError struct {
	Step       string
	IdentityID string
	Err        error
}

func (e *SignupError) Error() string {
	return fmt.Sprintf("sign up failed at %s: %v", e.Step, e.Err)
}

func (e *SignupError) Unwrap() error { return e.Err }

// CompensationFailedError means the identity created during a failed sign-up
// could not be deleted and is left orphaned.
type CompensationFailedError struct {
	Step            string
	IdentityID      string
	Cause           error
	CompensationErr error
}

func (e *CompensationFailedError) Error() string {
	return fmt.Sprintf("sign up failed at %s: %v; deleting identity %s also failed: %v",
		e.Step, e.Cause, e.IdentityID, e.CompensationErr)
}

func (e *CompensationFailedError) Unwrap() []error {
	return []error{e.Cause, e.CompensationErr}
}
