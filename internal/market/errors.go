package market

import "fmt"

// NetworkError wraps connectivity-level failures (dial, timeout) where no
// HTTP response was obtained.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network failure: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RemoteError is a non-success HTTP status from the price API, after any
// retries were exhausted. Status 429 means the API rate-limited us.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("price API rejected request: HTTP %d: %s", e.Status, e.Body)
}
