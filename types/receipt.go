package types

import "cmp"

// Receipt records the outcome of one extrinsic. A failed extrinsic still
// consumes the caller's nonce.
type Receipt[A cmp.Ordered] struct {
	Index   int    `json:"index"`
	Caller  A      `json:"caller"`
	Call    string `json:"call"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	Err error `json:"-"`
}
