package types

import (
	"cmp"
	"encoding/json"
)

// Header carries the number the producer assigned to a block.
type Header[BN any] struct {
	BlockNumber BN `json:"block_number"`
}

// Extrinsic is one call submitted on behalf of Caller. The caller identity
// is trusted as given; signature checks happen before a block reaches the
// runtime.
type Extrinsic[A cmp.Ordered] struct {
	Caller A               `json:"caller"`
	Call   string          `json:"call"`
	Args   json.RawMessage `json:"args,omitempty"`
}

type Block[A cmp.Ordered, BN any] struct {
	Header     Header[BN]     `json:"header"`
	Extrinsics []Extrinsic[A] `json:"extrinsics"`
}
