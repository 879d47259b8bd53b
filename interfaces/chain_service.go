package interfaces

import (
	"context"

	"github.com/mezonai/mmn-runtime/types"
)

// BlockResult reports the block number reached and one receipt per extrinsic
type BlockResult struct {
	BlockNumber uint64                  `json:"block_number"`
	Receipts    []types.Receipt[string] `json:"receipts"`
}

type ChainService interface {
	ExecuteBlock(ctx context.Context, block types.Block[string, uint64]) (*BlockResult, error)
}
