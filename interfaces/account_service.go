package interfaces

import "context"

// AccountInfo is the public view of one account
type AccountInfo struct {
	Address string `json:"address"`
	Balance string `json:"balance"`
	Nonce   uint64 `json:"nonce"`
}

type AccountService interface {
	GetAccount(ctx context.Context, addr string) (*AccountInfo, error)
	GetBlockNumber(ctx context.Context) uint64
}
