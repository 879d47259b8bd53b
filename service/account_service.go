package service

import (
	"context"

	"github.com/mezonai/mmn-runtime/common"
	"github.com/mezonai/mmn-runtime/errors"
	"github.com/mezonai/mmn-runtime/interfaces"
	"github.com/mezonai/mmn-runtime/runtime"
)

type AccountServiceImpl struct {
	rt *runtime.Default
}

func NewAccountService(rt *runtime.Default) *AccountServiceImpl {
	return &AccountServiceImpl{rt: rt}
}

// GetAccount never fails for a well-formed address: unknown accounts have
// a zero balance and nonce.
func (s *AccountServiceImpl) GetAccount(ctx context.Context, addr string) (*interfaces.AccountInfo, error) {
	if _, err := common.ParseAddress(addr); err != nil {
		return nil, errors.NewError(errors.ErrCodeInvalidAddress, errors.ErrMsgInvalidAddress)
	}
	balance, nonce := s.rt.Account(addr)
	return &interfaces.AccountInfo{
		Address: addr,
		Balance: s.rt.Config().Balance.Format(balance),
		Nonce:   nonce,
	}, nil
}

func (s *AccountServiceImpl) GetBlockNumber(ctx context.Context) uint64 {
	return s.rt.BlockNumber()
}
