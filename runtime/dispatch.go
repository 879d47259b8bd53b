package runtime

import (
	"fmt"

	"github.com/mezonai/mmn-runtime/jsonx"
)

// Call names accepted by Dispatch.
const (
	CallBalancesTransfer = "balances.transfer"
)

type transferArgs[A any] struct {
	To     *A     `json:"to"`
	Amount string `json:"amount"`
}

// dispatch must be called with r.mu held.
func (r *Runtime[A, Bal, N, BN]) dispatch(caller A, call string, args []byte) error {
	switch call {
	case CallBalancesTransfer:
		var p transferArgs[A]
		if err := jsonx.Unmarshal(args, &p); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
		if p.To == nil {
			return fmt.Errorf("%w: missing recipient", ErrInvalidArgs)
		}
		if err := r.checkAccount(*p.To); err != nil {
			return fmt.Errorf("%w: recipient: %v", ErrInvalidArgs, err)
		}
		amount, err := r.cfg.Balance.Parse(p.Amount)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgs, err)
		}
		return r.balances.Transfer(caller, *p.To, amount)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCall, call)
	}
}

func (r *Runtime[A, Bal, N, BN]) checkAccount(account A) error {
	if r.opts.validateAccount == nil {
		return nil
	}
	return r.opts.validateAccount(account)
}

// TransferArgs encodes the arguments of a balances.transfer call.
func (r *Runtime[A, Bal, N, BN]) TransferArgs(to A, amount Bal) ([]byte, error) {
	return jsonx.Marshal(transferArgs[A]{To: &to, Amount: r.cfg.Balance.Format(amount)})
}
