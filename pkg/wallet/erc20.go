package wallet

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ERC20 is the subset of the SENS token contract the reward pool uses.
type ERC20 interface {
	Name(opts *bind.CallOpts) (string, error)
	Symbol(opts *bind.CallOpts) (string, error)
	Decimals(opts *bind.CallOpts) (uint8, error)
	BalanceOf(opts *bind.CallOpts, account common.Address) (*big.Int, error)

	Transfer(opts *bind.TransactOpts, to common.Address, value *big.Int) (*types.Transaction, error)
}

func NewERC20(address common.Address, backend bind.ContractBackend) (ERC20, error) {
	return NewSensToken(address, backend)
}
