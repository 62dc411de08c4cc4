package entities

import (
	"github.com/ethereum/go-ethereum/common"
)

// Token is an on-chain asset address
type Token = common.Address

// NativeTokenAddress is the sentinel the proxy uses for the chain's native asset
// (as opposed to its wrapped ERC20 form).
var NativeTokenAddress = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// NullAddress is the zero address.
var NullAddress = common.Address{}

// IsNativeToken reports whether token is the native-asset sentinel
func IsNativeToken(token common.Address) bool {
	return token == NativeTokenAddress
}
