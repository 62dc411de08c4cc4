package usecases

import (
	"encoding/hex"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// computeSelectorHex computes the 4-byte EVM function selector from a canonical
// function signature and returns it as a "0x"-prefixed hex string.
func computeSelectorHex(sig string) string {
	return "0x" + hex.EncodeToString(crypto.Keccak256([]byte(sig))[:4])
}

// Exchange proxy entry point signatures
const (
	TransformERC20Signature    = "transformERC20(address,address,uint256,uint256,(uint32,bytes)[])"
	SellToUniswapSignature     = "sellToUniswap(address[],uint256,uint256,bool)"
	SellToPancakeSwapSignature = "sellToPancakeSwap(address[],uint256,uint256,uint8)"
)

// EVM function selectors, computed at init from the canonical signatures
var (
	// transformERC20 -> 0x415565b0
	TransformERC20Selector = computeSelectorHex(TransformERC20Signature)

	// sellToUniswap -> 0xd9627aa4
	SellToUniswapSelector = computeSelectorHex(SellToUniswapSignature)

	SellToPancakeSwapSelector = computeSelectorHex(SellToPancakeSwapSignature)
)

// PositiveSlippageFeeTransformerGas is the gas the positive slippage fee
// transformer spends on its transfer, which simulation does not account for.
const PositiveSlippageFeeTransformerGas uint64 = 30000

// Rule names, also used as metric labels
const (
	RuleNameTransformERC20 = "transform_erc20"
	RuleNameUniswapV2VIP   = "uniswap_v2_vip"
	RuleNamePancakeSwapVIP = "pancakeswap_vip"
)

// ExchangeProxyABI covers the proxy entry points this service encodes
var ExchangeProxyABI = mustParseABI(`[
	{"inputs":[{"internalType":"contract IERC20TokenV06","name":"inputToken","type":"address"},{"internalType":"contract IERC20TokenV06","name":"outputToken","type":"address"},{"internalType":"uint256","name":"inputTokenAmount","type":"uint256"},{"internalType":"uint256","name":"minOutputTokenAmount","type":"uint256"},{"components":[{"internalType":"uint32","name":"deploymentNonce","type":"uint32"},{"internalType":"bytes","name":"data","type":"bytes"}],"internalType":"struct ITransformERC20Feature.Transformation[]","name":"transformations","type":"tuple[]"}],"name":"transformERC20","outputs":[{"internalType":"uint256","name":"outputTokenAmount","type":"uint256"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"internalType":"contract IERC20TokenV06[]","name":"tokens","type":"address[]"},{"internalType":"uint256","name":"sellAmount","type":"uint256"},{"internalType":"uint256","name":"minBuyAmount","type":"uint256"},{"internalType":"bool","name":"isSushi","type":"bool"}],"name":"sellToUniswap","outputs":[{"internalType":"uint256","name":"buyAmount","type":"uint256"}],"stateMutability":"payable","type":"function"},
	{"inputs":[{"internalType":"contract IERC20TokenV06[]","name":"tokens","type":"address[]"},{"internalType":"uint256","name":"sellAmount","type":"uint256"},{"internalType":"uint256","name":"minBuyAmount","type":"uint256"},{"internalType":"enum IPancakeSwapFeature.ProtocolFork","name":"fork","type":"uint8"}],"name":"sellToPancakeSwap","outputs":[{"internalType":"uint256","name":"buyAmount","type":"uint256"}],"stateMutability":"payable","type":"function"}
]`)

func mustParseABI(raw string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		panic(err)
	}
	return parsed
}
