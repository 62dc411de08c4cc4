package entities

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/volatiletech/null/v8"
)

// AffiliateFeeType determines how an affiliate fee is charged
type AffiliateFeeType string

const (
	AffiliateFeeTypeNone             AffiliateFeeType = "none"
	AffiliateFeeTypePercentage       AffiliateFeeType = "percentage"
	AffiliateFeeTypeGasless          AffiliateFeeType = "gasless"
	AffiliateFeeTypePositiveSlippage AffiliateFeeType = "positive_slippage"
)

// Valid reports whether t is one of the known fee types
func (t AffiliateFeeType) Valid() bool {
	switch t {
	case AffiliateFeeTypeNone, AffiliateFeeTypePercentage, AffiliateFeeTypeGasless, AffiliateFeeTypePositiveSlippage:
		return true
	}
	return false
}

// AffiliateFee is a fee paid to a third party from the swap. Depending on the
// fee type only one of the amounts is normally non-zero.
type AffiliateFee struct {
	Recipient          common.Address
	FeeType            AffiliateFeeType
	SellTokenFeeAmount *big.Int
	BuyTokenFeeAmount  *big.Int
}

// ExecutionOptions are caller-supplied settings for compiling a quote
type ExecutionOptions struct {
	IsFromNative           bool
	IsToNative             bool
	SellEntireBalance      bool
	MetaTransactionVersion null.String
	RefundReceiver         common.Address
	SellTokenAffiliateFees []AffiliateFee
	BuyTokenAffiliateFees  []AffiliateFee
	PositiveSlippageFee    *AffiliateFee
}
