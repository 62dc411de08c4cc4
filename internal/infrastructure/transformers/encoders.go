package transformers

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// WethTransformerData wraps (token = native sentinel) or unwraps
// (token = wrapped native token) Amount of the native asset.
type WethTransformerData struct {
	Token  common.Address
	Amount *big.Int
}

// PayTakerTransformerData transfers the listed token balances to the taker.
// An empty Amounts list transfers every balance in full.
type PayTakerTransformerData struct {
	Tokens  []common.Address
	Amounts []*big.Int
}

// AffiliateFee is one fee transfer inside an affiliate fee transformation
type AffiliateFee struct {
	Token     common.Address
	Amount    *big.Int
	Recipient common.Address
}

// AffiliateFeeTransformerData transfers each fee to its recipient
type AffiliateFeeTransformerData struct {
	Fees []AffiliateFee
}

// PositiveSlippageFeeTransformerData sends any balance of Token above
// BestCaseAmount to Recipient.
type PositiveSlippageFeeTransformerData struct {
	Token          common.Address
	BestCaseAmount *big.Int
	Recipient      common.Address
}

func EncodeWethTransformerData(d WethTransformerData) ([]byte, error) {
	data, err := packTuple(wethTransformerDataType, d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode weth transformer data: %w", err)
	}
	return data, nil
}

func DecodeWethTransformerData(data []byte) (*WethTransformerData, error) {
	out := new(WethTransformerData)
	if err := unpackTuple(wethTransformerDataType, data, out); err != nil {
		return nil, fmt.Errorf("failed to decode weth transformer data: %w", err)
	}
	return out, nil
}

func EncodePayTakerTransformerData(d PayTakerTransformerData) ([]byte, error) {
	if d.Amounts == nil {
		d.Amounts = []*big.Int{}
	}
	data, err := packTuple(payTakerTransformerDataType, d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pay taker transformer data: %w", err)
	}
	return data, nil
}

func DecodePayTakerTransformerData(data []byte) (*PayTakerTransformerData, error) {
	out := new(PayTakerTransformerData)
	if err := unpackTuple(payTakerTransformerDataType, data, out); err != nil {
		return nil, fmt.Errorf("failed to decode pay taker transformer data: %w", err)
	}
	return out, nil
}

func EncodeAffiliateFeeTransformerData(d AffiliateFeeTransformerData) ([]byte, error) {
	data, err := packTuple(affiliateFeeTransformerDataType, d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode affiliate fee transformer data: %w", err)
	}
	return data, nil
}

func DecodeAffiliateFeeTransformerData(data []byte) (*AffiliateFeeTransformerData, error) {
	out := new(AffiliateFeeTransformerData)
	if err := unpackTuple(affiliateFeeTransformerDataType, data, out); err != nil {
		return nil, fmt.Errorf("failed to decode affiliate fee transformer data: %w", err)
	}
	return out, nil
}

func EncodePositiveSlippageFeeTransformerData(d PositiveSlippageFeeTransformerData) ([]byte, error) {
	data, err := packTuple(positiveSlippageFeeTransformerDataType, d)
	if err != nil {
		return nil, fmt.Errorf("failed to encode positive slippage fee transformer data: %w", err)
	}
	return data, nil
}

func DecodePositiveSlippageFeeTransformerData(data []byte) (*PositiveSlippageFeeTransformerData, error) {
	out := new(PositiveSlippageFeeTransformerData)
	if err := unpackTuple(positiveSlippageFeeTransformerDataType, data, out); err != nil {
		return nil, fmt.Errorf("failed to decode positive slippage fee transformer data: %w", err)
	}
	return out, nil
}
