package transformers

import (
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

func mustNewTupleType(components []abi.ArgumentMarshaling) abi.Type {
	t, err := abi.NewType("tuple", "", components)
	if err != nil {
		panic(err)
	}
	return t
}

func mustNewType(typ string) abi.Type {
	t, err := abi.NewType(typ, "", nil)
	if err != nil {
		panic(err)
	}
	return t
}

var signatureComponents = []abi.ArgumentMarshaling{
	{Name: "signatureType", Type: "uint8"},
	{Name: "v", Type: "uint8"},
	{Name: "r", Type: "bytes32"},
	{Name: "s", Type: "bytes32"},
}

var (
	wethTransformerDataType = mustNewTupleType([]abi.ArgumentMarshaling{
		{Name: "token", Type: "address"},
		{Name: "amount", Type: "uint256"},
	})

	payTakerTransformerDataType = mustNewTupleType([]abi.ArgumentMarshaling{
		{Name: "tokens", Type: "address[]"},
		{Name: "amounts", Type: "uint256[]"},
	})

	affiliateFeeTransformerDataType = mustNewTupleType([]abi.ArgumentMarshaling{
		{Name: "fees", Type: "tuple[]", Components: []abi.ArgumentMarshaling{
			{Name: "token", Type: "address"},
			{Name: "amount", Type: "uint256"},
			{Name: "recipient", Type: "address"},
		}},
	})

	positiveSlippageFeeTransformerDataType = mustNewTupleType([]abi.ArgumentMarshaling{
		{Name: "token", Type: "address"},
		{Name: "bestCaseAmount", Type: "uint256"},
		{Name: "recipient", Type: "address"},
	})

	fillQuoteTransformerDataType = mustNewTupleType([]abi.ArgumentMarshaling{
		{Name: "side", Type: "uint8"},
		{Name: "sellToken", Type: "address"},
		{Name: "buyToken", Type: "address"},
		{Name: "bridgeOrders", Type: "tuple[]", Components: []abi.ArgumentMarshaling{
			{Name: "source", Type: "bytes32"},
			{Name: "takerTokenAmount", Type: "uint256"},
			{Name: "makerTokenAmount", Type: "uint256"},
			{Name: "bridgeData", Type: "bytes"},
		}},
		{Name: "limitOrders", Type: "tuple[]", Components: []abi.ArgumentMarshaling{
			{Name: "order", Type: "tuple", Components: []abi.ArgumentMarshaling{
				{Name: "makerToken", Type: "address"},
				{Name: "takerToken", Type: "address"},
				{Name: "makerAmount", Type: "uint128"},
				{Name: "takerAmount", Type: "uint128"},
				{Name: "takerTokenFeeAmount", Type: "uint128"},
				{Name: "maker", Type: "address"},
				{Name: "taker", Type: "address"},
				{Name: "sender", Type: "address"},
				{Name: "feeRecipient", Type: "address"},
				{Name: "pool", Type: "bytes32"},
				{Name: "expiry", Type: "uint64"},
				{Name: "salt", Type: "uint256"},
			}},
			{Name: "signature", Type: "tuple", Components: signatureComponents},
			{Name: "maxTakerTokenFillAmount", Type: "uint256"},
		}},
		{Name: "rfqOrders", Type: "tuple[]", Components: []abi.ArgumentMarshaling{
			{Name: "order", Type: "tuple", Components: []abi.ArgumentMarshaling{
				{Name: "makerToken", Type: "address"},
				{Name: "takerToken", Type: "address"},
				{Name: "makerAmount", Type: "uint128"},
				{Name: "takerAmount", Type: "uint128"},
				{Name: "maker", Type: "address"},
				{Name: "taker", Type: "address"},
				{Name: "txOrigin", Type: "address"},
				{Name: "pool", Type: "bytes32"},
				{Name: "expiry", Type: "uint64"},
				{Name: "salt", Type: "uint256"},
			}},
			{Name: "signature", Type: "tuple", Components: signatureComponents},
			{Name: "maxTakerTokenFillAmount", Type: "uint256"},
		}},
		{Name: "fillSequence", Type: "uint8[]"},
		{Name: "fillAmount", Type: "uint256"},
		{Name: "refundReceiver", Type: "address"},
		{Name: "otcOrders", Type: "tuple[]", Components: []abi.ArgumentMarshaling{
			{Name: "order", Type: "tuple", Components: []abi.ArgumentMarshaling{
				{Name: "makerToken", Type: "address"},
				{Name: "takerToken", Type: "address"},
				{Name: "makerAmount", Type: "uint128"},
				{Name: "takerAmount", Type: "uint128"},
				{Name: "maker", Type: "address"},
				{Name: "taker", Type: "address"},
				{Name: "txOrigin", Type: "address"},
				{Name: "expiryAndNonce", Type: "uint256"},
			}},
			{Name: "signature", Type: "tuple", Components: signatureComponents},
			{Name: "maxTakerTokenFillAmount", Type: "uint256"},
		}},
	})
)

// packTuple encodes v as the single tuple argument the transformers decode
func packTuple(t abi.Type, v interface{}) ([]byte, error) {
	return abi.Arguments{{Type: t}}.Pack(v)
}

// unpackTuple decodes data into out, which must mirror the tuple layout
func unpackTuple(t abi.Type, data []byte, out interface{}) error {
	vals, err := abi.Arguments{{Type: t}}.Unpack(data)
	if err != nil {
		return err
	}
	if len(vals) != 1 {
		return fmt.Errorf("expected 1 tuple, got %d values", len(vals))
	}
	return convertInto(vals[0], out)
}

func convertInto(in, out interface{}) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to convert decoded tuple: %v", r)
		}
	}()
	abi.ConvertType(in, out)
	return nil
}
