package transformers

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"swap-calldata.backend/internal/domain/entities"
	domainerrors "swap-calldata.backend/internal/domain/errors"
)

// BridgeProtocol is the bridge adapter family that executes a bridge order
type BridgeProtocol uint64

const (
	BridgeProtocolUnknown    BridgeProtocol = 0
	BridgeProtocolCurve      BridgeProtocol = 1
	BridgeProtocolUniswapV2  BridgeProtocol = 2
	BridgeProtocolUniswap    BridgeProtocol = 3
	BridgeProtocolBalancer   BridgeProtocol = 4
	BridgeProtocolBalancerV2 BridgeProtocol = 17
	BridgeProtocolUniswapV3  BridgeProtocol = 18
)

var bridgeSourceProtocols = map[entities.Source]BridgeProtocol{
	entities.SourceUniswapV2:     BridgeProtocolUniswapV2,
	entities.SourceSushiSwap:     BridgeProtocolUniswapV2,
	entities.SourcePancakeSwap:   BridgeProtocolUniswapV2,
	entities.SourcePancakeSwapV2: BridgeProtocolUniswapV2,
	entities.SourceBakerySwap:    BridgeProtocolUniswapV2,
	entities.SourceApeSwap:       BridgeProtocolUniswapV2,
	entities.SourceUniswapV3:     BridgeProtocolUniswapV3,
	entities.SourceCurve:         BridgeProtocolCurve,
	entities.SourceBalancer:      BridgeProtocolBalancer,
	entities.SourceBalancerV2:    BridgeProtocolBalancerV2,
}

var (
	addressType      = mustNewType("address")
	addressArrayType = mustNewType("address[]")
	bytesType        = mustNewType("bytes")
	bytes4Type       = mustNewType("bytes4")
	bytes32Type      = mustNewType("bytes32")
	int128Type       = mustNewType("int128")

	uniswapV2BridgeDataArgs  = abi.Arguments{{Type: addressType}, {Type: addressArrayType}}
	uniswapV3BridgeDataArgs  = abi.Arguments{{Type: addressType}, {Type: bytesType}}
	curveBridgeDataArgs      = abi.Arguments{{Type: addressType}, {Type: bytes4Type}, {Type: int128Type}, {Type: int128Type}}
	balancerBridgeDataArgs   = abi.Arguments{{Type: addressType}}
	balancerV2BridgeDataArgs = abi.Arguments{{Type: addressType}, {Type: bytes32Type}}
)

// BridgeProtocolForSource returns the protocol family of a bridge source
func BridgeProtocolForSource(source entities.Source) (BridgeProtocol, error) {
	protocol, ok := bridgeSourceProtocols[source]
	if !ok {
		return BridgeProtocolUnknown, fmt.Errorf("source %q: %w", source, domainerrors.ErrUnsupportedBridgeSource)
	}
	return protocol, nil
}

// EncodeBridgeSourceID packs the protocol id into the high 16 bytes and the
// source name, right padded, into the low 16 bytes.
func EncodeBridgeSourceID(protocol BridgeProtocol, name string) [32]byte {
	var id [32]byte
	binary.BigEndian.PutUint64(id[8:16], uint64(protocol))
	copy(id[16:], name)
	return id
}

// EncodeBridgeData encodes the protocol-specific parameters of a bridge order
func EncodeBridgeData(order *entities.BridgeOrder) ([]byte, error) {
	protocol, err := BridgeProtocolForSource(order.FillSource)
	if err != nil {
		return nil, err
	}

	switch fd := order.FillData.(type) {
	case *entities.UniswapV2FillData:
		if protocol != BridgeProtocolUniswapV2 {
			break
		}
		return uniswapV2BridgeDataArgs.Pack(fd.Router, fd.TokenAddressPath)
	case *entities.UniswapV3FillData:
		if protocol != BridgeProtocolUniswapV3 {
			break
		}
		return uniswapV3BridgeDataArgs.Pack(fd.Router, fd.UniswapPath)
	case *entities.CurveFillData:
		if protocol != BridgeProtocolCurve {
			break
		}
		return curveBridgeDataArgs.Pack(fd.Pool, fd.ExchangeFunctionSelector, big.NewInt(fd.FromTokenIdx), big.NewInt(fd.ToTokenIdx))
	case *entities.BalancerFillData:
		if protocol != BridgeProtocolBalancer {
			break
		}
		return balancerBridgeDataArgs.Pack(fd.Pool)
	case *entities.BalancerV2FillData:
		if protocol != BridgeProtocolBalancerV2 {
			break
		}
		return balancerV2BridgeDataArgs.Pack(fd.Vault, [32]byte(fd.PoolID))
	}
	return nil, fmt.Errorf("source %q with fill data %T: %w", order.FillSource, order.FillData, domainerrors.ErrUnsupportedBridgeSource)
}
