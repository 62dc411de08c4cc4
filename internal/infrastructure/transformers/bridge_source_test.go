package transformers

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"swap-calldata.backend/internal/domain/entities"
	domainerrors "swap-calldata.backend/internal/domain/errors"
)

var (
	testRouter = common.HexToAddress("0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D")
	tokenA     = common.HexToAddress("0x6B175474E89094C44Da98b954EedeAC495271d0F")
	tokenB     = common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
)

func TestEncodeBridgeSourceID(t *testing.T) {
	id := EncodeBridgeSourceID(BridgeProtocolUniswapV2, "Uniswap_V2")

	require.Equal(t, make([]byte, 15), id[:15])
	require.Equal(t, byte(2), id[15])
	require.Equal(t, "Uniswap_V2", string(id[16:26]))
	require.Equal(t, make([]byte, 6), id[26:])

	long := EncodeBridgeSourceID(BridgeProtocolBalancerV2, "AVeryLongSourceNameIndeed")
	require.Equal(t, byte(17), long[15])
	require.Equal(t, "AVeryLongSourceN", string(long[16:]))
}

func TestBridgeProtocolForSource(t *testing.T) {
	for source, want := range map[entities.Source]BridgeProtocol{
		entities.SourceSushiSwap:   BridgeProtocolUniswapV2,
		entities.SourcePancakeSwap: BridgeProtocolUniswapV2,
		entities.SourceUniswapV3:   BridgeProtocolUniswapV3,
		entities.SourceCurve:       BridgeProtocolCurve,
		entities.SourceBalancerV2:  BridgeProtocolBalancerV2,
	} {
		got, err := BridgeProtocolForSource(source)
		require.NoError(t, err)
		require.Equal(t, want, got, source)
	}

	_, err := BridgeProtocolForSource(entities.Source("Kyber"))
	require.ErrorIs(t, err, domainerrors.ErrUnsupportedBridgeSource)
	require.ErrorIs(t, err, domainerrors.ErrConfiguration)

	_, err = BridgeProtocolForSource(entities.SourceNative)
	require.ErrorIs(t, err, domainerrors.ErrUnsupportedBridgeSource)
}

func TestEncodeBridgeData(t *testing.T) {
	t.Run("uniswap v2 router and path", func(t *testing.T) {
		data, err := EncodeBridgeData(&entities.BridgeOrder{
			FillSource: entities.SourceSushiSwap,
			FillData:   &entities.UniswapV2FillData{Router: testRouter, TokenAddressPath: []common.Address{tokenA, tokenB}},
		})
		require.NoError(t, err)

		values, err := uniswapV2BridgeDataArgs.Unpack(data)
		require.NoError(t, err)
		require.Equal(t, testRouter, values[0])
		require.Equal(t, []common.Address{tokenA, tokenB}, values[1])
	})

	t.Run("curve indexes", func(t *testing.T) {
		data, err := EncodeBridgeData(&entities.BridgeOrder{
			FillSource: entities.SourceCurve,
			FillData: &entities.CurveFillData{
				Pool:                     testRouter,
				ExchangeFunctionSelector: [4]byte{0x3d, 0xf0, 0x21, 0x24},
				FromTokenIdx:             1,
				ToTokenIdx:               2,
			},
		})
		require.NoError(t, err)

		values, err := curveBridgeDataArgs.Unpack(data)
		require.NoError(t, err)
		require.Equal(t, [4]byte{0x3d, 0xf0, 0x21, 0x24}, values[1])
		require.Equal(t, big.NewInt(1), values[2])
		require.Equal(t, big.NewInt(2), values[3])
	})

	t.Run("balancer v2 pool id", func(t *testing.T) {
		poolID := common.HexToHash("0x5c6ee304399dbdb9c8ef030ab642b10820db8f56000200000000000000000014")
		data, err := EncodeBridgeData(&entities.BridgeOrder{
			FillSource: entities.SourceBalancerV2,
			FillData:   &entities.BalancerV2FillData{Vault: testRouter, PoolID: poolID},
		})
		require.NoError(t, err)
		require.Len(t, data, 64)
		require.Equal(t, poolID.Bytes(), data[32:])
	})

	t.Run("fill data of another protocol", func(t *testing.T) {
		_, err := EncodeBridgeData(&entities.BridgeOrder{
			FillSource: entities.SourceCurve,
			FillData:   &entities.UniswapV2FillData{Router: testRouter},
		})
		require.ErrorIs(t, err, domainerrors.ErrUnsupportedBridgeSource)
	})

	t.Run("missing fill data", func(t *testing.T) {
		_, err := EncodeBridgeData(&entities.BridgeOrder{FillSource: entities.SourceUniswapV3})
		require.ErrorIs(t, err, domainerrors.ErrUnsupportedBridgeSource)
	})
}
