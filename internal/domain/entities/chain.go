package entities

import "strconv"

// ChainID identifies an EVM network
type ChainID uint64

const (
	ChainIDMainnet  ChainID = 1
	ChainIDOptimism ChainID = 10
	ChainIDBSC      ChainID = 56
	ChainIDPolygon  ChainID = 137
	ChainIDBase     ChainID = 8453
	ChainIDArbitrum ChainID = 42161
	ChainIDCelo     ChainID = 42220
)

func (c ChainID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}
