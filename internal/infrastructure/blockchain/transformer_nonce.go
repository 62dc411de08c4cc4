package blockchain

import (
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	domainerrors "swap-calldata.backend/internal/domain/errors"
)

// DefaultNonceSearchLimit bounds the deployer nonces searched for a transformer
const DefaultNonceSearchLimit = 1024

type nonceKey struct {
	deployer    common.Address
	transformer common.Address
}

// TransformerNonceFinder resolves the deployment nonce that tags a transformer
// in a transformation list. Transformers are deployed by a dedicated deployer
// with plain CREATE, so the nonce is recovered by re-deriving addresses.
type TransformerNonceFinder struct {
	limit  uint32
	nonces map[nonceKey]uint32
	mu     sync.RWMutex
}

// NewTransformerNonceFinder creates a finder searching nonces 1..limit
func NewTransformerNonceFinder(limit uint32) *TransformerNonceFinder {
	if limit == 0 {
		limit = DefaultNonceSearchLimit
	}
	return &TransformerNonceFinder{
		limit:  limit,
		nonces: make(map[nonceKey]uint32),
	}
}

// FindNonce returns the nonce at which deployer created transformer
func (f *TransformerNonceFinder) FindNonce(deployer, transformer common.Address) (uint32, error) {
	key := nonceKey{deployer: deployer, transformer: transformer}

	f.mu.RLock()
	nonce, ok := f.nonces[key]
	f.mu.RUnlock()
	if ok {
		return nonce, nil
	}

	for n := uint32(1); n <= f.limit; n++ {
		if crypto.CreateAddress(deployer, uint64(n)) == transformer {
			f.mu.Lock()
			f.nonces[key] = n
			f.mu.Unlock()
			return n, nil
		}
	}
	return 0, fmt.Errorf("transformer %s not deployed by %s within %d nonces: %w",
		transformer.Hex(), deployer.Hex(), f.limit, domainerrors.ErrUnknownTransformer)
}

// TransformerAddress returns the address deployer creates at nonce
func TransformerAddress(deployer common.Address, nonce uint32) common.Address {
	return crypto.CreateAddress(deployer, uint64(nonce))
}
