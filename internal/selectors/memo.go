package selectors

import (
	"sync"

	"github.com/safe-ui/safe_assets/internal/store"
)

// Memo caches derived collectible data per input revision. As long as the
// collections a result depends on keep their revision, the cached slice is
// returned unchanged, so callers can compare results by identity.
type Memo struct {
	mu sync.Mutex

	tokensKey memoKey
	tokens    []store.NFTToken
	tokensOK  bool

	activeKey memoKey
	active    []store.NFTAsset
	activeOK  bool
}

type memoKey struct {
	lineage   uint64
	nftAssets uint64
	nftTokens uint64
}

// NFTTokens is the memoized form of the package level NFTTokens.
func (m *Memo) NFTTokens(s store.State) []store.NFTToken {
	r := s.Revisions()
	key := memoKey{lineage: r.Lineage, nftTokens: r.NFTTokens}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tokensOK && m.tokensKey == key {
		return m.tokens
	}
	m.tokens = NFTTokens(s)
	m.tokensKey = key
	m.tokensOK = true
	return m.tokens
}

// ActiveNFTAssets is the memoized form of the package level ActiveNFTAssets.
func (m *Memo) ActiveNFTAssets(s store.State) []store.NFTAsset {
	r := s.Revisions()
	key := memoKey{lineage: r.Lineage, nftAssets: r.NFTAssets, nftTokens: r.NFTTokens}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activeOK && m.activeKey == key {
		return m.active
	}
	m.active = ActiveNFTAssets(s)
	m.activeKey = key
	m.activeOK = true
	return m.active
}

// Revision reports the input revisions the collectible groups depend on.
// Two states with equal revisions produce the same groups.
func Revision(s store.State) store.Revisions {
	r := s.Revisions()
	return store.Revisions{Lineage: r.Lineage, NFTAssets: r.NFTAssets, NFTTokens: r.NFTTokens}
}
