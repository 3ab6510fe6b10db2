// Package selectors derives read models from store snapshots. Every function
// here is pure: it reads the snapshot it is given and nothing else.
package selectors

import "github.com/safe-ui/safe_assets/internal/store"

// NFTTokens returns all owned collectible tokens in store order.
func NFTTokens(s store.State) []store.NFTToken {
	return s.NFTTokens()
}

// ActiveNFTAssets returns the collections that own at least one token, in
// the order the collections were stored.
func ActiveNFTAssets(s store.State) []store.NFTAsset {
	return activeAssets(s.NFTAssets(), s.NFTTokens())
}

// Safe returns the loaded safe. A missing safe is reported through ok and
// is not an error.
func Safe(s store.State) (safe store.Safe, ok bool) {
	return s.Safe()
}

// EthBalance returns the safe's native balance, or nil when no safe is loaded
// or the balance is unknown.
func EthBalance(s store.State) *string {
	safe, ok := s.Safe()
	if !ok || safe.EthBalance == "" {
		return nil
	}
	balance := safe.EthBalance
	return &balance
}

// Tokens returns fungible tokens in insertion order.
func Tokens(s store.State) []store.Token {
	return s.Tokens()
}

func activeAssets(assets []store.NFTAsset, tokens []store.NFTToken) []store.NFTAsset {
	owned := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		owned[t.AssetAddress] = struct{}{}
	}

	active := make([]store.NFTAsset, 0, len(assets))
	for _, a := range assets {
		if _, ok := owned[a.Address]; ok {
			active = append(active, a)
		}
	}
	return active
}
