package store

import "fmt"

// Reduce applies an action to a snapshot and returns the next snapshot. The
// input is never modified; collections the action does not touch are shared
// with the result. Reduce does not validate payloads, Dispatch does.
func Reduce(s State, a Action) (State, error) {
	next := s
	next.version = s.version + 1

	switch act := a.(type) {
	case AddTokenAction:
		next.putTokens([]Token{act.Token})
	case AddTokensAction:
		next.putTokens(act.Tokens)
	case RemoveTokenAction:
		next.removeToken(act.Address)
	case AddNFTAssetsAction:
		assets := make([]NFTAsset, len(act.Assets))
		for i, asset := range act.Assets {
			asset.Address = NormalizeAddress(asset.Address)
			assets[i] = asset
		}
		next.nftAssets = assets
		next.revs.NFTAssets = next.version
	case AddNFTTokensAction:
		tokens := make([]NFTToken, len(act.Tokens))
		for i, token := range act.Tokens {
			token.AssetAddress = NormalizeAddress(token.AssetAddress)
			tokens[i] = token
		}
		next.nftTokens = tokens
		next.revs.NFTTokens = next.version
	case UpdateSafeAction:
		safe := act.Safe
		safe.Address = NormalizeAddress(safe.Address)
		safe.Owners = append([]string(nil), safe.Owners...)
		next.safe = &safe
		next.revs.Safe = next.version
	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}

	return next, nil
}

func (s *State) putTokens(tokens []Token) {
	order := append([]string(nil), s.tokenOrder...)
	byAddr := make(map[string]Token, len(s.tokens)+len(tokens))
	for k, v := range s.tokens {
		byAddr[k] = v
	}
	for _, t := range tokens {
		t.Address = NormalizeAddress(t.Address)
		if _, exists := byAddr[t.Address]; !exists {
			order = append(order, t.Address)
		}
		byAddr[t.Address] = t
	}
	s.tokenOrder = order
	s.tokens = byAddr
	s.revs.Tokens = s.version
}

func (s *State) removeToken(address string) {
	addr := NormalizeAddress(address)
	if _, exists := s.tokens[addr]; !exists {
		return
	}
	order := make([]string, 0, len(s.tokenOrder))
	for _, a := range s.tokenOrder {
		if a != addr {
			order = append(order, a)
		}
	}
	byAddr := make(map[string]Token, len(s.tokens))
	for k, v := range s.tokens {
		if k != addr {
			byAddr[k] = v
		}
	}
	s.tokenOrder = order
	s.tokens = byAddr
	s.revs.Tokens = s.version
}
