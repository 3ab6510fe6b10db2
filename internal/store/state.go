package store

import "sync/atomic"

var lineageSeq atomic.Uint64

// Revisions identifies the content of each collection in a State. A
// collection keeps its revision until an action changes it, so equal
// revisions within one lineage mean identical content.
type Revisions struct {
	Lineage   uint64
	Tokens    uint64
	NFTAssets uint64
	NFTTokens uint64
	Safe      uint64
}

// State is an immutable snapshot of the entity store. Slices returned by its
// accessors are shared with the snapshot and must not be modified.
type State struct {
	version uint64
	revs    Revisions

	tokenOrder []string
	tokens     map[string]Token

	nftAssets []NFTAsset
	nftTokens []NFTToken

	safe *Safe
}

// NewState returns an empty snapshot starting a new lineage.
func NewState() State {
	return State{revs: Revisions{Lineage: lineageSeq.Add(1)}}
}

// Version counts the actions applied to reach this snapshot.
func (s State) Version() uint64 { return s.version }

// Revisions returns the per-collection revision markers.
func (s State) Revisions() Revisions { return s.revs }

// Token looks up a fungible token by its normalized address.
func (s State) Token(address string) (Token, bool) {
	t, ok := s.tokens[NormalizeAddress(address)]
	return t, ok
}

// Tokens returns fungible tokens in insertion order.
func (s State) Tokens() []Token {
	out := make([]Token, 0, len(s.tokenOrder))
	for _, addr := range s.tokenOrder {
		out = append(out, s.tokens[addr])
	}
	return out
}

// NFTAssets returns the known collectible collections in insertion order.
func (s State) NFTAssets() []NFTAsset { return s.nftAssets }

// NFTTokens returns the owned collectible tokens in insertion order.
func (s State) NFTTokens() []NFTToken { return s.nftTokens }

// Safe returns the loaded safe, if any.
func (s State) Safe() (Safe, bool) {
	if s.safe == nil {
		return Safe{}, false
	}
	return *s.safe, true
}
