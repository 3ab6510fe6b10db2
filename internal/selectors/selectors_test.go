package selectors

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safe-ui/safe_assets/internal/store"
)

func seeded(t *testing.T, assets []store.NFTAsset, tokens []store.NFTToken) *store.Store {
	t.Helper()
	s := store.New(nil)
	ctx := context.Background()
	_, err := s.Dispatch(ctx, store.AddNFTAssets(assets))
	require.NoError(t, err)
	_, err = s.Dispatch(ctx, store.AddNFTTokens(tokens))
	require.NoError(t, err)
	return s
}

func TestActiveNFTAssetsKeepsOnlyOwnedCollections(t *testing.T) {
	s := seeded(t,
		[]store.NFTAsset{
			{Address: "0xC1", Slug: "first", Name: "First"},
			{Address: "0xC2", Slug: "empty", Name: "Empty"},
			{Address: "0xC3", Slug: "third", Name: "Third"},
		},
		[]store.NFTToken{
			{TokenID: "1", AssetAddress: "0xC3"},
			{TokenID: "2", AssetAddress: "0xC1"},
			{TokenID: "3", AssetAddress: "0xORPHAN"},
		},
	)

	active := ActiveNFTAssets(s.State())
	require.Len(t, active, 2)
	assert.Equal(t, "first", active[0].Slug, "order follows the stored collections")
	assert.Equal(t, "third", active[1].Slug)

	assert.Len(t, NFTTokens(s.State()), 3)
}

func TestActiveNFTAssetsMembershipProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for round := 0; round < 50; round++ {
		var assets []store.NFTAsset
		nAssets, nTokens := rng.Intn(6), rng.Intn(10)
		for i := 0; i < nAssets; i++ {
			assets = append(assets, store.NFTAsset{Address: fmt.Sprintf("0xA%d", i), Slug: fmt.Sprintf("slug-%d", i)})
		}
		var tokens []store.NFTToken
		for i := 0; i < nTokens; i++ {
			tokens = append(tokens, store.NFTToken{TokenID: fmt.Sprint(i), AssetAddress: fmt.Sprintf("0xA%d", rng.Intn(8))})
		}
		state := seeded(t, assets, tokens).State()

		active := map[string]bool{}
		for _, a := range ActiveNFTAssets(state) {
			active[a.Address] = true
		}
		for _, a := range assets {
			owned := false
			for _, tok := range NFTTokens(state) {
				if tok.AssetAddress == a.Address {
					owned = true
					break
				}
			}
			assert.Equal(t, owned, active[a.Address], "round %d asset %s", round, a.Address)
		}
	}
}

func TestSafeMissingIsNotAnError(t *testing.T) {
	s := store.New(nil)

	_, ok := Safe(s.State())
	assert.False(t, ok)
	assert.Nil(t, EthBalance(s.State()))

	_, err := s.Dispatch(context.Background(), store.UpdateSafe(store.Safe{Address: "0xSAFE", EthBalance: "0.25"}))
	require.NoError(t, err)

	balance := EthBalance(s.State())
	require.NotNil(t, balance)
	assert.Equal(t, "0.25", *balance)
}

func TestMemoReturnsIdenticalSlicesForUnchangedInputs(t *testing.T) {
	s := seeded(t,
		[]store.NFTAsset{{Address: "0xC1", Slug: "first"}},
		[]store.NFTToken{{TokenID: "1", AssetAddress: "0xC1"}},
	)
	var m Memo

	tokens := m.NFTTokens(s.State())
	active := m.ActiveNFTAssets(s.State())

	_, err := s.Dispatch(context.Background(), store.AddToken(store.Token{Address: "0xT", Balance: decimal.NewFromInt(1)}))
	require.NoError(t, err)

	assert.True(t, &tokens[0] == &m.NFTTokens(s.State())[0], "fungible writes must not invalidate collectible tokens")
	assert.True(t, &active[0] == &m.ActiveNFTAssets(s.State())[0], "fungible writes must not invalidate active assets")

	_, err = s.Dispatch(context.Background(), store.AddNFTTokens([]store.NFTToken{{TokenID: "2", AssetAddress: "0xC1"}}))
	require.NoError(t, err)

	refreshed := m.NFTTokens(s.State())
	require.Len(t, refreshed, 1)
	assert.Equal(t, "2", refreshed[0].TokenID)
}

func TestMemoSeparatesStoreLineages(t *testing.T) {
	a := seeded(t, []store.NFTAsset{{Address: "0xC1", Slug: "a"}}, []store.NFTToken{{TokenID: "1", AssetAddress: "0xC1"}})
	b := seeded(t, []store.NFTAsset{{Address: "0xC2", Slug: "b"}}, []store.NFTToken{{TokenID: "1", AssetAddress: "0xC2"}})
	var m Memo

	require.Equal(t, "a", m.ActiveNFTAssets(a.State())[0].Slug)
	assert.Equal(t, "b", m.ActiveNFTAssets(b.State())[0].Slug)
}
