package collectibles

import (
	"strings"

	"github.com/safe-ui/safe_assets/internal/store"
)

const (
	// NoDataText is shown when the safe owns no collectibles.
	NoDataText = "No collectibles available"
	// SendCollectibleScreen is the screen the send modal opens on.
	SendCollectibleScreen = "sendCollectible"
)

// Item is one grid cell. Key is unique across the whole page.
type Item struct {
	Key   string         `json:"key"`
	Token store.NFTToken `json:"data"`
}

// Group is a titled collection followed by its grid of owned tokens.
type Group struct {
	Slug    string `json:"slug"`
	Address string `json:"address"`
	Name    string `json:"name"`
	Image   string `json:"image"`
	Items   []Item `json:"items"`
}

// ModalProps is what the send modal receives. SelectedToken and EthBalance
// may be absent.
type ModalProps struct {
	ActiveScreenType string          `json:"activeScreenType"`
	EthBalance       *string         `json:"ethBalance"`
	IsOpen           bool            `json:"isOpen"`
	SelectedToken    *store.NFTToken `json:"selectedToken"`
}

// Page is the rendered collectibles view. Either Placeholder is set and
// Groups is empty, or Groups holds one entry per active collection.
type Page struct {
	Placeholder string     `json:"placeholder,omitempty"`
	Groups      []Group    `json:"groups"`
	Modal       ModalProps `json:"modal"`
}

// ItemKey builds the grid key for a token inside a collection. Slugs never
// contain the separator, so the key splits back at its first occurrence.
func ItemKey(slug, tokenID string) string {
	return slug + store.SlugSeparator + tokenID
}

// SplitItemKey reverses ItemKey.
func SplitItemKey(key string) (slug, tokenID string, ok bool) {
	slug, tokenID, ok = strings.Cut(key, store.SlugSeparator)
	if !ok || slug == "" || tokenID == "" {
		return "", "", false
	}
	return slug, tokenID, true
}

// BuildGroups arranges tokens under their collections, in the order of
// assets. Tokens whose collection is not in assets are left out; a
// collection without tokens gets an empty grid.
func BuildGroups(assets []store.NFTAsset, tokens []store.NFTToken) []Group {
	byAsset := make(map[string][]store.NFTToken, len(assets))
	for _, t := range tokens {
		byAsset[t.AssetAddress] = append(byAsset[t.AssetAddress], t)
	}

	groups := make([]Group, 0, len(assets))
	for _, a := range assets {
		owned := byAsset[a.Address]
		items := make([]Item, 0, len(owned))
		for _, t := range owned {
			items = append(items, Item{Key: ItemKey(a.Slug, t.TokenID), Token: t})
		}
		groups = append(groups, Group{
			Slug:    a.Slug,
			Address: a.Address,
			Name:    a.Name,
			Image:   a.Image,
			Items:   items,
		})
	}
	return groups
}
