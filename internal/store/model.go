package store

import "github.com/shopspring/decimal"

// Token represents a fungible asset balance held by the safe.
type Token struct {
	Address  string          `json:"address" validate:"required"`
	Symbol   string          `json:"symbol"`
	Name     string          `json:"name"`
	Decimals int             `json:"decimals" validate:"gte=0"`
	Balance  decimal.Decimal `json:"balance"`
	LogoURI  string          `json:"logoUri,omitempty"`
}

// NFTToken is one owned unit of a collectible collection.
type NFTToken struct {
	TokenID      string `json:"tokenId" validate:"required"`
	AssetAddress string `json:"assetAddress" validate:"required"`
	AssetName    string `json:"assetName,omitempty"`
	Name         string `json:"name,omitempty"`
	Description  string `json:"description,omitempty"`
	Image        string `json:"image,omitempty"`
	Color        string `json:"color,omitempty"`
}

// NFTAsset describes a collectible collection.
type NFTAsset struct {
	Address        string `json:"address" validate:"required"`
	Slug           string `json:"slug" validate:"required"`
	Name           string `json:"name"`
	Symbol         string `json:"symbol,omitempty"`
	Description    string `json:"description,omitempty"`
	Image          string `json:"image,omitempty"`
	NumberOfTokens int    `json:"numberOfTokens"`
}

// Safe is the read-only slice of multisig account state tracked alongside assets.
type Safe struct {
	Address    string   `json:"address" validate:"required"`
	Name       string   `json:"name,omitempty"`
	EthBalance string   `json:"ethBalance,omitempty"`
	Owners     []string `json:"owners,omitempty"`
	Threshold  int      `json:"threshold" validate:"gte=0"`
}
