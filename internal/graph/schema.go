// Package graph serves a read-only GraphQL view over the asset store.
package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/safe-ui/safe_assets/internal/collectibles"
	"github.com/safe-ui/safe_assets/internal/selectors"
	"github.com/safe-ui/safe_assets/internal/store"
)

// NewSchema builds the query schema. Every resolver reads the store's
// current snapshot.
func NewSchema(st *store.Store) (graphql.Schema, error) {
	memo := &selectors.Memo{}

	tokenType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Token",
		Fields: graphql.Fields{
			"address":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"symbol":   &graphql.Field{Type: graphql.String},
			"name":     &graphql.Field{Type: graphql.String},
			"decimals": &graphql.Field{Type: graphql.Int},
			"balance":  &graphql.Field{Type: graphql.String},
			"logoUri":  &graphql.Field{Type: graphql.String},
		},
	})

	safeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Safe",
		Fields: graphql.Fields{
			"address":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":       &graphql.Field{Type: graphql.String},
			"ethBalance": &graphql.Field{Type: graphql.String},
			"owners":     &graphql.Field{Type: graphql.NewList(graphql.String)},
			"threshold":  &graphql.Field{Type: graphql.Int},
		},
	})

	collectibleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Collectible",
		Fields: graphql.Fields{
			"key":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"tokenId":      &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"assetAddress": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":         &graphql.Field{Type: graphql.String},
			"description":  &graphql.Field{Type: graphql.String},
			"image":        &graphql.Field{Type: graphql.String},
			"color":        &graphql.Field{Type: graphql.String},
		},
	})

	groupType := graphql.NewObject(graphql.ObjectConfig{
		Name: "CollectibleGroup",
		Fields: graphql.Fields{
			"slug":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"address": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"name":    &graphql.Field{Type: graphql.String},
			"image":   &graphql.Field{Type: graphql.String},
			"items":   &graphql.Field{Type: graphql.NewList(collectibleType)},
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"tokens": &graphql.Field{
				Type: graphql.NewList(tokenType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					tokens := selectors.Tokens(st.State())
					out := make([]map[string]interface{}, 0, len(tokens))
					for _, t := range tokens {
						out = append(out, tokenFields(t))
					}
					return out, nil
				},
			},
			"safe": &graphql.Field{
				Type: safeType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					safe, ok := selectors.Safe(st.State())
					if !ok {
						return nil, nil
					}
					return map[string]interface{}{
						"address":    safe.Address,
						"name":       safe.Name,
						"ethBalance": safe.EthBalance,
						"owners":     safe.Owners,
						"threshold":  safe.Threshold,
					}, nil
				},
			},
			"collectibles": &graphql.Field{
				Type: graphql.NewList(groupType),
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					s := st.State()
					groups := collectibles.BuildGroups(memo.ActiveNFTAssets(s), memo.NFTTokens(s))
					slug, _ := p.Args["slug"].(string)

					out := make([]map[string]interface{}, 0, len(groups))
					for _, g := range groups {
						if slug != "" && g.Slug != slug {
							continue
						}
						out = append(out, groupFields(g))
					}
					return out, nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
}

func tokenFields(t store.Token) map[string]interface{} {
	return map[string]interface{}{
		"address":  t.Address,
		"symbol":   t.Symbol,
		"name":     t.Name,
		"decimals": t.Decimals,
		"balance":  t.Balance.String(),
		"logoUri":  t.LogoURI,
	}
}

func groupFields(g collectibles.Group) map[string]interface{} {
	items := make([]map[string]interface{}, 0, len(g.Items))
	for _, it := range g.Items {
		items = append(items, map[string]interface{}{
			"key":          it.Key,
			"tokenId":      it.Token.TokenID,
			"assetAddress": it.Token.AssetAddress,
			"name":         it.Token.Name,
			"description":  it.Token.Description,
			"image":        it.Token.Image,
			"color":        it.Token.Color,
		})
	}
	return map[string]interface{}{
		"slug":    g.Slug,
		"address": g.Address,
		"name":    g.Name,
		"image":   g.Image,
		"items":   items,
	}
}
