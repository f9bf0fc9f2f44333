package main

import (
	"encoding/json"
	"os"

	"golang.org/x/xerrors"

	"github.com/dcore-project/dcore/chain/state"
	"github.com/dcore-project/dcore/chain/types"
)

// genesisTemplate seeds a fresh state tree for a replay. Account
// creation itself is outside the state engine, so replays start from
// an explicit roster.
type genesisTemplate struct {
	Accounts []genesisAccount `json:"accounts"`
	Assets   []genesisAsset   `json:"assets"`

	Subscriptions []genesisSubscription `json:"subscriptions,omitempty"`
}

type genesisAccount struct {
	ID      types.AccountID `json:"id"`
	Balance types.BigInt    `json:"balance"`
}

type genesisAsset struct {
	ID     types.AssetID `json:"id"`
	Symbol string        `json:"symbol"`
	Feed   *genesisFeed  `json:"feed,omitempty"`
}

type genesisFeed struct {
	Numerator   types.BigInt `json:"numerator"`
	Denominator types.BigInt `json:"denominator"`
}

type genesisSubscription struct {
	From       types.AccountID `json:"from"`
	To         types.AccountID `json:"to"`
	Expiration types.Timestamp `json:"expiration"`
}

func loadGenesis(path string) (*state.StateTree, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("reading genesis template: %w", err)
	}

	var tmpl genesisTemplate
	if err := json.Unmarshal(b, &tmpl); err != nil {
		return nil, xerrors.Errorf("decoding genesis template: %w", err)
	}

	st := state.NewStateTree()
	st.CreateAsset(types.BaseAsset, "DCT", nil)

	for _, a := range tmpl.Accounts {
		bal := a.Balance
		if bal.Nil() {
			bal = types.NewInt(0)
		}
		st.CreateAccount(a.ID, bal)
	}
	for _, as := range tmpl.Assets {
		var feed *state.PriceFeed
		if as.Feed != nil {
			feed = &state.PriceFeed{
				Numerator:   as.Feed.Numerator,
				Denominator: as.Feed.Denominator,
			}
		}
		st.CreateAsset(as.ID, as.Symbol, feed)
	}
	for _, s := range tmpl.Subscriptions {
		st.CreateSubscription(&state.Subscription{
			From:       s.From,
			To:         s.To,
			Expiration: s.Expiration,
		})
	}
	return st, nil
}
