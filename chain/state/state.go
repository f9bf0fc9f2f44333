package state

import (
	"errors"

	"golang.org/x/xerrors"

	"github.com/dcore-project/dcore/chain/types"
)

// ErrNotFound is returned by every lookup whose key has no entry.
var ErrNotFound = errors.New("entity not found in state")

// ErrInsufficientFunds is returned by AdjustBalance when a debit would
// take a balance below zero.
var ErrInsufficientFunds = errors.New("not enough funds")

type subKey struct {
	from types.AccountID
	to   types.AccountID
}

type consumerURIKey struct {
	consumer types.AccountID
	uri      string
}

// StateTree is the single ledger-state surface shared by all
// evaluators. It is handed explicitly into every validate/apply call
// and carries no synchronization: operations are strictly sequential.
//
// Lookups mirror the secondary indexes the evaluators need: content by
// URI, seeder and statistics by seeder id, buying by id and by
// (consumer, URI), subscription by (consumer, author).
type StateTree struct {
	accounts map[types.AccountID]*Account
	assets   map[types.AssetID]*Asset
	contents map[string]*Content
	seeders  map[types.AccountID]*Seeder
	stats    map[types.AccountID]*SeedingStatistics

	buyings       map[BuyingID]*Buying
	buyingByOwner map[consumerURIKey]BuyingID

	subscriptions map[subKey]*Subscription
	ratings       []*Rating

	nextBuyingID BuyingID
}

func NewStateTree() *StateTree {
	return &StateTree{
		accounts:      make(map[types.AccountID]*Account),
		assets:        make(map[types.AssetID]*Asset),
		contents:      make(map[string]*Content),
		seeders:       make(map[types.AccountID]*Seeder),
		stats:         make(map[types.AccountID]*SeedingStatistics),
		buyings:       make(map[BuyingID]*Buying),
		buyingByOwner: make(map[consumerURIKey]BuyingID),
		subscriptions: make(map[subKey]*Subscription),
		nextBuyingID:  1,
	}
}

// Accounts

func (st *StateTree) CreateAccount(id types.AccountID, balance types.BigInt) *Account {
	a := &Account{
		ID:      id,
		Balance: balance,
		Rights: PublishingRights{
			Forwarded: make(map[types.AccountID]struct{}),
			Received:  make(map[types.AccountID]struct{}),
		},
	}
	st.accounts[id] = a
	return a
}

func (st *StateTree) GetAccount(id types.AccountID) (*Account, error) {
	a, ok := st.accounts[id]
	if !ok {
		return nil, xerrors.Errorf("account %d: %w", id, ErrNotFound)
	}
	return a, nil
}

func (st *StateTree) HasAccount(id types.AccountID) bool {
	_, ok := st.accounts[id]
	return ok
}

// AdjustBalance credits (positive) or debits (negative) an account in
// the base asset, enforcing non-negative balances.
func (st *StateTree) AdjustBalance(id types.AccountID, delta types.BigInt) error {
	a, err := st.GetAccount(id)
	if err != nil {
		return err
	}
	nb := types.BigAdd(a.Balance, delta)
	if nb.Sign() < 0 {
		return xerrors.Errorf("adjusting balance of account %d by %s: %w", id, delta, ErrInsufficientFunds)
	}
	a.Balance = nb
	return nil
}

// Assets

func (st *StateTree) CreateAsset(id types.AssetID, symbol string, feed *PriceFeed) *Asset {
	as := &Asset{ID: id, Symbol: symbol, Feed: feed}
	st.assets[id] = as
	return as
}

func (st *StateTree) GetAsset(id types.AssetID) (*Asset, error) {
	as, ok := st.assets[id]
	if !ok {
		return nil, xerrors.Errorf("asset %d: %w", id, ErrNotFound)
	}
	return as, nil
}

// Contents

func (st *StateTree) CreateContent(c *Content) {
	st.contents[c.URI] = c
}

func (st *StateTree) GetContent(uri string) (*Content, error) {
	c, ok := st.contents[uri]
	if !ok {
		return nil, xerrors.Errorf("content %q: %w", uri, ErrNotFound)
	}
	return c, nil
}

// Seeders

func (st *StateTree) CreateSeeder(s *Seeder) {
	st.seeders[s.Seeder] = s
	if _, ok := st.stats[s.Seeder]; !ok {
		st.stats[s.Seeder] = &SeedingStatistics{Seeder: s.Seeder}
	}
}

func (st *StateTree) GetSeeder(id types.AccountID) (*Seeder, error) {
	s, ok := st.seeders[id]
	if !ok {
		return nil, xerrors.Errorf("seeder %d: %w", id, ErrNotFound)
	}
	return s, nil
}

func (st *StateTree) GetSeedingStatistics(id types.AccountID) (*SeedingStatistics, error) {
	s, ok := st.stats[id]
	if !ok {
		return nil, xerrors.Errorf("seeding statistics for %d: %w", id, ErrNotFound)
	}
	return s, nil
}

// Buyings

// CreateBuying assigns the next sequential order id. Ids are part of
// consensus state, so they must be identical on every replaying node.
func (st *StateTree) CreateBuying(b *Buying) BuyingID {
	b.ID = st.nextBuyingID
	st.nextBuyingID++
	st.buyings[b.ID] = b
	st.buyingByOwner[consumerURIKey{b.Consumer, b.URI}] = b.ID
	return b.ID
}

func (st *StateTree) GetBuying(id BuyingID) (*Buying, error) {
	b, ok := st.buyings[id]
	if !ok {
		return nil, xerrors.Errorf("buying order %d: %w", id, ErrNotFound)
	}
	return b, nil
}

func (st *StateTree) GetBuyingByConsumerURI(consumer types.AccountID, uri string) (*Buying, error) {
	id, ok := st.buyingByOwner[consumerURIKey{consumer, uri}]
	if !ok {
		return nil, xerrors.Errorf("buying order for consumer %d, content %q: %w", consumer, uri, ErrNotFound)
	}
	return st.GetBuying(id)
}

// Subscriptions

func (st *StateTree) CreateSubscription(s *Subscription) {
	st.subscriptions[subKey{s.From, s.To}] = s
}

func (st *StateTree) GetSubscription(from, to types.AccountID) (*Subscription, error) {
	s, ok := st.subscriptions[subKey{from, to}]
	if !ok {
		return nil, xerrors.Errorf("subscription %d -> %d: %w", from, to, ErrNotFound)
	}
	return s, nil
}

// AllAccounts returns every account. Callers that care about order
// must sort; map order is never exposed to consensus-relevant code.
func (st *StateTree) AllAccounts() []*Account {
	out := make([]*Account, 0, len(st.accounts))
	for _, a := range st.accounts {
		out = append(out, a)
	}
	return out
}

// AllContents returns every content record, unordered.
func (st *StateTree) AllContents() []*Content {
	out := make([]*Content, 0, len(st.contents))
	for _, c := range st.contents {
		out = append(out, c)
	}
	return out
}

// Ratings

func (st *StateTree) CreateRating(r *Rating) {
	st.ratings = append(st.ratings, r)
}

func (st *StateTree) Ratings() []*Rating {
	return st.ratings
}
