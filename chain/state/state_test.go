package state_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcore-project/dcore/chain/state"
	"github.com/dcore-project/dcore/chain/types"
)

func TestAdjustBalance(t *testing.T) {
	st := state.NewStateTree()
	st.CreateAccount(1, types.NewInt(100))

	require.NoError(t, st.AdjustBalance(1, types.NewInt(50)))
	a, err := st.GetAccount(1)
	require.NoError(t, err)
	assert.Equal(t, types.NewInt(150), a.Balance)

	require.NoError(t, st.AdjustBalance(1, types.BigSub(types.NewInt(0), types.NewInt(150))))
	assert.True(t, a.Balance.IsZero())

	// Balances never go negative.
	err = st.AdjustBalance(1, types.BigSub(types.NewInt(0), types.NewInt(1)))
	require.Error(t, err)
	assert.True(t, errors.Is(err, state.ErrInsufficientFunds))
	assert.True(t, a.Balance.IsZero())

	err = st.AdjustBalance(404, types.NewInt(1))
	assert.True(t, errors.Is(err, state.ErrNotFound))
}

func TestLookupsReturnNotFound(t *testing.T) {
	st := state.NewStateTree()

	_, err := st.GetAccount(1)
	assert.True(t, errors.Is(err, state.ErrNotFound))
	_, err = st.GetAsset(1)
	assert.True(t, errors.Is(err, state.ErrNotFound))
	_, err = st.GetContent("ipfs:qm-x")
	assert.True(t, errors.Is(err, state.ErrNotFound))
	_, err = st.GetSeeder(1)
	assert.True(t, errors.Is(err, state.ErrNotFound))
	_, err = st.GetSeedingStatistics(1)
	assert.True(t, errors.Is(err, state.ErrNotFound))
	_, err = st.GetBuying(1)
	assert.True(t, errors.Is(err, state.ErrNotFound))
	_, err = st.GetBuyingByConsumerURI(1, "ipfs:qm-x")
	assert.True(t, errors.Is(err, state.ErrNotFound))
	_, err = st.GetSubscription(1, 2)
	assert.True(t, errors.Is(err, state.ErrNotFound))
}

func TestBuyingIDsAreSequential(t *testing.T) {
	st := state.NewStateTree()

	id1 := st.CreateBuying(&state.Buying{Consumer: 1, URI: "ipfs:qm-a"})
	id2 := st.CreateBuying(&state.Buying{Consumer: 1, URI: "ipfs:qm-b"})
	id3 := st.CreateBuying(&state.Buying{Consumer: 2, URI: "ipfs:qm-a"})

	assert.Equal(t, state.BuyingID(1), id1)
	assert.Equal(t, state.BuyingID(2), id2)
	assert.Equal(t, state.BuyingID(3), id3)

	b, err := st.GetBuyingByConsumerURI(2, "ipfs:qm-a")
	require.NoError(t, err)
	assert.Equal(t, id3, b.ID)
}

func TestCreateSeederBackfillsStats(t *testing.T) {
	st := state.NewStateTree()
	st.CreateSeeder(&state.Seeder{Seeder: 7, FreeSpace: 100, Price: types.NewInt(1)})

	stats, err := st.GetSeedingStatistics(7)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalUpload)

	// Re-registering keeps the existing accumulator.
	stats.TotalUpload = 42
	st.CreateSeeder(&state.Seeder{Seeder: 7, FreeSpace: 200, Price: types.NewInt(2)})
	stats, err = st.GetSeedingStatistics(7)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), stats.TotalUpload)
}

func TestSubscriptionKeyedByPair(t *testing.T) {
	st := state.NewStateTree()
	st.CreateSubscription(&state.Subscription{From: 1, To: 2, Expiration: 100})

	_, err := st.GetSubscription(2, 1)
	assert.True(t, errors.Is(err, state.ErrNotFound))

	s, err := st.GetSubscription(1, 2)
	require.NoError(t, err)
	assert.Equal(t, types.Timestamp(100), s.Expiration)
}
