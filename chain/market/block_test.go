package market_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dcore-project/dcore/chain/market"
	"github.com/dcore-project/dcore/chain/types"
)

func TestProcessBlockInterleavesSynthetics(t *testing.T) {
	h := newHarness(t)
	publishDefault(h)
	h.createAccount(50, 1000)
	h.apply(&market.RequestToBuy{
		Consumer: 50, URI: "ipfs:qm-movie", Price: types.NewInt(100), PubKey: []byte("bk"),
	})
	b, err := h.st.GetBuyingByConsumerURI(50, "ipfs:qm-movie")
	require.NoError(t, err)
	h.vm.Drain()

	ops := []market.Operation{
		&market.DeliverKeys{Seeder: 2, Buying: b.ID, Key: []byte{2}, Proof: []byte("p")},
		&market.DeliverKeys{Seeder: 3, Buying: b.ID, Key: []byte{3}, Proof: []byte("p")},
		&market.ReportStats{Stats: map[types.AccountID]uint64{2: 5}},
	}
	applied, aerr := h.vm.ProcessBlock(h.now+60, h.height+1, ops)
	require.Nil(t, aerr)

	// The quorum-completing delivery is followed immediately by its
	// synthetic settlement marker, before the next input operation.
	require.Len(t, applied, 4)
	require.Same(t, ops[0], applied[0])
	require.Same(t, ops[1], applied[1])
	_, ok := applied[2].(*market.FinishBuying)
	require.True(t, ok)
	require.Same(t, ops[2], applied[3])
}

func TestProcessBlockFailureInvalidates(t *testing.T) {
	h := newHarness(t)
	publishDefault(h)
	h.createAccount(50, 1000)

	ops := []market.Operation{
		&market.RequestToBuy{Consumer: 50, URI: "ipfs:qm-movie", Price: types.NewInt(100)},
		&market.RequestToBuy{Consumer: 50, URI: "ipfs:qm-gone", Price: types.NewInt(100)},
	}
	applied, aerr := h.vm.ProcessBlock(h.now+60, h.height+1, ops)
	require.NotNil(t, aerr)
	require.Nil(t, applied)
}

func TestProcessBlockAdvancesEpoch(t *testing.T) {
	h := newHarness(t)

	_, aerr := h.vm.ProcessBlock(h.now+300, h.height+5, nil)
	require.Nil(t, aerr)
	require.Equal(t, h.now+300, h.vm.Now())
	require.Equal(t, h.height+5, h.vm.Height())
}
