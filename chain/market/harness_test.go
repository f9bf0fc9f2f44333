package market_test

import (
	"testing"

	"github.com/ipfs/go-cid"
	ds "github.com/ipfs/go-datastore"
	"github.com/multiformats/go-multihash"
	"github.com/stretchr/testify/require"

	"github.com/dcore-project/dcore/build"
	"github.com/dcore-project/dcore/chain/audit"
	"github.com/dcore-project/dcore/chain/market"
	"github.com/dcore-project/dcore/chain/market/merrors"
	"github.com/dcore-project/dcore/chain/state"
	"github.com/dcore-project/dcore/chain/types"
)

const genesisNow = types.Timestamp(1_700_000_000)

// harness seeds a genesis state and wires permissive verification
// syscalls; individual tests override the hooks they exercise.
type harness struct {
	t  *testing.T
	st *state.StateTree
	vm *market.VM

	now    types.Timestamp
	height uint64

	blockIDs map[uint64][]byte

	verifyDelivery func(proof types.DeliveryProof, first, second types.KeyFragment, seederKey, buyerKey []byte) bool
	verifyCustody  func(cd *types.CustodyDescriptor, proof *types.CustodyProof) bool
}

func newHarness(t *testing.T) *harness {
	h := &harness{
		t:        t,
		st:       state.NewStateTree(),
		now:      genesisNow,
		height:   1,
		blockIDs: make(map[uint64][]byte),
	}
	h.verifyDelivery = func(types.DeliveryProof, types.KeyFragment, types.KeyFragment, []byte, []byte) bool {
		return true
	}
	h.verifyCustody = func(*types.CustodyDescriptor, *types.CustodyProof) bool {
		return true
	}

	sys := market.Syscalls{
		VerifyDeliveryProof: func(proof types.DeliveryProof, first, second types.KeyFragment, sk, bk []byte) bool {
			return h.verifyDelivery(proof, first, second, sk, bk)
		},
		VerifyCustodyProof: func(cd *types.CustodyDescriptor, proof *types.CustodyProof) bool {
			return h.verifyCustody(cd, proof)
		},
		BlockID: func(height uint64) ([]byte, error) {
			id, ok := h.blockIDs[height]
			if !ok {
				return nil, state.ErrNotFound
			}
			return id, nil
		},
	}

	h.st.CreateAsset(types.BaseAsset, "DCT", nil)
	h.st.CreateAccount(build.SystemAccount, types.NewInt(0))

	h.vm = market.NewVM(h.st, sys, audit.NewLog(ds.NewMapDatastore()))
	h.vm.SetEpoch(h.now, h.height)
	return h
}

func (h *harness) advance(seconds int64, blocks uint64) {
	h.now += types.Timestamp(seconds)
	h.height += blocks
	h.vm.SetEpoch(h.now, h.height)
}

func (h *harness) apply(op market.Operation) {
	h.t.Helper()
	if err := h.vm.ApplyOperation(op); err != nil {
		h.t.Fatalf("operation %s unexpectedly failed: %+v", op.Kind(), err)
	}
}

func (h *harness) mustReject(op market.Operation, code merrors.RetCode) {
	h.t.Helper()
	err := h.vm.ApplyOperation(op)
	require.NotNil(h.t, err, "operation %s should have been rejected", op.Kind())
	require.False(h.t, err.IsFatal(), "expected a rejection, got a fatal error: %+v", err)
	require.Equal(h.t, code, err.RetCode(), "wrong retcode: %+v", err)
}

func (h *harness) mustFail(op market.Operation) {
	h.t.Helper()
	err := h.vm.ApplyOperation(op)
	require.NotNil(h.t, err, "operation %s should have failed fatally", op.Kind())
	require.True(h.t, err.IsFatal(), "expected a fatal error, got: %+v", err)
}

func (h *harness) createAccount(id types.AccountID, balance uint64) {
	h.st.CreateAccount(id, types.NewInt(balance))
}

func (h *harness) balance(id types.AccountID) types.BigInt {
	h.t.Helper()
	a, err := h.st.GetAccount(id)
	require.NoError(h.t, err)
	return a.Balance
}

func (h *harness) registerSeeder(id types.AccountID, space, pricePerMiB uint64) {
	h.t.Helper()
	if !h.st.HasAccount(id) {
		h.createAccount(id, 0)
	}
	h.apply(&market.ReadyToPublish{
		Seeder:      id,
		Space:       space,
		PricePerMiB: types.NewInt(pricePerMiB),
		PubKey:      []byte("seeder-key"),
		RoutingID:   "12D3KooWSeeder",
	})
}

func (h *harness) content(uri string) *state.Content {
	h.t.Helper()
	c, err := h.st.GetContent(uri)
	require.NoError(h.t, err)
	return c
}

func (h *harness) buying(id state.BuyingID) *state.Buying {
	h.t.Helper()
	b, err := h.st.GetBuying(id)
	require.NoError(h.t, err)
	return b
}

func makeCid(t *testing.T, data string) cid.Cid {
	t.Helper()
	mh, err := multihash.Sum([]byte(data), multihash.SHA2_256, -1)
	require.NoError(t, err)
	return cid.NewCidV1(cid.Raw, mh)
}

// submission is a content_submit builder with workable defaults.
type submission struct {
	Author    types.AccountID
	URI       string
	Size      uint64
	Seeders   []types.AccountID
	Quorum    uint32
	CoAuthors map[types.AccountID]uint32
	Price     uint64
	Days      int64
	Fee       uint64
	Custody   *types.CustodyDescriptor
	Synopsis  string
}

func (h *harness) submit(s submission) *market.ContentSubmit {
	h.t.Helper()
	if s.Size == 0 {
		s.Size = 10
	}
	if s.Days == 0 {
		s.Days = 7
	}
	if s.Synopsis == "" {
		s.Synopsis = `{"title":"` + s.URI + `"}`
	}
	if s.Fee == 0 {
		// exactly cover days * sum(seeder price * size)
		for _, id := range s.Seeders {
			seeder, err := h.st.GetSeeder(id)
			require.NoError(h.t, err)
			s.Fee += uint64(s.Days) * seeder.Price.Uint64() * s.Size
		}
	}
	if s.Quorum == 0 {
		s.Quorum = 1
	}

	keyParts := make([]types.KeyFragment, len(s.Seeders))
	for i := range keyParts {
		keyParts[i] = []byte{byte(i + 1)}
	}

	return &market.ContentSubmit{
		Author:        s.Author,
		CoAuthors:     s.CoAuthors,
		URI:           s.URI,
		Synopsis:      s.Synopsis,
		Size:          s.Size,
		Hash:          makeCid(h.t, s.URI),
		Price:         types.PriceTable{types.RegionNone: {Asset: types.BaseAsset, Amount: types.NewInt(s.Price)}},
		Seeders:       s.Seeders,
		KeyParts:      keyParts,
		Quorum:        s.Quorum,
		Custody:       s.Custody,
		Expiration:    h.now + types.Timestamp(s.Days*build.Day),
		PublishingFee: types.NewInt(s.Fee),
	}
}
