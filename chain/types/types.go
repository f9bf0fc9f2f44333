package types

import (
	"bytes"

	"github.com/ipfs/go-cid"
)

// AccountID identifies an account on the ledger. Ids are assigned by
// account creation, which happens outside this core.
type AccountID uint64

// AssetID identifies an asset. BaseAsset is the chain's native token;
// every balance and escrow is denominated in it.
type AssetID uint32

const BaseAsset AssetID = 0

// Timestamp is unix seconds. The core never reads a wall clock; the
// current time is chain metadata handed to the VM.
type Timestamp int64

// RegionCode selects a regional price from a content's price table.
// RegionNone marks a single worldwide price.
type RegionCode uint32

const RegionNone RegionCode = 0

// KeyFragment is one seeder's share of a content encryption key,
// opaque to the state engine.
type KeyFragment []byte

// DeliveryProof attests that a seeder re-encrypted its key fragment to
// a buyer's public key. Verified through a syscall, never constructed
// here.
type DeliveryProof []byte

// CustodyDescriptor is the per-content commitment custody proofs are
// checked against.
type CustodyDescriptor struct {
	Data []byte
}

func (cd *CustodyDescriptor) Equals(o *CustodyDescriptor) bool {
	if cd == nil || o == nil {
		return cd == o
	}
	return bytes.Equal(cd.Data, o.Data)
}

// CustodyProof is a seeder's periodic evidence it still holds the
// content. Seed must reproduce the id of ReferenceBlock, which ties
// the proof to this chain and to a recent block.
type CustodyProof struct {
	ReferenceBlock uint64
	Seed           []byte
	Data           []byte
}

// ContentHash is the hash of the published content itself.
type ContentHash = cid.Cid
