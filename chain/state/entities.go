package state

import (
	"github.com/dcore-project/dcore/chain/types"
)

// PublishingRights is the delegation sub-record of an account. The
// Forwarded/Received sets are kept mirror images of each other by
// every mutation: B in A.Forwarded iff A in B.Received.
type PublishingRights struct {
	IsPublishingManager bool
	Forwarded           map[types.AccountID]struct{}
	Received            map[types.AccountID]struct{}
}

type Account struct {
	ID      types.AccountID
	Balance types.BigInt
	Rights  PublishingRights
}

// PriceFeed converts a quote-asset amount to base-asset units:
// base = amount * Numerator / Denominator.
type PriceFeed struct {
	Numerator   types.BigInt
	Denominator types.BigInt
}

type Asset struct {
	ID     types.AssetID
	Symbol string
	Feed   *PriceFeed // nil when no feed has been published
}

// Content is a marketplace listing. KeyParts has exactly one entry per
// seeder named at submission; PublishingFeeEscrow never goes negative
// (the escrow is sized at submission to cover custody rewards over the
// content's whole lifetime).
type Content struct {
	Author    types.AccountID
	CoAuthors map[types.AccountID]uint32 // payout split, basis points

	URI      string
	Synopsis string
	Size     uint64 // MiB
	Hash     types.ContentHash
	Price    types.PriceTable

	KeyParts map[types.AccountID]types.KeyFragment
	Quorum   uint32
	Custody  *types.CustodyDescriptor

	Created    types.Timestamp
	Expiration types.Timestamp

	PublishingFeeEscrow types.BigInt
	IsBlocked           bool

	LastProof map[types.AccountID]types.Timestamp

	TimesBought uint64
	AvgRating   uint64 // scaled by build.RatingScale
	NumRatings  uint64
}

func (c *Content) Expired(now types.Timestamp) bool {
	return c.Expiration <= now
}

type Seeder struct {
	Seeder     types.AccountID
	FreeSpace  uint64 // MiB
	Price      types.BigInt // per MiB per day, base asset
	PubKey     []byte
	RoutingID  string // content-routing id announced to the swarm
	Expiration types.Timestamp
}

// SeedingStatistics is a monotonic upload accumulator per seeder.
type SeedingStatistics struct {
	Seeder      types.AccountID
	TotalUpload uint64
}

type BuyingID uint64

// Buying is an open purchase order. It is terminated exactly once:
// either Delivered when quorum is met, or Expired by the cleanup hook.
// Synopsis/Size/Created/AverageRating are a display snapshot taken at
// request time.
type Buying struct {
	ID       BuyingID
	Consumer types.AccountID
	URI      string

	Price     types.BigInt // zeroed at payout
	PaidPrice types.BigInt
	Region    types.RegionCode
	PubKey    []byte

	Expiration types.Timestamp

	SeedersAnswered []types.AccountID
	KeyParticles    []types.KeyFragment

	Delivered bool
	Expired   bool

	RatedOrCommented bool
	Rating           uint64

	Synopsis      string
	Size          uint64
	Created       types.Timestamp
	AverageRating uint64

	ExpirationOrDeliveryTime types.Timestamp
}

// Subscription waives the purchase price between a consumer and an
// author while unexpired.
type Subscription struct {
	From       types.AccountID // consumer
	To         types.AccountID // author
	Expiration types.Timestamp
}

type Rating struct {
	Buying   BuyingID
	Consumer types.AccountID
	URI      string
	Rating   uint64
	Comment  string
}
