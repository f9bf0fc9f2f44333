package market

import (
	"github.com/dcore-project/dcore/chain/state"
	"github.com/dcore-project/dcore/chain/types"
)

// OpKind tags the closed set of operations the engine accepts.
type OpKind string

const (
	KindSetPublishingManager OpKind = "set_publishing_manager"
	KindSetPublishingRight   OpKind = "set_publishing_right"
	KindContentSubmit        OpKind = "content_submit"
	KindContentCancellation  OpKind = "content_cancellation"
	KindRequestToBuy         OpKind = "request_to_buy"
	KindDeliverKeys          OpKind = "deliver_keys"
	KindLeaveRatingAndComment OpKind = "leave_rating_and_comment"
	KindReadyToPublish       OpKind = "ready_to_publish"
	KindProofOfCustody       OpKind = "proof_of_custody"
	KindReportStats          OpKind = "report_stats"

	// Typed markers for the synthetic-operation log. Their validators
	// always succeed and their appliers mutate nothing.
	KindReturnEscrowSubmission OpKind = "return_escrow_submission"
	KindReturnEscrowBuying     OpKind = "return_escrow_buying"
	KindPaySeeder              OpKind = "pay_seeder"
	KindFinishBuying           OpKind = "finish_buying"
)

// Operation is the sealed union of everything the engine dispatches
// on. Dispatch is a closed type switch, not a registry.
type Operation interface {
	Kind() OpKind
}

type SetPublishingManager struct {
	From                types.AccountID
	To                  []types.AccountID
	CanCreatePublishers bool
}

func (SetPublishingManager) Kind() OpKind { return KindSetPublishingManager }

type SetPublishingRight struct {
	From        types.AccountID
	To          []types.AccountID
	IsPublisher bool
}

func (SetPublishingRight) Kind() OpKind { return KindSetPublishingRight }

type ContentSubmit struct {
	Author    types.AccountID
	CoAuthors map[types.AccountID]uint32 // basis points out of build.BasisPoints

	URI      string
	Synopsis string
	Size     uint64
	Hash     types.ContentHash
	Price    types.PriceTable

	Seeders  []types.AccountID
	KeyParts []types.KeyFragment // parallel to Seeders
	Quorum   uint32
	Custody  *types.CustodyDescriptor

	Expiration    types.Timestamp
	PublishingFee types.BigInt
}

func (ContentSubmit) Kind() OpKind { return KindContentSubmit }

type ContentCancellation struct {
	Author types.AccountID
	URI    string
}

func (ContentCancellation) Kind() OpKind { return KindContentCancellation }

type RequestToBuy struct {
	Consumer types.AccountID
	URI      string
	Price    types.BigInt // offered, base asset
	Region   types.RegionCode
	PubKey   []byte
}

func (RequestToBuy) Kind() OpKind { return KindRequestToBuy }

type DeliverKeys struct {
	Seeder types.AccountID
	Buying state.BuyingID
	Key    types.KeyFragment
	Proof  types.DeliveryProof
}

func (DeliverKeys) Kind() OpKind { return KindDeliverKeys }

type LeaveRatingAndComment struct {
	Consumer types.AccountID
	URI      string
	Rating   uint64 // 1 to 5 stars
	Comment  string
}

func (LeaveRatingAndComment) Kind() OpKind { return KindLeaveRatingAndComment }

type ReadyToPublish struct {
	Seeder      types.AccountID
	Space       uint64
	PricePerMiB types.BigInt
	PubKey      []byte
	RoutingID   string
}

func (ReadyToPublish) Kind() OpKind { return KindReadyToPublish }

type ProofOfCustody struct {
	Seeder types.AccountID
	URI    string
	Proof  *types.CustodyProof
}

func (ProofOfCustody) Kind() OpKind { return KindProofOfCustody }

type ReportStats struct {
	Stats map[types.AccountID]uint64 // uploaded bytes per seeder
}

func (ReportStats) Kind() OpKind { return KindReportStats }

type ReturnEscrowSubmission struct {
	Author types.AccountID
	URI    string
}

func (ReturnEscrowSubmission) Kind() OpKind { return KindReturnEscrowSubmission }

type ReturnEscrowBuying struct {
	Consumer types.AccountID
	Buying   state.BuyingID
}

func (ReturnEscrowBuying) Kind() OpKind { return KindReturnEscrowBuying }

// PaySeeder is emitted after every paid custody proof.
type PaySeeder struct {
	Author types.AccountID
	Seeder types.AccountID
	Payout types.BigInt
}

func (PaySeeder) Kind() OpKind { return KindPaySeeder }

// FinishBuying is emitted when a purchase reaches quorum and pays out.
// Payout is the author's residual share after co-author splits.
type FinishBuying struct {
	Author    types.AccountID
	CoAuthors map[types.AccountID]uint32
	Payout    types.BigInt
	Consumer  types.AccountID
	Buying    state.BuyingID
}

func (FinishBuying) Kind() OpKind { return KindFinishBuying }
