package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	ds "github.com/ipfs/go-datastore"
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/dcore-project/dcore/chain/audit"
	"github.com/dcore-project/dcore/chain/market"
	"github.com/dcore-project/dcore/chain/state"
	"github.com/dcore-project/dcore/chain/types"
	"github.com/dcore-project/dcore/node/config"
)

// The replay input is a pre-ordered, pre-verified operation log: the
// chain already agreed on it, so cryptographic verification is
// bypassed and only the state transitions are recomputed.

type opEnvelope struct {
	Kind   market.OpKind   `json:"kind"`
	Params json.RawMessage `json:"params"`
}

type blockRecord struct {
	Height    uint64          `json:"height"`
	Timestamp types.Timestamp `json:"timestamp"`
	BlockID   string          `json:"block_id,omitempty"` // hex
	Ops       []opEnvelope    `json:"ops"`
}

var replayCmd = &cli.Command{
	Name:  "replay",
	Usage: "replay an ordered operation log against a genesis state",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "genesis",
			Usage:    "path to the genesis template (JSON)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "blocks",
			Usage:    "path to the block/operation log (JSON)",
			Required: true,
		},
	},
	Action: func(cctx *cli.Context) error {
		cfg, err := config.FromFile(cctx.String("config"))
		if err != nil {
			return err
		}
		if lvl, err := logging.LevelFromString(cfg.Log.Level); err == nil {
			logging.SetAllLoggers(lvl)
		}

		st, err := loadGenesis(cctx.String("genesis"))
		if err != nil {
			return err
		}

		blocks, err := loadBlocks(cctx.String("blocks"))
		if err != nil {
			return err
		}

		blockIDs := make(map[uint64][]byte, len(blocks))
		for _, b := range blocks {
			if b.BlockID == "" {
				continue
			}
			id, err := hex.DecodeString(b.BlockID)
			if err != nil {
				return xerrors.Errorf("block %d has a malformed id: %w", b.Height, err)
			}
			blockIDs[b.Height] = id
		}

		var aud audit.Log
		if !cfg.Audit.Disabled {
			aud = audit.NewLog(ds.NewMapDatastore())
		}

		vm := market.NewVM(st, replaySyscalls(blockIDs), aud)

		var total, synthetic int
		for _, b := range blocks {
			ops := make([]market.Operation, 0, len(b.Ops))
			for i, env := range b.Ops {
				op, err := decodeOperation(env.Kind, env.Params)
				if err != nil {
					return xerrors.Errorf("block %d, operation %d: %w", b.Height, i, err)
				}
				ops = append(ops, op)
			}

			applied, merr := vm.ProcessBlock(b.Timestamp, b.Height, ops)
			if merr != nil {
				return xerrors.Errorf("replaying block %d: %w", b.Height, merr)
			}
			total += len(ops)
			synthetic += len(applied) - len(ops)
		}

		fmt.Printf("replayed %s operations, %s synthetic emissions\n",
			humanize.Comma(int64(total)), humanize.Comma(int64(synthetic)))
		printState(st)
		return nil
	},
}

// replaySyscalls trusts the log: proofs were verified when the chain
// first applied these operations.
func replaySyscalls(blockIDs map[uint64][]byte) market.Syscalls {
	return market.Syscalls{
		VerifyDeliveryProof: func(types.DeliveryProof, types.KeyFragment, types.KeyFragment, []byte, []byte) bool {
			return true
		},
		VerifyCustodyProof: func(*types.CustodyDescriptor, *types.CustodyProof) bool {
			return true
		},
		BlockID: func(height uint64) ([]byte, error) {
			id, ok := blockIDs[height]
			if !ok {
				return nil, xerrors.Errorf("no recorded id for block %d", height)
			}
			return id, nil
		},
	}
}

func loadBlocks(path string) ([]blockRecord, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, xerrors.Errorf("reading block log: %w", err)
	}
	var blocks []blockRecord
	if err := json.Unmarshal(b, &blocks); err != nil {
		return nil, xerrors.Errorf("decoding block log: %w", err)
	}
	return blocks, nil
}

func decodeOperation(kind market.OpKind, params json.RawMessage) (market.Operation, error) {
	var op market.Operation
	switch kind {
	case market.KindSetPublishingManager:
		op = new(market.SetPublishingManager)
	case market.KindSetPublishingRight:
		op = new(market.SetPublishingRight)
	case market.KindContentSubmit:
		op = new(market.ContentSubmit)
	case market.KindContentCancellation:
		op = new(market.ContentCancellation)
	case market.KindRequestToBuy:
		op = new(market.RequestToBuy)
	case market.KindDeliverKeys:
		op = new(market.DeliverKeys)
	case market.KindLeaveRatingAndComment:
		op = new(market.LeaveRatingAndComment)
	case market.KindReadyToPublish:
		op = new(market.ReadyToPublish)
	case market.KindProofOfCustody:
		op = new(market.ProofOfCustody)
	case market.KindReportStats:
		op = new(market.ReportStats)
	case market.KindReturnEscrowSubmission:
		op = new(market.ReturnEscrowSubmission)
	case market.KindReturnEscrowBuying:
		op = new(market.ReturnEscrowBuying)
	case market.KindPaySeeder:
		op = new(market.PaySeeder)
	case market.KindFinishBuying:
		op = new(market.FinishBuying)
	default:
		return nil, xerrors.Errorf("unknown operation kind %q", kind)
	}

	if err := json.Unmarshal(params, op); err != nil {
		return nil, xerrors.Errorf("decoding %s params: %w", kind, err)
	}
	return op, nil
}

func printState(st *state.StateTree) {
	accounts := st.AllAccounts()
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].ID < accounts[j].ID })
	for _, a := range accounts {
		fmt.Printf("account %d: balance %s\n", a.ID, a.Balance)
	}

	contents := st.AllContents()
	sort.Slice(contents, func(i, j int) bool { return contents[i].URI < contents[j].URI })
	for _, c := range contents {
		fmt.Printf("content %s: %s, escrow %s, bought %d, rating %d/%d\n",
			c.URI, humanize.IBytes(c.Size<<20), c.PublishingFeeEscrow, c.TimesBought, c.AvgRating, c.NumRatings)
	}
}
