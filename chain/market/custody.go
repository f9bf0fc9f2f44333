package market

import (
	"bytes"

	"github.com/dcore-project/dcore/build"
	"github.com/dcore-project/dcore/chain/market/merrors"
	"github.com/dcore-project/dcore/chain/types"
)

func validateProofOfCustody(vm *VM, op *ProofOfCustody) merrors.MarketError {
	c, err := vm.st.GetContent(op.URI)
	if err != nil {
		return merrors.Newf(merrors.NotFound, "content %q does not exist", op.URI)
	}
	if c.Expired(vm.now) {
		return merrors.New(merrors.Rejected, "content expired")
	}

	if _, err := vm.st.GetSeeder(op.Seeder); err != nil {
		return merrors.Newf(merrors.NotFound, "seeder %d does not exist", op.Seeder)
	}

	if op.Proof != nil {
		// The proof seed must reproduce the recorded id of a recent
		// block: a stale or foreign-chain proof is rejected before any
		// cryptographic check.
		if vm.sys.BlockID == nil {
			return merrors.Fatal("block id lookup is not wired")
		}
		bid, err := vm.sys.BlockID(op.Proof.ReferenceBlock)
		if err != nil {
			return merrors.Newf(merrors.Rejected, "no recorded id for reference block %d", op.Proof.ReferenceBlock)
		}
		if len(op.Proof.Seed) < build.ProofSeedPrefix || len(bid) < build.ProofSeedPrefix ||
			!bytes.Equal(op.Proof.Seed[:build.ProofSeedPrefix], bid[:build.ProofSeedPrefix]) {
			return merrors.New(merrors.Rejected, "block id does not match; wrong chain?")
		}
		if vm.height > op.Proof.ReferenceBlock+build.ProofReferenceMaxAge {
			return merrors.New(merrors.Rejected, "block reference is too old")
		}
	}

	if (c.Custody != nil) != (op.Proof != nil) {
		return merrors.New(merrors.Rejected, "custody proof must be present exactly when the content has a custody descriptor")
	}
	if c.Custody != nil {
		if vm.sys.VerifyCustodyProof == nil {
			return merrors.Fatal("custody proof verification is not wired")
		}
		if !vm.sys.VerifyCustodyProof(c.Custody, op.Proof) {
			return merrors.New(merrors.Rejected, "invalid proof of custody")
		}
	}
	return nil
}

func applyProofOfCustody(vm *VM, op *ProofOfCustody) merrors.MarketError {
	c, err := vm.st.GetContent(op.URI)
	if err != nil {
		return merrors.Escalate(err, "content vanished between validate and apply")
	}
	seeder, err := vm.st.GetSeeder(op.Seeder)
	if err != nil {
		return merrors.Escalate(err, "seeder vanished between validate and apply")
	}

	last, ok := c.LastProof[op.Seeder]
	if !ok {
		// Initial proof establishes the cadence baseline; no payment.
		c.LastProof[op.Seeder] = vm.now
		return nil
	}

	// Proofs are ideally broadcast once per 24h. Submitting early is
	// penalized by a loss of one fourth of the time remaining to 24h:
	// at 12h the loss is (12/24)/4 = 12.5%, at 18h it is 6.25%.
	elapsed := vm.now - last
	if elapsed > build.Day {
		elapsed = build.Day
	}
	ratio := build.BasisPoints * uint64(elapsed) / build.Day
	loss := (build.BasisPoints - ratio) / 4
	effectiveRatio := ratio * (build.BasisPoints - loss) / build.BasisPoints

	reward := types.BigDiv(
		types.BigMul(types.BigMul(seeder.Price, types.NewInt(effectiveRatio)), types.NewInt(c.Size)),
		types.NewInt(build.BasisPoints),
	)

	escrow := types.BigSub(c.PublishingFeeEscrow, reward)
	if escrow.Sign() < 0 {
		return merrors.Fatalf("custody reward %s would overdraw the publishing escrow %s of %q", reward, c.PublishingFeeEscrow, c.URI)
	}
	c.PublishingFeeEscrow = escrow
	c.LastProof[op.Seeder] = vm.now

	if err := vm.st.AdjustBalance(op.Seeder, reward); err != nil {
		return merrors.Escalate(err, "crediting the custody reward")
	}

	vm.emit(&PaySeeder{Author: c.Author, Seeder: op.Seeder, Payout: reward})
	return nil
}
