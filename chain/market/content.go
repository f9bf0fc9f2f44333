package market

import (
	"github.com/dcore-project/dcore/build"
	"github.com/dcore-project/dcore/chain/audit"
	"github.com/dcore-project/dcore/chain/market/merrors"
	"github.com/dcore-project/dcore/chain/state"
	"github.com/dcore-project/dcore/chain/types"
)

// contentSubmitEvaluator carries the resubmission fact from validation
// into application.
type contentSubmitEvaluator struct {
	resubmit bool
}

func (ev *contentSubmitEvaluator) validate(vm *VM, op *ContentSubmit) merrors.MarketError {
	author, err := vm.st.GetAccount(op.Author)
	if err != nil {
		return merrors.Newf(merrors.NotFound, "author account %d does not exist", op.Author)
	}

	if len(op.CoAuthors) != 0 {
		var sumOfSplits uint64
		for _, id := range sortedIDs(op.CoAuthors) {
			if !vm.st.HasAccount(id) {
				return merrors.Newf(merrors.NotFound, "co-author account %d does not exist", id)
			}
			sumOfSplits += uint64(op.CoAuthors[id])
		}

		// The author may be left out of the split map, in which case
		// the unassigned basis points are the author's share and are
		// resolved from the payout remainder.
		if _, ok := op.CoAuthors[op.Author]; !ok {
			if sumOfSplits >= build.BasisPoints {
				return merrors.New(merrors.Rejected, "sum of splits exceeds allowed limit (no remaining basis points for author's payout split)")
			}
		} else if sumOfSplits != build.BasisPoints {
			return merrors.Newf(merrors.Rejected, "sum of splits doesn't have required value (%d basis points)", build.BasisPoints)
		}
	}

	if len(op.Seeders) == 0 {
		return merrors.New(merrors.Rejected, "content must name at least one seeder")
	}
	if len(op.Seeders) != len(op.KeyParts) {
		return merrors.New(merrors.Rejected, "seeders and key parts must pair up")
	}

	if vm.now > op.Expiration {
		return merrors.New(merrors.Rejected, "content expiration is in the past")
	}
	days := uint64(op.Expiration-vm.now) / build.Day
	if days == 0 {
		return merrors.New(merrors.Rejected, "time to expiration has to be at least one day")
	}

	existing, err := vm.st.GetContent(op.URI)
	if err == nil {
		// Resubmission may only touch synopsis, price and co-authors;
		// everything tied to escrow sizing and key distribution is
		// locked to the first submission.
		ev.resubmit = true
		if existing.Author != op.Author {
			return merrors.New(merrors.Rejected, "resubmission must keep the author")
		}
		if existing.Size != op.Size {
			return merrors.New(merrors.Rejected, "resubmission must keep the content size")
		}
		if !existing.Hash.Equals(op.Hash) {
			return merrors.New(merrors.Rejected, "resubmission must keep the content hash")
		}
		if existing.Expiration != op.Expiration {
			return merrors.New(merrors.Rejected, "resubmission must keep the expiration")
		}
		if existing.Quorum != op.Quorum {
			return merrors.New(merrors.Rejected, "resubmission must keep the quorum")
		}
		if len(existing.KeyParts) != len(op.Seeders) {
			return merrors.New(merrors.Rejected, "resubmission must keep the seeder set")
		}
		for _, id := range sortedIDs(existing.KeyParts) {
			if !containsAccount(op.Seeders, id) {
				return merrors.Newf(merrors.Rejected, "resubmission must keep seeder %d", id)
			}
		}
		if !existing.Custody.Equals(op.Custody) {
			return merrors.New(merrors.Rejected, "resubmission must keep the custody descriptor")
		}
		return nil
	}

	// First submission: the publishing fee escrows the seeders' pay
	// for the whole lifetime, so it is sized against their prices now.
	totalPricePerDay := types.NewInt(0)
	for _, id := range op.Seeders {
		seeder, err := vm.st.GetSeeder(id)
		if err != nil {
			return merrors.Newf(merrors.NotFound, "seeder %d does not exist", id)
		}
		if seeder.FreeSpace <= op.Size {
			return merrors.Newf(merrors.Rejected, "seeder %d has no free space for the content", id)
		}
		totalPricePerDay = types.BigAdd(totalPricePerDay, types.BigMul(seeder.Price, types.NewInt(op.Size)))
	}
	if types.BigMul(types.NewInt(days), totalPricePerDay).GreaterThan(op.PublishingFee) {
		return merrors.New(merrors.Rejected, "publishing fee does not cover seeding for the time to expiration")
	}

	if author.Balance.LessThan(op.PublishingFee) {
		return merrors.New(merrors.Rejected, "author cannot cover the publishing fee")
	}

	return nil
}

func (ev *contentSubmitEvaluator) apply(vm *VM, op *ContentSubmit) merrors.MarketError {
	title := ExtractTitle(op.Synopsis)

	if ev.resubmit {
		c, err := vm.st.GetContent(op.URI)
		if err != nil {
			return merrors.Escalate(err, "content vanished between validate and apply")
		}

		oldTitle := ExtractTitle(c.Synopsis)
		if err := vm.auditRewrite(oldTitle, title); err != nil {
			return merrors.Escalate(err, "rewriting audit entry for resubmitted content")
		}

		c.Price = op.Price.Normalize()
		c.Synopsis = op.Synopsis
		c.CoAuthors = copySplits(op.CoAuthors)
		return nil
	}

	keyParts := make(map[types.AccountID]types.KeyFragment, len(op.Seeders))
	for i, id := range op.Seeders {
		keyParts[id] = op.KeyParts[i]
	}

	vm.st.CreateContent(&state.Content{
		Author:              op.Author,
		CoAuthors:           copySplits(op.CoAuthors),
		URI:                 op.URI,
		Synopsis:            op.Synopsis,
		Size:                op.Size,
		Hash:                op.Hash,
		Price:               op.Price.Normalize(),
		KeyParts:            keyParts,
		Quorum:              op.Quorum,
		Custody:             op.Custody,
		Created:             vm.now,
		Expiration:          op.Expiration,
		PublishingFeeEscrow: op.PublishingFee,
		LastProof:           make(map[types.AccountID]types.Timestamp),
	})

	if err := vm.st.AdjustBalance(op.Author, types.BigSub(types.NewInt(0), op.PublishingFee)); err != nil {
		return merrors.Escalate(err, "escrowing the publishing fee")
	}

	// Reserve the space on the seeders' boxes.
	for _, id := range op.Seeders {
		seeder, err := vm.st.GetSeeder(id)
		if err != nil {
			return merrors.Escalate(err, "seeder vanished between validate and apply")
		}
		seeder.FreeSpace -= op.Size
	}

	if err := vm.auditAppend(audit.Entry{
		Type:        audit.ContentSubmit,
		From:        op.Author,
		Amount:      op.PublishingFee,
		Description: title,
		Timestamp:   vm.now,
	}); err != nil {
		return merrors.Escalate(err, "recording content submission")
	}
	return nil
}

func validateContentCancellation(vm *VM, op *ContentCancellation) merrors.MarketError {
	c, err := vm.st.GetContent(op.URI)
	if err != nil {
		return merrors.Newf(merrors.NotFound, "content %q does not exist", op.URI)
	}
	if c.Author != op.Author {
		return merrors.New(merrors.Unauthorized, "only the author may cancel a content")
	}
	if c.Expired(vm.now) {
		return merrors.New(merrors.Rejected, "content already expired")
	}
	if c.IsBlocked {
		return merrors.New(merrors.Rejected, "content already canceled")
	}
	return nil
}

func applyContentCancellation(vm *VM, op *ContentCancellation) merrors.MarketError {
	c, err := vm.st.GetContent(op.URI)
	if err != nil {
		return merrors.Escalate(err, "content vanished between validate and apply")
	}

	// Blocked, but with a grace window so deliveries already under way
	// can still reach quorum.
	c.IsBlocked = true
	if c.Expiration > vm.now+build.CancellationGracePeriod {
		c.Expiration = vm.now + build.CancellationGracePeriod
	}
	return nil
}
