package market

import (
	"github.com/dcore-project/dcore/build"
	"github.com/dcore-project/dcore/chain/audit"
	"github.com/dcore-project/dcore/chain/market/merrors"
	"github.com/dcore-project/dcore/chain/state"
	"github.com/dcore-project/dcore/chain/types"
)

// requestToBuyEvaluator carries the subscription-waiver fact from
// validation into application.
type requestToBuyEvaluator struct {
	subscriber bool
}

func (ev *requestToBuyEvaluator) validate(vm *VM, op *RequestToBuy) merrors.MarketError {
	c, err := vm.st.GetContent(op.URI)
	if err != nil {
		return merrors.Newf(merrors.NotFound, "content %q does not exist", op.URI)
	}

	consumer, err := vm.st.GetAccount(op.Consumer)
	if err != nil {
		return merrors.Newf(merrors.NotFound, "consumer account %d does not exist", op.Consumer)
	}
	if consumer.Balance.LessThan(op.Price) {
		return merrors.New(merrors.Rejected, "consumer cannot cover the offered price")
	}

	if c.Expired(vm.now) {
		return merrors.New(merrors.Rejected, "content expired")
	}

	listed, ok := c.Price.ForRegion(op.Region)
	if !ok {
		return merrors.New(merrors.Rejected, "content not available for this region")
	}

	if c.IsBlocked {
		return merrors.New(merrors.Rejected, "content has been canceled")
	}

	// An active subscription to the author waives the price entirely.
	if sub, err := vm.st.GetSubscription(op.Consumer, c.Author); err == nil && sub.Expiration > vm.now {
		ev.subscriber = true
	}

	basePrice := listed.Amount
	if listed.Asset != types.BaseAsset {
		// Listing priced in another asset: convert through the current
		// exchange feed.
		as, err := vm.st.GetAsset(listed.Asset)
		if err != nil {
			return merrors.Newf(merrors.NotFound, "asset %d does not exist", listed.Asset)
		}
		if as.Feed == nil {
			return merrors.New(merrors.NoPriceFeed, "no price feed for this asset")
		}
		basePrice = types.BigDiv(types.BigMul(listed.Amount, as.Feed.Numerator), as.Feed.Denominator)
	}

	if !ev.subscriber && op.Price.LessThan(basePrice) {
		return merrors.New(merrors.Rejected, "offered price is below the listed price")
	}
	return nil
}

func (ev *requestToBuyEvaluator) apply(vm *VM, op *RequestToBuy) merrors.MarketError {
	c, err := vm.st.GetContent(op.URI)
	if err != nil {
		return merrors.Escalate(err, "content vanished between validate and apply")
	}

	price := op.Price
	if ev.subscriber {
		price = types.NewInt(0)
	}

	b := &state.Buying{
		Consumer:   op.Consumer,
		URI:        op.URI,
		Price:      price,
		PaidPrice:  price,
		Region:     op.Region,
		PubKey:     op.PubKey,
		Expiration: vm.now + build.BuyingExpiration,

		// display snapshot
		Synopsis:      c.Synopsis,
		Size:          c.Size,
		Created:       c.Created,
		AverageRating: c.AvgRating,
	}
	vm.st.CreateBuying(b)

	if err := vm.st.AdjustBalance(op.Consumer, types.BigSub(types.NewInt(0), price)); err != nil {
		return merrors.Escalate(err, "escrowing the purchase price")
	}

	if err := vm.auditAppend(audit.Entry{
		Type:        audit.ContentBuy,
		From:        c.Author,
		To:          op.Consumer,
		Amount:      price,
		Description: ExtractTitle(c.Synopsis),
		Timestamp:   vm.now,
	}); err != nil {
		return merrors.Escalate(err, "recording purchase request")
	}
	return nil
}

func validateDeliverKeys(vm *VM, op *DeliverKeys) merrors.MarketError {
	b, err := vm.st.GetBuying(op.Buying)
	if err != nil {
		return merrors.Newf(merrors.NotFound, "buying order %d does not exist", op.Buying)
	}

	c, err := vm.st.GetContent(b.URI)
	if err != nil {
		return merrors.Newf(merrors.NotFound, "content %q does not exist", b.URI)
	}

	seeder, err := vm.st.GetSeeder(op.Seeder)
	if err != nil {
		return merrors.Newf(merrors.NotFound, "seeder %d does not exist", op.Seeder)
	}

	first, ok := c.KeyParts[op.Seeder]
	if !ok {
		return merrors.Newf(merrors.Rejected, "content holds no key fragment for seeder %d", op.Seeder)
	}

	if vm.sys.VerifyDeliveryProof == nil {
		return merrors.Fatal("delivery proof verification is not wired")
	}
	if !vm.sys.VerifyDeliveryProof(op.Proof, first, op.Key, seeder.PubKey, b.PubKey) {
		return merrors.New(merrors.Rejected, "invalid delivery proof")
	}
	return nil
}

func applyDeliverKeys(vm *VM, op *DeliverKeys) merrors.MarketError {
	b, err := vm.st.GetBuying(op.Buying)
	if err != nil {
		return merrors.Escalate(err, "buying order vanished between validate and apply")
	}
	c, err := vm.st.GetContent(b.URI)
	if err != nil {
		return merrors.Escalate(err, "content vanished between validate and apply")
	}

	expired := b.Expiration < vm.now

	// Note the response unless this seeder already answered; repeat
	// deliveries are idempotent for quorum counting.
	if !containsAccount(b.SeedersAnswered, op.Seeder) {
		b.SeedersAnswered = append(b.SeedersAnswered, op.Seeder)
		b.KeyParticles = append(b.KeyParticles, op.Key)
	}

	// A terminated order still records fragments but transitions no
	// further.
	if b.Delivered || b.Expired {
		return nil
	}

	if uint32(len(b.SeedersAnswered)) >= c.Quorum {
		return payoutBuying(vm, b, c)
	}
	if expired {
		if err := vm.expireBuying(b); err != nil {
			return merrors.Escalate(err, "expiring buying order")
		}
	}
	return nil
}

// payoutBuying settles a quorum-complete purchase: splits the escrowed
// price between author and co-authors and terminates the order.
func payoutBuying(vm *VM, b *state.Buying, c *state.Content) merrors.MarketError {
	price := b.Price

	c.TimesBought++

	// The settlement marker carries what the author ends up with: the
	// whole price without co-authors, the post-split remainder with.
	payout := price

	if len(c.CoAuthors) == 0 {
		if err := vm.st.AdjustBalance(c.Author, price); err != nil {
			return merrors.Escalate(err, "crediting the author")
		}
	} else {
		// Each co-author gets floor(price * split / basis points) of
		// the original price; the remainder, which carries both the
		// author's unassigned basis points and all rounding residue,
		// goes to the author. The multiplication happens before the
		// division at full big-int width.
		remainder := price
		for _, id := range sortedIDs(c.CoAuthors) {
			share := types.BigDiv(
				types.BigMul(price, types.NewInt(uint64(c.CoAuthors[id]))),
				types.NewInt(build.BasisPoints),
			)
			if err := vm.st.AdjustBalance(id, share); err != nil {
				return merrors.Escalate(err, "crediting a co-author")
			}
			remainder = types.BigSub(remainder, share)
		}

		if !remainder.IsZero() {
			if remainder.Sign() < 0 {
				return merrors.Fatalf("co-author payout exceeded the price by %s", types.BigSub(types.NewInt(0), remainder))
			}
			if err := vm.st.AdjustBalance(c.Author, remainder); err != nil {
				return merrors.Escalate(err, "crediting the author's remainder")
			}
		}
		payout = remainder
	}

	b.Price = types.NewInt(0)
	b.Delivered = true
	b.ExpirationOrDeliveryTime = vm.now

	vm.emit(&FinishBuying{
		Author:    c.Author,
		CoAuthors: copySplits(c.CoAuthors),
		Payout:    payout,
		Consumer:  b.Consumer,
		Buying:    b.ID,
	})
	return nil
}

// defaultExpireBuying is the built-in order-expiry cleanup: the
// escrowed price goes back to the consumer and the order terminates as
// expired.
func defaultExpireBuying(vm *VM, b *state.Buying) error {
	refund := b.Price

	if err := vm.st.AdjustBalance(b.Consumer, refund); err != nil {
		return err
	}

	b.Price = types.NewInt(0)
	b.Expired = true
	b.ExpirationOrDeliveryTime = vm.now

	vm.emit(&ReturnEscrowBuying{Consumer: b.Consumer, Buying: b.ID})

	return vm.auditAppend(audit.Entry{
		Type:      audit.EscrowReturn,
		To:        b.Consumer,
		Amount:    refund,
		Timestamp: vm.now,
	})
}
