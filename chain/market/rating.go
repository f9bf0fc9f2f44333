package market

import (
	"fmt"

	"github.com/dcore-project/dcore/build"
	"github.com/dcore-project/dcore/chain/audit"
	"github.com/dcore-project/dcore/chain/market/merrors"
	"github.com/dcore-project/dcore/chain/state"
	"github.com/dcore-project/dcore/chain/types"
)

func validateLeaveRating(vm *VM, op *LeaveRatingAndComment) merrors.MarketError {
	if op.Rating < 1 || op.Rating > 5 {
		return merrors.Newf(merrors.Rejected, "rating %d is out of the 1-5 range", op.Rating)
	}
	if _, err := vm.st.GetContent(op.URI); err != nil {
		return merrors.Newf(merrors.NotFound, "content %q does not exist", op.URI)
	}
	b, err := vm.st.GetBuyingByConsumerURI(op.Consumer, op.URI)
	if err != nil {
		return merrors.Newf(merrors.NotFound, "no buying order for consumer %d and content %q", op.Consumer, op.URI)
	}
	if !b.Delivered {
		return merrors.New(merrors.Rejected, "not delivered")
	}
	if b.RatedOrCommented {
		return merrors.New(merrors.Rejected, "already rated or commented")
	}
	return nil
}

func applyLeaveRating(vm *VM, op *LeaveRatingAndComment) merrors.MarketError {
	b, err := vm.st.GetBuyingByConsumerURI(op.Consumer, op.URI)
	if err != nil {
		return merrors.Escalate(err, "buying order vanished between validate and apply")
	}
	c, err := vm.st.GetContent(op.URI)
	if err != nil {
		return merrors.Escalate(err, "content vanished between validate and apply")
	}

	vm.st.CreateRating(&state.Rating{
		Buying:   b.ID,
		Consumer: op.Consumer,
		URI:      op.URI,
		Rating:   op.Rating,
		Comment:  op.Comment,
	})

	b.RatedOrCommented = true
	b.Rating = op.Rating

	// The running average is updated incrementally, never recomputed
	// from a stored sum. The exact order of operations is replayed by
	// every node and must not change.
	if c.NumRatings == 0 {
		c.AvgRating = op.Rating * build.RatingScale
		c.NumRatings++
	} else {
		c.AvgRating = (c.AvgRating*c.NumRatings + op.Rating*build.RatingScale) / (c.NumRatings + 1)
		c.NumRatings++
	}

	if err := vm.auditAppend(audit.Entry{
		Type:        audit.ContentRate,
		From:        op.Consumer,
		To:          c.Author,
		Amount:      types.NewInt(0),
		Description: fmt.Sprintf("%d (%s)", op.Rating, ExtractTitle(c.Synopsis)),
		Timestamp:   vm.now,
	}); err != nil {
		return merrors.Escalate(err, "recording rating")
	}
	return nil
}
