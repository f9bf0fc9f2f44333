package market

import (
	"github.com/dcore-project/dcore/chain/market/merrors"
)

// ApplyOperation validates one operation against current state and, on
// success, applies it. Rejections carry the failed precondition; a
// fatal error means an internal invariant broke and the caller must
// stop processing.
//
// Evaluators that compute a fact during validation which application
// needs again (resubmission, subscription waiver) are instantiated per
// operation so the fact carries across without re-derivation.
func (vm *VM) ApplyOperation(op Operation) merrors.MarketError {
	log.Debugw("applying operation", "kind", op.Kind())

	var err merrors.MarketError
	switch o := op.(type) {
	case *SetPublishingManager:
		err = evalPair(vm, o, validateSetPublishingManager, applySetPublishingManager)
	case *SetPublishingRight:
		err = evalPair(vm, o, validateSetPublishingRight, applySetPublishingRight)
	case *ContentSubmit:
		ev := new(contentSubmitEvaluator)
		err = evalPair(vm, o, ev.validate, ev.apply)
	case *ContentCancellation:
		err = evalPair(vm, o, validateContentCancellation, applyContentCancellation)
	case *RequestToBuy:
		ev := new(requestToBuyEvaluator)
		err = evalPair(vm, o, ev.validate, ev.apply)
	case *DeliverKeys:
		err = evalPair(vm, o, validateDeliverKeys, applyDeliverKeys)
	case *LeaveRatingAndComment:
		err = evalPair(vm, o, validateLeaveRating, applyLeaveRating)
	case *ReadyToPublish:
		err = evalPair(vm, o, validateReadyToPublish, applyReadyToPublish)
	case *ProofOfCustody:
		err = evalPair(vm, o, validateProofOfCustody, applyProofOfCustody)
	case *ReportStats:
		err = evalPair(vm, o, validateReportStats, applyReportStats)
	case *ReturnEscrowSubmission, *ReturnEscrowBuying, *PaySeeder, *FinishBuying:
		// audit markers: always valid, no mutation
		err = nil
	default:
		err = merrors.Fatalf("unhandled operation kind %q", op.Kind())
	}

	if err != nil {
		if err.IsFatal() {
			log.Errorw("fatal failure applying operation", "kind", op.Kind(), "error", err)
		} else {
			log.Debugw("operation rejected", "kind", op.Kind(), "retcode", err.RetCode(), "error", err)
		}
	}
	return err
}

func evalPair[O Operation](vm *VM, op O, validate, apply func(*VM, O) merrors.MarketError) merrors.MarketError {
	if err := validate(vm, op); err != nil {
		return err
	}
	return apply(vm, op)
}
