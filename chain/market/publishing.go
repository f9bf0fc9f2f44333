package market

import (
	"github.com/dcore-project/dcore/build"
	"github.com/dcore-project/dcore/chain/market/merrors"
	"github.com/dcore-project/dcore/chain/types"
)

func validateSetPublishingManager(vm *VM, op *SetPublishingManager) merrors.MarketError {
	for _, id := range op.To {
		if !vm.st.HasAccount(id) {
			return merrors.Newf(merrors.NotFound, "account %d does not exist", id)
		}
	}
	if op.From != build.SystemAccount {
		return merrors.New(merrors.Unauthorized, "this operation is permitted only to the system account")
	}
	return nil
}

func applySetPublishingManager(vm *VM, op *SetPublishingManager) merrors.MarketError {
	for _, id := range op.To {
		acc, err := vm.st.GetAccount(id)
		if err != nil {
			return merrors.Escalate(err, "target account vanished between validate and apply")
		}

		if op.CanCreatePublishers {
			acc.Rights.IsPublishingManager = true
			continue
		}

		// Revocation clears the whole delegation fan-out. Both sides
		// of the forwarded/received relation stay mirrored.
		for _, pub := range sortedIDs(acc.Rights.Forwarded) {
			pubAcc, err := vm.st.GetAccount(pub)
			if err != nil {
				return merrors.Escalate(err, "publisher account missing while revoking rights")
			}
			delete(pubAcc.Rights.Received, id)
		}
		acc.Rights.IsPublishingManager = false
		acc.Rights.Forwarded = make(map[types.AccountID]struct{})
	}
	return nil
}

func validateSetPublishingRight(vm *VM, op *SetPublishingRight) merrors.MarketError {
	from, err := vm.st.GetAccount(op.From)
	if err != nil {
		return merrors.Newf(merrors.NotFound, "account %d does not exist", op.From)
	}
	if !from.Rights.IsPublishingManager {
		return merrors.New(merrors.Unauthorized, "account does not have permission to give publishing rights")
	}
	for _, id := range op.To {
		if !vm.st.HasAccount(id) {
			return merrors.Newf(merrors.NotFound, "account %d does not exist", id)
		}
	}
	return nil
}

func applySetPublishingRight(vm *VM, op *SetPublishingRight) merrors.MarketError {
	from, err := vm.st.GetAccount(op.From)
	if err != nil {
		return merrors.Escalate(err, "granting account vanished between validate and apply")
	}

	for _, id := range op.To {
		to, err := vm.st.GetAccount(id)
		if err != nil {
			return merrors.Escalate(err, "target account vanished between validate and apply")
		}

		if op.IsPublisher {
			from.Rights.Forwarded[id] = struct{}{}
			to.Rights.Received[op.From] = struct{}{}
		} else {
			delete(from.Rights.Forwarded, id)
			delete(to.Rights.Received, op.From)
		}
	}
	return nil
}
