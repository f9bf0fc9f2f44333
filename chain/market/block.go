package market

import (
	"github.com/dcore-project/dcore/chain/market/merrors"
	"github.com/dcore-project/dcore/chain/types"
)

// ProcessBlock runs an ordered slice of operations at the given chain
// position and returns the applied-operation log: each input operation
// followed immediately by whatever synthetic operations its applier
// emitted, in emission order.
//
// Any failure invalidates the whole block; the caller must discard the
// state handle, since operations preceding the failed one have already
// been applied to it.
func (vm *VM) ProcessBlock(now types.Timestamp, height uint64, ops []Operation) ([]Operation, merrors.MarketError) {
	vm.SetEpoch(now, height)

	applied := make([]Operation, 0, len(ops))
	for i, op := range ops {
		if err := vm.ApplyOperation(op); err != nil {
			return nil, merrors.Wrapf(err, "operation %d (%s) invalidates the block", i, op.Kind())
		}
		applied = append(applied, op)
		applied = append(applied, vm.Drain()...)
	}
	return applied, nil
}
