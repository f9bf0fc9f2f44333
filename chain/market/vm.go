package market

import (
	logging "github.com/ipfs/go-log/v2"

	"github.com/dcore-project/dcore/chain/audit"
	"github.com/dcore-project/dcore/chain/state"
	"github.com/dcore-project/dcore/chain/types"
)

var log = logging.Logger("market")

// Syscalls are the external collaborator contracts the engine consumes
// but does not define: cryptographic verification, chain metadata, and
// order-expiry cleanup. Tests override individual fields.
type Syscalls struct {
	// VerifyDeliveryProof checks that second is first re-encrypted
	// from the seeder's key to the buyer's key.
	VerifyDeliveryProof func(proof types.DeliveryProof, first, second types.KeyFragment, seederKey, buyerKey []byte) bool

	// VerifyCustodyProof checks a custody proof against the content's
	// custody descriptor.
	VerifyCustodyProof func(cd *types.CustodyDescriptor, proof *types.CustodyProof) bool

	// BlockID returns the recorded id of a past block, for the custody
	// proof's stale-reference check.
	BlockID func(height uint64) ([]byte, error)

	// ExpireBuying cleans up a purchase order whose expiration passed
	// before quorum. When nil the VM's default (refund and mark
	// expired) is used.
	ExpireBuying func(vm *VM, b *state.Buying) error
}

// VM is the single state handle threaded through every validate/apply
// call. It owns the synthetic-operation queue: appliers emit follow-up
// operations which the block-processing layer drains in order,
// recording them immediately after the triggering operation.
//
// The VM is strictly sequential. Validators only read; an applier runs
// only after its validator succeeded, so a rejected operation leaves
// no observable state change.
type VM struct {
	st  *state.StateTree
	sys Syscalls
	aud audit.Log

	now    types.Timestamp
	height uint64

	applied []Operation
}

func NewVM(st *state.StateTree, sys Syscalls, aud audit.Log) *VM {
	return &VM{st: st, sys: sys, aud: aud}
}

func (vm *VM) StateTree() *state.StateTree { return vm.st }

func (vm *VM) Now() types.Timestamp { return vm.now }

func (vm *VM) Height() uint64 { return vm.height }

// SetEpoch moves the chain metadata forward before processing a
// block's operations.
func (vm *VM) SetEpoch(now types.Timestamp, height uint64) {
	vm.now = now
	vm.height = height
}

// Drain returns and clears the synthetic operations emitted since the
// last call, in emission order.
func (vm *VM) Drain() []Operation {
	out := vm.applied
	vm.applied = nil
	return out
}

func (vm *VM) emit(op Operation) {
	vm.applied = append(vm.applied, op)
}

func (vm *VM) auditAppend(e audit.Entry) error {
	if vm.aud == nil {
		return nil
	}
	return vm.aud.Append(e)
}

func (vm *VM) auditRewrite(old, new string) error {
	if vm.aud == nil {
		return nil
	}
	return vm.aud.RewriteDescription(old, new, vm.now)
}

func (vm *VM) expireBuying(b *state.Buying) error {
	if vm.sys.ExpireBuying != nil {
		return vm.sys.ExpireBuying(vm, b)
	}
	return defaultExpireBuying(vm, b)
}
