package market

import (
	"github.com/dcore-project/dcore/build"
	"github.com/dcore-project/dcore/chain/market/merrors"
	"github.com/dcore-project/dcore/chain/state"
)

func validateReadyToPublish(vm *VM, op *ReadyToPublish) merrors.MarketError {
	// No preconditions: anybody may announce seeding capacity.
	return nil
}

func applyReadyToPublish(vm *VM, op *ReadyToPublish) merrors.MarketError {
	seeder, err := vm.st.GetSeeder(op.Seeder)
	if err != nil {
		// Initial publish request: the seeder record and its zeroed
		// statistics record come into existence together.
		vm.st.CreateSeeder(&state.Seeder{
			Seeder:     op.Seeder,
			FreeSpace:  op.Space,
			Price:      op.PricePerMiB,
			PubKey:     op.PubKey,
			RoutingID:  op.RoutingID,
			Expiration: vm.now + build.SeederExpiration,
		})
		return nil
	}

	// Republish: refresh capacity, terms and expiration.
	seeder.FreeSpace = op.Space
	seeder.Price = op.PricePerMiB
	seeder.PubKey = op.PubKey
	seeder.RoutingID = op.RoutingID
	seeder.Expiration = vm.now + build.SeederExpiration
	return nil
}
