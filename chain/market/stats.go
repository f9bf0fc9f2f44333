package market

import (
	"github.com/dcore-project/dcore/chain/market/merrors"
)

func validateReportStats(vm *VM, op *ReportStats) merrors.MarketError {
	// Stats reports are produced by the seeding layer against
	// registered seeders; no user-level precondition applies.
	return nil
}

func applyReportStats(vm *VM, op *ReportStats) merrors.MarketError {
	for _, id := range sortedIDs(op.Stats) {
		stats, err := vm.st.GetSeedingStatistics(id)
		if err != nil {
			// A report naming an unregistered seeder breaks the
			// collaborator contract with the reporting layer.
			return merrors.Escalate(err, "stats report for unregistered seeder")
		}
		stats.TotalUpload += op.Stats[id]
	}
	return nil
}
