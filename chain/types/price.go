package types

// Price is an amount denominated in an asset. Listings may price in a
// non-base asset; settlement always happens in the base asset after
// feed conversion.
type Price struct {
	Asset  AssetID
	Amount BigInt
}

// PriceTable maps regions to prices. An entry under RegionNone is a
// simple worldwide price and shadows every regional entry.
type PriceTable map[RegionCode]Price

// ForRegion resolves the price offered to a buyer in the given region.
func (pt PriceTable) ForRegion(r RegionCode) (Price, bool) {
	if p, ok := pt[RegionNone]; ok {
		return p, true
	}
	p, ok := pt[r]
	return p, ok
}

// Normalize collapses the table to the simple price when one is
// present, matching how listings are stored on-ledger.
func (pt PriceTable) Normalize() PriceTable {
	if p, ok := pt[RegionNone]; ok {
		return PriceTable{RegionNone: p}
	}
	out := make(PriceTable, len(pt))
	for r, p := range pt {
		out[r] = p
	}
	return out
}
