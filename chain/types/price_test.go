package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPriceTableForRegion(t *testing.T) {
	regional := PriceTable{
		3: {Asset: BaseAsset, Amount: NewInt(10)},
		7: {Asset: BaseAsset, Amount: NewInt(20)},
	}

	p, ok := regional.ForRegion(7)
	assert.True(t, ok)
	assert.Equal(t, NewInt(20), p.Amount)

	_, ok = regional.ForRegion(5)
	assert.False(t, ok)

	// A simple worldwide price shadows every regional entry.
	simple := PriceTable{
		RegionNone: {Asset: BaseAsset, Amount: NewInt(99)},
		7:          {Asset: BaseAsset, Amount: NewInt(20)},
	}
	p, ok = simple.ForRegion(7)
	assert.True(t, ok)
	assert.Equal(t, NewInt(99), p.Amount)
}

func TestPriceTableNormalize(t *testing.T) {
	mixed := PriceTable{
		RegionNone: {Asset: BaseAsset, Amount: NewInt(99)},
		7:          {Asset: BaseAsset, Amount: NewInt(20)},
	}
	n := mixed.Normalize()
	assert.Len(t, n, 1)
	assert.Equal(t, NewInt(99), n[RegionNone].Amount)

	regional := PriceTable{
		3: {Asset: BaseAsset, Amount: NewInt(10)},
	}
	n = regional.Normalize()
	assert.Len(t, n, 1)
	assert.Equal(t, NewInt(10), n[3].Amount)
}

func TestCustodyDescriptorEquals(t *testing.T) {
	a := &CustodyDescriptor{Data: []byte("x")}
	b := &CustodyDescriptor{Data: []byte("x")}
	c := &CustodyDescriptor{Data: []byte("y")}

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
	assert.False(t, a.Equals(nil))
	assert.True(t, (*CustodyDescriptor)(nil).Equals(nil))
}
