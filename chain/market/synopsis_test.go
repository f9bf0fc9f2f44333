package market_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dcore-project/dcore/chain/market"
)

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Big Buck Bunny", market.ExtractTitle(`{"title":"Big Buck Bunny","year":2008}`))
	assert.Equal(t, "", market.ExtractTitle(`{"name":"no title field"}`))
	assert.Equal(t, "", market.ExtractTitle(`not json`))
	assert.Equal(t, "", market.ExtractTitle(``))
}
