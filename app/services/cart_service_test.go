package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuseats/canteen/app/services"
)

func TestCartPriceComputesExactTotal(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	cart := services.NewCartService(catalogRepo(db))

	priced, err := cart.Price(f.canteen.ID, []services.CartLine{
		{MenuItemID: f.chai.ID, Quantity: 2},
		{MenuItemID: f.samosa.ID, Quantity: 3},
	})
	require.NoError(t, err)

	// 12.50*2 + 7.25*3 = 46.75, exactly.
	assert.True(t, priced.Total.Equal(dec("46.75")), "got %s", priced.Total)
	assert.Equal(t, f.canteen.ID, priced.CanteenID)
	require.Len(t, priced.Lines, 2)
	assert.True(t, priced.Lines[0].Price.Equal(dec("12.50")))
}

func TestCartPriceRejectsEmptyCart(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	cart := services.NewCartService(catalogRepo(db))

	_, err := cart.Price(f.canteen.ID, nil)
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCartPriceRejectsZeroQuantity(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	cart := services.NewCartService(catalogRepo(db))

	_, err := cart.Price(f.canteen.ID, []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 0}})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCartPriceRejectsUnknownCanteen(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	cart := services.NewCartService(catalogRepo(db))

	_, err := cart.Price(999, []services.CartLine{{MenuItemID: f.chai.ID, Quantity: 1}})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "canteen 999")
}

func TestCartPriceRejectsUnknownItem(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	cart := services.NewCartService(catalogRepo(db))

	_, err := cart.Price(f.canteen.ID, []services.CartLine{{MenuItemID: 9999, Quantity: 1}})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCartPriceRejectsUnavailableItem(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	cart := services.NewCartService(catalogRepo(db))

	_, err := cart.Price(f.canteen.ID, []services.CartLine{
		{MenuItemID: f.chai.ID, Quantity: 1},
		{MenuItemID: f.soldOut.ID, Quantity: 1},
	})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "unavailable")
}

func TestCartPriceRejectsItemFromAnotherCanteen(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	cart := services.NewCartService(catalogRepo(db))

	_, err := cart.Price(f.canteen.ID, []services.CartLine{
		{MenuItemID: f.chai.ID, Quantity: 1},
		{MenuItemID: f.biryani.ID, Quantity: 1},
	})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "does not belong to canteen")
}

func TestCartPriceDuplicateLinesAccumulate(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	cart := services.NewCartService(catalogRepo(db))

	priced, err := cart.Price(f.canteen.ID, []services.CartLine{
		{MenuItemID: f.chai.ID, Quantity: 1},
		{MenuItemID: f.chai.ID, Quantity: 2},
	})
	require.NoError(t, err)
	assert.True(t, priced.Total.Equal(dec("37.50")), "got %s", priced.Total)
	assert.Len(t, priced.Lines, 2)
}
