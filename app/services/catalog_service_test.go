package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuseats/canteen/app/services"
)

func TestMenuItemsHideUnavailableFromPublicListing(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := services.NewCatalogService(catalogRepo(db))

	public, err := svc.MenuItems(f.canteen.ID, 0, false)
	require.NoError(t, err)
	for _, item := range public {
		assert.True(t, item.IsAvailable)
	}

	admin, err := svc.MenuItems(f.canteen.ID, 0, true)
	require.NoError(t, err)
	assert.Greater(t, len(admin), len(public))
}

func TestCreateMenuItemValidatesPrice(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := services.NewCatalogService(catalogRepo(db))

	var verr *services.ValidationError

	_, err := svc.CreateMenuItem(services.MenuItemInput{
		CanteenID: f.canteen.ID, Name: "Free Water", Price: dec("0"),
	})
	require.ErrorAs(t, err, &verr)

	_, err = svc.CreateMenuItem(services.MenuItemInput{
		CanteenID: f.canteen.ID, Name: "Odd Price", Price: dec("10.999"),
	})
	require.ErrorAs(t, err, &verr)

	item, err := svc.CreateMenuItem(services.MenuItemInput{
		CanteenID: f.canteen.ID, Name: "Lassi", Price: dec("25.50"), IsAvailable: true,
	})
	require.NoError(t, err)
	assert.True(t, item.Price.Equal(dec("25.50")))
}

func TestCreateMenuItemRequiresExistingCanteen(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)
	svc := services.NewCatalogService(catalogRepo(db))

	_, err := svc.CreateMenuItem(services.MenuItemInput{
		CanteenID: 9999, Name: "Orphan", Price: dec("10.00"),
	})
	var verr *services.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestUpdateCategoryRenames(t *testing.T) {
	db := newTestDB(t)
	seedFixtures(t, db)
	svc := services.NewCatalogService(catalogRepo(db))

	category, err := svc.CreateCategory("Snaks")
	require.NoError(t, err)

	renamed, err := svc.UpdateCategory(category.ID, "Snacks")
	require.NoError(t, err)
	assert.Equal(t, category.ID, renamed.ID)
	assert.Equal(t, "Snacks", renamed.Name)

	_, err = svc.UpdateCategory(9999, "Ghost")
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestUpdateMenuItemUnknownIDIsNotFound(t *testing.T) {
	db := newTestDB(t)
	f := seedFixtures(t, db)
	svc := services.NewCatalogService(catalogRepo(db))

	_, err := svc.UpdateMenuItem(9999, services.MenuItemInput{
		CanteenID: f.canteen.ID, Name: "Ghost", Price: dec("10.00"),
	})
	assert.ErrorIs(t, err, services.ErrNotFound)
}
