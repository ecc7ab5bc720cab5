package usecase

import (
	"context"
	"errors"
	"testing"

	"korx-catalog/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedTower(api *fakeAPI) {
	api.properties[1] = domain.RawPropertyInput{
		"property_id":       1.0,
		"record_kind":       "container",
		"property_category": "tower",
		"facilities":        `["Elevator","Generator"]`,
		"Area":              map[string]interface{}{"name": "Shahr-e Naw (District 4)"},
		"province_name":     "Kabul",
	}
	api.properties[2] = domain.RawPropertyInput{
		"property_id":   2.0,
		"parent_id":     1.0,
		"property_type": "apartment",
		"unit_number":   "4B",
		"floor":         "2",
		"for_rent":      "yes",
		"rent_price":    "15000",
		"photos":        `["/m/1.jpg","bad:x"]`,
	}
	api.children[1] = []domain.RawPropertyInput{
		api.properties[2],
		{"property_id": 3.0, "parent_id": 99.0, "property_type": "shop"},
	}
}

func TestGetListingUseCase_ChildResolvesParent(t *testing.T) {
	api := newFakeAPI()
	seedTower(api)
	favs := fakeFavorites{2: true}

	uc := NewGetListingUseCase(api, favs, prefixResolver("https://cdn.example/"), domain.VisibilityOwnerOnly)
	view, err := uc.Execute(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, "Apartment 4B (Floor 2)", view.Title)
	assert.Equal(t, "15,000 AF/mo", view.Price)
	assert.Equal(t, "Shahr-e Naw, Kabul", view.Address)
	assert.True(t, view.IsFavorite)
	assert.Equal(t, []string{"https://cdn.example/m/1.jpg"}, view.Photos)
	require.Len(t, view.Amenities, 2)
	assert.True(t, view.Amenities[0].Inherited)
}

func TestGetListingUseCase_MissingParentIsNotFatal(t *testing.T) {
	api := newFakeAPI()
	api.properties[5] = domain.RawPropertyInput{"id": 5.0, "parentId": 404.0, "propertyType": "office"}

	uc := NewGetListingUseCase(api, fakeFavorites{}, nil, domain.VisibilityPrivate)
	view, err := uc.Execute(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Location not specified", view.Address)
	assert.Equal(t, string(domain.VisibilityPrivate), view.Visibility)
}

func TestGetListingUseCase_NotFound(t *testing.T) {
	uc := NewGetListingUseCase(newFakeAPI(), fakeFavorites{}, nil, "")
	_, err := uc.Execute(context.Background(), 7)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetChildrenUseCase_FiltersForeignRecords(t *testing.T) {
	api := newFakeAPI()
	seedTower(api)

	uc := NewGetChildrenUseCase(api, fakeFavorites{}, nil, domain.VisibilityOwnerOnly)
	views, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(2), views[0].PropertyID)
	assert.Equal(t, "Shahr-e Naw, Kabul", views[0].Address)

	views, err = uc.Execute(context.Background(), 2)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestGetLookupsUseCase_CachesAndValidates(t *testing.T) {
	api := newFakeAPI()
	api.lookups["district:1"] = []domain.LookupItem{{ID: 10, Name: "District 10"}}
	kv := &fakeKV{data: map[string]string{}}

	uc := NewGetLookupsUseCase(api, kv, 0)
	ctx := context.Background()

	_, err := uc.Execute(ctx, domain.LookupDistrict, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	parent := int64(1)
	first, err := uc.Execute(ctx, domain.LookupDistrict, &parent)
	require.NoError(t, err)
	second, err := uc.Execute(ctx, domain.LookupDistrict, &parent)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.lookupHits)
	assert.Contains(t, kv.data, "lookups:district:1")

	provinces, err := uc.Execute(ctx, domain.LookupProvince, &parent)
	require.NoError(t, err)
	assert.Equal(t, []domain.LookupItem{}, provinces)
	assert.Contains(t, kv.data, "lookups:province")
}

func TestToggleFavoriteUseCase(t *testing.T) {
	favs := fakeFavorites{}
	uc := NewToggleFavoriteUseCase(favs)

	on, err := uc.Execute(context.Background(), 4)
	require.NoError(t, err)
	assert.True(t, on)

	off, err := uc.Execute(context.Background(), 4)
	require.NoError(t, err)
	assert.False(t, off)

	_, err = uc.Execute(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
