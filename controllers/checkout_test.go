package controllers

import (
	"testing"

	"kisancart/models"
	"kisancart/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func makeCrop(farmer primitive.ObjectID, price float64) models.Crop {
	return models.Crop{
		ID:     primitive.NewObjectID(),
		Farmer: farmer,
		Price:  price,
	}
}

func TestSplitCartByFarmer_TwoFarmers(t *testing.T) {
	buyer := primitive.NewObjectID()
	farmer1 := primitive.NewObjectID()
	farmer2 := primitive.NewObjectID()

	cropA := makeCrop(farmer1, 10)
	cropB := makeCrop(farmer2, 5)
	crops := map[string]models.Crop{
		cropA.ID.Hex(): cropA,
		cropB.ID.Hex(): cropB,
	}

	lines := []CartLine{
		{ProductID: cropA.ID.Hex(), Quantity: 2},
		{ProductID: cropB.ID.Hex(), Quantity: 3},
	}

	orders, unknown := splitCartByFarmer(buyer, lines, crops)
	require.Empty(t, unknown)
	require.Len(t, orders, 2)

	assert.Equal(t, farmer1, orders[0].Farmer)
	assert.Equal(t, 20.0, orders[0].TotalAmount)
	assert.Equal(t, farmer2, orders[1].Farmer)
	assert.Equal(t, 15.0, orders[1].TotalAmount)

	for _, order := range orders {
		assert.Equal(t, buyer, order.Buyer)
		assert.Equal(t, models.StatusPlaced, order.Status)
	}
}

func TestSplitCartByFarmer_OneOrderPerDistinctFarmer(t *testing.T) {
	buyer := primitive.NewObjectID()
	farmers := []primitive.ObjectID{
		primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID(),
	}

	// Three farmers with two crops each, interleaved in the cart.
	crops := map[string]models.Crop{}
	var lines []CartLine
	for i := 0; i < 2; i++ {
		for _, farmer := range farmers {
			crop := makeCrop(farmer, float64(i+1))
			crops[crop.ID.Hex()] = crop
			lines = append(lines, CartLine{ProductID: crop.ID.Hex(), Quantity: 1})
		}
	}

	orders, unknown := splitCartByFarmer(buyer, lines, crops)
	require.Empty(t, unknown)
	require.Len(t, orders, len(farmers))

	for i, order := range orders {
		assert.Equal(t, farmers[i], order.Farmer)
		require.Len(t, order.Items, 2)
		// Every item belongs to the order's farmer.
		for _, item := range order.Items {
			assert.Equal(t, order.Farmer, crops[item.Product.Hex()].Farmer)
		}
		// 1×1 + 1×2
		assert.Equal(t, 3.0, order.TotalAmount)
	}
}

func TestSplitCartByFarmer_TotalSumsLineItems(t *testing.T) {
	buyer := primitive.NewObjectID()
	farmer := primitive.NewObjectID()

	cropA := makeCrop(farmer, 12.5)
	cropB := makeCrop(farmer, 7.25)
	crops := map[string]models.Crop{
		cropA.ID.Hex(): cropA,
		cropB.ID.Hex(): cropB,
	}

	orders, unknown := splitCartByFarmer(buyer, []CartLine{
		{ProductID: cropA.ID.Hex(), Quantity: 4},
		{ProductID: cropB.ID.Hex(), Quantity: 2},
	}, crops)
	require.Empty(t, unknown)
	require.Len(t, orders, 1)

	var want float64
	for _, item := range orders[0].Items {
		want += float64(item.Quantity) * item.PricePerUnit
	}
	assert.Equal(t, want, orders[0].TotalAmount)
	assert.Equal(t, 64.5, orders[0].TotalAmount)
}

func TestSplitCartByFarmer_SnapshotsPrice(t *testing.T) {
	buyer := primitive.NewObjectID()
	crop := makeCrop(primitive.NewObjectID(), 30)
	crops := map[string]models.Crop{crop.ID.Hex(): crop}

	orders, _ := splitCartByFarmer(buyer, []CartLine{
		{ProductID: crop.ID.Hex(), Quantity: 1},
	}, crops)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 30.0, orders[0].Items[0].PricePerUnit)
	assert.Equal(t, crop.ID, orders[0].Items[0].Product)
}

func TestSplitCartByFarmer_ReportsUnknownProducts(t *testing.T) {
	buyer := primitive.NewObjectID()
	crop := makeCrop(primitive.NewObjectID(), 10)
	crops := map[string]models.Crop{crop.ID.Hex(): crop}

	missing := primitive.NewObjectID().Hex()
	orders, unknown := splitCartByFarmer(buyer, []CartLine{
		{ProductID: crop.ID.Hex(), Quantity: 1},
		{ProductID: missing, Quantity: 2},
	}, crops)

	require.Len(t, orders, 1)
	assert.Equal(t, []string{missing}, unknown)
}

func TestSplitCartByFarmer_EmptyCart(t *testing.T) {
	orders, unknown := splitCartByFarmer(primitive.NewObjectID(), nil, nil)
	assert.Empty(t, orders)
	assert.Empty(t, unknown)
}

func TestQuantityByProduct_MergesDuplicateLines(t *testing.T) {
	id := primitive.NewObjectID().Hex()
	other := primitive.NewObjectID().Hex()

	needed := quantityByProduct([]CartLine{
		{ProductID: id, Quantity: 2},
		{ProductID: other, Quantity: 1},
		{ProductID: id, Quantity: 3},
	})

	assert.Equal(t, 5, needed[id])
	assert.Equal(t, 1, needed[other])
}

func TestCheckoutRequestValidation(t *testing.T) {
	err := utils.ValidateStruct(checkoutRequest{})
	assert.Error(t, err)

	err = utils.ValidateStruct(checkoutRequest{Cart: []CartLine{
		{ProductID: primitive.NewObjectID().Hex(), Quantity: 0},
	}})
	assert.Error(t, err, "zero quantity must be rejected")

	err = utils.ValidateStruct(checkoutRequest{Cart: []CartLine{
		{ProductID: "", Quantity: 1},
	}})
	assert.Error(t, err, "empty product id must be rejected")

	err = utils.ValidateStruct(checkoutRequest{Cart: []CartLine{
		{ProductID: primitive.NewObjectID().Hex(), Quantity: 1},
	}})
	assert.NoError(t, err)
}
