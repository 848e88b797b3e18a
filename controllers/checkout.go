package controllers

import (
	"kisancart/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one entry of the client-held cart sent at checkout.
type CartLine struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

// splitCartByFarmer partitions cart lines by the farmer owning each
// referenced crop and builds one placed order per distinct farmer. Each
// line becomes an item with pricePerUnit snapshotted from the crop's
// current price; totalAmount sums quantity × pricePerUnit over the
// farmer's items. Orders come back in order of the farmer's first
// appearance in the cart. Product ids missing from crops are returned
// separately so the caller can reject the checkout.
func splitCartByFarmer(buyer primitive.ObjectID, lines []CartLine, crops map[string]models.Crop) ([]models.Order, []string) {
	var orders []models.Order
	var unknown []string
	orderIndex := make(map[primitive.ObjectID]int)

	for _, line := range lines {
		crop, ok := crops[line.ProductID]
		if !ok {
			unknown = append(unknown, line.ProductID)
			continue
		}

		idx, ok := orderIndex[crop.Farmer]
		if !ok {
			idx = len(orders)
			orderIndex[crop.Farmer] = idx
			orders = append(orders, models.Order{
				Buyer:  buyer,
				Farmer: crop.Farmer,
				Status: models.StatusPlaced,
			})
		}

		orders[idx].Items = append(orders[idx].Items, models.OrderItem{
			Product:      crop.ID,
			Quantity:     line.Quantity,
			PricePerUnit: crop.Price,
		})
		orders[idx].TotalAmount += float64(line.Quantity) * crop.Price
	}

	return orders, unknown
}

// quantityByProduct sums the quantity ordered per product across all cart
// lines, so stock checks see the combined demand of duplicate lines.
func quantityByProduct(lines []CartLine) map[string]int {
	needed := make(map[string]int)
	for _, line := range lines {
		needed[line.ProductID] += line.Quantity
	}
	return needed
}
