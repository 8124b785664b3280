package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogItem is a simple named record scoped to its owner. Brands,
// materials, tags and purchase channels all share this shape and differ only
// in which collection they live in.
type CatalogItem struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	CreatedBy primitive.ObjectID `bson:"createdBy" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Catalog collection names.
const (
	CollBrands           = "brands"
	CollMaterials        = "materials"
	CollTags             = "tags"
	CollPurchaseChannels = "purchase_channels"
)
