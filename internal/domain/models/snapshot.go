package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StatsSnapshot is one owner's aggregated inventory state captured by the
// nightly snapshot job.
type StatsSnapshot struct {
	OwnerID   primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Date      time.Time          `bson:"date" json:"date"`
	Stats     Stats              `bson:"stats" json:"stats"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
