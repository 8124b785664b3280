package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UsageRecord captures a single consumption event against a fabric. The
// consumed length is expressed in the fabric's own unit; creating a record
// also advances the fabric's usedLength.
type UsageRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FabricID   primitive.ObjectID `bson:"fabricId" json:"fabricId"`
	UsedLength float64            `bson:"usedLength" json:"usedLength"`
	UsageDate  time.Time          `bson:"usageDate" json:"usageDate"`
	CreatedBy  primitive.ObjectID `bson:"createdBy" json:"-"`
}

// UsageWithFabric pairs a usage record with the {id, name} projection of
// its fabric for list responses. Fabric is nil when the fabric has since
// been deleted.
type UsageWithFabric struct {
	UsageRecord
	Fabric *NamedRef `json:"fabric"`
}
