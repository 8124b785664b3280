package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LengthUnit is the unit a fabric's measurements are stored in.
type LengthUnit string

const (
	UnitMeter LengthUnit = "meter"
	UnitYard  LengthUnit = "yard"
)

// Valid reports whether the unit is one of the supported values.
func (u LengthUnit) Valid() bool {
	return u == UnitMeter || u == UnitYard
}

// Fabric is the inventory record as persisted in MongoDB. All length
// measurements are stored in LengthUnit; metric equivalents are computed at
// query time and never written back.
type Fabric struct {
	ID                  primitive.ObjectID   `bson:"_id,omitempty"`
	Name                string               `bson:"name"`
	BrandID             *primitive.ObjectID  `bson:"brandId,omitempty"`
	BrandText           string               `bson:"brandText,omitempty"`
	Length              float64              `bson:"length"`
	Width               float64              `bson:"width"`
	LengthUnit          LengthUnit           `bson:"lengthUnit"`
	UsedLength          float64              `bson:"usedLength"`
	Price               float64              `bson:"price"`
	Origin              string               `bson:"origin,omitempty"`
	PurchaseDate        *time.Time           `bson:"purchaseDate,omitempty"`
	MaterialsID         []primitive.ObjectID `bson:"materialsId,omitempty"`
	MaterialsText       string               `bson:"materialsText,omitempty"`
	CoverImage          string               `bson:"coverImage,omitempty"`
	DetailImages        []string             `bson:"detailImages,omitempty"`
	TagsID              []primitive.ObjectID `bson:"tagsId,omitempty"`
	TagsText            string               `bson:"tagsText,omitempty"`
	IsFavorite          bool                 `bson:"isFavorite"`
	Notes               string               `bson:"notes,omitempty"`
	CreatedBy           primitive.ObjectID   `bson:"createdBy"`
	CreatedAt           time.Time            `bson:"createdAt"`
	UpdatedAt           time.Time            `bson:"updatedAt"`
	PurchaseChannelID   *primitive.ObjectID  `bson:"purchaseChannelId,omitempty"`
	PurchaseChannelText string               `bson:"purchaseChannelText,omitempty"`
}

// NamedRef is the {id, name} projection used when referenced catalog entries
// are resolved into a response. A nil NamedRef means the reference could not
// be resolved.
type NamedRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FabricView is the API representation of a fabric: stored fields plus the
// derived metric lengths and resolved catalog references.
type FabricView struct {
	ID                      string      `json:"id"`
	Name                    string      `json:"name"`
	Brand                   *NamedRef   `json:"brand"`
	BrandText               string      `json:"brandText,omitempty"`
	Length                  float64     `json:"length"`
	Width                   float64     `json:"width"`
	LengthUnit              LengthUnit  `json:"lengthUnit"`
	UsedLength              float64     `json:"usedLength"`
	RemainingLength         float64     `json:"remainingLength"`
	LengthInMeters          float64     `json:"lengthInMeters"`
	RemainingLengthInMeters float64     `json:"remainingLengthInMeters"`
	Price                   float64     `json:"price"`
	Origin                  string      `json:"origin,omitempty"`
	PurchaseDate            *time.Time  `json:"purchaseDate,omitempty"`
	Materials               []NamedRef  `json:"materials"`
	MaterialsText           string      `json:"materialsText,omitempty"`
	CoverImage              string      `json:"coverImage,omitempty"`
	DetailImages            []string    `json:"detailImages,omitempty"`
	Tags                    []NamedRef  `json:"tags"`
	TagsText                string      `json:"tagsText,omitempty"`
	IsFavorite              bool        `json:"isFavorite"`
	Notes                   string      `json:"notes,omitempty"`
	PurchaseChannel         *NamedRef   `json:"purchaseChannel"`
	PurchaseChannelText     string      `json:"purchaseChannelText,omitempty"`
	CreatedAt               time.Time   `json:"createdAt"`
	UpdatedAt               time.Time   `json:"updatedAt"`
}

// FabricPage is the paginated list envelope. Page and Limit echo the
// effective values after coercion.
type FabricPage struct {
	Total int64        `json:"total"`
	List  []FabricView `json:"list"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

// Stats aggregates an owner's filtered inventory. Length totals are metric,
// rounded to two decimals. An empty filtered set yields the zero value, which
// serializes with explicit zeros rather than omitted fields.
type Stats struct {
	TotalCount      int64   `bson:"totalCount" json:"totalCount"`
	TotalLength     float64 `bson:"totalLength" json:"totalLength"`
	TotalUsedLength float64 `bson:"totalUsedLength" json:"totalUsedLength"`
	RemainingLength float64 `bson:"remainingLength" json:"remainingLength"`
	TotalValue      float64 `bson:"totalValue" json:"totalValue"`
}
