package query

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The engine describes filters as a typed predicate list instead of an ad hoc
// clause map. Each store adapter compiles the predicates into its own query
// dialect; nothing in this package knows what that dialect looks like.

// Predicate is one filter condition. Implementations are closed: the set of
// predicate kinds below is the whole filter vocabulary.
type Predicate interface {
	isPredicate()
}

// PredicateSet is an AND-combined list of predicates. The first element is
// always OwnerIs; builders guarantee that ordering.
type PredicateSet []Predicate

// OwnerIs scopes a query to a single owner. Every predicate set starts with
// it, without exception.
type OwnerIs struct {
	OwnerID primitive.ObjectID
}

// KeywordLike matches a case-insensitive substring against the fabric name
// or any of the brand/material/tag text projections.
type KeywordLike struct {
	Keyword string
}

// FavoriteOnly restricts results to favorited records. Requesting
// favorite=false imposes no constraint, so there is no negated variant.
type FavoriteOnly struct{}

// RefDimension names a multi-valued reference field.
type RefDimension string

const (
	RefMaterials       RefDimension = "materials"
	RefTags            RefDimension = "tags"
	RefBrand           RefDimension = "brand"
	RefPurchaseChannel RefDimension = "purchaseChannel"
)

// RefAnyOf matches records whose reference set intersects IDs (any-of
// semantics, uniformly across all four dimensions).
type RefAnyOf struct {
	Dimension RefDimension
	IDs       []primitive.ObjectID
}

// UsageIs matches by consumption state: used means usedLength > 0, unused
// means usedLength == 0.
type UsageIs struct {
	Used bool
}

// DerivedField names a computed metric quantity a range predicate or sort
// plan can target.
type DerivedField string

const (
	DerivedLengthMeters    DerivedField = "lengthInMeters"
	DerivedRemainingMeters DerivedField = "remainingLengthInMeters"
)

// LengthWithin constrains a derived metric length to a bucket range.
type LengthWithin struct {
	Field DerivedField
	Range Range
}

func (OwnerIs) isPredicate()      {}
func (KeywordLike) isPredicate()  {}
func (FavoriteOnly) isPredicate() {}
func (RefAnyOf) isPredicate()     {}
func (UsageIs) isPredicate()      {}
func (LengthWithin) isPredicate() {}

// NeedsDerived reports whether any predicate references a computed field,
// which forces the store to materialize metric lengths before matching.
func (ps PredicateSet) NeedsDerived() bool {
	for _, p := range ps {
		if _, ok := p.(LengthWithin); ok {
			return true
		}
	}
	return false
}

// FilterRequest is the raw, declarative filter input as it arrives from the
// query surface. ID lists are comma-joined strings.
type FilterRequest struct {
	Keyword              string
	Favorite             bool
	MaterialsID          string
	TagsID               string
	BrandID              string
	PurchaseChannelID    string
	IsUsed               *bool
	LengthRange          string
	RemainingLengthRange string
}

// BuildFilter turns a filter request into a predicate set anchored by the
// owner. Invalid ids inside a list are dropped; a list left empty, an
// unknown bucket key, an absent dimension — none of them add a predicate.
func BuildFilter(ownerID primitive.ObjectID, req FilterRequest) PredicateSet {
	ps := PredicateSet{OwnerIs{OwnerID: ownerID}}

	if kw := strings.TrimSpace(req.Keyword); kw != "" {
		ps = append(ps, KeywordLike{Keyword: kw})
	}

	if req.Favorite {
		ps = append(ps, FavoriteOnly{})
	}

	for _, dim := range []struct {
		dimension RefDimension
		raw       string
	}{
		{RefMaterials, req.MaterialsID},
		{RefTags, req.TagsID},
		{RefBrand, req.BrandID},
		{RefPurchaseChannel, req.PurchaseChannelID},
	} {
		if ids := ParseIDList(dim.raw); len(ids) > 0 {
			ps = append(ps, RefAnyOf{Dimension: dim.dimension, IDs: ids})
		}
	}

	if req.IsUsed != nil {
		ps = append(ps, UsageIs{Used: *req.IsUsed})
	}

	if r, ok := ResolveBucket(req.LengthRange); ok {
		ps = append(ps, LengthWithin{Field: DerivedLengthMeters, Range: r})
	}
	if r, ok := ResolveBucket(req.RemainingLengthRange); ok {
		ps = append(ps, LengthWithin{Field: DerivedRemainingMeters, Range: r})
	}

	return ps
}

// ParseIDList splits a comma-joined id list, silently discarding entries
// that are not valid object ids.
func ParseIDList(raw string) []primitive.ObjectID {
	if raw == "" {
		return nil
	}
	return ParseIDs(strings.Split(raw, ","))
}

// ParseIDs converts hex id strings, silently discarding invalid entries.
func ParseIDs(raw []string) []primitive.ObjectID {
	var ids []primitive.ObjectID
	for _, part := range raw {
		id, err := primitive.ObjectIDFromHex(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
