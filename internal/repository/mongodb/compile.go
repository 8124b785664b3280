package mongodb

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fabstash/backend/internal/query"
)

// This file translates the store-agnostic predicate set into the MongoDB
// dialect. Predicates over stored fields compile into a plain $match;
// predicates over derived metric lengths compile into a second $match that
// runs after an $addFields stage has materialized those values.

var refDimensionFields = map[query.RefDimension]string{
	query.RefMaterials:       "materialsId",
	query.RefTags:            "tagsId",
	query.RefBrand:           "brandId",
	query.RefPurchaseChannel: "purchaseChannelId",
}

// compileStored builds the match document for predicates on stored fields.
// The owner predicate always lands first.
func compileStored(ps query.PredicateSet) bson.D {
	match := bson.D{}

	for _, p := range ps {
		switch pred := p.(type) {
		case query.OwnerIs:
			match = append(match, bson.E{Key: "createdBy", Value: pred.OwnerID})
		case query.KeywordLike:
			pattern := primitive.Regex{Pattern: regexp.QuoteMeta(pred.Keyword), Options: "i"}
			match = append(match, bson.E{Key: "$or", Value: bson.A{
				bson.D{{Key: "name", Value: pattern}},
				bson.D{{Key: "brandText", Value: pattern}},
				bson.D{{Key: "materialsText", Value: pattern}},
				bson.D{{Key: "tagsText", Value: pattern}},
			}})
		case query.FavoriteOnly:
			match = append(match, bson.E{Key: "isFavorite", Value: true})
		case query.RefAnyOf:
			field := refDimensionFields[pred.Dimension]
			match = append(match, bson.E{Key: field, Value: bson.D{{Key: "$in", Value: pred.IDs}}})
		case query.UsageIs:
			if pred.Used {
				match = append(match, bson.E{Key: "usedLength", Value: bson.D{{Key: "$gt", Value: 0}}})
			} else {
				match = append(match, bson.E{Key: "usedLength", Value: 0})
			}
		}
	}

	return match
}

// compileDerived builds the match document for range predicates over the
// materialized metric fields. Returns nil when the set has none.
func compileDerived(ps query.PredicateSet) bson.D {
	match := bson.D{}

	for _, p := range ps {
		pred, ok := p.(query.LengthWithin)
		if !ok {
			continue
		}

		bounds := bson.D{}
		minOp := "$gte"
		if pred.Range.MinExclusive {
			minOp = "$gt"
		}
		bounds = append(bounds, bson.E{Key: minOp, Value: pred.Range.Min})
		if !pred.Range.Unbounded {
			bounds = append(bounds, bson.E{Key: "$lte", Value: pred.Range.Max})
		}

		match = append(match, bson.E{Key: string(pred.Field), Value: bounds})
	}

	if len(match) == 0 {
		return nil
	}
	return match
}

// metersExpr wraps a length expression in the unit conversion: yards are
// multiplied by the canonical factor, meters pass through.
func metersExpr(expr interface{}) bson.D {
	return bson.D{{Key: "$cond", Value: bson.D{
		{Key: "if", Value: bson.D{{Key: "$eq", Value: bson.A{"$lengthUnit", "yard"}}}},
		{Key: "then", Value: bson.D{{Key: "$multiply", Value: bson.A{expr, query.YardToMeter}}}},
		{Key: "else", Value: expr},
	}}}
}

var derivedFieldNames = []string{
	string(query.DerivedLengthMeters),
	string(query.DerivedRemainingMeters),
	"usedLengthInMeters",
}

// addDerivedStage materializes the metric length fields as temporaries. The
// same stage serves filtering, derived-field sorting and aggregation so all
// three agree on the conversion.
func addDerivedStage() bson.D {
	usedExpr := bson.D{{Key: "$ifNull", Value: bson.A{"$usedLength", 0}}}
	remainingExpr := bson.D{{Key: "$subtract", Value: bson.A{"$length", usedExpr}}}

	return bson.D{{Key: "$addFields", Value: bson.D{
		{Key: string(query.DerivedLengthMeters), Value: metersExpr("$length")},
		{Key: string(query.DerivedRemainingMeters), Value: metersExpr(remainingExpr)},
		{Key: "usedLengthInMeters", Value: metersExpr(usedExpr)},
	}}}
}

func sortStage(plan query.SortPlan) bson.D {
	direction := 1
	if plan.Descending {
		direction = -1
	}
	return bson.D{{Key: "$sort", Value: bson.D{{Key: plan.Field, Value: direction}}}}
}

// listPipeline assembles the fetch pipeline: stored match, then (only when a
// derived field is filtered or sorted on) materialize + derived match, then
// sort, paginate, and strip the temporaries.
func listPipeline(ps query.PredicateSet, plan query.SortPlan, page query.PageRequest) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: compileStored(ps)}},
	}

	needsDerived := ps.NeedsDerived() || plan.Derived
	if needsDerived {
		pipeline = append(pipeline, addDerivedStage())
		if derived := compileDerived(ps); derived != nil {
			pipeline = append(pipeline, bson.D{{Key: "$match", Value: derived}})
		}
	}

	pipeline = append(pipeline, sortStage(plan))
	if page.Limit > 0 {
		pipeline = append(pipeline,
			bson.D{{Key: "$skip", Value: page.Skip()}},
			bson.D{{Key: "$limit", Value: int64(page.Limit)}},
		)
	}

	if needsDerived {
		pipeline = append(pipeline, bson.D{{Key: "$unset", Value: derivedFieldNames}})
	}

	return pipeline
}

// countPipeline counts the filtered set before any skip/limit.
func countPipeline(ps query.PredicateSet) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: compileStored(ps)}},
	}
	if ps.NeedsDerived() {
		pipeline = append(pipeline, addDerivedStage())
		if derived := compileDerived(ps); derived != nil {
			pipeline = append(pipeline, bson.D{{Key: "$match", Value: derived}})
		}
	}
	return append(pipeline, bson.D{{Key: "$count", Value: "total"}})
}

// statsPipeline folds the filtered set into a single totals document. The
// metric fields are always materialized here since every summed length is
// canonical.
func statsPipeline(ps query.PredicateSet) mongo.Pipeline {
	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: compileStored(ps)}},
		addDerivedStage(),
	}
	if derived := compileDerived(ps); derived != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: derived}})
	}

	group := bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "totalCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		{Key: "totalLength", Value: bson.D{{Key: "$sum", Value: "$" + string(query.DerivedLengthMeters)}}},
		{Key: "totalUsedLength", Value: bson.D{{Key: "$sum", Value: "$usedLengthInMeters"}}},
		{Key: "remainingLength", Value: bson.D{{Key: "$sum", Value: "$" + string(query.DerivedRemainingMeters)}}},
		{Key: "totalValue", Value: bson.D{{Key: "$sum", Value: "$price"}}},
	}}}

	return append(pipeline, group)
}
