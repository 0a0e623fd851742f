package handlers

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Categories are addressed by Mongo id (admin panel) or slug (storefront), and
// products by Mongo id or SKU. Instead of re-inspecting the raw string at each
// query site, the path parameter is resolved once into a two-variant key.

type lookupKind int

const (
	lookupByID lookupKind = iota
	lookupByAlias
)

type LookupKey struct {
	kind  lookupKind
	id    primitive.ObjectID
	alias string
}

// ParseLookupKey classifies a path parameter: a valid 24-char hex ObjectID is
// an id lookup, anything else is an alias (slug or SKU) lookup.
func ParseLookupKey(raw string) LookupKey {
	if id, err := primitive.ObjectIDFromHex(raw); err == nil {
		return LookupKey{kind: lookupByID, id: id}
	}
	return LookupKey{kind: lookupByAlias, alias: raw}
}

func (k LookupKey) IsID() bool { return k.kind == lookupByID }

// Filter returns the Mongo filter for this key, matching aliasField for the
// alias variant.
func (k LookupKey) Filter(aliasField string) bson.M {
	if k.kind == lookupByID {
		return bson.M{"_id": k.id}
	}
	return bson.M{aliasField: k.alias}
}
