package handlers

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParseLookupKeyObjectID(t *testing.T) {
	id := primitive.NewObjectID()
	key := ParseLookupKey(id.Hex())

	if !key.IsID() {
		t.Fatal("24-char hex must resolve to an id lookup")
	}
	filter := key.Filter("slug")
	if filter["_id"] != id {
		t.Fatalf("expected _id filter, got %v", filter)
	}
}

func TestParseLookupKeyAlias(t *testing.T) {
	for _, raw := range []string{"classic-caps", "cap-01", "ZZZZZZZZZZZZZZZZZZZZZZZZ"} {
		key := ParseLookupKey(raw)
		if key.IsID() {
			t.Fatalf("%q must resolve to an alias lookup", raw)
		}
		filter := key.Filter("slug")
		if filter["slug"] != raw {
			t.Fatalf("expected slug filter for %q, got %v", raw, filter)
		}
	}
}
