package tenant

import "go.mongodb.org/mongo-driver/bson"

// Scope returns the owner filter every tenant-scoped query must compose in.
func Scope(ownerID string) bson.M {
	return bson.M{"ownerId": ownerID}
}

// ScopedByID narrows Scope to a single record. Lookups through this filter
// report a cross-tenant id the same way as an absent one.
func ScopedByID(ownerID, id string) bson.M {
	return bson.M{"_id": id, "ownerId": ownerID}
}
