package auth

import "github.com/google/uuid"

// CanMutate reports whether actor may change or delete a resource owned by owner.
func CanMutate(actor, owner uuid.UUID) bool {
	return actor != uuid.Nil && actor == owner
}
