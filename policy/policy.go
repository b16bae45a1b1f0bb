// Package policy decides who may read or mutate hotels, rooms, gallery images
// and reservations. Every rule is a pure function of the principal, the verb
// and, for object-level checks, the resolved owner of the target.
package policy

import (
	"errors"

	"github.com/google/uuid"
)

type Verb string

const (
	List     Verb = "list"
	Retrieve Verb = "retrieve"
	Create   Verb = "create"
	Update   Verb = "update"
	Delete   Verb = "delete"
)

// Safe reports whether the verb only reads.
func (v Verb) Safe() bool {
	return v == List || v == Retrieve
}

type Kind string

const (
	Hotel       Kind = "hotel"
	Room        Kind = "room"
	Gallery     Kind = "gallery"
	Reservation Kind = "reservation"
)

// Principal is the caller. The zero value is anonymous.
type Principal struct {
	ID     uuid.UUID
	IsHost bool
}

var Anonymous = Principal{}

func (p Principal) Authenticated() bool {
	return p.ID != uuid.Nil
}

// Target describes what an action applies to. Owner is the host that
// ultimately owns it: the hotel's host for hotels, the parent hotel's host for
// rooms, and the host of the hotel or room named in the path for gallery
// images. A nil Owner means a collection-level check.
type Target struct {
	Kind  Kind
	Owner *uuid.UUID
}

func Collection(kind Kind) Target {
	return Target{Kind: kind}
}

func Object(kind Kind, owner uuid.UUID) Target {
	return Target{Kind: kind, Owner: &owner}
}

var (
	ErrUnauthenticated = errors.New("authentication credentials were not provided")
	ErrForbidden       = errors.New("you do not have permission to perform this action")
	ErrUnknownKind     = errors.New("no policy for resource")
)

type rule func(p Principal, verb Verb, owner *uuid.UUID) bool

var rules = map[Kind]rule{
	Hotel:       hotelRule,
	Room:        ownedRule,
	Gallery:     galleryRule,
	Reservation: reservationRule,
}

// Can reports whether p may perform verb on t.
func Can(p Principal, verb Verb, t Target) bool {
	return Check(p, verb, t) == nil
}

// Check is Can with the reason for a denial: ErrUnauthenticated for anonymous
// callers, ErrForbidden otherwise.
func Check(p Principal, verb Verb, t Target) error {
	r, ok := rules[t.Kind]
	if !ok {
		return ErrUnknownKind
	}
	if !verb.Safe() && !p.Authenticated() {
		return ErrUnauthenticated
	}
	if r(p, verb, t.Owner) {
		return nil
	}
	if !p.Authenticated() {
		return ErrUnauthenticated
	}
	return ErrForbidden
}

func isOwner(p Principal, owner *uuid.UUID) bool {
	return owner != nil && p.Authenticated() && *owner == p.ID
}

// Hotels are public to read. Any signed-in user may create one and becomes
// its host; changing one needs to be its host.
func hotelRule(p Principal, verb Verb, owner *uuid.UUID) bool {
	if verb.Safe() {
		return true
	}
	if owner == nil {
		return verb == Create && p.Authenticated()
	}
	return isOwner(p, owner)
}

// Rooms carry no host column. The caller resolves the owner through the room's
// hotel (or, on create, the hotel the room is being added to).
func ownedRule(p Principal, verb Verb, owner *uuid.UUID) bool {
	if verb.Safe() {
		return true
	}
	if owner == nil {
		return false
	}
	return isOwner(p, owner)
}

// Gallery images are only ever created, and ownership of the path's hotel or
// room has to be resolved before the image exists.
func galleryRule(p Principal, verb Verb, owner *uuid.UUID) bool {
	return verb == Create && isOwner(p, owner)
}

// Reservations need a signed-in caller for every verb. Which reservations are
// visible is a query scope, see ScopeGuest.
func reservationRule(p Principal, verb Verb, _ *uuid.UUID) bool {
	if verb == Update || verb == Delete {
		return false
	}
	return p.Authenticated()
}

// ScopeGuest returns the guest id every reservation query and insert must be
// pinned to.
func ScopeGuest(p Principal) (uuid.UUID, error) {
	if !p.Authenticated() {
		return uuid.Nil, ErrUnauthenticated
	}
	return p.ID, nil
}
