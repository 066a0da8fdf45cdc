// Package domain contains core concepts of the chat bot.
// This file defines chat addresses and their canonical serialized form.
// No runtime, network, or UI logic should be added here.
package domain

import "strings"

// Domain tags an Address as a user or a group.
type Domain int

const (
	UserDomain Domain = iota + 1
	GroupDomain
)

const (
	userSuffix  = "@c.us"
	groupSuffix = "@g.us"
)

// Suffix returns the serialized domain suffix.
func (d Domain) Suffix() string {
	switch d {
	case UserDomain:
		return userSuffix
	case GroupDomain:
		return groupSuffix
	default:
		return ""
	}
}

func (d Domain) String() string {
	switch d {
	case UserDomain:
		return "user"
	case GroupDomain:
		return "group"
	default:
		return "unknown"
	}
}

// Address identifies a chat participant or a chat itself.
//
// Address is an immutable value type; two addresses are equal iff their
// serialized forms are equal. The zero value is not a valid address,
// use IsZero to check.
type Address struct {
	id         string
	domain     Domain
	serialized string
}

// MakeAddress always succeeds and computes the serialized form.
func MakeAddress(id string, domain Domain) Address {
	return Address{id: id, domain: domain, serialized: id + domain.Suffix()}
}

func NewUserAddress(id string) Address {
	return MakeAddress(id, UserDomain)
}

func NewGroupAddress(id string) Address {
	return MakeAddress(id, GroupDomain)
}

// ParseAddress recognizes the user and group suffixes and strips them to
// recover the id. Anything else is not an address and yields ok=false.
func ParseAddress(serialized string) (Address, bool) {
	switch {
	case strings.HasSuffix(serialized, userSuffix):
		return NewUserAddress(strings.TrimSuffix(serialized, userSuffix)), true
	case strings.HasSuffix(serialized, groupSuffix):
		return NewGroupAddress(strings.TrimSuffix(serialized, groupSuffix)), true
	default:
		return Address{}, false
	}
}

func (a Address) ID() string { return a.id }

func (a Address) Domain() Domain { return a.domain }

func (a Address) IsUser() bool { return a.domain == UserDomain }

func (a Address) IsGroup() bool { return a.domain == GroupDomain }

func (a Address) IsZero() bool { return a.serialized == "" }

// String returns the serialized form, e.g. "972501234567@c.us".
func (a Address) String() string { return a.serialized }

func (a Address) Equals(other Address) bool {
	return a.serialized == other.serialized
}
