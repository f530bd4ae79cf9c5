// Package domain contains the relay's entity types, just meta-data without logic.
package domain

import (
	"errors"
	"regexp"
	"strings"
)

type (
	// RoomID names a group of peers whose messages may reach each other.
	RoomID string
	// PeerID identifies a peer uniquely within its room, not globally.
	PeerID string
)

var ErrBadAddress = errors.New("bad connection address")

// Room and peer identifiers are restricted to word characters and hyphens.
var segmentPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidSegment reports whether s can serve as a room or peer identifier.
func ValidSegment(s string) bool {
	return segmentPattern.MatchString(s)
}

// ParseAddress splits a connection path of the form /{roomId}/{peerId}.
// Anything that is not exactly two valid segments is rejected.
func ParseAddress(path string) (RoomID, PeerID, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 {
		return "", "", ErrBadAddress
	}
	if !ValidSegment(parts[0]) || !ValidSegment(parts[1]) {
		return "", "", ErrBadAddress
	}
	return RoomID(parts[0]), PeerID(parts[1]), nil
}
