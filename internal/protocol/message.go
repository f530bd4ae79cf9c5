// Package protocol defines the uplink/downlink message shapes and their JSON codec.
// Payloads (data, metadata) stay opaque to the relay; only the envelope is typed.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkeye/signalhub/internal/domain"
)

// ActionUpdatePeers is the reserved roster action. Clients must treat it as a
// control message, never as application data.
const ActionUpdatePeers = "UpdatePeers"

// SenderServer is stamped on downlinks that originate at the relay itself.
const SenderServer domain.PeerID = "server"

var (
	ErrEmptyAction = errors.New("uplink missing action")
	ErrEmptyTarget = errors.New("uplink has empty target peer id")
)

// TargetPeers accepts either a single peer id or a list of peer ids on the wire.
type TargetPeers []domain.PeerID

func (t *TargetPeers) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = TargetPeers{domain.PeerID(single)}
		return nil
	}
	var many []domain.PeerID
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("targetPeers must be a string or an array of strings")
	}
	*t = TargetPeers(many)
	return nil
}

// Uplink is a peer-to-server message. A nil Targets means "all other members
// of the sender's room".
type Uplink struct {
	Action   string          `json:"action"`
	Data     json.RawMessage `json:"data,omitempty"`
	Targets  *TargetPeers    `json:"targetPeers,omitempty"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// Downlink is a server-to-peer message. PeerID carries the identity of the
// original sender, or SenderServer for relay-originated messages.
type Downlink struct {
	Action   string          `json:"action"`
	Data     json.RawMessage `json:"data,omitempty"`
	PeerID   domain.PeerID   `json:"peerId"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

// DecodeUplink parses and validates one inbound frame.
func DecodeUplink(data []byte) (Uplink, error) {
	var msg Uplink
	if err := json.Unmarshal(data, &msg); err != nil {
		return Uplink{}, fmt.Errorf("decode uplink: %w", err)
	}
	if err := msg.validate(); err != nil {
		return Uplink{}, err
	}
	return msg, nil
}

func (m Uplink) validate() error {
	if m.Action == "" {
		return ErrEmptyAction
	}
	if m.Targets != nil {
		for _, id := range *m.Targets {
			if id == "" {
				return ErrEmptyTarget
			}
		}
	}
	return nil
}

// Stamp derives the downlink redelivered on behalf of sender. The payload is
// shared verbatim across all targets.
func (m Uplink) Stamp(sender domain.PeerID) Downlink {
	return Downlink{
		Action:   m.Action,
		Data:     m.Data,
		PeerID:   sender,
		Metadata: m.Metadata,
	}
}

// Roster builds the reserved UpdatePeers downlink for the given member list.
func Roster(peers []domain.PeerID) (Downlink, error) {
	data, err := json.Marshal(peers)
	if err != nil {
		return Downlink{}, fmt.Errorf("encode roster: %w", err)
	}
	return Downlink{
		Action: ActionUpdatePeers,
		Data:   data,
		PeerID: SenderServer,
	}, nil
}

// EncodeDownlink serializes a downlink for the transport.
func EncodeDownlink(m Downlink) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode downlink: %w", err)
	}
	return data, nil
}
