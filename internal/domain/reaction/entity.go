// internal/domain/reaction/entity.go
package reaction

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors
var (
	ErrMissingParameter = errors.New("reaction: missing required parameter")
)

const (
	// LikeSentinel is the hub's reaction type for a like.
	LikeSentinel = "REACTION_TYPE_LIKE"

	// TypeLike is the reaction_type query value understood by the hub API.
	TypeLike = "Like"
)

// CastRef identifies "did user FID react to cast (TargetFID, TargetHash)".
type CastRef struct {
	TargetHash string
	TargetFID  string
	FID        string
}

// Normalize trims all identifiers.
func (r CastRef) Normalize() CastRef {
	return CastRef{
		TargetHash: strings.TrimSpace(r.TargetHash),
		TargetFID:  strings.TrimSpace(r.TargetFID),
		FID:        strings.TrimSpace(r.FID),
	}
}

// Validate fails with ErrMissingParameter naming every empty identifier.
func (r CastRef) Validate() error {
	n := r.Normalize()
	var missing []string
	if n.TargetHash == "" {
		missing = append(missing, "target_hash")
	}
	if n.TargetFID == "" {
		missing = append(missing, "target_fid")
	}
	if n.FID == "" {
		missing = append(missing, "fid")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingParameter, strings.Join(missing, ","))
	}
	return nil
}

// Message is the subset of a hub reaction message we read.
//
//	{"data":{"type":"MESSAGE_TYPE_REACTION_ADD","fid":2,
//	         "reactionBody":{"type":"REACTION_TYPE_LIKE","targetCastId":{...}}},
//	 "hash":"0x..."}
//
// Absent fields decode to zero values; a not-found style payload therefore
// yields an empty ReactionType.
type Message struct {
	Data *MessageData `json:"data,omitempty"`
	Hash string       `json:"hash,omitempty"`
}

type MessageData struct {
	Type         string        `json:"type,omitempty"`
	FID          uint64        `json:"fid,omitempty"`
	ReactionBody *ReactionBody `json:"reactionBody,omitempty"`
}

type ReactionBody struct {
	Type         string  `json:"type,omitempty"`
	TargetCastID *CastID `json:"targetCastId,omitempty"`
}

type CastID struct {
	FID  uint64 `json:"fid,omitempty"`
	Hash string `json:"hash,omitempty"`
}

// ReactionType returns data.reactionBody.type, or "" when absent.
func (m Message) ReactionType() string {
	if m.Data == nil || m.Data.ReactionBody == nil {
		return ""
	}
	return m.Data.ReactionBody.Type
}

// IsLike reports an exact match against LikeSentinel.
func (m Message) IsLike() bool {
	return m.ReactionType() == LikeSentinel
}
