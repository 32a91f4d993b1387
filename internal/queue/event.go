// Package queue defines message payloads exchanged over the message broker
// and the background consumer that drains them.
package queue

// MediaUploadedEvent is published on the media.uploaded queue after a
// media row is created. UploadedAt is RFC 3339 so the audit log stays
// human-readable.
type MediaUploadedEvent struct {
	MediaID    uint64 `json:"media_id"`
	OwnerID    uint64 `json:"owner_id"`
	Kind       string `json:"kind"`
	Title      string `json:"title"`
	UploadedAt string `json:"uploaded_at"`
}
