package model

import "time"

// Media kinds. Videos reference externally hosted content by URL; songs
// are uploaded binaries living in object storage.
const (
	KindVideo = "video"
	KindSong  = "song"
)

// Media represents a row in the `media_items` table. Videos and songs
// share one shape and one table; the Kind column tells them apart.
// A media item is immutable after creation except for deletion, and is
// only ever visible to the user referenced by OwnerID.
//
// Fields:
//
//	ID          – primary key identifier.
//	OwnerID     – user ID of the owner; immutable after insert.
//	Kind        – KindVideo or KindSong.
//	Title       – required display title.
//	Description – optional free text (used by videos).
//	Artist      – optional artist name (used by songs).
//	URL         – playback URL; external for videos, object URL for songs.
//	StorageKey  – object storage key for uploaded binaries; empty for videos.
//	CreatedAt   – timestamp when the row was created.
type Media struct {
	ID          uint64    // media_items.id
	OwnerID     uint64    // media_items.owner_id
	Kind        string    // media_items.kind
	Title       string    // media_items.title
	Description string    // media_items.description
	Artist      string    // media_items.artist
	URL         string    // media_items.url
	StorageKey  string    // media_items.storage_key
	CreatedAt   time.Time // media_items.created_at
}
