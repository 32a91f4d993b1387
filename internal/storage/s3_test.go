package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSongKey(t *testing.T) {
	k1 := SongKey("My Track.MP3")
	k2 := SongKey("My Track.MP3")

	assert.True(t, strings.HasPrefix(k1, "songs/"))
	assert.True(t, strings.HasSuffix(k1, ".mp3"), "extension is kept and lower-cased")
	assert.NotEqual(t, k1, k2, "keys must be collision-free")

	assert.False(t, strings.Contains(SongKey("noext"), "."),
		"no dot when the upload has no extension")
}

func TestObjectURL(t *testing.T) {
	aws := &S3Store{bucket: "vault", region: "eu-west-1"}
	assert.Equal(t,
		"https://vault.s3.eu-west-1.amazonaws.com/songs/a.mp3",
		aws.objectURL("songs/a.mp3"))

	minio := &S3Store{bucket: "vault", endpoint: "http://localhost:9000"}
	assert.Equal(t,
		"http://localhost:9000/vault/songs/a.mp3",
		minio.objectURL("songs/a.mp3"))
}
