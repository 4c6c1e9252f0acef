package model

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPairKeyOfIsSymmetric(t *testing.T) {
	assert.Equal(t, PairKeyOf("alice", "bob"), PairKeyOf("bob", "alice"))
	assert.Equal(t, "alice:bob", PairKeyOf("bob", "alice"))
	assert.Equal(t, "alice:bob", PairKeyOf("alice", "bob"))
}

func TestAccepted(t *testing.T) {
	f := Friendship{}
	assert.False(t, f.Accepted())
	f.AcceptedAt = sql.NullTime{Time: time.Now(), Valid: true}
	assert.True(t, f.Accepted())
}
