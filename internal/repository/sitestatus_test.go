package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestEnsureUpsertErr(t *testing.T) {
	assert.NoError(t, ensureUpsertErr(nil))

	// Two concurrent first-reads can both take the upsert's insert
	// path; the loser gets E11000 and must still resolve to the
	// singleton the winner wrote.
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
	assert.NoError(t, ensureUpsertErr(dup))

	boom := errors.New("connection reset")
	assert.Equal(t, boom, ensureUpsertErr(boom))
}

func TestIsDuplicateKey(t *testing.T) {
	dup := mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000}},
	}
	assert.True(t, IsDuplicateKey(dup))
	assert.False(t, IsDuplicateKey(errors.New("nope")))
}
