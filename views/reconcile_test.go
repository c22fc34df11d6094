package views

import (
	"testing"

	"resolveai/models"

	"github.com/stretchr/testify/assert"
)

func svcID(s models.Service) string { return s.ID }

func TestUpsertByIDReplaces(t *testing.T) {
	before := []models.Service{{ID: "a", Title: "old"}, {ID: "b", Title: "keep"}}
	after := UpsertByID(before, models.Service{ID: "a", Title: "new"}, svcID)

	assert.Equal(t, "new", after[0].Title)
	assert.Equal(t, "old", before[0].Title, "input collection must not be mutated")
	assert.Len(t, after, 2)
}

func TestUpsertByIDAppends(t *testing.T) {
	before := []models.Service{{ID: "a"}}
	after := UpsertByID(before, models.Service{ID: "c"}, svcID)

	assert.Len(t, after, 2)
	assert.Equal(t, "c", after[1].ID)
}

func TestPrependByID(t *testing.T) {
	before := []models.Service{{ID: "a"}, {ID: "b"}}
	after := PrependByID(before, models.Service{ID: "c"}, svcID)

	assert.Equal(t, []string{"c", "a", "b"}, []string{after[0].ID, after[1].ID, after[2].ID})

	replaced := PrependByID(after, models.Service{ID: "b", Title: "fresh"}, svcID)
	assert.Len(t, replaced, 3)
	assert.Equal(t, "b", replaced[0].ID)
	assert.Equal(t, "fresh", replaced[0].Title)
}

func TestRemoveByID(t *testing.T) {
	before := []models.Service{{ID: "a"}, {ID: "b"}}

	after := RemoveByID(before, "a", svcID)
	assert.Len(t, after, 1)
	assert.Equal(t, "b", after[0].ID)
	assert.Len(t, before, 2, "input collection must not be mutated")

	unchanged := RemoveByID(before, "zzz", svcID)
	assert.Len(t, unchanged, 2)
}
