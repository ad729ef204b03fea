package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/aura/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_SnapshotIsolation(t *testing.T) {
	s := domain.NewSession("u1")
	s.CurrentElementID = "weight1"
	s.Results["is_fortwo"] = "да"
	s.Append("", "Привет")

	c := s.Snapshot()
	c.Results["weight1"] = 80
	c.Append("80", "Хорошо.")
	c.CurrentElementID = "soft"

	assert.Equal(t, "weight1", s.CurrentElementID)
	assert.Len(t, s.Results, 1)
	assert.Len(t, s.Log, 1)
	assert.Equal(t, "да", c.Results["is_fortwo"])
}

func TestSession_Result(t *testing.T) {
	var empty domain.Session
	_, ok := empty.Result("x")
	assert.False(t, ok)

	s := domain.NewSession("u1")
	s.Results["soft"] = "мягкий"
	v, ok := s.Result("soft")
	assert.True(t, ok)
	assert.Equal(t, "мягкий", v)
}

func TestSession_SnapshotNil(t *testing.T) {
	var s *domain.Session
	assert.Nil(t, s.Snapshot())
}

func TestSession_JSONShape(t *testing.T) {
	s := domain.NewSession("u1")
	s.CurrentElementID = "soft"
	s.Results["weight1"] = 75
	s.Append("75", "Понятно. Оцените")

	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "u1",
		"current_element_id": "soft",
		"results": {"weight1": 75},
		"log": [{"user": "75", "alice": "Понятно. Оцените"}]
	}`, string(data))
}
