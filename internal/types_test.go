package internal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestResponseSet_Order(t *testing.T) {
	rs := NewResponseSet()
	rs.Add("zeta", "z")
	rs.Add("alpha", "a")
	rs.Add("zeta", "z2")

	assert.Equal(t, []string{"zeta", "alpha"}, rs.Names())
	assert.Equal(t, 2, rs.Len())
	text, ok := rs.Get("zeta")
	assert.True(t, ok)
	assert.Equal(t, "z2", text)

	names := rs.Names()
	names[0] = "mutated"
	assert.Equal(t, "zeta", rs.Names()[0], "Names returns a copy")
}

func TestResponseSet_MarshalJSON(t *testing.T) {
	rs := NewResponseSet()
	rs.Add("llama", "quota \"exceeded\"")
	rs.Add("gemini", "line1\nline2")

	data, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.Equal(t, `{"llama":"quota \"exceeded\"","gemini":"line1\nline2"}`, string(data))

	empty, err := json.Marshal(NewResponseSet())
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestResponseSet_MarshalYAML(t *testing.T) {
	rs := NewResponseSet()
	rs.Add("b", "second")
	rs.Add("a", "first")

	data, err := yaml.Marshal(rs)
	require.NoError(t, err)
	assert.Equal(t, "b: second\na: first\n", string(data))
}

func TestScores(t *testing.T) {
	var s Scores
	for i, c := range Criteria {
		s.Set(c, i+1)
	}

	assert.Equal(t, Scores{Clarity: 1, Accuracy: 2, Creativity: 3, Grammar: 4}, s)
	assert.Equal(t, 10, s.Sum())
	assert.Equal(t, 3, s.Get(Creativity))
	assert.Equal(t, 0, s.Get(Criterion("style")))
}

func TestParseCriterion(t *testing.T) {
	c, err := ParseCriterion("grammar")
	require.NoError(t, err)
	assert.Equal(t, Grammar, c)

	_, err = ParseCriterion("Grammar")
	assert.Error(t, err)
}
