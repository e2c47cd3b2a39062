package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionOnlyImmediateSuccessor(t *testing.T) {
	stages := Stages()
	for i, from := range stages {
		for j, to := range stages {
			want := j == i+1
			assert.Equalf(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCanTransitionHappyPath(t *testing.T) {
	assert.True(t, CanTransition(StageProposed, StageExtended))
	assert.True(t, CanTransition(StageExtended, StageSustained))
	assert.True(t, CanTransition(StageSustained, StageSetApart))
}

func TestCanTransitionRejects(t *testing.T) {
	cases := []struct {
		name     string
		from, to Stage
	}{
		{"skip", StageProposed, StageSetApart},
		{"skip one", StageExtended, StageSetApart},
		{"backward", StageSustained, StageExtended},
		{"self", StageExtended, StageExtended},
		{"from terminal", StageSetApart, StageProposed},
		{"unknown from", Stage("released"), StageExtended},
		{"unknown to", StageProposed, Stage("")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.False(t, CanTransition(tc.from, tc.to))
		})
	}
}

func TestNextAndTerminal(t *testing.T) {
	next, ok := Next(StageSustained)
	require.True(t, ok)
	assert.Equal(t, StageSetApart, next)

	_, ok = Next(StageSetApart)
	assert.False(t, ok)

	assert.True(t, IsTerminal(StageSetApart))
	assert.False(t, IsTerminal(StageSustained))
	assert.False(t, IsTerminal(Stage("bogus")))
	assert.Equal(t, StageProposed, Initial())
}

func TestParseStage(t *testing.T) {
	s, err := ParseStage(" Set_Apart ")
	require.NoError(t, err)
	assert.Equal(t, StageSetApart, s)

	_, err = ParseStage("called")
	assert.Error(t, err)
}

func TestStagesReturnsCopy(t *testing.T) {
	s := Stages()
	s[0] = StageSetApart
	assert.Equal(t, StageProposed, Stages()[0])
}

func TestIsSustained(t *testing.T) {
	assert.False(t, IsSustained(StageProposed))
	assert.False(t, IsSustained(StageExtended))
	assert.True(t, IsSustained(StageSustained))
	assert.True(t, IsSustained(StageSetApart))
	assert.False(t, IsSustained(Stage("released")))
}
