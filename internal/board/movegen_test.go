package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLayout(t *testing.T, s string) *Board {
	t.Helper()
	b, err := ParseLayout(s)
	require.NoError(t, err)
	return b
}

func TestActionsAlwaysEndWithSkip(t *testing.T) {
	b := NewDefault()
	for _, s := range b.GenerateSwaps() {
		c := b.Clone()
		c.ApplySwap(s)
		actions := c.GenerateActions()
		skips := 0
		for _, a := range actions {
			if a.IsSkip() {
				skips++
			}
		}
		require.Equal(t, 1, skips, "after swap %v", s)
		require.Equal(t, Skip, actions[len(actions)-1])
	}
}

func TestKnightTargetsSubsets(t *testing.T) {
	b := mustLayout(t, "ab0;0;0;.;wn3;wk4;.;bk4;bn3;wn3;.;.;wn3;ws4;.;.;.;.;.;")
	want := []Action{
		NewAction(B2, B1),
		NewAction(B2, C2),
		NewAction(B2, B3),
		NewAction(B2, B1, C2),
		NewAction(B2, B1, B3),
		NewAction(B2, C2, B3),
		Skip,
	}
	assert.Equal(t, want, b.GenerateActions())

	require.NoError(t, b.Play(NewAction(B2, B3, B1)))
	assert.Equal(t, 2, b.At(B1).HP)
	assert.Equal(t, 2, b.At(B3).HP)
	assert.Equal(t, 3, b.At(C2).HP)
}

func TestMedicTargetsDamagedAllies(t *testing.T) {
	b := mustLayout(t, "ab0;0;0;.;bk3;.;.;bn2;bm3;bn2;.;.;bs4;.;wn3;.;.;.;wk4;")
	actions := b.GenerateActions()
	var medic []Action
	for _, a := range actions {
		if a.From == B2 {
			medic = append(medic, a)
		}
	}
	// Three damaged neighbours give 3 + 3 + 1 subsets. The full shield is skipped.
	require.Len(t, medic, 7)
	assert.Equal(t, NewAction(B2, B1, A2, C2), medic[6])
	assert.Len(t, actions, 8)

	require.NoError(t, b.Play(NewAction(B2, B1, A2, C2)))
	assert.Equal(t, 4, b.At(B1).HP)
	assert.Equal(t, 3, b.At(A2).HP)
	assert.Equal(t, NoTiles, b.Damaged())
}

func TestArcherBlockedByShield(t *testing.T) {
	b := mustLayout(t, "ab0;0;0;ba3;.;.;wk4;bk4;.;.;.;ws4;.;.;.;wn3;.;.;.;")
	want := []Action{
		NewAction(A1, D1),
		NewAction(A1, A3),
		NewAction(A2, A3),
		Skip,
	}
	assert.Equal(t, want, b.GenerateActions())

	// A second shield on the rank cuts that ray as well.
	b.Place(Shield, White, 4, 4, C1)
	b.UpdateAllActivity()
	var archer []Action
	for _, a := range b.GenerateActions() {
		if a.From == A1 {
			archer = append(archer, a)
		}
	}
	assert.Equal(t, []Action{NewAction(A1, C1), NewAction(A1, A3)}, archer)
}

func TestSwapsSkipEnemyShield(t *testing.T) {
	b := NewDefault()
	for _, s := range b.GenerateSwaps() {
		assert.False(t, s == NewSwap(B2, B3), "swap with enemy shield generated")
		assert.Less(t, s.A, s.B)
	}
	assert.Contains(t, b.GenerateSwaps(), NewSwap(A2, A3))
}

func TestMedicDoesNotOverheal(t *testing.T) {
	b := mustLayout(t, "ab0;0;0;ba3;.;.;wn3;bk4;.;.;wm3;.;.;.;ws4;.;.;.;wk4;")

	require.NoError(t, b.Play(NewAction(A1, D1)))
	require.True(t, b.Damaged().IsSet(D1))
	require.NoError(t, b.Play(NewSwap(D3, D4)))
	require.NoError(t, b.Play(NewAction(D2, D1)))
	require.Equal(t, 3, b.At(D1).HP)
	require.False(t, b.Damaged().IsSet(D1))
	require.NoError(t, b.Play(NewSwap(A1, A2)))
	require.NoError(t, b.Play(Skip))
	require.NoError(t, b.Play(NewSwap(D3, D4)))

	actions := b.GenerateActions()
	assert.Len(t, actions, 1, "white actions: %v", actions)
	checkInvariants(t, b)
}

func TestPlayRejectsIllegalMoves(t *testing.T) {
	b := NewDefault()
	before := b.Layout()

	err := b.Play(NewSwap(A1, C1))
	require.ErrorIs(t, err, ErrIllegalMove)
	err = b.Play(Skip)
	require.ErrorIs(t, err, ErrIllegalMove)
	assert.Equal(t, before, b.Layout())

	require.NoError(t, b.Play(NewSwap(B1, A1)))
	assert.Equal(t, ActionPhase, b.Phase)
}

func TestParseMove(t *testing.T) {
	tests := []struct {
		phase Phase
		in    string
		want  Move
		ok    bool
	}{
		{SwapPhase, "a1 b1", NewSwap(A1, B1), true},
		{SwapPhase, "B1 A1", NewSwap(A1, B1), true},
		{SwapPhase, "A1", nil, false},
		{SwapPhase, "A1 A1", nil, false},
		{SwapPhase, "skip", nil, false},
		{ActionPhase, "skip", Skip, true},
		{ActionPhase, "B2 B3 B1", NewAction(B2, B1, B3), true},
		{ActionPhase, "B2", nil, false},
		{ActionPhase, "E5 A1", nil, false},
		{ActionPhase, "", nil, false},
	}
	for _, tt := range tests {
		got, err := ParseMove(tt.phase, tt.in)
		if !tt.ok {
			assert.Error(t, err, "ParseMove(%v, %q)", tt.phase, tt.in)
			continue
		}
		require.NoError(t, err, "ParseMove(%v, %q)", tt.phase, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestMoveStrings(t *testing.T) {
	assert.Equal(t, "A1 B1", NewSwap(B1, A1).String())
	assert.Equal(t, "B2 B1 B3", NewAction(B2, B3, B1).String())
	assert.Equal(t, "skip", Skip.String())
}
