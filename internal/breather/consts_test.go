package breather

import (
	"testing"

	"github.com/lowaak/zen-breath/internal/breathing"
	"github.com/stretchr/testify/assert"
)

func TestGetUIModeByKey(t *testing.T) {
	mode, ok := GetUIModeByKey('1')
	assert.True(t, ok)
	assert.Equal(t, UIModePatternSelection, mode)

	mode, ok = GetUIModeByKey('2')
	assert.True(t, ok)
	assert.Equal(t, UIModeSession, mode)

	_, ok = GetUIModeByKey('9')
	assert.False(t, ok)
}

func TestGetUIModeInfo(t *testing.T) {
	info, ok := GetUIModeInfo(UIModeSession)
	assert.True(t, ok)
	assert.Equal(t, "Breathing Session", info.DisplayName)

	_, ok = GetUIModeInfo(UIMode(42))
	assert.False(t, ok)
}

func TestSessionState_ElapsedTicks(t *testing.T) {
	tests := []struct {
		name  string
		state SessionState
		want  int
	}{
		{
			name:  "no pattern",
			state: SessionState{Snapshot: breathing.Snapshot{Phase: breathing.PhaseInhale, TimeRemaining: 2}},
			want:  0,
		},
		{
			name:  "ready",
			state: SessionState{Snapshot: breathing.Snapshot{Phase: breathing.PhaseReady}, Pattern: box},
			want:  0,
		},
		{
			name:  "first tick of inhale",
			state: SessionState{Snapshot: breathing.Snapshot{Phase: breathing.PhaseInhale, TimeRemaining: 4}, Pattern: relaxing},
			want:  0,
		},
		{
			name:  "mid exhale",
			state: SessionState{Snapshot: breathing.Snapshot{Phase: breathing.PhaseExhale, TimeRemaining: 3}, Pattern: relaxing},
			want:  4 + 7 + 5,
		},
		{
			name:  "second cycle hold after exhale",
			state: SessionState{Snapshot: breathing.Snapshot{Phase: breathing.PhaseHoldAfterExhale, CycleIndex: 1, TimeRemaining: 1}, Pattern: box},
			want:  16 + 12 + 3,
		},
		{
			name:  "complete",
			state: SessionState{Snapshot: breathing.Snapshot{Phase: breathing.PhaseComplete}, Pattern: box},
			want:  96,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.ElapsedTicks())
		})
	}
}
