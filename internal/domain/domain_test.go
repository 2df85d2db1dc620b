package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClampProgress(t *testing.T) {
	cases := map[int]int{150: 100, -20: 0, 0: 0, 100: 100, 42: 42}
	for in, want := range cases {
		assert.Equal(t, want, ClampProgress(in), "progression %d", in)
	}
}

func TestEnumsAreClosed(t *testing.T) {
	assert.True(t, InterviewStatusPostponed.Valid())
	assert.False(t, InterviewStatus("annule").Valid())
	assert.True(t, InterviewTypeBimonthly.Valid())
	assert.False(t, InterviewType("mensuel").Valid())
	assert.True(t, NotePhaseLive.Valid())
	assert.False(t, NotePhase("").Valid())
	assert.True(t, CategoryOther.Valid())
	assert.False(t, GoalCategory("loisirs").Valid())
	assert.True(t, PriorityHigh.Valid())
	assert.False(t, Priority("urgente").Valid())
	for _, s := range GoalStatuses {
		assert.True(t, s.Valid())
	}
	assert.False(t, GoalStatus("termine").Valid())
}

func TestInterviewStatusIsUpcoming(t *testing.T) {
	assert.True(t, InterviewStatusPlanned.IsUpcoming())
	assert.True(t, InterviewStatusInPreparation.IsUpcoming())
	assert.False(t, InterviewStatusCompleted.IsUpcoming())
	assert.False(t, InterviewStatusPostponed.IsUpcoming())
}

func TestTemplateStructureScan(t *testing.T) {
	var s TemplateStructure
	require.NoError(t, s.Scan([]byte(`{"sections":[{"nom":"Bilan","questions":["Q1","Q2"]}]}`)))
	require.Len(t, s.Sections, 1)
	assert.Equal(t, "Bilan", s.Sections[0].Name)
	assert.Equal(t, []string{"Q1", "Q2"}, s.Sections[0].Questions)

	v, err := s.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `{"sections":[{"nom":"Bilan","questions":["Q1","Q2"]}]}`, v.(string))

	assert.Error(t, s.Scan(42))
}

func TestPendingVerificationIsExpired(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	pv := &PendingVerification{ExpiresAt: now.Add(10 * time.Minute)}

	assert.False(t, pv.IsExpired(now))
	assert.False(t, pv.IsExpired(now.Add(10*time.Minute)))
	assert.True(t, pv.IsExpired(now.Add(10*time.Minute+time.Second)))
}
