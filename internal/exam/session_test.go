package exam

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Spok95/school-exam-portal/internal/models"
)

func TestStore_StartRequiresQuestions(t *testing.T) {
	st := NewStore()
	_, err := st.Start("tok", "6511234567", models.Exam{ID: 7, Name: "Final"}, 0)
	assert.ErrorIs(t, err, ErrNoQuestions)

	_, ok := st.Get("tok")
	assert.False(t, ok, "пустой экзамен не должен оставлять сессию")
}

func TestStore_SubmitIncompleteKeepsSession(t *testing.T) {
	st := NewStore()
	questions := []models.Question{q(1, "B"), q(2, "A"), q(3, "D")}

	_, err := st.Start("tok", "6511234567", models.Exam{ID: 7, Name: "Final"}, len(questions))
	require.NoError(t, err)

	// отвечены 2 из 3 → отказ, состояние не меняется
	_, _, err = st.Submit("tok", questions, map[int64]string{1: "ans B", 3: "ans D"})
	var inc *ErrIncomplete
	require.ErrorAs(t, err, &inc)
	assert.Equal(t, 2, inc.Answered)
	assert.Equal(t, 3, inc.Total)

	sess, ok := st.Get("tok")
	require.True(t, ok)
	assert.Equal(t, InProgress, sess.State)
}

func TestStore_SubmitComplete(t *testing.T) {
	st := NewStore()
	questions := []models.Question{q(1, "B"), q(2, "A"), q(3, "D")}

	_, err := st.Start("tok", "6511234567", models.Exam{ID: 7, Name: "Final"}, len(questions))
	require.NoError(t, err)

	score, total, err := st.Submit("tok", questions, map[int64]string{
		1: "ans B", 2: "ans C", 3: "ans D",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, score)
	assert.Equal(t, 3, total)

	// попытка закрывается только после записи результата
	_, ok := st.Get("tok")
	assert.True(t, ok)
	st.Finish("tok")
	_, ok = st.Get("tok")
	assert.False(t, ok)
}

func TestStore_Cancel(t *testing.T) {
	st := NewStore()
	_, err := st.Start("tok", "6511234567", models.Exam{ID: 7, Name: "Final"}, 3)
	require.NoError(t, err)

	assert.True(t, st.Cancel("tok"))
	_, ok := st.Get("tok")
	assert.False(t, ok)
	assert.False(t, st.Cancel("tok"), "повторная отмена — no-op")
}

func TestStore_SubmitWithoutSession(t *testing.T) {
	st := NewStore()
	_, _, err := st.Submit("tok", nil, nil)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestStore_RestartReplacesSession(t *testing.T) {
	st := NewStore()
	_, err := st.Start("tok", "6511234567", models.Exam{ID: 7, Name: "Final"}, 3)
	require.NoError(t, err)
	_, err = st.Start("tok", "6511234567", models.Exam{ID: 8, Name: "Retake"}, 5)
	require.NoError(t, err)

	sess, ok := st.Get("tok")
	require.True(t, ok)
	assert.Equal(t, int64(8), sess.ExamID)
}

func TestStore_Sweep(t *testing.T) {
	st := NewStore()
	_, err := st.Start("old", "6511234567", models.Exam{ID: 7, Name: "Final"}, 3)
	require.NoError(t, err)
	st.mu.Lock()
	st.byToken["old"].StartedAt = time.Now().Add(-3 * time.Hour)
	st.mu.Unlock()
	_, err = st.Start("fresh", "6522234567", models.Exam{ID: 8, Name: "Final"}, 3)
	require.NoError(t, err)

	assert.Equal(t, 1, st.Sweep(2*time.Hour))
	_, ok := st.Get("fresh")
	assert.True(t, ok)
}
