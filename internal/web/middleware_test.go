package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Spok95/school-exam-portal/internal/models"
)

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"Bearer abc-123", "abc-123"},
		{"Bearer   abc  ", "abc"},
		{"bearer abc", ""}, // регистр схемы значим
		{"Basic abc", ""},
		{"", ""},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if c.header != "" {
			r.Header.Set("Authorization", c.header)
		}
		assert.Equal(t, c.want, bearerToken(r), "header %q", c.header)
	}
}

func TestRoleAllowed(t *testing.T) {
	assert.True(t, roleAllowed(models.Admin, []models.Role{models.Teacher, models.Admin}))
	assert.False(t, roleAllowed(models.RoleStudent, []models.Role{models.Teacher, models.Admin}))
}

func TestAuthRejectsMissingToken(t *testing.T) {
	s := &Server{log: zap.NewNop().Sugar()}
	h := s.auth(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler не должен вызываться без токена")
	})

	w := httptest.NewRecorder()
	h(w, httptest.NewRequest(http.MethodGet, "/api/student/grades", nil))

	require.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "bearer")
}

func TestRespondError(t *testing.T) {
	s := &Server{log: zap.NewNop().Sugar()}
	w := httptest.NewRecorder()
	s.respondError(w, http.StatusUnprocessableEntity, "answered 2 of 3 questions")

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":"answered 2 of 3 questions"}`, w.Body.String())
}
