package exam

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Spok95/school-exam-portal/internal/models"
)

// State — состояние попытки. Терминальные состояния возвращают студента
// к списку доступных экзаменов.
type State string

const (
	NotStarted State = "NOT_STARTED"
	InProgress State = "IN_PROGRESS"
	Submitted  State = "SUBMITTED"
	Cancelled  State = "CANCELLED"
)

var (
	ErrNoQuestions = errors.New("exam has no questions")
	ErrNoSession   = errors.New("no exam in progress")
)

// ErrIncomplete — отказ от сдачи: отвечены не все вопросы.
// Состояние остаётся IN_PROGRESS.
type ErrIncomplete struct {
	Answered int
	Total    int
}

func (e *ErrIncomplete) Error() string {
	return fmt.Sprintf("answered %d of %d questions", e.Answered, e.Total)
}

// Session — одна попытка, привязанная к токену логин-сессии.
type Session struct {
	Token     string
	StudentID string
	ExamID    int64
	ExamName  string
	State     State
	StartedAt time.Time
}

// Store держит активные попытки в памяти, по одной на логин-сессию —
// тот же приём, что и state-мапы чатовых сценариев. Две вкладки одного
// браузера делят токен и, значит, попытку; два разных логина одного студента
// могут сдать параллельно — победит последняя запись (атомарный upsert в БД),
// потерять строку при этом нельзя. Осознанное ограничение, не детектируем.
type Store struct {
	mu      sync.Mutex
	byToken map[string]*Session
}

func NewStore() *Store {
	return &Store{byToken: make(map[string]*Session)}
}

// Start: NOT_STARTED → IN_PROGRESS. Экзамен без вопросов стартовать нельзя —
// его не из чего сдавать, сразу возвращаем ErrNoQuestions.
// Повторный старт в той же сессии заменяет незавершённую попытку.
func (s *Store) Start(token, studentID string, e models.Exam, questionCount int) (*Session, error) {
	if questionCount == 0 {
		return nil, ErrNoQuestions
	}
	sess := &Session{
		Token:     token,
		StudentID: studentID,
		ExamID:    e.ID,
		ExamName:  e.Name,
		State:     InProgress,
		StartedAt: time.Now(),
	}
	s.mu.Lock()
	s.byToken[token] = sess
	s.mu.Unlock()
	return sess, nil
}

// Get — снапшот активной попытки.
func (s *Store) Get(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byToken[token]
	if !ok || sess.State != InProgress {
		return Session{}, false
	}
	return *sess, true
}

// Submit: IN_PROGRESS → SUBMITTED. Требует ответа на каждый вопрос, иначе
// ErrIncomplete и состояние сохраняется. Успех возвращает счёт; запись попытки
// в БД — на вызывающем, и только после неё нужно звать Finish.
func (s *Store) Submit(token string, questions []models.Question, answers map[int64]string) (score, total int, err error) {
	s.mu.Lock()
	sess, ok := s.byToken[token]
	s.mu.Unlock()
	if !ok || sess.State != InProgress {
		return 0, 0, ErrNoSession
	}

	answered := Answered(questions, answers)
	if answered < len(questions) {
		return 0, 0, &ErrIncomplete{Answered: answered, Total: len(questions)}
	}
	score, total = Score(questions, answers)
	return score, total, nil
}

// Finish завершает попытку после успешной записи результата.
func (s *Store) Finish(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.byToken[token]; ok {
		sess.State = Submitted
		delete(s.byToken, token)
	}
}

// Cancel: IN_PROGRESS → CANCELLED. Ответы отбрасываются, ничего не пишем.
func (s *Store) Cancel(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byToken[token]
	if !ok {
		return false
	}
	sess.State = Cancelled
	delete(s.byToken, token)
	return true
}

// Sweep убирает попытки старше maxAge (брошенные вкладки). Возвращает число убранных.
func (s *Store) Sweep(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for token, sess := range s.byToken {
		if sess.StartedAt.Before(cutoff) {
			delete(s.byToken, token)
			n++
		}
	}
	return n
}
