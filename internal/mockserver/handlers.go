package mockserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *Server) listSubjects(c *gin.Context) {
	c.JSON(http.StatusOK, s.bank.Subjects())
}

func (s *Server) startSession(c *gin.Context) {
	subject := strings.TrimSpace(c.Query("subject"))
	questions := s.bank.ForSubject(subject)
	if len(questions) == 0 {
		abortDetail(c, http.StatusNotFound, "No questions found for subject: "+subject)
		return
	}

	sess := &quizSession{
		id:        uuid.NewString(),
		userID:    c.Query("user_id"),
		subject:   questions[0].Subject,
		total:     min(s.cfg.TotalQuestions, len(questions)),
		startedAt: s.now(),
		asked:     make(map[string]bool),
		mastery:   make(map[string]float64),
	}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.order = append(s.order, sess)
	s.mu.Unlock()

	s.metrics.sessions.Inc()
	s.logger.Info("session started", zap.String("session_id", sess.id), zap.String("subject", sess.subject))
	c.JSON(http.StatusOK, gin.H{
		"session_id":      sess.id,
		"subject":         sess.subject,
		"total_questions": sess.total,
	})
}

type sessionBody struct {
	SessionID string `json:"session_id" binding:"required"`
}

// session looks up the session or writes a 404. Callers hold s.mu.
func (s *Server) session(c *gin.Context, id string) (*quizSession, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		abortDetail(c, http.StatusNotFound, "Session not found")
	}
	return sess, ok
}

func (s *Server) nextQuestion(c *gin.Context) {
	var body sessionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.session(c, body.SessionID)
	if !ok {
		return
	}
	if sess.completed {
		abortDetail(c, http.StatusBadRequest, "Session is no longer active")
		return
	}
	// Repeated fetches return the unanswered question.
	if sess.current == nil {
		if len(sess.attempts) < sess.total {
			sess.current = s.pickQuestion(sess)
		}
		if sess.current == nil {
			c.JSON(http.StatusOK, gin.H{"finished": true})
			return
		}
		sess.asked[sess.current.ID] = true
	}

	q := sess.current
	target := Easy
	if m, ok := sess.averageMastery(); ok {
		target = s.bkt.Difficulty(m)
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                 q.ID,
		"question":           q.Question,
		"option_a":           q.Option("A"),
		"option_b":           q.Option("B"),
		"option_c":           q.Option("C"),
		"option_d":           q.Option("D"),
		"difficulty":         q.Difficulty,
		"current_difficulty": target,
		"topic":              q.Topic,
		"question_number":    len(sess.attempts) + 1,
		"total_questions":    sess.total,
	})
}

// pickQuestion chooses an unasked question at the difficulty the learner's
// average mastery calls for, falling back to any unasked question.
func (s *Server) pickQuestion(sess *quizSession) *BankQuestion {
	target := Easy
	if m, ok := sess.averageMastery(); ok {
		target = s.bkt.Difficulty(m)
	}

	var preferred, rest []*BankQuestion
	for _, q := range s.bank.ForSubject(sess.subject) {
		switch {
		case sess.asked[q.ID]:
		case q.Difficulty == target:
			preferred = append(preferred, q)
		default:
			rest = append(rest, q)
		}
	}
	if len(preferred) == 0 {
		preferred = rest
	}
	if len(preferred) == 0 {
		return nil
	}
	return preferred[s.rng.IntN(len(preferred))]
}

type submitBody struct {
	SessionID      string `json:"session_id" binding:"required"`
	SelectedAnswer string `json:"selected_answer" binding:"required"`
	QuestionID     string `json:"question_id"`
	Topic          string `json:"topic"`
	// Older clients send time_taken_seconds.
	TimeSpent        *float64 `json:"time_spent"`
	TimeTakenSeconds *float64 `json:"time_taken_seconds"`
}

func (b submitBody) seconds() float64 {
	switch {
	case b.TimeSpent != nil:
		return *b.TimeSpent
	case b.TimeTakenSeconds != nil:
		return *b.TimeTakenSeconds
	}
	return 0
}

func (s *Server) submitAnswer(c *gin.Context) {
	var body submitBody
	if err := c.ShouldBindJSON(&body); err != nil {
		abortDetail(c, http.StatusUnprocessableEntity, err.Error())
		return
	}
	selected := strings.ToUpper(strings.TrimSpace(body.SelectedAnswer))

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.session(c, body.SessionID)
	if !ok {
		return
	}
	q := sess.current
	switch {
	case sess.completed:
		abortDetail(c, http.StatusBadRequest, "Session is no longer active")
		return
	case q == nil:
		abortDetail(c, http.StatusBadRequest, "No question is awaiting an answer")
		return
	case body.QuestionID != "" && body.QuestionID != q.ID:
		abortDetail(c, http.StatusNotFound, "Question not found")
		return
	}

	correct := selected == q.Answer
	prior, seen := sess.mastery[q.Topic]
	if !seen {
		prior = s.bkt.PInit
	}
	updated := s.bkt.Update(prior, correct)
	sess.mastery[q.Topic] = updated
	sess.attempts = append(sess.attempts, attempt{
		question:  q,
		selected:  selected,
		correct:   correct,
		timeSpent: body.seconds(),
		at:        s.now(),
	})
	sess.current = nil

	s.metrics.answers.WithLabelValues(sess.subject, fmt.Sprint(correct)).Inc()
	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"is_correct":        correct,
		"correct_answer":    q.Answer,
		"explanation":       q.Explanation,
		"new_mastery_level": updated,
		"topic":             q.Topic,
	})
}

func (s *Server) completeSession(c *gin.Context) {
	id := c.Query("session_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.session(c, id)
	if !ok {
		return
	}
	sess.completed = true
	sess.current = nil

	answered, correct := len(sess.attempts), sess.correctCount()
	score := percent(correct, answered)
	c.JSON(http.StatusOK, gin.H{
		"session_id":      sess.id,
		"total_answered":  answered,
		"correct_answers": correct,
		"score":           score,
		"message":         fmt.Sprintf("Assessment completed. Score: %.1f%%", score),
	})
}

func (s *Server) learningPath(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.session(c, c.Param("session_id"))
	if !ok {
		return
	}
	if len(sess.attempts) == 0 {
		abortDetail(c, http.StatusBadRequest, "No attempts found for this session")
		return
	}

	topics := []gin.H{}
	for _, t := range topicStats(s.bkt, sess.attempts) {
		priority, advice := "low", fmt.Sprintf("You have a good grip on %s. Try harder questions next.", t.topic)
		switch {
		case t.mastery < 0.4:
			priority = "high"
			advice = fmt.Sprintf("Review the basics of %s and practise about 10 easy questions.", t.topic)
		case t.mastery < 0.7:
			priority = "medium"
			advice = fmt.Sprintf("Practise about 5 medium questions on %s to consolidate.", t.topic)
		}
		topics = append(topics, gin.H{
			"topic":           t.topic,
			"current_mastery": t.mastery,
			"priority":        priority,
			"recommendation":  advice,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"session_id":         sess.id,
		"subject":            sess.subject,
		"overall_score":      percent(sess.correctCount(), len(sess.attempts)) / 100,
		"recommended_topics": topics,
	})
}

// history returns the attempts of a subject in order. An empty user
// matches everyone. Callers hold s.mu.
func (s *Server) history(subject, user string) (attempts []attempt, quizzes int) {
	for _, sess := range s.order {
		if subjectKey(sess.subject) != subjectKey(subject) || len(sess.attempts) == 0 {
			continue
		}
		if user != "" && sess.userID != user {
			continue
		}
		attempts = append(attempts, sess.attempts...)
		quizzes++
	}
	return attempts, quizzes
}

func (s *Server) recommendations(c *gin.Context) {
	subject := c.Query("subject")

	s.mu.Lock()
	attempts, quizzes := s.history(subject, c.Query("user_id"))
	s.mu.Unlock()

	if len(attempts) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"has_data":           false,
			"total_quizzes":      0,
			"total_questions":    0,
			"ai_recommendations": "",
			"weak_areas":         []WeakArea{},
			"learning_resources": resourcesFor(subject),
		})
		return
	}

	weak := []WeakArea{}
	for _, t := range topicStats(s.bkt, attempts) {
		if t.mastery < 0.7 || t.accuracy() < 70 {
			weak = append(weak, WeakArea{Topic: t.topic, Mastery: t.mastery, Accuracy: t.accuracy()})
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"has_data":           true,
		"total_quizzes":      quizzes,
		"total_questions":    len(attempts),
		"ai_recommendations": s.advisor.Advise(c.Request.Context(), attempts[0].question.Subject, weak),
		"weak_areas":         weak,
		"learning_resources": resourcesFor(subject),
	})
}

func (s *Server) lastQuiz(c *gin.Context) {
	user := c.Query("user_id")

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.order) - 1; i >= 0; i-- {
		sess := s.order[i]
		if len(sess.attempts) == 0 || (user != "" && sess.userID != user) {
			continue
		}
		correct := sess.correctCount()
		c.JSON(http.StatusOK, gin.H{
			"has_data":        true,
			"subject":         sess.subject,
			"correct_answers": correct,
			"total_questions": len(sess.attempts),
			"accuracy":        percent(correct, len(sess.attempts)),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"has_data": false})
}

func (s *Server) subjectAnalytics(c *gin.Context) {
	s.mu.Lock()
	attempts, _ := s.history(c.Param("subject"), "")
	s.mu.Unlock()

	growth := make([]gin.H, 0, len(attempts))
	history := make([]gin.H, 0, len(attempts))
	correct := 0
	for i, a := range attempts {
		if a.correct {
			correct++
		}
		growth = append(growth, gin.H{
			"question_number": i + 1,
			"accuracy":        percent(correct, i+1),
			"correct":         a.correct,
		})
		history = append(history, gin.H{
			"topic":      a.question.Topic,
			"difficulty": a.question.Difficulty,
			"question":   a.question.Question,
			"is_correct": a.correct,
		})
	}

	var mastery float64
	if stats := topicStats(s.bkt, attempts); len(stats) > 0 {
		for _, t := range stats {
			mastery += t.mastery
		}
		mastery /= float64(len(stats))
	}
	c.JSON(http.StatusOK, gin.H{
		"total_questions":  len(attempts),
		"correct_answers":  correct,
		"accuracy":         percent(correct, len(attempts)),
		"mastery_estimate": mastery,
		"growth_data":      growth,
		"question_history": history,
	})
}
