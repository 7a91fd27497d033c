package mockserver

import (
	"sort"
	"time"
)

type attempt struct {
	question  *BankQuestion
	selected  string
	correct   bool
	timeSpent float64
	at        time.Time
}

// quizSession is the server side of one assessment.
type quizSession struct {
	id        string
	userID    string
	subject   string
	total     int
	startedAt time.Time
	completed bool

	current  *BankQuestion
	asked    map[string]bool
	attempts []attempt
	mastery  map[string]float64
}

func (s *quizSession) correctCount() int {
	n := 0
	for _, a := range s.attempts {
		if a.correct {
			n++
		}
	}
	return n
}

func (s *quizSession) averageMastery() (float64, bool) {
	if len(s.mastery) == 0 {
		return 0, false
	}
	var sum float64
	for _, m := range s.mastery {
		sum += m
	}
	return sum / float64(len(s.mastery)), true
}

func percent(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(correct) * 100 / float64(total)
}

type topicStat struct {
	topic    string
	answered int
	correct  int
	mastery  float64
}

func (t topicStat) accuracy() float64 { return percent(t.correct, t.answered) }

// topicStats replays attempts in order through the BKT model and returns
// per-topic totals, weakest mastery first.
func topicStats(bkt BKT, attempts []attempt) []topicStat {
	byTopic := map[string]*topicStat{}
	for _, a := range attempts {
		t, ok := byTopic[a.question.Topic]
		if !ok {
			t = &topicStat{topic: a.question.Topic, mastery: bkt.PInit}
			byTopic[a.question.Topic] = t
		}
		t.answered++
		if a.correct {
			t.correct++
		}
		t.mastery = bkt.Update(t.mastery, a.correct)
	}

	out := make([]topicStat, 0, len(byTopic))
	for _, t := range byTopic {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].mastery != out[j].mastery {
			return out[i].mastery < out[j].mastery
		}
		return out[i].topic < out[j].topic
	})
	return out
}
