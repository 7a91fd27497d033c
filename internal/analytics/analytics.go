// Package analytics loads and memoizes per-subject learning history for
// the dashboard.
package analytics

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/abhisek/quizpath/internal/gateway"
	"github.com/abhisek/quizpath/internal/mastery"
	"github.com/abhisek/quizpath/internal/session"
)

// ErrNoData is returned by Select when the learner has not answered any
// question in the subject yet.
var ErrNoData = errors.New("no data available")

// TopicStat aggregates the question history of one topic.
type TopicStat struct {
	Topic           string
	Answered        int
	Correct         int
	AccuracyPercent int
}

// Panel is the display model for one subject tab.
type Panel struct {
	Subject string
	// Empty is set when the learner has no recorded questions for the
	// subject. The view shows a call to action instead of charts.
	Empty bool

	TotalQuestions  int
	CorrectAnswers  int
	AccuracyPercent int
	MasteryPercent  int
	Tier            mastery.Tier

	Growth  []gateway.GrowthPoint
	History []gateway.HistoryEntry
	Topics  []TopicStat
}

// BuildPanel maps a snapshot to its Panel. A nil snapshot is empty.
func BuildPanel(s *gateway.AnalyticsSnapshot) Panel {
	if s.Empty() {
		p := Panel{Empty: true, Tier: mastery.TierBeginner}
		if s != nil {
			p.Subject = s.Subject
		}
		return p
	}
	return Panel{
		Subject:         s.Subject,
		TotalQuestions:  s.TotalQuestions,
		CorrectAnswers:  s.CorrectAnswers,
		AccuracyPercent: accuracyPercent(s),
		MasteryPercent:  mastery.Percent(s.MasteryEstimate),
		Tier:            mastery.Classify(s.MasteryEstimate),
		Growth:          s.Growth,
		History:         s.History,
		Topics:          topicStats(s.History),
	}
}

// accuracyPercent shows the backend's accuracy as received. Older
// backends omit it, which decodes as zero despite correct answers.
func accuracyPercent(s *gateway.AnalyticsSnapshot) int {
	if s.Accuracy <= 0 && s.CorrectAnswers > 0 {
		return session.AccuracyPercent(s.CorrectAnswers, s.TotalQuestions)
	}
	return int(math.Round(min(max(s.Accuracy, 0), 100)))
}

// topicStats orders topics by accuracy, weakest first.
func topicStats(history []gateway.HistoryEntry) []TopicStat {
	index := make(map[string]int)
	var stats []TopicStat
	for _, h := range history {
		i, ok := index[h.Topic]
		if !ok {
			i = len(stats)
			index[h.Topic] = i
			stats = append(stats, TopicStat{Topic: h.Topic})
		}
		stats[i].Answered++
		if h.IsCorrect {
			stats[i].Correct++
		}
	}
	for i := range stats {
		stats[i].AccuracyPercent = session.AccuracyPercent(stats[i].Correct, stats[i].Answered)
	}
	sort.SliceStable(stats, func(a, b int) bool {
		return stats[a].AccuracyPercent < stats[b].AccuracyPercent
	})
	return stats
}

// ViewModel fetches each subject's snapshot on first use and keeps it for
// its own lifetime. Failed fetches are not cached. Concurrent requests for
// the same subject share one backend call.
type ViewModel struct {
	gw     gateway.Gateway
	logger *zap.Logger
	group  singleflight.Group

	mu              sync.Mutex
	snapshots       map[string]*gateway.AnalyticsSnapshot
	recommendations map[string]*gateway.Recommendations
}

// NewViewModel creates an empty ViewModel. logger may be nil.
func NewViewModel(gw gateway.Gateway, logger *zap.Logger) *ViewModel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewModel{
		gw:              gw,
		logger:          logger.Named("analytics"),
		snapshots:       make(map[string]*gateway.AnalyticsSnapshot),
		recommendations: make(map[string]*gateway.Recommendations),
	}
}

// Cached returns the panel for subject if it has already been loaded.
func (v *ViewModel) Cached(subject string) (Panel, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	s, ok := v.snapshots[gateway.CanonicalSubject(subject)]
	if !ok {
		return Panel{}, false
	}
	return BuildPanel(s), true
}

// Panel returns the panel for subject, fetching it on first use.
func (v *ViewModel) Panel(ctx context.Context, subject string) (Panel, error) {
	key := gateway.CanonicalSubject(subject)
	if p, ok := v.Cached(key); ok {
		return p, nil
	}

	res, err, _ := v.group.Do("analytics:"+key, func() (any, error) {
		snap, err := v.gw.SubjectAnalytics(ctx, key)
		if err != nil {
			return nil, err
		}
		if snap.Subject == "" {
			snap.Subject = key
		}
		v.mu.Lock()
		if _, ok := v.snapshots[key]; !ok {
			v.snapshots[key] = snap
		}
		snap = v.snapshots[key]
		v.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		v.logger.Warn("subject analytics unavailable", zap.String("subject", key), zap.Error(err))
		return Panel{Subject: key}, err
	}
	return BuildPanel(res.(*gateway.AnalyticsSnapshot)), nil
}

// Select loads the panel for a newly selected subject tab. An empty
// subject returns its panel together with ErrNoData.
func (v *ViewModel) Select(ctx context.Context, subject string) (Panel, error) {
	p, err := v.Panel(ctx, subject)
	if err != nil {
		return p, err
	}
	if p.Empty {
		return p, ErrNoData
	}
	return p, nil
}

// Recommendations returns the study advice for subject, fetching it on
// first use.
func (v *ViewModel) Recommendations(ctx context.Context, subject string) (*gateway.Recommendations, error) {
	key := gateway.CanonicalSubject(subject)
	v.mu.Lock()
	if r, ok := v.recommendations[key]; ok {
		v.mu.Unlock()
		return r, nil
	}
	v.mu.Unlock()

	res, err, _ := v.group.Do("recommendations:"+key, func() (any, error) {
		r, err := v.gw.Recommendations(ctx, key)
		if err != nil {
			return nil, err
		}
		v.mu.Lock()
		if _, ok := v.recommendations[key]; !ok {
			v.recommendations[key] = r
		}
		r = v.recommendations[key]
		v.mu.Unlock()
		return r, nil
	})
	if err != nil {
		v.logger.Warn("recommendations unavailable", zap.String("subject", key), zap.Error(err))
		return nil, err
	}
	return res.(*gateway.Recommendations), nil
}
