package mockserver

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed bank.yaml
var defaultBank []byte

// Difficulty levels used by the bank and the BKT fixture.
const (
	Easy   = "easy"
	Medium = "medium"
	Hard   = "hard"
)

// BankQuestion is one multiple-choice question of the seed bank.
type BankQuestion struct {
	ID          string   `yaml:"id"`
	Subject     string   `yaml:"subject"`
	Topic       string   `yaml:"topic"`
	Difficulty  string   `yaml:"difficulty"`
	Question    string   `yaml:"question"`
	Options     []string `yaml:"options"`
	Answer      string   `yaml:"answer"`
	Explanation string   `yaml:"explanation"`
}

// Bank indexes questions by subject.
type Bank struct {
	questions []BankQuestion
	byID      map[string]*BankQuestion
	bySubject map[string][]*BankQuestion
}

// DefaultBank returns the embedded seed bank.
func DefaultBank() (*Bank, error) {
	return ParseBank(defaultBank)
}

// ParseBank decodes and checks a YAML question bank.
func ParseBank(data []byte) (*Bank, error) {
	var doc struct {
		Questions []BankQuestion `yaml:"questions"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}

	b := &Bank{
		questions: doc.Questions,
		byID:      make(map[string]*BankQuestion, len(doc.Questions)),
		bySubject: make(map[string][]*BankQuestion),
	}
	for i := range b.questions {
		q := &b.questions[i]
		q.Answer = strings.ToUpper(strings.TrimSpace(q.Answer))
		if err := q.check(); err != nil {
			return nil, err
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, fmt.Errorf("question %s: duplicate id", q.ID)
		}
		b.byID[q.ID] = q
		key := subjectKey(q.Subject)
		b.bySubject[key] = append(b.bySubject[key], q)
	}
	return b, nil
}

func (q *BankQuestion) check() error {
	switch {
	case q.ID == "":
		return fmt.Errorf("question %q: missing id", q.Question)
	case q.Subject == "" || q.Question == "":
		return fmt.Errorf("question %s: subject and question are required", q.ID)
	case len(q.Options) != 4:
		return fmt.Errorf("question %s: want 4 options, got %d", q.ID, len(q.Options))
	case q.Answer < "A" || q.Answer > "D" || len(q.Answer) != 1:
		return fmt.Errorf("question %s: answer %q is not A-D", q.ID, q.Answer)
	}
	switch q.Difficulty {
	case Easy, Medium, Hard:
	default:
		return fmt.Errorf("question %s: unknown difficulty %q", q.ID, q.Difficulty)
	}
	if q.Topic == "" {
		q.Topic = "General"
	}
	return nil
}

// Option returns the text of the option with the given label.
func (q *BankQuestion) Option(label string) string {
	if len(label) != 1 {
		return ""
	}
	i := int(label[0]) - 'A'
	if i < 0 || i >= len(q.Options) {
		return ""
	}
	return q.Options[i]
}

func (b *Bank) Get(id string) (*BankQuestion, bool) {
	q, ok := b.byID[id]
	return q, ok
}

// ForSubject returns the questions of a subject, matched case-insensitively.
func (b *Bank) ForSubject(subject string) []*BankQuestion {
	return b.bySubject[subjectKey(subject)]
}

// SubjectInfo summarises one subject of the bank.
type SubjectInfo struct {
	Subject       string   `json:"subject"`
	QuestionCount int      `json:"question_count"`
	Topics        []string `json:"topics"`
}

// Subjects lists every subject with its sorted topics.
func (b *Bank) Subjects() []SubjectInfo {
	out := make([]SubjectInfo, 0, len(b.bySubject))
	for _, qs := range b.bySubject {
		topics := map[string]bool{}
		for _, q := range qs {
			topics[q.Topic] = true
		}
		info := SubjectInfo{Subject: qs[0].Subject, QuestionCount: len(qs)}
		for t := range topics {
			info.Topics = append(info.Topics, t)
		}
		sort.Strings(info.Topics)
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Subject < out[j].Subject })
	return out
}

func subjectKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
