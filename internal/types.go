package internal

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Criterion is one quality dimension a response is judged on.
type Criterion string

const (
	Clarity    Criterion = "clarity"
	Accuracy   Criterion = "accuracy"
	Creativity Criterion = "creativity"
	Grammar    Criterion = "grammar"
)

// Criteria lists every criterion in assembly order.
var Criteria = []Criterion{Clarity, Accuracy, Creativity, Grammar}

// ParseCriterion accepts only the four known criterion names.
func ParseCriterion(s string) (Criterion, error) {
	for _, c := range Criteria {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown criterion %q", s)
}

func (c Criterion) String() string { return string(c) }

// Scores holds one integer score per criterion. All four are always present.
type Scores struct {
	Clarity    int `json:"clarity" yaml:"clarity"`
	Accuracy   int `json:"accuracy" yaml:"accuracy"`
	Creativity int `json:"creativity" yaml:"creativity"`
	Grammar    int `json:"grammar" yaml:"grammar"`
}

// Get returns the score for c, or 0 for an unknown criterion.
func (s Scores) Get(c Criterion) int {
	switch c {
	case Clarity:
		return s.Clarity
	case Accuracy:
		return s.Accuracy
	case Creativity:
		return s.Creativity
	case Grammar:
		return s.Grammar
	}
	return 0
}

// Set stores v for c. Unknown criteria are ignored.
func (s *Scores) Set(c Criterion, v int) {
	switch c {
	case Clarity:
		s.Clarity = v
	case Accuracy:
		s.Accuracy = v
	case Creativity:
		s.Creativity = v
	case Grammar:
		s.Grammar = v
	}
}

// Sum adds the four criterion scores.
func (s Scores) Sum() int {
	return s.Clarity + s.Accuracy + s.Creativity + s.Grammar
}

// ResponseSet maps provider name to display text and remembers insertion order.
type ResponseSet struct {
	names []string
	texts map[string]string
}

func NewResponseSet() *ResponseSet {
	return &ResponseSet{texts: make(map[string]string)}
}

// Add records the display text for name. A repeated name overwrites the text
// and keeps its original position.
func (r *ResponseSet) Add(name, text string) {
	if _, ok := r.texts[name]; !ok {
		r.names = append(r.names, name)
	}
	r.texts[name] = text
}

func (r *ResponseSet) Get(name string) (string, bool) {
	text, ok := r.texts[name]
	return text, ok
}

// Names returns provider names in insertion order.
func (r *ResponseSet) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (r *ResponseSet) Len() int { return len(r.names) }

// MarshalJSON writes a JSON object whose keys keep insertion order.
func (r *ResponseSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.texts[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML emits a mapping node so YAML output keeps insertion order too.
func (r *ResponseSet) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, name := range r.names {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.texts[name]},
		)
	}
	return node, nil
}

// ModelEvaluation is the judged outcome for one provider's response.
type ModelEvaluation struct {
	ModelName  string  `json:"modelName" yaml:"modelName"`
	Scores     Scores  `json:"scores" yaml:"scores"`
	FinalScore float64 `json:"finalScore" yaml:"finalScore"`
}

// RankingEntry is the projection of a ModelEvaluation used for ordering.
type RankingEntry struct {
	ModelName  string  `json:"modelName" yaml:"modelName"`
	FinalScore float64 `json:"finalScore" yaml:"finalScore"`
}

// EvaluationResult is everything returned for one prompt.
type EvaluationResult struct {
	RequestID    string            `json:"requestId" yaml:"requestId"`
	Prompt       string            `json:"-" yaml:"-"`
	Responses    *ResponseSet      `json:"responses" yaml:"responses"`
	Evaluations  []ModelEvaluation `json:"evaluations" yaml:"evaluations"`
	BestResponse RankingEntry      `json:"bestResponse" yaml:"bestResponse"`
	Ranking      []RankingEntry    `json:"ranking" yaml:"ranking"`
}
