// Package questionbank renders the mock interview questions for a job.
package questionbank

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed questions.yaml
var defaultYAML []byte

// Question is one rendered interview prompt.
type Question struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
	Type   string `json:"type"`
}

type entry struct {
	Type string `yaml:"type"`
	Text string `yaml:"text"`
}

type file struct {
	Default []entry            `yaml:"default"`
	Areas   map[string][]entry `yaml:"areas"`
}

// Bank holds parsed templates keyed by area.
type Bank struct {
	def   []*compiled
	areas map[string][]*compiled
}

type compiled struct {
	typ  string
	tmpl *template.Template
}

// Load reads path, or the built-in bank when path is empty.
func Load(path string) (*Bank, error) {
	data := defaultYAML
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read question bank: %w", err)
		}
		data = b
	}
	return Parse(data)
}

func Parse(data []byte) (*Bank, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(f.Default) == 0 {
		return nil, errors.New("question bank has no default questions")
	}

	b := &Bank{areas: make(map[string][]*compiled)}
	var err error
	if b.def, err = compile("default", f.Default); err != nil {
		return nil, err
	}
	for area, entries := range f.Areas {
		c, err := compile(area, entries)
		if err != nil {
			return nil, err
		}
		b.areas[strings.ToLower(area)] = c
	}
	return b, nil
}

func compile(name string, entries []entry) ([]*compiled, error) {
	out := make([]*compiled, 0, len(entries))
	for i, e := range entries {
		t, err := template.New(fmt.Sprintf("%s-%d", name, i)).Option("missingkey=zero").Parse(e.Text)
		if err != nil {
			return nil, fmt.Errorf("question %s #%d: %w", name, i+1, err)
		}
		typ := e.Type
		if typ == "" {
			typ = "geral"
		}
		out = append(out, &compiled{typ: typ, tmpl: t})
	}
	return out, nil
}

// For renders the questions for a job. Unknown areas use the default set.
func (b *Bank) For(area, vaga, empresa string) ([]Question, error) {
	set, ok := b.areas[strings.ToLower(strings.TrimSpace(area))]
	if !ok {
		set = b.def
	}

	data := struct{ Vaga, Empresa string }{vaga, empresa}
	questions := make([]Question, 0, len(set))
	for i, c := range set {
		var buf bytes.Buffer
		if err := c.tmpl.Execute(&buf, data); err != nil {
			return nil, err
		}
		questions = append(questions, Question{Number: i + 1, Text: buf.String(), Type: c.typ})
	}
	return questions, nil
}
