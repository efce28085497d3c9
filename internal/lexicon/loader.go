package lexicon

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// OverlayFile is the on-disk format for deployment-specific lexicon
// extensions. Universities ship their own catalog of majors and extra topic
// vocabulary as YAML; entries are appended after the built-in tables so the
// built-in tie-break order is preserved.
type OverlayFile struct {
	Subjects []OverlaySubject `yaml:"subjects"`
	Topics   []OverlayTopic   `yaml:"topics"`
}

// OverlaySubject is one subject entry in an overlay file.
type OverlaySubject struct {
	Name      string   `yaml:"name"`
	PatternEN string   `yaml:"pattern_en"`
	PatternAR string   `yaml:"pattern_ar"`
	Keywords  []string `yaml:"keywords"`
}

// OverlayTopic is one topic entry in an overlay file. When Name matches an
// existing topic the keywords are appended; otherwise a new topic is
// registered at the end of the table.
type OverlayTopic struct {
	Name     string   `yaml:"name"`
	Keywords []string `yaml:"keywords"`
}

// LoadOverlay reads a YAML overlay file and applies it to the lexicon.
func (l *Lexicon) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("lexicon: failed to read overlay %s: %w", path, err)
	}
	return l.ApplyOverlay(data)
}

// ApplyOverlay parses overlay YAML and merges it into the lexicon.
func (l *Lexicon) ApplyOverlay(data []byte) error {
	var file OverlayFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("lexicon: failed to parse overlay: %w", err)
	}

	for _, s := range file.Subjects {
		if s.Name == "" {
			return fmt.Errorf("lexicon: overlay subject with empty name")
		}
		subject := Subject{Name: s.Name, Keywords: s.Keywords}
		if s.PatternEN != "" {
			re, err := regexp.Compile(s.PatternEN)
			if err != nil {
				return fmt.Errorf("lexicon: bad pattern_en for %s: %w", s.Name, err)
			}
			subject.PatternEN = re
		}
		if s.PatternAR != "" {
			re, err := regexp.Compile(s.PatternAR)
			if err != nil {
				return fmt.Errorf("lexicon: bad pattern_ar for %s: %w", s.Name, err)
			}
			subject.PatternAR = re
		}
		l.Subjects = append(l.Subjects, subject)
	}

	for _, t := range file.Topics {
		if t.Name == "" {
			return fmt.Errorf("lexicon: overlay topic with empty name")
		}
		merged := false
		for i := range l.Topics {
			if l.Topics[i].Name == t.Name {
				l.Topics[i].Keywords = append(l.Topics[i].Keywords, t.Keywords...)
				merged = true
				break
			}
		}
		if !merged {
			l.Topics = append(l.Topics, Topic{Name: t.Name, Keywords: t.Keywords})
		}
	}

	return nil
}
