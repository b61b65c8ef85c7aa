// Package yaml loads doclog reference data from YAML.
package yaml

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fwojciec/doclog"
	yamlv3 "gopkg.in/yaml.v3"
)

//go:embed reference.yaml
var defaultReference []byte

type document struct {
	Corrections        map[int]correction     `yaml:"corrections"`
	Classes            map[string]classConfig `yaml:"classes"`
	ClassOverrides     map[int]string         `yaml:"class_overrides"`
	TitleRemap         map[string]string      `yaml:"title_remap"`
	NoGroupTitles      []string               `yaml:"no_group_titles"`
	GroupKeys          map[int]string         `yaml:"group_keys"`
	Meetings           map[string][]int       `yaml:"meetings"`
	MeetingDates       map[int]string         `yaml:"meeting_dates"`
	MeetingGroups      [][]int                `yaml:"meeting_groups"`
	CatalogOverrides   map[int]int            `yaml:"catalog_overrides"`
	AuxiliaryOverrides map[int]bool           `yaml:"auxiliary_overrides"`
}

type correction struct {
	Date   string `yaml:"date"`
	Author string `yaml:"author"`
}

type classConfig struct {
	Prefix      string         `yaml:"prefix"`
	Policy      string         `yaml:"policy"`
	Base        int            `yaml:"base"`
	Cutoff      string         `yaml:"cutoff"`
	Include     []int          `yaml:"include"`
	Exclude     []int          `yaml:"exclude"`
	Sessions    bool           `yaml:"sessions"`
	AuxKeywords []string       `yaml:"auxiliary_keywords"`
	Catalog     []catalogEntry `yaml:"catalog"`
}

type catalogEntry struct {
	Position int              `yaml:"position"`
	Title    string           `yaml:"title"`
	Default  bool             `yaml:"default"`
	Keywords []string         `yaml:"keywords"`
	Editions []catalogEdition `yaml:"editions"`
}

type catalogEdition struct {
	Number int    `yaml:"number"`
	Name   string `yaml:"name"`
	Cutoff string `yaml:"cutoff"`
}

// Default returns the reference data shipped with doclog.
func Default() (*doclog.Reference, error) {
	return Parse(defaultReference)
}

// Load reads reference data from a YAML file.
func Load(path string) (*doclog.Reference, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ref, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ref, nil
}

// Parse decodes and validates reference data.
// Unknown keys are rejected so that misspelled tables do not go unnoticed.
func Parse(data []byte) (*doclog.Reference, error) {
	dec := yamlv3.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, doclog.Errorf(doclog.EINVALID, "parse reference data: %v", err)
	}

	ref, err := doc.toReference()
	if err != nil {
		return nil, err
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	return ref, nil
}

func (d *document) toReference() (*doclog.Reference, error) {
	ref := &doclog.Reference{
		Corrections:        make(map[int]doclog.Correction, len(d.Corrections)),
		ClassOverrides:     make(map[int]doclog.Class, len(d.ClassOverrides)),
		TitleRemap:         d.TitleRemap,
		NoGroupTitles:      make(map[string]bool, len(d.NoGroupTitles)),
		GroupKeys:          d.GroupKeys,
		Meetings:           make(map[int][]string),
		MeetingDates:       d.MeetingDates,
		MeetingGroups:      d.MeetingGroups,
		CatalogOverrides:   d.CatalogOverrides,
		AuxiliaryOverrides: d.AuxiliaryOverrides,
		Classes:            make(map[doclog.Class]*doclog.ClassConfig, len(d.Classes)),
	}

	for n, c := range d.Corrections {
		ref.Corrections[n] = doclog.Correction{Date: c.Date, Author: c.Author}
	}

	for n, name := range d.ClassOverrides {
		class, err := doclog.ParseClass(name)
		if err != nil {
			return nil, doclog.Errorf(doclog.EINVALID, "class override for N%d: %s", n, doclog.ErrorMessage(err))
		}
		ref.ClassOverrides[n] = class
	}

	for _, t := range d.NoGroupTitles {
		ref.NoGroupTitles[t] = true
	}

	for meeting, nums := range d.Meetings {
		for _, n := range nums {
			ref.Meetings[n] = append(ref.Meetings[n], meeting)
		}
	}
	for n := range ref.Meetings {
		sort.Strings(ref.Meetings[n])
	}

	for name, cc := range d.Classes {
		class, err := doclog.ParseClass(name)
		if err != nil {
			return nil, err
		}
		ref.Classes[class] = cc.toConfig(class)
	}

	return ref, nil
}

func (cc classConfig) toConfig(class doclog.Class) *doclog.ClassConfig {
	cfg := &doclog.ClassConfig{
		Class:       class,
		Prefix:      cc.Prefix,
		Policy:      doclog.Policy(cc.Policy),
		Base:        cc.Base,
		Cutoff:      cc.Cutoff,
		Include:     toSet(cc.Include),
		Exclude:     toSet(cc.Exclude),
		Sessions:    cc.Sessions,
		AuxKeywords: cc.AuxKeywords,
	}
	for _, e := range cc.Catalog {
		entry := &doclog.CatalogEntry{
			Position: e.Position,
			Title:    e.Title,
			Keywords: e.Keywords,
			Default:  e.Default,
		}
		for _, ed := range e.Editions {
			entry.Editions = append(entry.Editions, &doclog.CatalogEdition{
				Number: ed.Number,
				Name:   ed.Name,
				Cutoff: ed.Cutoff,
			})
		}
		cfg.Catalog = append(cfg.Catalog, entry)
	}
	return cfg
}

func toSet(nums []int) map[int]bool {
	set := make(map[int]bool, len(nums))
	for _, n := range nums {
		set[n] = true
	}
	return set
}
