package registry

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	shellerrors "github.com/conneroisu/appshell/internal/errors"
)

// PageFile is the on-disk form of the registry.
//
//	pages:
//	  - path: /reports
//	    name: Reports
//	  - path: /reports/monthly/june
//	    name: June
//	sections:
//	  - level1: reports
//	    level2: monthly
//	    name: Monthly
type PageFile struct {
	Pages    []PageDescriptor `yaml:"pages"`
	Sections []SectionEntry   `yaml:"sections,omitempty"`
}

// SectionEntry is one explicit section declaration.
type SectionEntry struct {
	SectionKey `yaml:",inline"`
	Name       string `yaml:"name"`
}

// DecodePageFile parses a page file. Unknown keys are rejected so typos
// surface at startup.
func DecodePageFile(r io.Reader) (*PageFile, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	var file PageFile
	if err := decoder.Decode(&file); err != nil {
		if err == io.EOF {
			return &file, nil
		}
		return nil, shellerrors.NewConfigError(shellerrors.CodePageFile, "invalid page file", err)
	}

	return &file, nil
}

// ReadPageFile reads and parses the page file at path.
func ReadPageFile(path string) (*PageFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, shellerrors.NewIOError(shellerrors.CodePageFile, "reading page file", err).
			WithContext("file", path)
	}

	file, err := DecodePageFile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return file, nil
}

// SectionMap converts the declared sections into the registry's typed mapping.
func (f *PageFile) SectionMap() map[SectionKey]Section {
	sections := make(map[SectionKey]Section, len(f.Sections))
	for _, entry := range f.Sections {
		sections[entry.SectionKey] = Section{Name: entry.Name}
	}

	return sections
}

// Validate checks the section declarations. Pages are checked when they
// are registered.
func (f *PageFile) Validate() error {
	for _, entry := range f.Sections {
		if entry.Level1 == "" || entry.Name == "" {
			return shellerrors.NewValidationError(shellerrors.CodeInvalidName, "section needs level1 and name").
				WithPath(entry.Path())
		}
	}

	return nil
}

// Encode writes the page file as YAML.
func (f *PageFile) Encode(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	return encoder.Encode(f)
}

// LoadFile replaces the registry contents with the page file at path.
func (r *PageRegistry) LoadFile(path string) error {
	file, err := ReadPageFile(path)
	if err != nil {
		return err
	}

	if err := file.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := r.Replace(file.Pages, file.SectionMap()); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}
