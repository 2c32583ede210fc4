package storage

import (
	"encoding/json"
	"errors"
	"os"

	"rcs-gateway/internal/rcs"
)

var ErrTemplateNotFound = errors.New("template not found")

// UploadedFile is the file metadata a template keeps so the form can
// re-render a previously uploaded media slot.
type UploadedFile struct {
	URL        string      `json:"url"`
	Filename   string      `json:"filename"`
	Size       int64       `json:"size"`
	MimeType   string      `json:"mimeType"`
	Dimensions *Dimensions `json:"dimensions"`
	Resized    bool        `json:"resized"`
}

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Template is a named, timestamped snapshot of the builder state: the built
// payload plus the raw field values the form needs to become editable again.
type Template struct {
	Name          string                  `json:"name"`
	MessageType   string                  `json:"messageType"`
	Timestamp     string                  `json:"timestamp"`
	Payload       *rcs.Payload            `json:"payload,omitempty"`
	Fields        map[string]string       `json:"fields,omitempty"`
	UploadedFiles map[string]UploadedFile `json:"uploadedFiles,omitempty"`
	Suggestions   []rcs.SuggestionInput   `json:"suggestions,omitempty"`
	RichCard      *rcs.CardInput          `json:"richCard,omitempty"`
	CarouselCards []rcs.CardInput         `json:"carouselCards,omitempty"`
}

// TemplateStore persists the template list as a single JSON file, rewritten
// wholesale on every change. Templates are addressed by list index; deleting
// one shifts the indices after it. There is no locking: concurrent writers
// race and the last writer wins, which is acceptable for a low-traffic
// internal tool.
type TemplateStore struct {
	Path string
}

func NewTemplateStore(path string) *TemplateStore {
	return &TemplateStore{Path: path}
}

// List returns the stored templates in insertion order. A missing or
// unreadable file is an empty list, never an error; the UI always gets
// something to render.
func (s *TemplateStore) List() []Template {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return []Template{}
	}
	var templates []Template
	if err := json.Unmarshal(data, &templates); err != nil {
		return []Template{}
	}
	return templates
}

// ReplaceAll overwrites the whole list.
func (s *TemplateStore) ReplaceAll(templates []Template) error {
	if templates == nil {
		templates = []Template{}
	}
	data, err := json.MarshalIndent(templates, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, data, 0o644)
}

// Add appends one template and returns its index.
func (s *TemplateStore) Add(tpl Template) (int, error) {
	templates := append(s.List(), tpl)
	if err := s.ReplaceAll(templates); err != nil {
		return 0, err
	}
	return len(templates) - 1, nil
}

// Delete removes the template at the given index, reindexing the rest.
func (s *TemplateStore) Delete(index int) error {
	templates := s.List()
	if index < 0 || index >= len(templates) {
		return ErrTemplateNotFound
	}
	templates = append(templates[:index], templates[index+1:]...)
	return s.ReplaceAll(templates)
}
