// Package actionfile decodes producer action records into tagged actions.
//
// A document lists records in delivery order:
//
//	actions:
//	  - id: "1"
//	    type: shell
//	    content: npm install
//	  - id: "2"
//	    type: file
//	    filePath: src/index.ts
//	    content: console.log("hi")
//
// A record may repeat an id with streaming: true to deliver a partial
// payload before the final one.
package actionfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"nathanbeddoewebdev/actionrunner/internal/domain"
	"nathanbeddoewebdev/actionrunner/internal/util"
)

// Format selects the document encoding.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// Document is the top level of an action file.
type Document struct {
	Actions []Record `json:"actions" yaml:"actions"`
}

// Record is one action as the producer delivers it: a flat record whose
// meaningful fields depend on Type.
type Record struct {
	ID           string              `json:"id" yaml:"id"`
	Type         string              `json:"type" yaml:"type"`
	Content      string              `json:"content,omitempty" yaml:"content,omitempty"`
	FilePath     string              `json:"filePath,omitempty" yaml:"filePath,omitempty"`
	Operation    string              `json:"operation,omitempty" yaml:"operation,omitempty"`
	ProjectID    string              `json:"projectId,omitempty" yaml:"projectId,omitempty"`
	ChangeSource string              `json:"changeSource,omitempty" yaml:"changeSource,omitempty"`
	History      *domain.FileHistory `json:"history,omitempty" yaml:"history,omitempty"`
	Streaming    bool                `json:"streaming,omitempty" yaml:"streaming,omitempty"`
}

// Entry is a decoded record ready for the runner.
type Entry struct {
	Data      domain.ActionData
	Streaming bool
}

// Load reads and decodes the file at path. Files ending in .json are
// decoded as JSON, everything else as YAML.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("actionfile: failed to read %s: %w", path, err)
	}

	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = FormatJSON
	}

	entries, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, fmt.Errorf("actionfile: %s: %w", path, err)
	}
	return entries, nil
}

// Decode reads a document from r. Unknown fields are rejected.
func Decode(r io.Reader, format Format) ([]Entry, error) {
	var doc Document
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return nil, fmt.Errorf("JSON decode error: %w", err)
		}
	default:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("YAML decode error: %w", err)
		}
	}

	entries := make([]Entry, 0, len(doc.Actions))
	for i, rec := range doc.Actions {
		data, err := rec.ActionData()
		if err != nil {
			return nil, fmt.Errorf("action %d: %w", i+1, err)
		}
		entries = append(entries, Entry{Data: data, Streaming: rec.Streaming})
	}
	return entries, nil
}

// ActionData converts the record into its tagged variant. Fields that do
// not belong to the record's type are rejected.
func (r Record) ActionData() (domain.ActionData, error) {
	if err := util.ValidateActionID(r.ID); err != nil {
		return domain.ActionData{}, err
	}

	kind := domain.Kind(util.NormalizeKey(r.Type))
	if kind == "supabase" {
		kind = domain.KindDatabase
	}

	var action domain.Action
	switch kind {
	case domain.KindShell:
		if err := r.only(kind, "content"); err != nil {
			return domain.ActionData{}, err
		}
		action = domain.ShellAction{Content: r.Content}

	case domain.KindStart:
		if err := r.only(kind, "content"); err != nil {
			return domain.ActionData{}, err
		}
		action = domain.StartAction{Content: r.Content}

	case domain.KindFile:
		if err := r.only(kind, "content", "filePath", "changeSource", "history"); err != nil {
			return domain.ActionData{}, err
		}
		if r.FilePath == "" {
			return domain.ActionData{}, fmt.Errorf("file action %s requires filePath", r.ID)
		}
		action = domain.FileAction{
			FilePath:     r.FilePath,
			Content:      r.Content,
			ChangeSource: domain.ChangeSource(r.ChangeSource),
			History:      r.History,
		}

	case domain.KindBuild:
		if err := r.only(kind); err != nil {
			return domain.ActionData{}, err
		}
		action = domain.BuildAction{}

	case domain.KindDatabase:
		if err := r.only(kind, "content", "filePath", "operation", "projectId"); err != nil {
			return domain.ActionData{}, err
		}
		op := domain.DatabaseOperation(util.NormalizeKey(r.Operation))
		if op != domain.OperationMigration && op != domain.OperationQuery {
			return domain.ActionData{}, fmt.Errorf("database action %s: %q: %w", r.ID, r.Operation, domain.ErrUnknownOperation)
		}
		action = domain.DatabaseAction{
			Operation: op,
			Content:   r.Content,
			FilePath:  r.FilePath,
			ProjectID: r.ProjectID,
		}

	default:
		return domain.ActionData{}, fmt.Errorf("action %s: %q: %w", r.ID, r.Type, domain.ErrUnknownAction)
	}

	return domain.ActionData{ID: r.ID, Action: action}, nil
}

// only rejects populated payload fields outside allowed.
func (r Record) only(kind domain.Kind, allowed ...string) error {
	set := map[string]bool{
		"content":      r.Content != "",
		"filePath":     r.FilePath != "",
		"operation":    r.Operation != "",
		"projectId":    r.ProjectID != "",
		"changeSource": r.ChangeSource != "",
		"history":      r.History != nil,
	}
	for _, name := range allowed {
		delete(set, name)
	}
	for _, name := range []string{"content", "filePath", "operation", "projectId", "changeSource", "history"} {
		if set[name] {
			return fmt.Errorf("%s action %s: field %s is not valid for this type", kind, r.ID, name)
		}
	}
	return nil
}
