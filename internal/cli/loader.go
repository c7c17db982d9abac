package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/lorekeep/internal/campaign"
)

// Document is a campaign source file: any mix of the four aggregate kinds.
type Document struct {
	Quests    []campaign.Quest    `yaml:"quests"`
	NPCs      []campaign.NPC      `yaml:"npcs"`
	Factions  []campaign.Faction  `yaml:"factions"`
	Locations []campaign.Location `yaml:"locations"`
}

// Count returns the number of aggregates in the document.
func (d *Document) Count() int {
	return len(d.Quests) + len(d.NPCs) + len(d.Factions) + len(d.Locations)
}

// LoadError represents an error that occurred while loading a document.
type LoadError struct {
	Code    string
	Message string
	Path    string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadDocument reads and decodes a campaign YAML file. Unknown fields are
// rejected, and every aggregate must carry an id unique within its kind.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("reading document: %v", err), Path: path}
	}
	return decodeDocument(path, data)
}

func decodeDocument(path string, data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "document is empty", Path: path}
		}
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("decoding yaml: %v", err), Path: path}
	}

	if err := checkIDs(doc); err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: err.Error(), Path: path}
	}
	return &doc, nil
}

// checkIDs rejects missing and repeated ids per kind.
func checkIDs(doc Document) error {
	check := func(kind string, ids []string) error {
		seen := make(map[string]bool, len(ids))
		for i, id := range ids {
			if id == "" {
				return fmt.Errorf("%s #%d has no id", kind, i+1)
			}
			if seen[id] {
				return fmt.Errorf("%s %s appears more than once", kind, id)
			}
			seen[id] = true
		}
		return nil
	}

	ids := func(n int, at func(int) string) []string {
		out := make([]string, n)
		for i := range out {
			out[i] = at(i)
		}
		return out
	}

	if err := check("quest", ids(len(doc.Quests), func(i int) string { return doc.Quests[i].ID })); err != nil {
		return err
	}
	if err := check("npc", ids(len(doc.NPCs), func(i int) string { return doc.NPCs[i].ID })); err != nil {
		return err
	}
	if err := check("faction", ids(len(doc.Factions), func(i int) string { return doc.Factions[i].ID })); err != nil {
		return err
	}
	return check("location", ids(len(doc.Locations), func(i int) string { return doc.Locations[i].ID }))
}
