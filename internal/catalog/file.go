package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/spigell/job-assistant/internal/keywords"
)

// LoadFile reads a catalog from a JSON or YAML file. The file holds either a
// list of postings or an object with a "postings" list. Keyword lists are
// normalized: entries are trimmed and blank ones dropped.
func LoadFile(path string) (*Postings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog %q: %w", path, err)
	}

	var items []*Posting
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		items, err = decodeYAML(data)
	case ".json", "":
		items, err = decodeJSON(data)
	default:
		return nil, fmt.Errorf("catalog %q: unsupported extension %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding catalog %q: %w", path, err)
	}

	postings := &Postings{}
	for idx, item := range items {
		if item == nil {
			continue
		}
		item.Keywords = keywords.Normalize(item.Keywords)
		if strings.TrimSpace(item.ID) == "" {
			item.ID = fmt.Sprintf("posting-%d", idx+1)
		}
		postings.Items = append(postings.Items, item)
	}

	return postings, nil
}

func decodeJSON(data []byte) ([]*Posting, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}

	if strings.HasPrefix(trimmed, "[") {
		var items []*Posting
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapped struct {
		Postings []*Posting `json:"postings"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Postings, nil
}

func decodeYAML(data []byte) ([]*Posting, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	if root.Kind == yaml.MappingNode {
		var wrapped struct {
			Postings []*Posting `yaml:"postings"`
		}
		if err := root.Decode(&wrapped); err != nil {
			return nil, err
		}
		return wrapped.Postings, nil
	}

	var items []*Posting
	if err := root.Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

// LoadExcluded reads an exclude file. A missing or empty file is an empty list.
func LoadExcluded(path string) (*ExcludedPostings, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return &ExcludedPostings{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedPostings{}, nil
	}

	var excluded ExcludedPostings
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedPostings) Append(s *ExcludedPostings) {
	e.Items = append(e.Items, s.Items...)
}

func (e *ExcludedPostings) IDs() []string {
	ids := make([]string, 0, len(e.Items))
	for _, posting := range e.Items {
		ids = append(ids, posting.ID)
	}
	return ids
}

func (e *ExcludedPostings) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
