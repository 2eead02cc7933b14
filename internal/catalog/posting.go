package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	PostingIDField      = "ID"
	PostingCompanyField = "Company"
)

// ErrNotFound is returned when a posting id is not in the catalog.
var ErrNotFound = errors.New("posting not found")

type Postings struct {
	Items []*Posting
}

type Posting struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title,omitempty" yaml:"title"`
	Company     string   `json:"company,omitempty" yaml:"company"`
	Location    string   `json:"location,omitempty" yaml:"location"`
	Description string   `json:"description,omitempty" yaml:"description"`
	Keywords    []string `json:"keywords,omitempty" yaml:"keywords"`
}

// UnmarshalJSON accepts "_id" as an alias of "id" for catalogs exported from document stores.
// Keywords are read loosely: strings and numbers are kept, anything else is dropped.
func (p *Posting) UnmarshalJSON(data []byte) error {
	type plain Posting
	var raw struct {
		plain
		MongoID  string          `json:"_id"`
		Keywords json.RawMessage `json:"keywords"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Posting(raw.plain)
	if p.ID == "" {
		p.ID = raw.MongoID
	}

	p.Keywords = looseKeywords(raw.Keywords)
	return nil
}

func looseKeywords(data json.RawMessage) []string {
	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		// a single scalar is a one element list
		entries = []json.RawMessage{data}
	}

	var out []string
	for _, entry := range entries {
		if keyword, ok := keywordFromJSON(entry); ok {
			out = append(out, keyword)
		}
	}
	return out
}

func keywordFromJSON(entry json.RawMessage) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(entry))
	dec.UseNumber()

	var value any
	if err := dec.Decode(&value); err != nil {
		return "", false
	}

	switch v := value.(type) {
	case string:
		return v, true
	case json.Number:
		return v.String(), true
	default:
		return "", false
	}
}

type ExcludedPostings struct {
	Items []*ExcludedPosting
}

type ExcludedPosting struct {
	ID         string
	Title      string
	Company    string
	ExcludedAt time.Time
}

func (p *Postings) Len() int {
	if p == nil {
		return 0
	}
	return len(p.Items)
}

func (p *Postings) FindByID(id string) *Posting {
	for _, posting := range p.Items {
		if posting.ID == id {
			return posting
		}
	}
	return nil
}

// Get is FindByID returning ErrNotFound for unknown ids.
func (p *Postings) Get(id string) (*Posting, error) {
	posting := p.FindByID(id)
	if posting == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return posting, nil
}

// Values returns the postings as values, keeping catalog order.
func (p *Postings) Values() []Posting {
	out := make([]Posting, 0, p.Len())
	for _, posting := range p.Items {
		out = append(out, *posting)
	}
	return out
}

func (p *Posting) GetStringField(name string) string {
	switch name {
	case PostingIDField:
		return p.ID
	case PostingCompanyField:
		return p.Company
	default:
		return ""
	}
}

// Exclude removes postings whose field equals one of targets (case-insensitive)
// and returns the removed ids. Remaining postings keep their relative order.
func (p *Postings) Exclude(field string, targets []string) []string {
	if len(targets) == 0 {
		return nil
	}

	drop := make(map[string]struct{}, len(targets))
	for _, target := range targets {
		drop[strings.ToLower(strings.TrimSpace(target))] = struct{}{}
	}

	var excluded []string
	kept := make([]*Posting, 0, len(p.Items))
	for _, posting := range p.Items {
		if _, ok := drop[strings.ToLower(posting.GetStringField(field))]; ok {
			excluded = append(excluded, posting.ID)
			continue
		}
		kept = append(kept, posting)
	}
	p.Items = kept

	return excluded
}

// ExcludeWithoutKeywords removes postings that carry no keyword list.
func (p *Postings) ExcludeWithoutKeywords() []string {
	var excluded []string
	kept := make([]*Posting, 0, len(p.Items))
	for _, posting := range p.Items {
		if len(posting.Keywords) == 0 {
			excluded = append(excluded, posting.ID)
			continue
		}
		kept = append(kept, posting)
	}
	p.Items = kept

	return excluded
}

func (p *Postings) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "postings_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return "", err
	}
	return file.Name(), nil
}

func (p *Postings) ToExcluded() *ExcludedPostings {
	excluded := &ExcludedPostings{}
	for _, posting := range p.Items {
		excluded.Items = append(excluded.Items, &ExcludedPosting{
			ID:         posting.ID,
			Title:      posting.Title,
			Company:    posting.Company,
			ExcludedAt: time.Now().UTC(),
		})
	}
	return excluded
}

// ReportByCompany groups postings under "Company" keys.
func (p *Postings) ReportByCompany() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, posting := range p.Items {
		key := posting.Company
		if key == "" {
			key = "unknown company"
		}
		report[key] = append(report[key], map[string]string{
			"id":       posting.ID,
			"title":    posting.Title,
			"location": posting.Location,
			"keywords": strings.Join(posting.Keywords, ", "),
		})
	}
	return report
}
