// Package entity defines the core domain types for the content snapshot
// pipeline: configured sources, raw adapter output, normalized items, and the
// snapshot artifact itself.
package entity

import "strings"

// CompanyGroup classifies a source as one of our own brands or a competitor.
type CompanyGroup string

const (
	CompanyGroupOurs       CompanyGroup = "ours"
	CompanyGroupCompetitor CompanyGroup = "competitor"
)

// SourceType distinguishes ordinary websites from Facebook pages.
type SourceType string

const (
	SourceTypeWebsite  SourceType = "website"
	SourceTypeFacebook SourceType = "facebook"
)

// Source is one configured origin the pipeline draws items from.
// It is loaded once per run from the registry document and immutable after.
// A source without an RSSURL must resolve via a registered scraper capability,
// otherwise it is link-only and contributes zero items.
type Source struct {
	ID           string       `json:"id" yaml:"id"`
	Company      string       `json:"company" yaml:"company"`
	CompanyGroup CompanyGroup `json:"companyGroup" yaml:"companyGroup"`
	Type         SourceType   `json:"type" yaml:"type"`
	Title        string       `json:"title" yaml:"title"`
	PageURL      string       `json:"pageUrl" yaml:"pageUrl"`
	RSSURL       string       `json:"rssUrl" yaml:"rssUrl"`
}

// Normalize trims every field and fills in defaults: unrecognized company
// groups become "ours", unrecognized types become "website", and a missing
// title is derived from the company name or the id.
func (s *Source) Normalize() {
	s.ID = strings.TrimSpace(s.ID)
	s.Company = strings.TrimSpace(s.Company)
	s.PageURL = strings.TrimSpace(s.PageURL)
	s.RSSURL = strings.TrimSpace(s.RSSURL)

	if s.CompanyGroup != CompanyGroupCompetitor {
		s.CompanyGroup = CompanyGroupOurs
	}
	if s.Type != SourceTypeFacebook {
		s.Type = SourceTypeWebsite
	}

	s.Title = NormalizeText(s.Title)
	if s.Title == "" {
		s.Title = NormalizeText(s.Company)
	}
	if s.Title == "" {
		s.Title = s.ID
	}
}

// Validate checks the required fields. Callers are expected to have called
// Normalize first; duplicate-id detection happens at the registry level.
func (s *Source) Validate() error {
	if s.ID == "" {
		return &ValidationError{Field: "id", Message: "must not be empty"}
	}
	if s.Company == "" {
		return &ValidationError{Field: "company", Message: "must not be empty"}
	}
	if s.PageURL == "" {
		return &ValidationError{Field: "pageUrl", Message: "must not be empty"}
	}
	return nil
}
