package content

import "time"

// Candidate is a source-fetched item that has not yet been confirmed new or
// persisted. Key is the natural identifier used for deduplication.
type Candidate struct {
	Key              string
	Title            string
	ShortDescription string
	Category         string
	SiteTag          string
	Country          string
	SourceURL        string
	ImageURL         string
	PlayURL          string
	BodyText         string
	EnrichedBody     string
	Language         string
	PublishedAt      *time.Time
}

// OutcomeKind tags the per-record result of an upsert batch.
type OutcomeKind string

const (
	OutcomeInserted OutcomeKind = "inserted"
	OutcomeUpdated  OutcomeKind = "updated"
)

// RecordOutcome reports what the upsert writer did to one natural key.
type RecordOutcome struct {
	Key  string      `json:"key"`
	Kind OutcomeKind `json:"kind"`
}

// UpsertResult aggregates one bulk upsert call.
type UpsertResult struct {
	Outcomes []RecordOutcome `json:"outcomes"`
}

func (r UpsertResult) InsertedCount() int {
	count := 0
	for _, o := range r.Outcomes {
		if o.Kind == OutcomeInserted {
			count++
		}
	}
	return count
}

func (r UpsertResult) UpdatedCount() int {
	count := 0
	for _, o := range r.Outcomes {
		if o.Kind == OutcomeUpdated {
			count++
		}
	}
	return count
}

// CategoryError records one failed category or feed within a multi-category
// fetch; the remaining categories still complete.
type CategoryError struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// Summary is the result of one pipeline run.
type Summary struct {
	Source   string          `json:"source"`
	Fetched  int             `json:"fetched"`
	Known    int             `json:"known"`
	Enriched int             `json:"enriched"`
	Inserted int             `json:"inserted"`
	Updated  int             `json:"updated"`
	Errors   []CategoryError `json:"errors,omitempty"`
	Duration time.Duration   `json:"duration"`
}
