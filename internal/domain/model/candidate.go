package model

import (
	"strings"
	"time"
)

// ExtractedFields holds the structured profile data produced by a completed
// extraction run. All fields are optional; extraction writes what it found.
type ExtractedFields struct {
	FullName        string   `json:"full_name,omitempty"`
	CurrentRole     string   `json:"current_role,omitempty"`
	CurrentCompany  string   `json:"current_company,omitempty"`
	Location        string   `json:"location,omitempty"`
	ExperienceYears float64  `json:"experience_years,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Summary         string   `json:"summary,omitempty"`
}

// Empty reports whether extraction produced no usable fields.
func (f ExtractedFields) Empty() bool {
	return f.FullName == "" && f.CurrentRole == "" && f.CurrentCompany == "" &&
		f.Location == "" && f.ExperienceYears == 0 && len(f.Skills) == 0 && f.Summary == ""
}

// CandidateProfile represents a candidate record enriched by resume extraction.
type CandidateProfile struct {
	ID              string     `json:"id"                         db:"id"`
	FullName        string     `json:"full_name"                  db:"full_name"`
	CurrentRole     string     `json:"current_role"               db:"current_title"`
	CurrentCompany  string     `json:"current_company"            db:"current_company"`
	Location        string     `json:"location"                   db:"location"`
	ExperienceYears float64    `json:"experience_years"           db:"experience_years"`
	Skills          []string   `json:"skills"                     db:"skills"`
	Summary         string     `json:"summary"                    db:"summary"`
	ResumeFileURL   *string    `json:"resume_file_url,omitempty"  db:"resume_file_url"`
	LastParsedAt    *time.Time `json:"last_parsed_at,omitempty"   db:"last_parsed_at"`
	CreatedAt       time.Time  `json:"created_at"                 db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"                 db:"updated_at"`
}

// HasSkill reports whether the candidate lists the given skill, case-insensitively.
func (c *CandidateProfile) HasSkill(skill string) bool {
	skill = strings.ToLower(strings.TrimSpace(skill))
	if skill == "" {
		return false
	}
	for _, s := range c.Skills {
		if strings.ToLower(strings.TrimSpace(s)) == skill {
			return true
		}
	}
	return false
}
