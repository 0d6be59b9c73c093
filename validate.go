package reel

import (
	"fmt"
	"strings"
)

// Frequency bounds for projects, in videos per week.
const (
	MinFrequency = 1
	MaxFrequency = 14
)

// Validate checks a generation request before it is sent.
func (r GenerateRequest) Validate() error {
	if strings.TrimSpace(r.ProjectID) == "" {
		return fmt.Errorf("project id is required: %w", ErrValidation)
	}
	if strings.TrimSpace(r.Prompt) == "" {
		return fmt.Errorf("prompt is required: %w", ErrValidation)
	}
	if r.ProjectCategory != "" && !r.ProjectCategory.Valid() {
		return fmt.Errorf("unknown category %q: %w", r.ProjectCategory, ErrValidation)
	}
	return nil
}

// Validate checks project creation input.
func (in ProjectInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("project name is required: %w", ErrValidation)
	}
	if in.Frequency < MinFrequency || in.Frequency > MaxFrequency {
		return fmt.Errorf("frequency must be in [%d, %d], got %d: %w", MinFrequency, MaxFrequency, in.Frequency, ErrValidation)
	}
	if !in.Category.Valid() {
		return fmt.Errorf("unknown category %q: %w", in.Category, ErrValidation)
	}
	return nil
}

// Validate checks a user payload returned by the backend.
func (u User) Validate() error {
	if u.UID == "" {
		return fmt.Errorf("user uid is required: %w", ErrValidation)
	}
	if u.Username == "" {
		return fmt.Errorf("username is required: %w", ErrValidation)
	}
	return nil
}

// Validate checks a project payload returned by the backend.
func (p Project) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("project id is required: %w", ErrValidation)
	}
	if p.Frequency < MinFrequency || p.Frequency > MaxFrequency {
		return fmt.Errorf("frequency must be in [%d, %d], got %d: %w", MinFrequency, MaxFrequency, p.Frequency, ErrValidation)
	}
	if !p.Category.Valid() {
		return fmt.Errorf("unknown category %q: %w", p.Category, ErrValidation)
	}
	return nil
}

// Validate checks a script payload returned by the backend.
func (s Script) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return fmt.Errorf("script title is required: %w", ErrValidation)
	}
	if !s.Hook.Type.Valid() {
		return fmt.Errorf("unknown hook type %q: %w", s.Hook.Type, ErrValidation)
	}
	if s.EstimatedTotalDuration < 0 {
		return fmt.Errorf("duration must be non-negative, got %g: %w", s.EstimatedTotalDuration, ErrValidation)
	}
	for i, seg := range s.Segments {
		if i > 0 && seg.Order <= s.Segments[i-1].Order {
			return fmt.Errorf("segment %d out of order (order %d after %d): %w", i, seg.Order, s.Segments[i-1].Order, ErrValidation)
		}
	}
	return nil
}

// Validate checks a story payload returned by the backend.
func (s Story) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("story id is required: %w", ErrValidation)
	}
	if err := s.Script.Validate(); err != nil {
		return fmt.Errorf("story %s: %w", s.ID, err)
	}
	return nil
}

// Validate checks a trending video payload returned by the backend.
func (v Video) Validate() error {
	if v.ID == "" {
		return fmt.Errorf("video id is required: %w", ErrValidation)
	}
	if v.Category != "" && !v.Category.Valid() {
		return fmt.Errorf("unknown video category %q: %w", v.Category, ErrValidation)
	}
	return nil
}
