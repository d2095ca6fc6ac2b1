package models

import (
	"time"
)

// Source tags offered by the survey. Display-only; storage accepts any string.
const (
	SourceSocialMedia   = "social_media"
	SourceWebsite       = "website"
	SourceReferral      = "referral"
	SourceAdvertisement = "advertisement"
	SourceOther         = "other"
)

const (
	MinRating = 1
	MaxRating = 5
)

// FeedbackInput is the insertable part of a feedback response. The validate
// tags here are the only place rating constraints are declared.
type FeedbackInput struct {
	Rating   int     `bson:"rating" json:"rating" validate:"required,min=1,max=5"`
	Source   *string `bson:"source,omitempty" json:"source"`
	Comments *string `bson:"comments,omitempty" json:"comments"`
}

// FeedbackResponse is a stored survey answer.
type FeedbackResponse struct {
	ID            string `bson:"_id" json:"id"`
	FeedbackInput `bson:",inline"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
}

// Clone returns a deep copy so callers never share pointers with a store.
func (f *FeedbackResponse) Clone() *FeedbackResponse {
	c := *f
	c.Source = cloneString(f.Source)
	c.Comments = cloneString(f.Comments)
	return &c
}

// SourceValue returns the source tag or "" when none was given.
func (f *FeedbackResponse) SourceValue() string {
	if f.Source == nil {
		return ""
	}
	return *f.Source
}

// CommentsValue returns the comments or "" when none were given.
func (f *FeedbackResponse) CommentsValue() string {
	if f.Comments == nil {
		return ""
	}
	return *f.Comments
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

// StringPtr is a small helper for building inputs.
func StringPtr(s string) *string {
	return &s
}
