package models

import (
	"slices"
	"time"

	"github.com/diewo77/devconnect/internal/apperr"
)

// SocialPlatforms lists the keys accepted in Profile.Social.
var SocialPlatforms = []string{"youtube", "twitter", "facebook", "linkedin", "instagram"}

// Profile is the per-user document holding bio, skills and the
// experience/education sub-lists. There is at most one per user.
type Profile struct {
	ID     string       `gorm:"primaryKey;size:24" json:"_id" bson:"_id"`
	UserID string       `gorm:"uniqueIndex;size:24;not null" json:"-" bson:"user"`
	User   *UserSummary `gorm:"-" json:"user,omitempty" bson:"-"`

	Company        string `gorm:"size:255" json:"company,omitempty" bson:"company,omitempty"`
	Website        string `gorm:"size:500" json:"website,omitempty" bson:"website,omitempty"`
	Location       string `gorm:"size:255" json:"location,omitempty" bson:"location,omitempty"`
	Bio            string `gorm:"type:text" json:"bio,omitempty" bson:"bio,omitempty"`
	Status         string `gorm:"size:255;not null" json:"status" bson:"status"`
	GithubUsername string `gorm:"size:255" json:"githubusername,omitempty" bson:"githubusername,omitempty"`

	Skills     []string          `gorm:"serializer:json;type:text" json:"skills" bson:"skills"`
	Social     map[string]string `gorm:"serializer:json;type:text" json:"social,omitempty" bson:"social,omitempty"`
	Experience []Experience      `gorm:"serializer:json;type:text" json:"experience" bson:"experience"`
	Education  []Education       `gorm:"serializer:json;type:text" json:"education" bson:"education"`

	Date    time.Time `gorm:"not null" json:"date" bson:"date"`
	Version int64     `gorm:"not null" json:"-" bson:"version"`
}

// GetUserID implements Ownable.
func (p *Profile) GetUserID() string { return p.UserID }

// Experience is one entry in Profile.Experience.
type Experience struct {
	ID          string     `json:"_id" bson:"_id"`
	Title       string     `json:"title" bson:"title"`
	Company     string     `json:"company" bson:"company"`
	Location    string     `json:"location,omitempty" bson:"location,omitempty"`
	From        time.Time  `json:"from" bson:"from"`
	To          *time.Time `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool       `json:"current" bson:"current"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
}

// Education is one entry in Profile.Education.
type Education struct {
	ID           string     `json:"_id" bson:"_id"`
	School       string     `json:"school" bson:"school"`
	Degree       string     `json:"degree" bson:"degree"`
	FieldOfStudy string     `json:"fieldofstudy" bson:"fieldofstudy"`
	From         time.Time  `json:"from" bson:"from"`
	To           *time.Time `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool       `json:"current" bson:"current"`
	Description  string     `json:"description,omitempty" bson:"description,omitempty"`
}

// ProfileFields carries the fields supplied to a create-or-update call.
// Empty strings, a nil Skills slice and missing Social keys mean "not provided".
type ProfileFields struct {
	Company        string
	Website        string
	Location       string
	Bio            string
	Status         string
	GithubUsername string
	Skills         []string
	Social         map[string]string
}

// Apply merges the provided fields into p. Omitted fields keep their value;
// Skills, when provided, replaces the previous list entirely. Social keys
// outside SocialPlatforms are dropped.
func (p *Profile) Apply(f ProfileFields) {
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&p.Company, f.Company)
	set(&p.Website, f.Website)
	set(&p.Location, f.Location)
	set(&p.Bio, f.Bio)
	set(&p.Status, f.Status)
	set(&p.GithubUsername, f.GithubUsername)
	if f.Skills != nil {
		p.Skills = append([]string(nil), f.Skills...)
	}
	for k, v := range f.Social {
		if v == "" || !slices.Contains(SocialPlatforms, k) {
			continue
		}
		if p.Social == nil {
			p.Social = make(map[string]string, len(f.Social))
		}
		p.Social[k] = v
	}
}

// AddExperience puts e at the front of the experience list.
func (p *Profile) AddExperience(e Experience) {
	if e.ID == "" {
		e.ID = NewID()
	}
	p.Experience = prepend(p.Experience, e)
}

// RemoveExperience removes the experience entry with the given id.
func (p *Profile) RemoveExperience(id string) error {
	out, ok := removeByID(p.Experience, id, func(e Experience) string { return e.ID })
	if !ok {
		return apperr.NotFound("This experience does not exist")
	}
	p.Experience = out
	return nil
}

// AddEducation puts e at the front of the education list.
func (p *Profile) AddEducation(e Education) {
	if e.ID == "" {
		e.ID = NewID()
	}
	p.Education = prepend(p.Education, e)
}

// RemoveEducation removes the education entry with the given id.
func (p *Profile) RemoveEducation(id string) error {
	out, ok := removeByID(p.Education, id, func(e Education) string { return e.ID })
	if !ok {
		return apperr.NotFound("This education does not exist")
	}
	p.Education = out
	return nil
}

// Normalize replaces nil sub-lists with empty ones so they encode as [].
func (p *Profile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
}
