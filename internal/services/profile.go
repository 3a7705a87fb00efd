package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/diewo77/devconnect/internal/apperr"
	"github.com/diewo77/devconnect/internal/metrics"
	"github.com/diewo77/devconnect/internal/models"
	"github.com/diewo77/devconnect/internal/store"
	"github.com/diewo77/devconnect/validation"
)

const (
	msgNoProfile     = "There is no profile for this user"
	msgNoProfileUser = "No such user in database"
)

// ProfileInput is the body of POST /api/profile. Skills is a comma
// separated list; the social platforms are flat fields.
type ProfileInput struct {
	Company        string `json:"company"`
	Website        string `json:"website"`
	Location       string `json:"location"`
	Bio            string `json:"bio"`
	Status         string `json:"status" validate:"notblank" msg:"Status is required"`
	GithubUsername string `json:"githubusername"`
	Skills         string `json:"skills" validate:"notblank" msg:"Skills are required"`
	Youtube        string `json:"youtube"`
	Twitter        string `json:"twitter"`
	Facebook       string `json:"facebook"`
	LinkedIn       string `json:"linkedin"`
	Instagram      string `json:"instagram"`
}

// Fields converts the input into the merge set applied to a profile.
func (in ProfileInput) Fields() models.ProfileFields {
	social := make(map[string]string, len(models.SocialPlatforms))
	for _, platform := range models.SocialPlatforms {
		social[platform] = in.socialLink(platform)
	}
	return models.ProfileFields{
		Company:        in.Company,
		Website:        in.Website,
		Location:       in.Location,
		Bio:            in.Bio,
		Status:         in.Status,
		GithubUsername: in.GithubUsername,
		Skills:         models.ParseSkills(in.Skills),
		Social:         social,
	}
}

func (in ProfileInput) socialLink(platform string) string {
	switch platform {
	case "youtube":
		return in.Youtube
	case "twitter":
		return in.Twitter
	case "facebook":
		return in.Facebook
	case "linkedin":
		return in.LinkedIn
	case "instagram":
		return in.Instagram
	}
	return ""
}

// ExperienceInput is the body of PUT /api/profile/experience.
type ExperienceInput struct {
	Title       string `json:"title" validate:"notblank" msg:"Title is required"`
	Company     string `json:"company" validate:"notblank" msg:"Company is required"`
	Location    string `json:"location"`
	From        string `json:"from" validate:"required" msg:"From is required"`
	To          string `json:"to"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

// EducationInput is the body of PUT /api/profile/education.
type EducationInput struct {
	School       string `json:"school" validate:"notblank" msg:"School is required"`
	Degree       string `json:"degree" validate:"notblank" msg:"Degree is required"`
	FieldOfStudy string `json:"fieldofstudy" validate:"notblank" msg:"Field of study is required"`
	From         string `json:"from" validate:"required" msg:"From is required"`
	To           string `json:"to"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

// period validates the from/to pair shared by experience and education.
func period(from, to string, current bool, v *validation.Violations) (time.Time, *time.Time) {
	var start time.Time
	if from != "" {
		t, ok := models.ParseDate(from)
		if !ok {
			v.Add("from", "From must be a valid date")
		}
		start = t
	}
	if current || to == "" {
		return start, nil
	}
	end, ok := models.ParseDate(to)
	if !ok {
		v.Add("to", "To must be a valid date")
		return start, nil
	}
	return start, &end
}

// ProfileService manages profiles and their experience/education lists.
type ProfileService struct {
	store store.Store
	now   func() time.Time
}

func NewProfileService(s store.Store) *ProfileService {
	return &ProfileService{store: s, now: time.Now}
}

// Me returns the caller's profile.
func (s *ProfileService) Me(ctx context.Context, userID string) (*models.Profile, error) {
	p, err := s.store.ProfileByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, msgNoProfile)
	}
	return s.populate(ctx, p)
}

// List returns every profile with its owner's name and avatar.
func (s *ProfileService) List(ctx context.Context) ([]models.Profile, error) {
	profiles, err := s.store.ListProfiles(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	users, err := s.store.UsersByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := make([]models.Profile, 0, len(profiles))
	for _, p := range profiles {
		if u, ok := users[p.UserID]; ok {
			p.User = u.Summary()
		}
		p.Normalize()
		out = append(out, p)
	}
	return out, nil
}

// ByUser returns the profile owned by userID.
func (s *ProfileService) ByUser(ctx context.Context, userID string) (*models.Profile, error) {
	if !models.ValidID(userID) {
		return nil, apperr.InvalidIdentifier("Profile not found")
	}
	p, err := s.store.ProfileByUser(ctx, userID)
	if err != nil {
		return nil, storeErr(err, msgNoProfile)
	}
	return s.populate(ctx, p)
}

// Upsert creates the caller's profile or merges in into the existing one.
// created reports which of the two happened.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (p *models.Profile, created bool, err error) {
	v := validation.Struct(&in)
	fields := in.Fields()
	if strings.TrimSpace(in.Skills) != "" && len(fields.Skills) == 0 {
		v.Add("skills", "Skills are required")
	}
	if err := v.Err(); err != nil {
		return nil, false, err
	}
	err = retryOnConflict(ctx, "profile", func() error {
		created = false
		existing, err := s.store.ProfileByUser(ctx, userID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			p = &models.Profile{UserID: userID, Social: map[string]string{}, Date: s.now().UTC()}
			p.Apply(fields)
			p.Normalize()
			err = s.store.CreateProfile(ctx, p)
			if errors.Is(err, store.ErrDuplicate) {
				// Lost the race to create; retry as an update.
				return store.ErrConflict
			}
			created = err == nil
			return storeErr(err, msgNoProfile)
		case err != nil:
			return apperr.Internal(err)
		}
		existing.Apply(fields)
		if err := s.store.UpdateProfile(ctx, existing); err != nil {
			return err
		}
		p = existing
		return nil
	})
	if err != nil {
		return nil, false, storeErr(err, msgNoProfile)
	}
	if created {
		metrics.RecordProfileWrite("create")
	} else {
		metrics.RecordProfileWrite("update")
	}
	p, err = s.populate(ctx, p)
	return p, created, err
}

// AddExperience prepends an experience entry to the caller's profile.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, in ExperienceInput) (*models.Profile, error) {
	v := validation.Struct(&in)
	from, to := period(in.From, in.To, in.Current, &v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, "add_experience", func(p *models.Profile) error {
		p.AddExperience(models.Experience{
			Title:       in.Title,
			Company:     in.Company,
			Location:    in.Location,
			From:        from,
			To:          to,
			Current:     in.Current,
			Description: in.Description,
		})
		return nil
	})
}

// RemoveExperience deletes one experience entry by id.
func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*models.Profile, error) {
	return s.mutate(ctx, userID, "remove_experience", func(p *models.Profile) error {
		return p.RemoveExperience(expID)
	})
}

// AddEducation prepends an education entry to the caller's profile.
func (s *ProfileService) AddEducation(ctx context.Context, userID string, in EducationInput) (*models.Profile, error) {
	v := validation.Struct(&in)
	from, to := period(in.From, in.To, in.Current, &v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return s.mutate(ctx, userID, "add_education", func(p *models.Profile) error {
		p.AddEducation(models.Education{
			School:       in.School,
			Degree:       in.Degree,
			FieldOfStudy: in.FieldOfStudy,
			From:         from,
			To:           to,
			Current:      in.Current,
			Description:  in.Description,
		})
		return nil
	})
}

// RemoveEducation deletes one education entry by id.
func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*models.Profile, error) {
	return s.mutate(ctx, userID, "remove_education", func(p *models.Profile) error {
		return p.RemoveEducation(eduID)
	})
}

// mutate re-reads the caller's profile, applies fn and writes it back under
// the version check.
func (s *ProfileService) mutate(ctx context.Context, userID, op string, fn func(*models.Profile) error) (*models.Profile, error) {
	var p *models.Profile
	err := retryOnConflict(ctx, "profile", func() error {
		var err error
		p, err = s.store.ProfileByUser(ctx, userID)
		if err != nil {
			return storeErr(err, msgNoProfileUser)
		}
		if err := fn(p); err != nil {
			return err
		}
		return s.store.UpdateProfile(ctx, p)
	})
	if err != nil {
		return nil, storeErr(err, msgNoProfileUser)
	}
	metrics.RecordProfileWrite(op)
	return s.populate(ctx, p)
}

func (s *ProfileService) populate(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	u, err := s.store.UserByID(ctx, p.UserID)
	switch {
	case err == nil:
		p.User = u.Summary()
	case !errors.Is(err, store.ErrNotFound):
		return nil, apperr.Internal(err)
	}
	p.Normalize()
	return p, nil
}
