package services

import (
	"context"
	"testing"

	"github.com/diewo77/devconnect/internal/apperr"
	"github.com/diewo77/devconnect/internal/models"
	"github.com/diewo77/devconnect/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfile_UpsertCreatesThenMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "Ada", "ada@example.com")

	p, created, err := f.profiles.Upsert(ctx, uid, ProfileInput{
		Status:   "Developer",
		Company:  "Acme",
		Skills:   "a, b, c",
		Twitter:  "https://twitter.com/ada",
		Location: "London",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, []string{"a", "b", "c"}, p.Skills)
	require.NotNil(t, p.User)
	assert.Equal(t, "Ada", p.User.Name)

	p, created, err = f.profiles.Upsert(ctx, uid, ProfileInput{
		Status:  "Senior Developer",
		Skills:  "go",
		Youtube: "https://youtube.com/ada",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Senior Developer", p.Status)
	assert.Equal(t, "Acme", p.Company, "omitted field untouched")
	assert.Equal(t, "London", p.Location)
	assert.Equal(t, []string{"go"}, p.Skills, "skills fully replaced")
	assert.Equal(t, map[string]string{
		"twitter": "https://twitter.com/ada",
		"youtube": "https://youtube.com/ada",
	}, p.Social)

	all, err := f.profiles.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert never creates a second profile")
}

func TestProfile_UpsertValidation(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.profiles.Upsert(context.Background(), models.NewID(), ProfileInput{})
	require.ErrorIs(t, err, apperr.ErrValidation)

	fields := apperr.As(err).Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "Status is required", fields[0].Msg)
	assert.Equal(t, "Skills are required", fields[1].Msg)
}

func TestProfile_UpsertRejectsBlankFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "Ada", "ada@example.com")

	tests := []struct {
		name string
		in   ProfileInput
		want []string
	}{
		{"whitespace", ProfileInput{Status: "   ", Skills: " , "}, []string{"Status is required", "Skills are required"}},
		{"separators only", ProfileInput{Status: "Dev", Skills: ",,"}, []string{"Skills are required"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.profiles.Upsert(ctx, uid, tt.in)
			require.ErrorIs(t, err, apperr.ErrValidation)

			var msgs []string
			for _, fe := range apperr.As(err).Fields {
				msgs = append(msgs, fe.Msg)
			}
			assert.Equal(t, tt.want, msgs)

			_, err = f.profiles.Me(ctx, uid)
			assert.ErrorIs(t, err, apperr.ErrNotFound, "nothing stored")
		})
	}
}

func TestProfileInput_FieldsCoversEverySocialPlatform(t *testing.T) {
	in := ProfileInput{
		Youtube:   "y",
		Twitter:   "t",
		Facebook:  "f",
		LinkedIn:  "l",
		Instagram: "i",
	}
	social := in.Fields().Social
	require.Len(t, social, len(models.SocialPlatforms))
	for _, platform := range models.SocialPlatforms {
		assert.NotEmpty(t, social[platform], platform)
	}
}

func TestProfile_MeAndByUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "Ada", "ada@example.com")

	_, err := f.profiles.Me(ctx, uid)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "There is no profile for this user", apperr.As(err).Message)

	_, err = f.profiles.ByUser(ctx, "123")
	require.ErrorIs(t, err, apperr.ErrInvalidIdentifier)

	_, _, err = f.profiles.Upsert(ctx, uid, ProfileInput{Status: "Dev", Skills: "go"})
	require.NoError(t, err)

	p, err := f.profiles.ByUser(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, uid, p.User.ID)
	assert.NotNil(t, p.Experience)
}

func TestProfile_ExperienceLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "Ada", "ada@example.com")

	_, err := f.profiles.AddExperience(ctx, uid, ExperienceInput{Title: "Eng", Company: "Acme", From: "2019-06-01"})
	require.ErrorIs(t, err, apperr.ErrNotFound, "no profile yet")

	_, _, err = f.profiles.Upsert(ctx, uid, ProfileInput{Status: "Dev", Skills: "go"})
	require.NoError(t, err)

	_, err = f.profiles.AddExperience(ctx, uid, ExperienceInput{Title: "First", Company: "A", From: "2018-01-01"})
	require.NoError(t, err)
	_, err = f.profiles.AddExperience(ctx, uid, ExperienceInput{Title: "Second", Company: "B", From: "2019-01-01", To: "2020-01-01"})
	require.NoError(t, err)
	p, err := f.profiles.AddExperience(ctx, uid, ExperienceInput{Title: "Third", Company: "C", From: "2021-01-01", To: "2022-01-01", Current: true})
	require.NoError(t, err)

	require.Len(t, p.Experience, 3)
	assert.Equal(t, "Third", p.Experience[0].Title, "newest first")
	assert.Nil(t, p.Experience[0].To, "current entries have no end date")
	require.NotNil(t, p.Experience[1].To)

	middle := p.Experience[1].ID
	p, err = f.profiles.RemoveExperience(ctx, uid, middle)
	require.NoError(t, err)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "Third", p.Experience[0].Title)
	assert.Equal(t, "First", p.Experience[1].Title)

	_, err = f.profiles.RemoveExperience(ctx, uid, middle)
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Equal(t, "This experience does not exist", apperr.As(err).Message)
}

func TestProfile_ExperienceValidation(t *testing.T) {
	f := newFixture(t)
	_, err := f.profiles.AddExperience(context.Background(), models.NewID(), ExperienceInput{From: "yesterday"})
	require.ErrorIs(t, err, apperr.ErrValidation)

	var msgs []string
	for _, fe := range apperr.As(err).Fields {
		msgs = append(msgs, fe.Msg)
	}
	assert.Equal(t, []string{"Title is required", "Company is required", "From must be a valid date"}, msgs)
}

func TestProfile_EducationLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "Ada", "ada@example.com")
	_, _, err := f.profiles.Upsert(ctx, uid, ProfileInput{Status: "Dev", Skills: "go"})
	require.NoError(t, err)

	_, err = f.profiles.AddEducation(ctx, uid, EducationInput{School: "MIT", Degree: "BSc"})
	require.ErrorIs(t, err, apperr.ErrValidation)

	p, err := f.profiles.AddEducation(ctx, uid, EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01"})
	require.NoError(t, err)
	require.Len(t, p.Education, 1)

	p, err = f.profiles.RemoveEducation(ctx, uid, p.Education[0].ID)
	require.NoError(t, err)
	assert.Empty(t, p.Education)

	_, err = f.profiles.RemoveEducation(ctx, uid, models.NewID())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestProfile_RetriesVersionConflicts(t *testing.T) {
	cs := &conflictingStore{Store: storetest.SQLite(t)}
	f := newFixtureWith(t, cs)
	ctx := context.Background()
	uid := f.register(t, "Ada", "ada@example.com")
	_, _, err := f.profiles.Upsert(ctx, uid, ProfileInput{Status: "Dev", Skills: "go"})
	require.NoError(t, err)

	cs.failures.Store(MaxWriteAttempts - 1)
	p, err := f.profiles.AddExperience(ctx, uid, ExperienceInput{Title: "Eng", Company: "Acme", From: "2020-01-01"})
	require.NoError(t, err)
	assert.Len(t, p.Experience, 1, "mutation applied exactly once")

	cs.failures.Store(MaxWriteAttempts)
	_, err = f.profiles.AddExperience(ctx, uid, ExperienceInput{Title: "Eng2", Company: "Acme", From: "2020-01-01"})
	require.ErrorIs(t, err, apperr.ErrConflict)

	p, err = f.profiles.Me(ctx, uid)
	require.NoError(t, err)
	assert.Len(t, p.Experience, 1, "failed write left the profile unchanged")
}

func TestAccount_DeleteCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uid := f.register(t, "Ada", "ada@example.com")
	_, _, err := f.profiles.Upsert(ctx, uid, ProfileInput{Status: "Dev", Skills: "go"})
	require.NoError(t, err)

	require.NoError(t, f.accounts.Delete(ctx, uid))
	require.NoError(t, f.accounts.Delete(ctx, uid), "second delete is a no-op")

	_, err = f.profiles.Me(ctx, uid)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = f.auth.CurrentUser(ctx, uid)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
