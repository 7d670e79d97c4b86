package intake_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-job-intake/internal/domain"
	"go-job-intake/internal/intake"
)

func newController(t *testing.T) *intake.FormController {
	t.Helper()
	n := 0
	intake.NewEntryID = func() string {
		n++
		return fmt.Sprintf("entry-%d", n)
	}
	t.Cleanup(func() { intake.NewEntryID = defaultEntryID })
	return intake.NewFormController(&stubSubmitter{})
}

var defaultEntryID = intake.NewEntryID

func TestSkills(t *testing.T) {
	c := newController(t)

	require.NoError(t, c.Apply(intake.AddSkill(domain.SkillTechnical, "  Go ")))
	assert.Equal(t, []string{"Go"}, c.Record().TechnicalSkills)

	t.Run("duplicate technical skill leaves the list unchanged", func(t *testing.T) {
		err := c.Apply(intake.AddSkill(domain.SkillTechnical, "Go"))
		assert.ErrorIs(t, err, intake.ErrDuplicateSkill)
		assert.Len(t, c.Record().TechnicalSkills, 1)
	})

	t.Run("blank skill is ignored", func(t *testing.T) {
		err := c.Apply(intake.AddSkill(domain.SkillSoft, "   "))
		assert.ErrorIs(t, err, intake.ErrEmptyValue)
		assert.Empty(t, c.Record().SoftSkills)
	})

	t.Run("soft and technical lists are independent", func(t *testing.T) {
		require.NoError(t, c.Apply(intake.AddSkill(domain.SkillSoft, "Go")))
		assert.Equal(t, []string{"Go"}, c.Record().SoftSkills)
	})

	t.Run("remove skill", func(t *testing.T) {
		require.NoError(t, c.Apply(intake.RemoveSkill(domain.SkillTechnical, "Go")))
		assert.Empty(t, c.Record().TechnicalSkills)
		assert.Equal(t, []string{"Go"}, c.Record().SoftSkills)
	})

	t.Run("unknown kind", func(t *testing.T) {
		assert.ErrorIs(t, c.Apply(intake.AddSkill("hard", "x")), intake.ErrUnknownSkillKind)
	})
}

func TestLanguages(t *testing.T) {
	c := newController(t)

	require.NoError(t, c.Apply(intake.AddLanguage(" English ", domain.ProficiencyNative)))

	t.Run("duplicate name leaves the list unchanged", func(t *testing.T) {
		err := c.Apply(intake.AddLanguage("English", domain.ProficiencyBeginner))
		assert.ErrorIs(t, err, intake.ErrDuplicateLanguage)
		langs := c.Record().Languages
		require.Len(t, langs, 1)
		assert.Equal(t, domain.ProficiencyNative, langs[0].Proficiency)
	})

	t.Run("proficiency is required", func(t *testing.T) {
		assert.ErrorIs(t, c.Apply(intake.AddLanguage("French", "")), intake.ErrInvalidProficiency)
		assert.ErrorIs(t, c.Apply(intake.AddLanguage("French", "fluent")), intake.ErrInvalidProficiency)
		assert.Len(t, c.Record().Languages, 1)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, c.Apply(intake.AddLanguage("French", domain.ProficiencyIntermediate)))
		require.NoError(t, c.Apply(intake.RemoveLanguage("English")))
		langs := c.Record().Languages
		require.Len(t, langs, 1)
		assert.Equal(t, "French", langs[0].Language)
	})
}

func TestExperience(t *testing.T) {
	c := newController(t)

	require.NoError(t, c.Apply(intake.AddExperience()))
	require.NoError(t, c.Apply(intake.AddExperience()))
	exps := c.Record().Experiences
	require.Len(t, exps, 2)
	assert.Equal(t, domain.ExperienceEntry{ID: "entry-1"}, exps[0])

	end := "2024-06"
	company := "Acme"
	require.NoError(t, c.Apply(intake.UpdateExperience("entry-1", domain.ExperienceChanges{Company: &company, EndDate: &end})))

	t.Run("setting current clears the end date in the same change", func(t *testing.T) {
		var views []domain.FormView
		c := intake.NewFormController(&stubSubmitter{}, intake.WithRenderHook(func(v domain.FormView) { views = append(views, v) }))
		require.NoError(t, c.Apply(intake.SetFields(domain.RecordPatch{Experiences: domain.Set([]domain.ExperienceEntry{
			{ID: "x", Company: "Acme", EndDate: "2024-06"},
		})})))
		views = nil

		require.NoError(t, c.Apply(intake.SetExperienceCurrent("x", true)))

		require.Len(t, views, 1, "one merge, one render")
		got := views[0].Record.Experiences[0]
		assert.True(t, got.Current)
		assert.Empty(t, got.EndDate)
	})

	t.Run("clearing current keeps the end date untouched", func(t *testing.T) {
		require.NoError(t, c.Apply(intake.SetExperienceCurrent("entry-1", false)))
		e := c.Record().Experiences[0]
		assert.False(t, e.Current)
		assert.Equal(t, "2024-06", e.EndDate)
		assert.Equal(t, "Acme", e.Company)
	})

	t.Run("end date is refused while current", func(t *testing.T) {
		require.NoError(t, c.Apply(intake.SetExperienceCurrent("entry-2", true)))
		err := c.Apply(intake.UpdateExperience("entry-2", domain.ExperienceChanges{EndDate: &end}))
		assert.ErrorIs(t, err, intake.ErrEndDateWhileCurrent)
	})

	t.Run("remove", func(t *testing.T) {
		require.NoError(t, c.Apply(intake.RemoveExperience("entry-1")))
		exps := c.Record().Experiences
		require.Len(t, exps, 1)
		assert.Equal(t, "entry-2", exps[0].ID)
		assert.ErrorIs(t, c.Apply(intake.RemoveExperience("entry-1")), intake.ErrEntryNotFound)
	})
}

func TestEducation(t *testing.T) {
	c := newController(t)

	require.NoError(t, c.Apply(intake.AddEducation()))
	year := "2014"
	degree := "BSc"
	require.NoError(t, c.Apply(intake.UpdateEducation("entry-1", domain.EducationChanges{GraduationYear: &year, Degree: &degree})))

	edu := c.Record().Education
	require.Len(t, edu, 1)
	assert.Equal(t, domain.EducationEntry{ID: "entry-1", Degree: "BSc", GraduationYear: "2014"}, edu[0])

	assert.ErrorIs(t, c.Apply(intake.UpdateEducation("nope", domain.EducationChanges{})), intake.ErrEntryNotFound)
	require.NoError(t, c.Apply(intake.RemoveEducation("entry-1")))
	assert.Empty(t, c.Record().Education)
}

func TestDocuments(t *testing.T) {
	c := newController(t)

	require.NoError(t, c.Apply(intake.AttachDocument(domain.DocumentCoverLetter, resumeDoc())))
	assert.NotNil(t, c.Record().CoverLetter)
	assert.Nil(t, c.Record().Resume)

	require.NoError(t, c.Apply(intake.RemoveDocument(domain.DocumentCoverLetter)))
	assert.Nil(t, c.Record().CoverLetter)

	assert.ErrorIs(t, c.Apply(intake.AttachDocument("photo", resumeDoc())), intake.ErrUnknownDocumentKind)
}

func TestFieldStore_SnapshotsAreIsolated(t *testing.T) {
	s := intake.NewFieldStore()
	skills := []string{"Go"}
	s.Merge(domain.RecordPatch{FirstName: domain.Set("Jane"), TechnicalSkills: domain.Set(skills)})

	skills[0] = "mutated"
	snap := s.Get()
	snap.TechnicalSkills[0] = "also mutated"
	snap.FirstName = "Other"

	got := s.Get()
	assert.Equal(t, "Jane", got.FirstName)
	assert.Equal(t, []string{"Go"}, got.TechnicalSkills)

	t.Run("unset fields are untouched and set fields replace wholesale", func(t *testing.T) {
		s.Merge(domain.RecordPatch{TechnicalSkills: domain.Set([]string{"Rust"}), DateOfBirth: domain.Set[*domain.Date](nil)})
		got := s.Get()
		assert.Equal(t, "Jane", got.FirstName)
		assert.Equal(t, []string{"Rust"}, got.TechnicalSkills)
		assert.Nil(t, got.DateOfBirth)
	})
}
