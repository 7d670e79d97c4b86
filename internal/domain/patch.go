package domain

// Change is an optional value inside a RecordPatch.
// The zero Change leaves the field untouched; Set(v) overwrites it, including with a zero value.
type Change[T any] struct {
	set   bool
	value T
}

func Set[T any](v T) Change[T] {
	return Change[T]{set: true, value: v}
}

func (c Change[T]) Get() (T, bool) {
	return c.value, c.set
}

func (c Change[T]) IsSet() bool {
	return c.set
}

func (c Change[T]) apply(dst *T) {
	if c.set {
		*dst = c.value
	}
}

// RecordPatch is a partial update of an ApplicationRecord.
// Applying it replaces every set field wholesale; nested collections are not merged.
type RecordPatch struct {
	FirstName   Change[string]
	LastName    Change[string]
	DateOfBirth Change[*Date]
	Gender      Change[string]
	Nationality Change[string]

	Email     Change[string]
	Phone     Change[string]
	Address   Change[string]
	City      Change[string]
	State     Change[string]
	ZipCode   Change[string]
	LinkedIn  Change[string]
	Portfolio Change[string]

	Experiences Change[[]ExperienceEntry]
	Education   Change[[]EducationEntry]

	TechnicalSkills Change[[]string]
	SoftSkills      Change[[]string]
	Languages       Change[[]LanguageEntry]

	Resume      Change[*Document]
	CoverLetter Change[*Document]

	DesiredPosition  Change[string]
	ExpectedSalary   Change[string]
	AvailabilityDate Change[*Date]
	WorkType         Change[WorkType]
}

// Apply overwrites the set fields of r. Collections are copied so the patch
// and the record never alias each other.
func (p RecordPatch) Apply(r *ApplicationRecord) {
	p.FirstName.apply(&r.FirstName)
	p.LastName.apply(&r.LastName)
	p.DateOfBirth.apply(&r.DateOfBirth)
	p.Gender.apply(&r.Gender)
	p.Nationality.apply(&r.Nationality)

	p.Email.apply(&r.Email)
	p.Phone.apply(&r.Phone)
	p.Address.apply(&r.Address)
	p.City.apply(&r.City)
	p.State.apply(&r.State)
	p.ZipCode.apply(&r.ZipCode)
	p.LinkedIn.apply(&r.LinkedIn)
	p.Portfolio.apply(&r.Portfolio)

	p.Experiences.apply(&r.Experiences)
	p.Education.apply(&r.Education)
	p.TechnicalSkills.apply(&r.TechnicalSkills)
	p.SoftSkills.apply(&r.SoftSkills)
	p.Languages.apply(&r.Languages)

	p.Resume.apply(&r.Resume)
	p.CoverLetter.apply(&r.CoverLetter)

	p.DesiredPosition.apply(&r.DesiredPosition)
	p.ExpectedSalary.apply(&r.ExpectedSalary)
	p.AvailabilityDate.apply(&r.AvailabilityDate)
	p.WorkType.apply(&r.WorkType)

	// re-clone so later edits to the patch's slices or pointers can't reach the record
	*r = r.Clone()
}
