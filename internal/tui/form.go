package tui

import "github.com/alexisbeaulieu97/libaas/internal/domain"

// formField is one row of the profile edit form. Text rows are edited in
// the input box; choice rows cycle with left and right.
type formField struct {
	label   string
	choices []string
	options []domain.Option
	get     func(domain.ProfileUpdate) string
	set     func(*domain.ProfileUpdate, string)
}

func (f formField) isChoice() bool {
	return len(f.choices) > 0 || len(f.options) > 0
}

func (f formField) display(draft domain.ProfileUpdate) string {
	value := f.get(draft)
	if len(f.options) > 0 {
		value = domain.OptionName(f.options, value)
	}
	if value == "" {
		return "Not specified"
	}
	return value
}

func (f formField) cycle(draft *domain.ProfileUpdate, step int) {
	values := f.choices
	if len(f.options) > 0 {
		values = make([]string, 0, len(f.options))
		for _, o := range f.options {
			values = append(values, o.ID)
		}
	}
	f.set(draft, domain.Cycle(values, f.get(*draft), step))
}

var profileForm = []formField{
	{
		label: "Name",
		get:   func(u domain.ProfileUpdate) string { return u.Name },
		set:   func(u *domain.ProfileUpdate, v string) { u.Name = v },
	},
	{
		label:   "Gender",
		options: domain.GenderOptions,
		get:     func(u domain.ProfileUpdate) string { return u.Gender },
		set:     func(u *domain.ProfileUpdate, v string) { u.Gender = v },
	},
	{
		label:   "Country",
		choices: domain.Countries,
		get:     func(u domain.ProfileUpdate) string { return u.Country },
		set:     func(u *domain.ProfileUpdate, v string) { u.Country = v },
	},
	{
		label: "Height",
		get:   func(u domain.ProfileUpdate) string { return u.Height },
		set:   func(u *domain.ProfileUpdate, v string) { u.Height = v },
	},
	{
		label:   "Body Shape",
		options: domain.BodyShapeOptions,
		get:     func(u domain.ProfileUpdate) string { return u.BodyShape },
		set:     func(u *domain.ProfileUpdate, v string) { u.BodyShape = v },
	},
	{
		label:   "Skin Tone",
		options: domain.SkinToneOptions,
		get:     func(u domain.ProfileUpdate) string { return u.SkinTone },
		set:     func(u *domain.ProfileUpdate, v string) { u.SkinTone = v },
	},
}
