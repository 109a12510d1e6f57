package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// FlexString decodes from either a JSON string or a JSON number. The backend
// is not consistent about ids and heights.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string {
	return string(f)
}

// Prediction is one label scored by the backend's image classifier.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// ClipInsights is the classifier output stored against a profile photo.
type ClipInsights struct {
	TopLabel               string         `json:"top_label,omitempty"`
	TopConfidence          float64        `json:"top_confidence,omitempty"`
	AllPredictions         []Prediction   `json:"all_predictions,omitempty"`
	PersistedStyleInsights *StyleInsights `json:"persisted_style_insights,omitempty"`
}

// StyleInsights is the generated style report for a user.
type StyleInsights struct {
	Summary              string   `json:"summary,omitempty"`
	ColorPalette         []string `json:"color_palette,omitempty"`
	StyleRecommendations []string `json:"style_recommendations,omitempty"`
	WardrobeEssentials   []string `json:"wardrobe_essentials,omitempty"`
	FashionDos           []string `json:"fashion_dos,omitempty"`
	FashionDonts         []string `json:"fashion_donts,omitempty"`
	CulturalTips         string   `json:"cultural_tips,omitempty"`
}

// Empty reports whether the report carries nothing worth rendering.
func (s *StyleInsights) Empty() bool {
	if s == nil {
		return true
	}
	return s.Summary == "" && len(s.ColorPalette) == 0 && len(s.StyleRecommendations) == 0 &&
		len(s.WardrobeEssentials) == 0 && len(s.FashionDos) == 0 && len(s.FashionDonts) == 0 &&
		s.CulturalTips == ""
}

// Profile is the user record returned by the backend.
type Profile struct {
	ID              FlexString      `json:"id,omitempty"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Gender          string          `json:"gender,omitempty"`
	Country         string          `json:"country,omitempty"`
	Height          FlexString      `json:"height,omitempty"`
	BodyShape       string          `json:"body_shape,omitempty"`
	SkinTone        string          `json:"skin_tone,omitempty"`
	ImageURL        string          `json:"image_url,omitempty"`
	Theme           string          `json:"theme,omitempty"`
	ClipInsights    *ClipInsights   `json:"clip_insights,omitempty"`
	StyleInsights   *StyleInsights  `json:"style_insights,omitempty"`
	Recommendations json.RawMessage `json:"recommendations,omitempty"`
}

// DefaultGender is assumed when the backend has no gender on file.
const DefaultGender = "male"

// ApplyDefaults fills the values the edit form assumes are always present.
func (p *Profile) ApplyDefaults() {
	if strings.TrimSpace(p.Gender) == "" {
		p.Gender = DefaultGender
	}
}

// PersistedInsights returns the stored style report, preferring the
// top-level field over the copy kept inside the classifier data.
func (p Profile) PersistedInsights() *StyleInsights {
	if !p.StyleInsights.Empty() {
		return p.StyleInsights
	}
	if p.ClipInsights != nil && !p.ClipInsights.PersistedStyleInsights.Empty() {
		return p.ClipInsights.PersistedStyleInsights
	}
	return nil
}

// HasRecommendations reports whether the backend attached any recommendation payload.
func (p Profile) HasRecommendations() bool {
	trimmed := bytes.TrimSpace(p.Recommendations)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// UpdateFromProfile builds the editable form state for p.
func UpdateFromProfile(userID string, p Profile) ProfileUpdate {
	return ProfileUpdate{
		UserID:    userID,
		Name:      p.Name,
		Gender:    p.Gender,
		Country:   p.Country,
		Height:    p.Height.String(),
		BodyShape: p.BodyShape,
		SkinTone:  p.SkinTone,
	}
}

// ProfileUpdate is the editable subset of a profile.
type ProfileUpdate struct {
	UserID    string `validate:"required"`
	Name      string `validate:"required,max=100"`
	Gender    string `validate:"required,oneof=male female other"`
	Country   string `validate:"max=64"`
	Height    string `validate:"max=32"`
	BodyShape string `validate:"omitempty,oneof=hourglass pear rectangle inverted round"`
	SkinTone  string `validate:"omitempty,oneof=fair warm olive tan deep"`
}

// Apply copies the submitted values onto p.
func (u ProfileUpdate) Apply(p *Profile) {
	p.Name = u.Name
	p.Gender = u.Gender
	p.Country = u.Country
	p.Height = FlexString(u.Height)
	p.BodyShape = u.BodyShape
	p.SkinTone = u.SkinTone
}

// Option is a selectable value with its display label.
type Option struct {
	ID   string
	Name string
}

var (
	GenderOptions = []Option{
		{ID: "male", Name: "Male"},
		{ID: "female", Name: "Female"},
		{ID: "other", Name: "Other"},
	}

	BodyShapeOptions = []Option{
		{ID: "hourglass", Name: "Hourglass"},
		{ID: "pear", Name: "Pear"},
		{ID: "rectangle", Name: "Rectangle"},
		{ID: "inverted", Name: "Inverted Triangle"},
		{ID: "round", Name: "Round"},
	}

	SkinToneOptions = []Option{
		{ID: "fair", Name: "Fair"},
		{ID: "warm", Name: "Warm"},
		{ID: "olive", Name: "Olive"},
		{ID: "tan", Name: "Tan"},
		{ID: "deep", Name: "Deep"},
	}

	Countries = []string{
		"Pakistan",
		"India",
		"Bangladesh",
		"United States",
		"United Kingdom",
		"Canada",
		"Australia",
		"Other",
	}
)

// OptionName returns the display label for id, or id itself when unknown.
func OptionName(options []Option, id string) string {
	for _, o := range options {
		if o.ID == id {
			return o.Name
		}
	}
	return id
}

// NextOption cycles through options starting after current. An unknown or
// empty current selects the first option.
func NextOption(options []Option, current string) string {
	if len(options) == 0 {
		return current
	}
	for i, o := range options {
		if o.ID == current {
			return options[(i+1)%len(options)].ID
		}
	}
	return options[0].ID
}
