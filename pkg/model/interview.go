package model

import (
	"strings"
	"time"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

func ParseDifficulty(s string) (Difficulty, bool) {
	switch d := Difficulty(s); d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, true
	}
	return "", false
}

type InterviewType string

const (
	TypeOnCampus    InterviewType = "On-campus"
	TypeOffCampus   InterviewType = "Off-campus"
	TypeReferral    InterviewType = "Referral"
	TypeDirectApply InterviewType = "Direct Apply"
)

func ParseInterviewType(s string) (InterviewType, bool) {
	switch t := InterviewType(s); t {
	case TypeOnCampus, TypeOffCampus, TypeReferral, TypeDirectApply:
		return t, true
	}
	return "", false
}

const (
	DefaultDifficulty    = DifficultyMedium
	DefaultInterviewType = TypeOffCampus

	previewLength = 150
)

type Round struct {
	RoundName      string   `json:"roundName" bson:"roundName" yaml:"roundName" validate:"required"`
	Description    string   `json:"description" bson:"description" yaml:"description" validate:"required"`
	QuestionsAsked []string `json:"questionsAsked" bson:"questionsAsked" yaml:"questionsAsked"`
	Duration       string   `json:"duration,omitempty" bson:"duration,omitempty" yaml:"duration,omitempty"`
	Tips           string   `json:"tips,omitempty" bson:"tips,omitempty" yaml:"tips,omitempty"`
}

type DetailedWriteup struct {
	Preparation         string   `json:"preparation" bson:"preparation" yaml:"preparation" validate:"required,min=100"`
	TechnicalQuestions  []string `json:"technicalQuestions" bson:"technicalQuestions" yaml:"technicalQuestions"`
	SystemDesign        string   `json:"systemDesign,omitempty" bson:"systemDesign,omitempty" yaml:"systemDesign,omitempty"`
	ProjectDiscussion   string   `json:"projectDiscussion,omitempty" bson:"projectDiscussion,omitempty" yaml:"projectDiscussion,omitempty"`
	BehavioralQuestions []string `json:"behavioralQuestions" bson:"behavioralQuestions" yaml:"behavioralQuestions"`
	MyPerformance       string   `json:"myPerformance" bson:"myPerformance" yaml:"myPerformance" validate:"required"`
	Reflections         string   `json:"reflections" bson:"reflections" yaml:"reflections" validate:"required"`
	TipsForFuture       string   `json:"tipsForFuture" bson:"tipsForFuture" yaml:"tipsForFuture" validate:"required"`
	Outcome             string   `json:"outcome,omitempty" bson:"outcome,omitempty" yaml:"outcome,omitempty"`
}

// InterviewExperience is one write-up of a single interview loop.
// Tags and Rounds keep insertion order.
type InterviewExperience struct {
	ID              string          `json:"_id"`
	Company         string          `json:"company" validate:"required,max=100"`
	Role            string          `json:"role" validate:"required,max=100"`
	Date            time.Time       `json:"date"`
	Difficulty      Difficulty      `json:"difficulty" validate:"oneof=Easy Medium Hard"`
	Type            InterviewType   `json:"type" validate:"oneof=On-campus Off-campus Referral 'Direct Apply'"`
	Featured        bool            `json:"featured"`
	CompanyLogo     string          `json:"companyLogo,omitempty" validate:"omitempty,max=2048"`
	Tags            []string        `json:"tags"`
	Rounds          []Round         `json:"rounds" validate:"dive"`
	DetailedWriteup DetailedWriteup `json:"detailedWriteup"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// InterviewListItem is the list-view shape of an interview with its derived preview.
type InterviewListItem struct {
	InterviewExperience
	PreviewText string `json:"previewText"`
}

func (e InterviewExperience) ListItem() InterviewListItem {
	return InterviewListItem{
		InterviewExperience: e,
		PreviewText:         PreviewText(e.DetailedWriteup.Preparation),
	}
}

// PreviewText returns the first 150 characters of s, with "..." appended when s is longer.
func PreviewText(s string) string {
	r := []rune(s)
	if len(r) <= previewLength {
		return s
	}
	return string(r[:previewLength]) + "..."
}

type CreateInterviewReq struct {
	Company         string          `json:"company" yaml:"company"`
	Role            string          `json:"role" yaml:"role"`
	Date            string          `json:"date" yaml:"date"`
	Difficulty      string          `json:"difficulty" yaml:"difficulty"`
	Type            string          `json:"type" yaml:"type"`
	Featured        bool            `json:"featured" yaml:"featured"`
	CompanyLogo     string          `json:"companyLogo" yaml:"companyLogo"`
	Tags            []string        `json:"tags" yaml:"tags"`
	Rounds          []Round         `json:"rounds" yaml:"rounds"`
	DetailedWriteup DetailedWriteup `json:"detailedWriteup" yaml:"detailedWriteup"`
}

// UpdateInterviewReq replaces every top-level field that is present.
type UpdateInterviewReq struct {
	Company         *string          `json:"company,omitempty"`
	Role            *string          `json:"role,omitempty"`
	Date            *string          `json:"date,omitempty"`
	Difficulty      *string          `json:"difficulty,omitempty"`
	Type            *string          `json:"type,omitempty"`
	Featured        *bool            `json:"featured,omitempty"`
	CompanyLogo     *string          `json:"companyLogo,omitempty"`
	Tags            *[]string        `json:"tags,omitempty"`
	Rounds          *[]Round         `json:"rounds,omitempty"`
	DetailedWriteup *DetailedWriteup `json:"detailedWriteup,omitempty"`
}

// NewInterviewExperience builds a validated interview from a create request,
// applying the difficulty and type defaults.
func NewInterviewExperience(req CreateInterviewReq) (*InterviewExperience, error) {
	e := &InterviewExperience{
		Company:         strings.TrimSpace(req.Company),
		Role:            strings.TrimSpace(req.Role),
		Difficulty:      Difficulty(strings.TrimSpace(req.Difficulty)),
		Type:            InterviewType(strings.TrimSpace(req.Type)),
		Featured:        req.Featured,
		CompanyLogo:     strings.TrimSpace(req.CompanyLogo),
		Tags:            req.Tags,
		Rounds:          req.Rounds,
		DetailedWriteup: req.DetailedWriteup,
	}
	if e.Difficulty == "" {
		e.Difficulty = DefaultDifficulty
	}
	if e.Type == "" {
		e.Type = DefaultInterviewType
	}

	fields := map[string]string{}
	date, ok := parseDate(req.Date)
	if !ok {
		fields["date"] = dateMessage(req.Date)
	}
	e.Date = date

	e.normalize()
	if err := e.validate(fields); err != nil {
		return nil, err
	}
	return e, nil
}

// Apply merges an update onto e and re-validates the whole document.
func (e *InterviewExperience) Apply(req UpdateInterviewReq) error {
	fields := map[string]string{}
	if req.Company != nil {
		e.Company = strings.TrimSpace(*req.Company)
	}
	if req.Role != nil {
		e.Role = strings.TrimSpace(*req.Role)
	}
	if req.Date != nil {
		date, ok := parseDate(*req.Date)
		if !ok {
			fields["date"] = dateMessage(*req.Date)
		} else {
			e.Date = date
		}
	}
	if req.Difficulty != nil {
		e.Difficulty = Difficulty(strings.TrimSpace(*req.Difficulty))
	}
	if req.Type != nil {
		e.Type = InterviewType(strings.TrimSpace(*req.Type))
	}
	if req.Featured != nil {
		e.Featured = *req.Featured
	}
	if req.CompanyLogo != nil {
		e.CompanyLogo = strings.TrimSpace(*req.CompanyLogo)
	}
	if req.Tags != nil {
		e.Tags = *req.Tags
	}
	if req.Rounds != nil {
		e.Rounds = *req.Rounds
	}
	if req.DetailedWriteup != nil {
		e.DetailedWriteup = *req.DetailedWriteup
	}

	e.normalize()
	return e.validate(fields)
}

// normalize replaces nil collections with empty ones so reads never return null lists.
func (e *InterviewExperience) normalize() {
	if e.Tags == nil {
		e.Tags = []string{}
	}
	if e.Rounds == nil {
		e.Rounds = []Round{}
	}
	for i := range e.Rounds {
		if e.Rounds[i].QuestionsAsked == nil {
			e.Rounds[i].QuestionsAsked = []string{}
		}
	}
	if e.DetailedWriteup.TechnicalQuestions == nil {
		e.DetailedWriteup.TechnicalQuestions = []string{}
	}
	if e.DetailedWriteup.BehavioralQuestions == nil {
		e.DetailedWriteup.BehavioralQuestions = []string{}
	}
}

func (e *InterviewExperience) validate(fields map[string]string) error {
	if _, ok := fields["date"]; !ok && e.Date.IsZero() {
		fields["date"] = "date is required"
	}
	return validateStruct(e, fields)
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func dateMessage(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "date is required"
	}
	return "date must be a valid date (YYYY-MM-DD)"
}
