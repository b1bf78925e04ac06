package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Section column names. They double as URL path segments, so they stay
// lowercase and hyphen-free.
const (
	SectionHero           = "hero"
	SectionAbout          = "about"
	SectionContact        = "contact"
	SectionSocial         = "social"
	SectionTheme          = "theme"
	SectionQualifications = "qualifications"
	SectionSkills         = "skills"
	SectionExperience     = "experience"
	SectionProjects       = "projects"
	SectionTestimonials   = "testimonials"
)

// SingletonSections are replaced wholesale on update.
var SingletonSections = []string{
	SectionHero, SectionAbout, SectionContact, SectionSocial, SectionTheme,
}

// ArraySections hold identified subdocuments mutated element by element.
var ArraySections = []string{
	SectionQualifications, SectionSkills, SectionExperience,
	SectionProjects, SectionTestimonials,
}

func IsSingletonSection(name string) bool {
	for _, s := range SingletonSections {
		if s == name {
			return true
		}
	}
	return false
}

func IsArraySection(name string) bool {
	for _, s := range ArraySections {
		if s == name {
			return true
		}
	}
	return false
}

type Hero struct {
	Name         string   `json:"name"`
	Roles        []string `json:"roles"`
	Intro        string   `json:"intro"`
	ProfileImage string   `json:"profileImage"`
	CVUrl        string   `json:"cvUrl"`
}

type About struct {
	Heading   string `json:"heading"`
	Paragraph string `json:"paragraph"`
	Image     string `json:"image"`
}

type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type Social struct {
	Github    string `json:"github"`
	Linkedin  string `json:"linkedin"`
	Twitter   string `json:"twitter"`
	Portfolio string `json:"portfolio"`
}

// Theme values are opaque color strings; no format validation.
type Theme map[string]string

type Qualification struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Institution string `json:"institution"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type Skill struct {
	ID       string `json:"_id"`
	Label    string `json:"label"`
	Level    int    `json:"level"`
	Category string `json:"category"`
}

type Experience struct {
	ID        string   `json:"_id"`
	Company   string   `json:"company"`
	Role      string   `json:"role"`
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Current   bool     `json:"current"`
	Bullets   []string `json:"bullets"`
}

type ProjectLinks struct {
	Live   string `json:"live"`
	Github string `json:"github"`
}

type Project struct {
	ID          string       `json:"_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Image       string       `json:"image"`
	Tags        []string     `json:"tags"`
	Links       ProjectLinks `json:"links"`
}

type Testimonial struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Company string `json:"company"`
	Content string `json:"content"`
	Avatar  string `json:"avatar"`
}

// Document is the aggregate portfolio record for one owner. Array order is
// display order; there is no separate ordering field.
type Document struct {
	Hero           Hero            `json:"hero"`
	About          About           `json:"about"`
	Qualifications []Qualification `json:"qualifications"`
	Skills         []Skill         `json:"skills"`
	Experience     []Experience    `json:"experience"`
	Projects       []Project       `json:"projects"`
	Testimonials   []Testimonial   `json:"testimonials"`
	Contact        Contact         `json:"contact"`
	Social         Social          `json:"social"`
	Theme          Theme           `json:"theme"`
	CustomSections []CustomSection `json:"customSections"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// EmptyDocument is what an absent portfolio reads as, so the public site
// never sees a not-found error.
func EmptyDocument() *Document {
	return &Document{
		Qualifications: []Qualification{},
		Skills:         []Skill{},
		Experience:     []Experience{},
		Projects:       []Project{},
		Testimonials:   []Testimonial{},
		Theme:          Theme{},
		CustomSections: []CustomSection{},
	}
}

// Repository is the portfolio document store. Get never reports not-found.
// Every array mutation must be persisted as a targeted element-level write,
// never as a read-modify-replace of the whole document: two concurrent
// updates to different elements of the same array must both land.
type Repository interface {
	Get(ctx context.Context) (*Document, error)

	// UpsertSection replaces one singleton section wholesale, creating the
	// document if absent, and returns the stored section value.
	UpsertSection(ctx context.Context, ownerID uuid.UUID, section string, value json.RawMessage) (json.RawMessage, error)

	// AppendItem appends an already-identified element to one of the
	// homogeneous arrays, creating the document if absent.
	AppendItem(ctx context.Context, ownerID uuid.UUID, array string, item json.RawMessage) error

	// MergeItem shallow-merges patch onto the element with the given id and
	// returns the stored element. Fails with apperror.ErrNotFound when the
	// document or the element is absent.
	MergeItem(ctx context.Context, ownerID uuid.UUID, array, id string, patch json.RawMessage) (json.RawMessage, error)

	// RemoveItem pulls the element with the given id. Removing an id that is
	// not present succeeds; an absent document is ErrNotFound.
	RemoveItem(ctx context.Context, ownerID uuid.UUID, array, id string) error

	AppendCustomSection(ctx context.Context, ownerID uuid.UUID, section json.RawMessage) error
	RemoveCustomSection(ctx context.Context, ownerID uuid.UUID, sectionID string) error
	AppendEntry(ctx context.Context, ownerID uuid.UUID, sectionID string, entry json.RawMessage) error
	MergeEntry(ctx context.Context, ownerID uuid.UUID, sectionID, entryID string, patch json.RawMessage) (json.RawMessage, error)
	RemoveEntry(ctx context.Context, ownerID uuid.UUID, sectionID, entryID string) error
}

// NewID mints the canonical identifier for subdocuments, custom sections and
// entries. Identifiers are immutable after assignment.
func NewID() string {
	return uuid.NewString()
}

// --- client-cache patching -------------------------------------------------
//
// The client SDK reconciles its cached Document from the element the server
// returns, never from the payload it sent. These helpers apply that patch.

// SetSection replaces a singleton section from its stored JSON value.
func (d *Document) SetSection(section string, raw json.RawMessage) error {
	switch section {
	case SectionHero:
		return json.Unmarshal(raw, &d.Hero)
	case SectionAbout:
		return json.Unmarshal(raw, &d.About)
	case SectionContact:
		return json.Unmarshal(raw, &d.Contact)
	case SectionSocial:
		return json.Unmarshal(raw, &d.Social)
	case SectionTheme:
		return json.Unmarshal(raw, &d.Theme)
	}
	return fmt.Errorf("unknown singleton section %q", section)
}

// ApplyAdd appends a returned element to the named array.
func (d *Document) ApplyAdd(array string, raw json.RawMessage) error {
	switch array {
	case SectionQualifications:
		return appendInto(&d.Qualifications, raw)
	case SectionSkills:
		return appendInto(&d.Skills, raw)
	case SectionExperience:
		return appendInto(&d.Experience, raw)
	case SectionProjects:
		return appendInto(&d.Projects, raw)
	case SectionTestimonials:
		return appendInto(&d.Testimonials, raw)
	}
	return fmt.Errorf("unknown array section %q", array)
}

// ApplyUpdate replaces the element whose id matches the returned element's id.
func (d *Document) ApplyUpdate(array string, raw json.RawMessage) error {
	switch array {
	case SectionQualifications:
		return replaceIn(d.Qualifications, raw, func(q Qualification) string { return q.ID })
	case SectionSkills:
		return replaceIn(d.Skills, raw, func(s Skill) string { return s.ID })
	case SectionExperience:
		return replaceIn(d.Experience, raw, func(e Experience) string { return e.ID })
	case SectionProjects:
		return replaceIn(d.Projects, raw, func(p Project) string { return p.ID })
	case SectionTestimonials:
		return replaceIn(d.Testimonials, raw, func(t Testimonial) string { return t.ID })
	}
	return fmt.Errorf("unknown array section %q", array)
}

// ApplyRemove drops the element with the given id, if present.
func (d *Document) ApplyRemove(array, id string) error {
	switch array {
	case SectionQualifications:
		d.Qualifications = removeByID(d.Qualifications, id, func(q Qualification) string { return q.ID })
	case SectionSkills:
		d.Skills = removeByID(d.Skills, id, func(s Skill) string { return s.ID })
	case SectionExperience:
		d.Experience = removeByID(d.Experience, id, func(e Experience) string { return e.ID })
	case SectionProjects:
		d.Projects = removeByID(d.Projects, id, func(p Project) string { return p.ID })
	case SectionTestimonials:
		d.Testimonials = removeByID(d.Testimonials, id, func(t Testimonial) string { return t.ID })
	default:
		return fmt.Errorf("unknown array section %q", array)
	}
	return nil
}

func appendInto[T any](dst *[]T, raw json.RawMessage) error {
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return err
	}
	*dst = append(*dst, item)
	return nil
}

func replaceIn[T any](dst []T, raw json.RawMessage, idOf func(T) string) error {
	var item T
	if err := json.Unmarshal(raw, &item); err != nil {
		return err
	}
	id := idOf(item)
	for i := range dst {
		if idOf(dst[i]) == id {
			dst[i] = item
			return nil
		}
	}
	return fmt.Errorf("element %q not present in cached document", id)
}

func removeByID[T any](dst []T, id string, idOf func(T) string) []T {
	out := dst[:0]
	for _, item := range dst {
		if idOf(item) != id {
			out = append(out, item)
		}
	}
	return out
}
