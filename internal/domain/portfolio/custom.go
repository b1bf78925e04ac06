package portfolio

import (
	"encoding/json"
	"fmt"
	"sort"
)

// FieldType enumerates the value shapes a custom-section field can declare.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldNumber   FieldType = "number"
	FieldDate     FieldType = "date"
	FieldSelect   FieldType = "select"
	FieldImageURL FieldType = "image-url"
)

type FieldDefinition struct {
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required"`
}

// ValueKind is the closed set of runtime value shapes inside an Entry.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
	KindDate
	KindURL
)

// FieldValue is a tagged value: exactly one of the kinds above. Text, dates
// and URLs all serialize as JSON strings; the kind records what the owning
// field declared, not what JSON can express.
type FieldValue struct {
	kind ValueKind
	text string
	num  float64
}

func Text(s string) FieldValue    { return FieldValue{kind: KindText, text: s} }
func Number(f float64) FieldValue { return FieldValue{kind: KindNumber, num: f} }
func Date(s string) FieldValue    { return FieldValue{kind: KindDate, text: s} }
func URL(s string) FieldValue     { return FieldValue{kind: KindURL, text: s} }

func (v FieldValue) Kind() ValueKind { return v.kind }

// String returns the textual payload for text, date and url kinds.
func (v FieldValue) String() string { return v.text }

// Float returns the numeric payload for the number kind.
func (v FieldValue) Float() float64 { return v.num }

func (v FieldValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	default:
		return json.Marshal(v.text)
	}
}

// UnmarshalJSON infers only what JSON itself can carry: strings land as text,
// numbers as number. Coerce refines the kind once a field definition is known.
func (v *FieldValue) UnmarshalJSON(data []byte) error {
	// json.Unmarshal treats null as a no-op for string and float64 targets,
	// which would smuggle a literal null past the string-or-number contract.
	if string(data) == "null" {
		return fmt.Errorf("field value must be a JSON string or number, got null")
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = Text(s)
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		*v = Number(f)
		return nil
	}
	return fmt.Errorf("field value must be a JSON string or number, got %s", data)
}

// Coerce retags a value according to what the field declares. A number field
// keeps only numeric values; everything else keeps the textual payload.
func (v FieldValue) Coerce(t FieldType) FieldValue {
	switch t {
	case FieldNumber:
		return Number(v.num)
	case FieldDate:
		return Date(v.text)
	case FieldImageURL:
		return URL(v.text)
	default:
		return Text(v.text)
	}
}

// Entry is one record of a custom section. Its value keys are the Names of
// the owning section's field definitions, but nothing ties them together
// after creation: an entry may carry stale keys if fields are later removed
// or renamed.
type Entry struct {
	ID     string
	Values map[string]FieldValue
}

// Entries flatten on the wire: {"_id": ..., "<fieldName>": <value>, ...}.
func (e Entry) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(e.Values))
	for k := range e.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	flat := make(map[string]json.RawMessage, len(e.Values)+1)
	for _, k := range keys {
		b, err := json.Marshal(e.Values[k])
		if err != nil {
			return nil, err
		}
		flat[k] = b
	}
	id, err := json.Marshal(e.ID)
	if err != nil {
		return nil, err
	}
	flat["_id"] = id
	return json.Marshal(flat)
}

func (e *Entry) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	e.Values = make(map[string]FieldValue, len(flat))
	for k, raw := range flat {
		if k == "_id" {
			if err := json.Unmarshal(raw, &e.ID); err != nil {
				return err
			}
			continue
		}
		var v FieldValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		e.Values[k] = v
	}
	return nil
}

// CustomSection is a user-defined content type: a name, a field schema and
// the entries filled in against it. Entries have no lifecycle of their own;
// deleting the section deletes them.
type CustomSection struct {
	ID      string            `json:"_id"`
	Name    string            `json:"name"`
	Fields  []FieldDefinition `json:"fields"`
	Entries []Entry           `json:"entries"`
}

// CoerceEntry retags entry values using the section's field declarations.
// Keys without a matching field definition are kept as-is.
func (s *CustomSection) CoerceEntry(e Entry) Entry {
	byName := make(map[string]FieldType, len(s.Fields))
	for _, f := range s.Fields {
		byName[f.Name] = f.Type
	}
	out := Entry{ID: e.ID, Values: make(map[string]FieldValue, len(e.Values))}
	for k, v := range e.Values {
		if t, ok := byName[k]; ok {
			out.Values[k] = v.Coerce(t)
		} else {
			out.Values[k] = v
		}
	}
	return out
}

// --- client-cache patching for custom sections -----------------------------

func (d *Document) ApplyAddCustomSection(raw json.RawMessage) error {
	var s CustomSection
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}
	d.CustomSections = append(d.CustomSections, s)
	return nil
}

// ApplyRemoveCustomSection drops the section together with all its entries.
func (d *Document) ApplyRemoveCustomSection(sectionID string) {
	out := d.CustomSections[:0]
	for _, s := range d.CustomSections {
		if s.ID != sectionID {
			out = append(out, s)
		}
	}
	d.CustomSections = out
}

func (d *Document) findCustomSection(sectionID string) *CustomSection {
	for i := range d.CustomSections {
		if d.CustomSections[i].ID == sectionID {
			return &d.CustomSections[i]
		}
	}
	return nil
}

func (d *Document) ApplyAddEntry(sectionID string, raw json.RawMessage) error {
	s := d.findCustomSection(sectionID)
	if s == nil {
		return fmt.Errorf("custom section %q not present in cached document", sectionID)
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return err
	}
	s.Entries = append(s.Entries, e)
	return nil
}

func (d *Document) ApplyUpdateEntry(sectionID string, raw json.RawMessage) error {
	s := d.findCustomSection(sectionID)
	if s == nil {
		return fmt.Errorf("custom section %q not present in cached document", sectionID)
	}
	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return err
	}
	for i := range s.Entries {
		if s.Entries[i].ID == e.ID {
			s.Entries[i] = e
			return nil
		}
	}
	return fmt.Errorf("entry %q not present in cached document", e.ID)
}

func (d *Document) ApplyRemoveEntry(sectionID, entryID string) {
	s := d.findCustomSection(sectionID)
	if s == nil {
		return
	}
	out := s.Entries[:0]
	for _, e := range s.Entries {
		if e.ID != entryID {
			out = append(out, e)
		}
	}
	s.Entries = out
}
