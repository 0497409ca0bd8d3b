package form

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"attendform/internal/domain/attachment"
	"attendform/internal/domain/category"
	"attendform/internal/domain/dates"
)

// Absence form fields.
const (
	FieldLocation       = "location"
	FieldClassNumber    = "classNumber"
	FieldName           = "name"
	FieldBirthDate      = "birthDate"
	FieldAbsenceDate    = "absenceDate"
	FieldAbsentCategory = "absentCategory"
	FieldCategory       = "category"
	FieldReason         = "reason"
	FieldDetails        = "details"
	FieldPlace          = "place"
	FieldDocument       = "document"
)

const (
	MaxAbsenceNameLen    = 5
	MaxAbsenceReasonLen  = 30
	MaxAbsenceDetailsLen = 80
)

// AbsenceForm is what the person edits.
type AbsenceForm struct {
	Location       string `json:"location"`
	ClassNumber    string `json:"classNumber"`
	Name           string `json:"name"`
	BirthDate      string `json:"birthDate"`
	AbsenceDate    string `json:"absenceDate"`
	AbsentCategory string `json:"absentCategory"`
	Category       string `json:"category"`
	Reason         string `json:"reason"`
	Details        string `json:"details"`
	Place          string `json:"place"`
}

// AbsenceRecord is the stored shape read by the preview stage.
type AbsenceRecord struct {
	Name           string `json:"name"`
	Birthday       string `json:"birthday"`
	AbsentYear     string `json:"absentYear"`
	AbsentMonth    string `json:"absentMonth"`
	AbsentDay      string `json:"absentDay"`
	AbsentTime     int    `json:"absentTime"`
	AbsentCategory int    `json:"absentCategory"`
	AbsentReason   string `json:"absentReason"`
	AbsentDetail   string `json:"absentDetail"`
	AbsentPlace    string `json:"absentPlace"`
	SignatureURL   string `json:"signatureUrl"`
	Campus         string `json:"campus"`
	Class          string `json:"class"`
	Appendix       string `json:"appendix"`
}

func DefaultAbsenceForm() AbsenceForm {
	return AbsenceForm{
		AbsentCategory: category.AbsentCategory.Decode(category.DefaultCode),
		Category:       category.AbsentTime.Decode(category.DefaultCode),
	}
}

// DecodeAbsence turns a stored record back into form values. An empty record
// (no name) yields the defaults.
func DecodeAbsence(rec AbsenceRecord) AbsenceForm {
	if rec.Name == "" {
		return DefaultAbsenceForm()
	}
	return AbsenceForm{
		Location:    rec.Campus,
		ClassNumber: rec.Class,
		Name:        rec.Name,
		BirthDate:   dates.ISOToDisplay(rec.Birthday),
		AbsenceDate: dates.SplitToISO(dates.Split{
			YY: rec.AbsentYear,
			MM: rec.AbsentMonth,
			DD: rec.AbsentDay,
		}),
		AbsentCategory: category.AbsentCategory.Decode(rec.AbsentCategory),
		Category:       category.AbsentTime.Decode(rec.AbsentTime),
		Reason:         rec.AbsentReason,
		Details:        rec.AbsentDetail,
		Place:          rec.AbsentPlace,
	}
}

// EncodeAbsence builds the stored record. signatureURI and appendixURI are
// already encoded data URIs, empty when absent.
func EncodeAbsence(f AbsenceForm, signatureURI, appendixURI string) AbsenceRecord {
	absent := dates.ISOToSplit(f.AbsenceDate)
	return AbsenceRecord{
		Name:           f.Name,
		Birthday:       birthday(f.BirthDate),
		AbsentYear:     absent.YY,
		AbsentMonth:    absent.MM,
		AbsentDay:      absent.DD,
		AbsentTime:     category.AbsentTime.Encode(f.Category),
		AbsentCategory: category.AbsentCategory.Encode(f.AbsentCategory),
		AbsentReason:   flatten(f.Reason),
		AbsentDetail:   flatten(f.Details),
		AbsentPlace:    f.Place,
		SignatureURL:   signatureURI,
		Campus:         f.Location,
		Class:          f.ClassNumber,
		Appendix:       appendixURI,
	}
}

// birthday expands the typed "yy.mm.dd" to "20yy-mm-dd". Records written with
// a two-digit year still decode, ISOToDisplay passes such years through.
func birthday(display string) string {
	if display == "" {
		return ""
	}
	return dates.DisplayToISO(display)
}

func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func (f AbsenceForm) values() map[string]string {
	return map[string]string{
		FieldLocation:       f.Location,
		FieldClassNumber:    f.ClassNumber,
		FieldName:           f.Name,
		FieldBirthDate:      f.BirthDate,
		FieldAbsenceDate:    f.AbsenceDate,
		FieldAbsentCategory: f.AbsentCategory,
		FieldCategory:       f.Category,
		FieldReason:         f.Reason,
		FieldDetails:        f.Details,
		FieldPlace:          f.Place,
	}
}

// AbsenceSession drives the absence correction form.
type AbsenceSession struct {
	*base
	store Store[AbsenceRecord]

	form     AbsenceForm
	document *attachment.File
}

// OpenAbsence reads the stored record for id and hydrates the form from it.
// Decoding the attachment and painting the signature continue in the
// background; Wait blocks until they settle.
func OpenAbsence(ctx context.Context, store Store[AbsenceRecord], id string, deps Deps) (*AbsenceSession, error) {
	s := &AbsenceSession{
		base: newBase(ctx, VariantAbsence, id, deps),
		store: store,
		form:  DefaultAbsenceForm(),
	}

	rec, ok, err := store.Read(ctx, s.Key())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open absence form: %w", err)
	}
	if ok && rec.Name != "" {
		s.hydrate(rec)
	}

	return s, nil
}

func (s *AbsenceSession) hydrate(rec AbsenceRecord) {
	s.form = DecodeAbsence(rec)
	s.seedSignature(rec.SignatureURL)

	if rec.Appendix == "" {
		return
	}
	s.goHydrate(func(ctx context.Context) error {
		f, err := s.codec.Decode(ctx, rec.Appendix)
		if err != nil {
			s.log.Warn("failed to restore attachment, continuing without it", "error", err)
			return nil
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		// a file picked meanwhile wins over the stored one
		if !s.closed && s.document == nil {
			s.document = f
		}
		return nil
	})
}

func (s *AbsenceSession) Form() AbsenceForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// Edit applies one field change. Bounded fields reject values over their
// limit instead of truncating them.
func (s *AbsenceSession) Edit(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	switch field {
	case FieldLocation:
		if value != "" && !category.AbsenceCampus.Contains(value) {
			return fieldErr(field, ErrInvalidOption)
		}
		s.form.Location = value
	case FieldClassNumber:
		s.form.ClassNumber = value
	case FieldName:
		if utf8.RuneCountInString(value) > MaxAbsenceNameLen {
			return tooLong(field, MaxAbsenceNameLen)
		}
		s.form.Name = value
	case FieldBirthDate:
		s.form.BirthDate = dates.ToDisplay(value)
	case FieldAbsenceDate:
		if strings.Contains(value, ".") {
			value = dates.DisplayToISO(value)
		}
		if value != "" && !dates.ValidISO(value) {
			return fieldErr(field, ErrInvalidFormat)
		}
		s.form.AbsenceDate = value
	case FieldAbsentCategory:
		if !category.AbsentCategory.Contains(value) {
			return fieldErr(field, ErrInvalidOption)
		}
		s.form.AbsentCategory = value
	case FieldCategory:
		if !category.AbsentTime.Contains(value) {
			return fieldErr(field, ErrInvalidOption)
		}
		s.form.Category = value
	case FieldReason:
		if utf8.RuneCountInString(value) > MaxAbsenceReasonLen {
			return tooLong(field, MaxAbsenceReasonLen)
		}
		s.form.Reason = value
	case FieldDetails:
		if utf8.RuneCountInString(value) > MaxAbsenceDetailsLen {
			return tooLong(field, MaxAbsenceDetailsLen)
		}
		s.form.Details = value
	case FieldPlace:
		s.form.Place = value
	default:
		return fieldErr(field, ErrUnknownField)
	}
	return nil
}

// Attach selects the supporting document.
func (s *AbsenceSession) Attach(f *attachment.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	if f == nil {
		return fieldErr(FieldDocument, ErrRequired)
	}
	s.document = f
	return nil
}

func (s *AbsenceSession) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}
	s.document = nil
	return nil
}

func (s *AbsenceSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := State{
		Variant:   s.variant,
		Fields:    s.form.values(),
		Signature: s.signature(),
		Hydrating: s.hydrating(),
	}
	if s.document != nil {
		st.Document = &Document{
			Name:        s.document.Name,
			ContentType: s.document.ContentType,
			Size:        s.document.Size,
		}
	}
	return st
}

func (s *AbsenceSession) validate() error {
	var empty []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{FieldLocation, s.form.Location},
		{FieldClassNumber, s.form.ClassNumber},
		{FieldName, s.form.Name},
		{FieldBirthDate, s.form.BirthDate},
		{FieldAbsenceDate, s.form.AbsenceDate},
		{FieldPlace, s.form.Place},
		{FieldReason, s.form.Reason},
		{FieldDetails, s.form.Details},
	} {
		if strings.TrimSpace(f.value) == "" {
			empty = append(empty, f.name)
		}
	}
	if s.document == nil {
		empty = append(empty, FieldDocument)
	}
	return missing(empty...)
}

// Submit encodes the form, writes it to the store and hands off to the
// preview route. Nothing is written when the attachment cannot be read; the
// form stays as it was.
func (s *AbsenceSession) Submit(ctx context.Context) (*Submission, error) {
	if err := s.Wait(); err != nil {
		return nil, fmt.Errorf("hydrate absence form: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrSessionClosed
	}
	if err := s.validate(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	f := s.form
	doc := s.document
	s.mu.Unlock()

	s.logUnrecognized(f)

	appendix, err := s.codec.Encode(ctx, doc)
	if err != nil {
		s.log.Error("failed to encode attachment", "document", doc.Name, "error", err)
		return nil, err
	}

	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, ErrSessionClosed
	}

	rec := EncodeAbsence(f, s.signature(), appendix)
	if err := s.store.Write(ctx, s.Key(), rec); err != nil {
		s.log.Error("failed to store absence record", "error", err)
		return nil, fmt.Errorf("submit absence form: %w", err)
	}
	s.log.Info("absence form submitted", "campus", rec.Campus, "class", rec.Class)

	sub := &Submission{Key: s.Key(), Route: VariantAbsence.Route(), Record: rec}
	if err := s.navigate(ctx, sub.Route); err != nil {
		return sub, fmt.Errorf("navigate to %s: %w", sub.Route, err)
	}
	return sub, nil
}

// labels outside the tables can only come from a stored record; they encode
// as code 0
func (s *AbsenceSession) logUnrecognized(f AbsenceForm) {
	for _, c := range []struct {
		table *category.Table
		label string
	}{
		{category.AbsentCategory, f.AbsentCategory},
		{category.AbsentTime, f.Category},
	} {
		if _, err := c.table.Lookup(c.label); err != nil {
			s.log.Error("unrecognized label, encoding default code", "error", err)
		}
	}
}
