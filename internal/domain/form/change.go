package form

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"attendform/internal/domain/attachment"
	"attendform/internal/domain/category"
	"attendform/internal/domain/dates"
)

// Attendance change form fields not shared with the absence form.
const (
	FieldCampus         = "campus"
	FieldChangeCode     = "reason"
	FieldAttendanceDate = "attendanceDate"
	FieldAttendanceTime = "attendanceTime"
	FieldChangeDate     = "changeDate"
	FieldChangeTime     = "changeTime"
	FieldChangeReason   = "changeReason"
)

const MaxChangeReasonLen = 60

type ChangeForm struct {
	Location       string `json:"location"`
	ClassNumber    string `json:"classNumber"`
	Name           string `json:"name"`
	Campus         string `json:"campus"`
	BirthDate      string `json:"birthDate"`
	Reason         int    `json:"reason"`
	AttendanceDate string `json:"attendanceDate"`
	AttendanceTime string `json:"attendanceTime"`
	ChangeDate     string `json:"changeDate"`
	ChangeTime     string `json:"changeTime"`
	ChangeReason   string `json:"changeReason"`
}

// ChangeRecord mirrors the form and repeats location and class number under
// the names the preview page reads.
type ChangeRecord struct {
	Location       string  `json:"location"`
	ClassNumber    string  `json:"classNumber"`
	Name           string  `json:"name"`
	Campus         string  `json:"campus"`
	BirthDate      string  `json:"birthDate"`
	Reason         int     `json:"reason"`
	AttendanceDate string  `json:"attendanceDate"`
	AttendanceTime string  `json:"attendanceTime"`
	ChangeDate     string  `json:"changeDate"`
	ChangeTime     string  `json:"changeTime"`
	ChangeReason   string  `json:"changeReason"`
	SignatureData  *string `json:"signatureData"`
	CampusName     string  `json:"campusName"`
	CampusNumber   string  `json:"campusNumber"`
}

func DefaultChangeForm() ChangeForm {
	return ChangeForm{Reason: category.DefaultCode}
}

func DecodeChange(rec ChangeRecord) ChangeForm {
	if rec.Name == "" {
		return DefaultChangeForm()
	}
	reason := rec.Reason
	if _, err := category.ChangeReason.Label(reason); err != nil {
		reason = category.DefaultCode
	}
	return ChangeForm{
		Location:       rec.Location,
		ClassNumber:    rec.ClassNumber,
		Name:           rec.Name,
		Campus:         rec.Campus,
		BirthDate:      rec.BirthDate,
		Reason:         reason,
		AttendanceDate: rec.AttendanceDate,
		AttendanceTime: rec.AttendanceTime,
		ChangeDate:     rec.ChangeDate,
		ChangeTime:     rec.ChangeTime,
		ChangeReason:   rec.ChangeReason,
	}
}

// EncodeChange builds the stored record. An empty signatureURI is stored as null.
func EncodeChange(f ChangeForm, signatureURI string) ChangeRecord {
	var sig *string
	if signatureURI != "" {
		sig = &signatureURI
	}
	return ChangeRecord{
		Location:       f.Location,
		ClassNumber:    f.ClassNumber,
		Name:           f.Name,
		Campus:         f.Campus,
		BirthDate:      f.BirthDate,
		Reason:         f.Reason,
		AttendanceDate: f.AttendanceDate,
		AttendanceTime: f.AttendanceTime,
		ChangeDate:     f.ChangeDate,
		ChangeTime:     f.ChangeTime,
		ChangeReason:   f.ChangeReason,
		SignatureData:  sig,
		CampusName:     f.Location,
		CampusNumber:   f.ClassNumber,
	}
}

func (f ChangeForm) values() map[string]string {
	return map[string]string{
		FieldLocation:       f.Location,
		FieldClassNumber:    f.ClassNumber,
		FieldName:           f.Name,
		FieldCampus:         f.Campus,
		FieldBirthDate:      f.BirthDate,
		FieldChangeCode:     category.ChangeReason.Decode(f.Reason),
		FieldAttendanceDate: f.AttendanceDate,
		FieldAttendanceTime: f.AttendanceTime,
		FieldChangeDate:     f.ChangeDate,
		FieldChangeTime:     f.ChangeTime,
		FieldChangeReason:   f.ChangeReason,
	}
}

// ChangeSession drives the attendance change form.
type ChangeSession struct {
	*base
	store Store[ChangeRecord]

	form ChangeForm
}

// OpenChange reads the stored record for id and hydrates the form from it.
func OpenChange(ctx context.Context, store Store[ChangeRecord], id string, deps Deps) (*ChangeSession, error) {
	s := &ChangeSession{
		base: newBase(ctx, VariantChange, id, deps),
		store: store,
		form:  DefaultChangeForm(),
	}

	rec, ok, err := store.Read(ctx, s.Key())
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("open change form: %w", err)
	}
	if ok && rec.Name != "" {
		s.form = DecodeChange(rec)
		if rec.SignatureData != nil {
			s.seedSignature(*rec.SignatureData)
		}
	}

	return s, nil
}

func (s *ChangeSession) Form() ChangeForm {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

func (s *ChangeSession) Edit(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrSessionClosed
	}

	switch field {
	case FieldLocation:
		if value != "" && !category.ChangeCampus.Contains(value) {
			return fieldErr(field, ErrInvalidOption)
		}
		s.form.Location = value
	case FieldClassNumber:
		s.form.ClassNumber = value
	case FieldName:
		s.form.Name = value
	case FieldCampus:
		s.form.Campus = value
	case FieldBirthDate:
		s.form.BirthDate = dates.ToDisplay(value)
	case FieldChangeCode:
		code, err := reasonCode(value)
		if err != nil {
			return fieldErr(field, ErrInvalidOption)
		}
		s.form.Reason = code
	case FieldAttendanceDate, FieldChangeDate:
		if value != "" && !dates.ValidISO(value) {
			return fieldErr(field, ErrInvalidFormat)
		}
		if field == FieldAttendanceDate {
			s.form.AttendanceDate = value
		} else {
			s.form.ChangeDate = value
		}
	case FieldAttendanceTime, FieldChangeTime:
		if value != "" && !validClock(value) {
			return fieldErr(field, ErrInvalidFormat)
		}
		if field == FieldAttendanceTime {
			s.form.AttendanceTime = value
		} else {
			s.form.ChangeTime = value
		}
	case FieldChangeReason:
		if utf8.RuneCountInString(value) > MaxChangeReasonLen {
			return tooLong(field, MaxChangeReasonLen)
		}
		s.form.ChangeReason = value
	default:
		return fieldErr(field, ErrUnknownField)
	}
	return nil
}

// reasonCode accepts a label or its code, as the radio group posts the index.
func reasonCode(value string) (int, error) {
	if code, err := category.ChangeReason.Lookup(value); err == nil {
		return code, nil
	}
	code, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	if _, err := category.ChangeReason.Label(code); err != nil {
		return 0, err
	}
	return code, nil
}

// validClock checks "HH:MM".
func validClock(s string) bool {
	if len(s) != 5 || s[2] != ':' {
		return false
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return false
	}
	m, err := strconv.Atoi(s[3:])
	return err == nil && m >= 0 && m <= 59
}

// Attach always fails: the change form has no document.
func (s *ChangeSession) Attach(*attachment.File) error {
	return fieldErr(FieldDocument, ErrUnknownField)
}

func (s *ChangeSession) Detach() error {
	return fieldErr(FieldDocument, ErrUnknownField)
}

func (s *ChangeSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		Variant:   s.variant,
		Fields:    s.form.values(),
		Signature: s.signature(),
		Hydrating: s.hydrating(),
	}
}

func (s *ChangeSession) validate() error {
	var empty []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{FieldLocation, s.form.Location},
		{FieldClassNumber, s.form.ClassNumber},
		{FieldName, s.form.Name},
		{FieldBirthDate, s.form.BirthDate},
		{FieldChangeDate, s.form.ChangeDate},
		{FieldChangeTime, s.form.ChangeTime},
		{FieldChangeReason, s.form.ChangeReason},
	} {
		if strings.TrimSpace(f.value) == "" {
			empty = append(empty, f.name)
		}
	}
	return missing(empty...)
}

func (s *ChangeSession) Submit(ctx context.Context) (*Submission, error) {
	if err := s.Wait(); err != nil {
		return nil, fmt.Errorf("hydrate change form: %w", err)
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
	rec := EncodeChange(s.form, s.signature())
	s.mu.Unlock()

	if err := s.store.Write(ctx, s.Key(), rec); err != nil {
		s.log.Error("failed to store change record", "error", err)
		return nil, fmt.Errorf("submit change form: %w", err)
	}
	s.log.Info("change form submitted", "campus", rec.CampusName, "class", rec.CampusNumber)

	sub := &Submission{Key: s.Key(), Route: VariantChange.Route(), Record: rec}
	if err := s.navigate(ctx, sub.Route); err != nil {
		return sub, fmt.Errorf("navigate to %s: %w", sub.Route, err)
	}
	return sub, nil
}
