package form

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"attendform/internal/domain/attachment"
	"attendform/internal/domain/signature"
	"attendform/internal/utils/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func testSignature(t *testing.T) string {
	t.Helper()
	sink := signature.NewImageSink(signature.AbsenceWidth, signature.AbsenceHeight, signature.AbsenceStyle)
	sink.Segment(signature.Point{X: 20, Y: 20}, signature.Point{X: 200, Y: 100})
	uri, err := sink.Export()
	require.NoError(t, err)
	return uri
}

func fillAbsence(t *testing.T, s Session) {
	t.Helper()
	edits := []struct{ field, value string }{
		{FieldLocation, "서울"},
		{FieldClassNumber, "3"},
		{FieldName, "홍길동"},
		{FieldBirthDate, "050315"},
		{FieldAbsenceDate, "2024-03-05"},
		{FieldAbsentCategory, "사유"},
		{FieldCategory, "종일"},
		{FieldReason, "몸살\n병원 방문"},
		{FieldDetails, "진료\n확인서 첨부"},
		{FieldPlace, "병원"},
	}
	for _, e := range edits {
		require.NoError(t, s.Edit(e.field, e.value), e.field)
	}
}

func TestAbsence_OpenDefaults(t *testing.T) {
	store := NewJSONStore[AbsenceRecord](newMapKV())

	s, err := OpenAbsence(context.Background(), store, "1", Deps{Log: logger.Discard()})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Wait())
	f := s.Form()
	assert.Equal(t, "공가", f.AbsentCategory)
	assert.Equal(t, "오전", f.Category)
	assert.Empty(t, f.Name)

	st := s.State()
	assert.Nil(t, st.Document)
	assert.Empty(t, st.Signature)
	assert.False(t, st.Hydrating)
}

func TestAbsence_SubmitEndToEnd(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	store := NewJSONStore[AbsenceRecord](kv)
	nav := new(MockNavigator)
	nav.On("Navigate", mock.Anything, RouteAbsencePreview).Return(nil).Once()

	s, err := OpenAbsence(ctx, store, "42", Deps{Navigator: nav, Log: logger.Discard()})
	require.NoError(t, err)
	defer s.Close()

	fillAbsence(t, s)
	assert.Equal(t, "05.03.15", s.Form().BirthDate)

	doc := testPNG(t)
	require.NoError(t, s.Attach(attachment.FromBytes("진단서.png", "image/png", doc)))

	surface := s.Surface()
	surface.Start(signature.Point{X: 10, Y: 10})
	surface.Extend(signature.Point{X: 120, Y: 80})
	require.NoError(t, surface.End())

	sub, err := s.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, RouteAbsencePreview, sub.Route)
	assert.Equal(t, "absence:42", sub.Key)

	rec, ok := sub.Record.(AbsenceRecord)
	require.True(t, ok)
	assert.Equal(t, "홍길동", rec.Name)
	assert.Equal(t, "2005-03-15", rec.Birthday)
	assert.Equal(t, "24", rec.AbsentYear)
	assert.Equal(t, "03", rec.AbsentMonth)
	assert.Equal(t, "05", rec.AbsentDay)
	assert.Equal(t, 2, rec.AbsentTime)
	assert.Equal(t, 1, rec.AbsentCategory)
	assert.Equal(t, "몸살 병원 방문", rec.AbsentReason)
	assert.Equal(t, "진료 확인서 첨부", rec.AbsentDetail)
	assert.Equal(t, "병원", rec.AbsentPlace)
	assert.Equal(t, "서울", rec.Campus)
	assert.Equal(t, "3", rec.Class)
	assert.True(t, strings.HasPrefix(rec.SignatureURL, "data:image/png;base64,"))

	_, payload, err := attachment.ParseDataURI(rec.Appendix)
	require.NoError(t, err)
	assert.Equal(t, doc, payload)

	stored, ok, err := store.Read(ctx, "absence:42")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rec, stored)
	nav.AssertExpectations(t)
}

func TestAbsence_Resume(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore[AbsenceRecord](newMapKV())

	doc := testPNG(t)
	appendix, err := attachment.FileToDataURI(ctx, attachment.FromBytes("scan.png", "image/png", doc))
	require.NoError(t, err)
	sig := testSignature(t)

	stored := AbsenceRecord{
		Name:           "김철수",
		Birthday:       "99-12-01",
		AbsentYear:     "24",
		AbsentMonth:    "3",
		AbsentDay:      "7",
		AbsentTime:     1,
		AbsentCategory: 1,
		AbsentReason:   "가족 행사",
		AbsentDetail:   "결혼식",
		AbsentPlace:    "부산",
		SignatureURL:   sig,
		Campus:         "부울경",
		Class:          "12",
		Appendix:       appendix,
	}
	require.NoError(t, store.Write(ctx, "absence:7", stored))

	s, err := OpenAbsence(ctx, store, "7", Deps{Log: logger.Discard()})
	require.NoError(t, err)
	defer s.Close()

	f := s.Form()
	assert.Equal(t, AbsenceForm{
		Location:       "부울경",
		ClassNumber:    "12",
		Name:           "김철수",
		BirthDate:      "99.12.01",
		AbsenceDate:    "2024-03-07",
		AbsentCategory: "사유",
		Category:       "오후",
		Reason:         "가족 행사",
		Details:        "결혼식",
		Place:          "부산",
	}, f)

	require.NoError(t, s.Wait())
	st := s.State()
	require.NotNil(t, st.Document)
	assert.Equal(t, attachment.DecodedName, st.Document.Name)
	assert.Equal(t, attachment.DecodedType, st.Document.ContentType)
	assert.Equal(t, sig, st.Signature)

	sub, err := s.Submit(ctx)
	require.NoError(t, err)
	rec := sub.Record.(AbsenceRecord)
	assert.Equal(t, "03", rec.AbsentMonth)
	assert.Equal(t, "07", rec.AbsentDay)
	assert.Equal(t, "2099-12-01", rec.Birthday)
	assert.Equal(t, appendix, rec.Appendix)
	assert.Equal(t, sig, rec.SignatureURL)
}

func TestAbsence_SubmitCodes(t *testing.T) {
	tests := []struct {
		name         string
		edits        [][2]string
		wantTime     int
		wantCategory int
		wantBirthday string
		wantCampus   string
		wantClass    string
	}{
		{
			name: "morning official leave",
			edits: [][2]string{
				{FieldLocation, "서울"},
				{FieldClassNumber, "3"},
				{FieldName, "홍길동"},
				{FieldBirthDate, "050315"},
				{FieldAbsenceDate, "2024-03-05"},
				{FieldCategory, "오전"},
				{FieldAbsentCategory, "공가"},
				{FieldReason, "개인사정"},
				{FieldDetails, "가족 행사 참석"},
				{FieldPlace, "자택"},
			},
			wantTime:     0,
			wantCategory: 0,
			wantBirthday: "2005-03-15",
			wantCampus:   "서울",
			wantClass:    "3",
		},
		{
			name: "all day personal leave",
			edits: [][2]string{
				{FieldLocation, "광주"},
				{FieldClassNumber, "21"},
				{FieldName, "김영희"},
				{FieldBirthDate, "991231"},
				{FieldAbsenceDate, "2024-11-30"},
				{FieldCategory, "종일"},
				{FieldAbsentCategory, "사유"},
				{FieldReason, "병원 진료"},
				{FieldDetails, "정기 검진"},
				{FieldPlace, "병원"},
			},
			wantTime:     2,
			wantCategory: 1,
			wantBirthday: "2099-12-31",
			wantCampus:   "광주",
			wantClass:    "21",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewJSONStore[AbsenceRecord](newMapKV())

			s, err := OpenAbsence(ctx, store, "scenario", Deps{Log: logger.Discard()})
			require.NoError(t, err)
			defer s.Close()

			for _, e := range tt.edits {
				require.NoError(t, s.Edit(e[0], e[1]), e[0])
			}
			require.NoError(t, s.Attach(attachment.FromBytes("사진.png", "image/png", testPNG(t))))
			surface := s.Surface()
			surface.Start(signature.Point{X: 30, Y: 30})
			surface.Extend(signature.Point{X: 150, Y: 90})
			require.NoError(t, surface.End())

			sub, err := s.Submit(ctx)
			require.NoError(t, err)
			rec := sub.Record.(AbsenceRecord)
			assert.Equal(t, tt.wantTime, rec.AbsentTime)
			assert.Equal(t, tt.wantCategory, rec.AbsentCategory)
			assert.Equal(t, tt.wantBirthday, rec.Birthday)
			assert.Equal(t, tt.wantCampus, rec.Campus)
			assert.Equal(t, tt.wantClass, rec.Class)
			assert.NotEmpty(t, rec.SignatureURL)
			assert.NotEmpty(t, rec.Appendix)
		})
	}
}

func TestAbsence_ResumeCodes(t *testing.T) {
	tests := []struct {
		name         string
		time         int
		category     int
		wantTime     string
		wantCategory string
	}{
		{name: "all day personal", time: 2, category: 1, wantTime: "종일", wantCategory: "사유"},
		{name: "morning official", time: 0, category: 0, wantTime: "오전", wantCategory: "공가"},
		{name: "afternoon personal", time: 1, category: 1, wantTime: "오후", wantCategory: "사유"},
		{name: "unknown codes", time: 9, category: 4, wantTime: "오전", wantCategory: "사유"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := NewJSONStore[AbsenceRecord](newMapKV())
			require.NoError(t, store.Write(ctx, "absence:codes", AbsenceRecord{
				Name:           "홍길동",
				Birthday:       "2005-03-15",
				AbsentTime:     tt.time,
				AbsentCategory: tt.category,
			}))

			s, err := OpenAbsence(ctx, store, "codes", Deps{Log: logger.Discard()})
			require.NoError(t, err)
			defer s.Close()

			f := s.Form()
			assert.Equal(t, tt.wantTime, f.Category)
			assert.Equal(t, tt.wantCategory, f.AbsentCategory)
			assert.Equal(t, "05.03.15", f.BirthDate)
		})
	}
}

func TestAbsence_ResumeBadAppendix(t *testing.T) {
	ctx := context.Background()
	store := NewJSONStore[AbsenceRecord](newMapKV())
	require.NoError(t, store.Write(ctx, "absence:9", AbsenceRecord{
		Name:     "박",
		Appendix: "not-a-data-uri",
	}))

	s, err := OpenAbsence(ctx, store, "9", Deps{Log: logger.Discard()})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Wait())
	assert.Nil(t, s.State().Document)
	assert.Equal(t, "박", s.Form().Name)
}

func TestAbsence_Edit(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   string
		wantErr error
		check   func(t *testing.T, f AbsenceForm)
	}{
		{
			name:  "name at limit",
			field: FieldName, value: "가나다라마",
			check: func(t *testing.T, f AbsenceForm) { assert.Equal(t, "가나다라마", f.Name) },
		},
		{
			name:  "name over limit",
			field: FieldName, value: "가나다라마바",
			wantErr: ErrTooLong,
		},
		{
			name:  "reason over limit",
			field: FieldReason, value: strings.Repeat("a", MaxAbsenceReasonLen+1),
			wantErr: ErrTooLong,
		},
		{
			name:  "details at limit",
			field: FieldDetails, value: strings.Repeat("가", MaxAbsenceDetailsLen),
			check: func(t *testing.T, f AbsenceForm) { assert.Len(t, []rune(f.Details), MaxAbsenceDetailsLen) },
		},
		{
			name:  "details over limit",
			field: FieldDetails, value: strings.Repeat("가", MaxAbsenceDetailsLen+1),
			wantErr: ErrTooLong,
		},
		{
			name:  "birth date formatted",
			field: FieldBirthDate, value: "99/12/01extra",
			check: func(t *testing.T, f AbsenceForm) { assert.Equal(t, "99.12.01", f.BirthDate) },
		},
		{
			name:  "absence date from display",
			field: FieldAbsenceDate, value: "24.03.05",
			check: func(t *testing.T, f AbsenceForm) { assert.Equal(t, "2024-03-05", f.AbsenceDate) },
		},
		{
			name:  "absence date malformed",
			field: FieldAbsenceDate, value: "March 5",
			wantErr: ErrInvalidFormat,
		},
		{
			name:  "campus outside list",
			field: FieldLocation, value: "대구",
			wantErr: ErrInvalidOption,
		},
		{
			name:  "unknown time label",
			field: FieldCategory, value: "저녁",
			wantErr: ErrInvalidOption,
		},
		{
			name:  "unknown category label",
			field: FieldAbsentCategory, value: "병가",
			wantErr: ErrInvalidOption,
		},
		{
			name:  "unknown field",
			field: "nickname", value: "x",
			wantErr: ErrUnknownField,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := OpenAbsence(context.Background(), NewJSONStore[AbsenceRecord](newMapKV()), "e", Deps{Log: logger.Discard()})
			require.NoError(t, err)
			defer s.Close()

			before := s.Form()
			err = s.Edit(tt.field, tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				var fe *FieldError
				require.ErrorAs(t, err, &fe)
				assert.Equal(t, tt.field, fe.Field)
				assert.Equal(t, before, s.Form(), "rejected edit leaves the form untouched")
				return
			}
			require.NoError(t, err)
			tt.check(t, s.Form())
		})
	}
}

func TestAbsence_SubmitMissingFields(t *testing.T) {
	store := new(MockStore[AbsenceRecord])
	store.On("Read", mock.Anything, "absence:m").Return(AbsenceRecord{}, false, nil)
	nav := new(MockNavigator)

	s, err := OpenAbsence(context.Background(), store, "m", Deps{Navigator: nav, Log: logger.Discard()})
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Edit(FieldName, "홍길동"))

	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrRequired)
	assert.Contains(t, err.Error(), FieldDocument)
	assert.Contains(t, err.Error(), FieldPlace)
	assert.NotContains(t, err.Error(), FieldName+":")

	store.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
	nav.AssertNotCalled(t, "Navigate", mock.Anything, mock.Anything)
}

func TestAbsence_SubmitAttachmentReadError(t *testing.T) {
	store := new(MockStore[AbsenceRecord])
	store.On("Read", mock.Anything, "absence:r").Return(AbsenceRecord{}, false, nil)
	nav := new(MockNavigator)

	s, err := OpenAbsence(context.Background(), store, "r", Deps{
		Navigator: nav,
		Codec:     attachment.NewCodec(4),
		Log:       logger.Discard(),
	})
	require.NoError(t, err)
	defer s.Close()

	fillAbsence(t, s)
	require.NoError(t, s.Attach(attachment.FromBytes("big.pdf", "application/pdf", []byte("too large"))))
	before := s.State()

	_, err = s.Submit(context.Background())
	var readErr *attachment.ReadError
	require.ErrorAs(t, err, &readErr)

	assert.Equal(t, before, s.State(), "form state retained")
	store.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
	nav.AssertNotCalled(t, "Navigate", mock.Anything, mock.Anything)
}

func TestAbsence_StoreErrors(t *testing.T) {
	boom := errors.New("db down")

	t.Run("read", func(t *testing.T) {
		store := new(MockStore[AbsenceRecord])
		store.On("Read", mock.Anything, "absence:x").Return(AbsenceRecord{}, false, boom)

		_, err := OpenAbsence(context.Background(), store, "x", Deps{Log: logger.Discard()})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("write", func(t *testing.T) {
		store := new(MockStore[AbsenceRecord])
		store.On("Read", mock.Anything, "absence:w").Return(AbsenceRecord{}, false, nil)
		store.On("Write", mock.Anything, "absence:w", mock.AnythingOfType("form.AbsenceRecord")).Return(boom)
		nav := new(MockNavigator)

		s, err := OpenAbsence(context.Background(), store, "w", Deps{Navigator: nav, Log: logger.Discard()})
		require.NoError(t, err)
		defer s.Close()

		fillAbsence(t, s)
		require.NoError(t, s.Attach(attachment.FromBytes("a.png", "image/png", testPNG(t))))

		_, err = s.Submit(context.Background())
		assert.ErrorIs(t, err, boom)
		nav.AssertNotCalled(t, "Navigate", mock.Anything, mock.Anything)
	})
}

func TestAbsence_Closed(t *testing.T) {
	s, err := OpenAbsence(context.Background(), NewJSONStore[AbsenceRecord](newMapKV()), "c", Deps{Log: logger.Discard()})
	require.NoError(t, err)
	s.Close()

	assert.ErrorIs(t, s.Edit(FieldName, "a"), ErrSessionClosed)
	assert.ErrorIs(t, s.Attach(attachment.FromBytes("a", "", nil)), ErrSessionClosed)
	_, err = s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestAbsence_CloseDuringSubmitDiscardsResult(t *testing.T) {
	store := new(MockStore[AbsenceRecord])
	store.On("Read", mock.Anything, "absence:d").Return(AbsenceRecord{}, false, nil)

	s, err := OpenAbsence(context.Background(), store, "d", Deps{Log: logger.Discard()})
	require.NoError(t, err)

	fillAbsence(t, s)
	opened := make(chan struct{})
	release := make(chan struct{})
	require.NoError(t, s.Attach(blockingFile(opened, release)))

	done := make(chan error, 1)
	go func() {
		_, err := s.Submit(context.Background())
		done <- err
	}()

	<-opened
	s.Close()
	close(release)

	assert.ErrorIs(t, <-done, ErrSessionClosed)
	store.AssertNotCalled(t, "Write", mock.Anything, mock.Anything, mock.Anything)
}

func blockingFile(opened chan<- struct{}, release <-chan struct{}) *attachment.File {
	return attachment.New("slow.png", "image/png", 3, func() (io.ReadCloser, error) {
		close(opened)
		<-release
		return io.NopCloser(bytes.NewReader([]byte("png"))), nil
	})
}

func TestDecodeAbsence_Defaults(t *testing.T) {
	assert.Equal(t, DefaultAbsenceForm(), DecodeAbsence(AbsenceRecord{}))

	f := DecodeAbsence(AbsenceRecord{Name: "a", AbsentTime: 9, AbsentCategory: 5})
	assert.Equal(t, "오전", f.Category)
	assert.Equal(t, "사유", f.AbsentCategory)
}
