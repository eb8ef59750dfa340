package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSystemType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    SystemType
		wantErr bool
	}{
		{raw: "numerology", want: SystemNumerology},
		{raw: "fourPillars", want: SystemFourPillars},
		{raw: "fourpillars", want: SystemFourPillars},
		{raw: "SANMEI", want: SystemSanmei},
		{raw: "mbti", want: SystemMBTI},
		{raw: "animalFortune", want: SystemAnimalFortune},
		{raw: "tarot", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()
			got, err := ParseSystemType(tc.raw)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedSystem)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    Date
		wantErr error
	}{
		{name: "iso date", raw: "1990-05-15", want: Date{1990, time.May, 15}},
		{name: "slashes", raw: "2000/01/01", want: Date{2000, time.January, 1}},
		{name: "timestamp", raw: "1985-12-31T23:10:00Z", want: Date{1985, time.December, 31}},
		{name: "pre anchor", raw: "1900-02-28", want: Date{1900, time.February, 28}},
		{name: "empty", raw: "", wantErr: ErrValidation},
		{name: "garbage", raw: "yesterday", wantErr: ErrInvalidFormat},
		{name: "impossible day", raw: "2001-02-30", wantErr: ErrInvalidFormat},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDate(tc.raw)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.True(t, IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDateDaysSince(t *testing.T) {
	t.Parallel()

	anchor := MustParseDate("1924-01-01")
	assert.Equal(t, 0, anchor.DaysSince(anchor))
	assert.Equal(t, 366, MustParseDate("1925-01-01").DaysSince(anchor))
	assert.Equal(t, -1, MustParseDate("1923-12-31").DaysSince(anchor))
	assert.Equal(t, -154862, MustParseDate("1500-01-01").DaysSince(anchor))
	assert.Equal(t, 137332, MustParseDate("2300-01-01").DaysSince(anchor))
	assert.Equal(t, -702360, MustParseDate("0001-01-01").DaysSince(anchor))
	assert.Equal(t, 1, MustParseDate("9999-12-31").DaysSince(MustParseDate("9999-12-30")))
}

func TestDateJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(MustParseDate("1990-05-15"))
	require.NoError(t, err)
	assert.JSONEq(t, `"1990-05-15"`, string(data))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2000-01-01"`), &d))
	assert.Equal(t, Date{2000, time.January, 1}, d)
	assert.Error(t, json.Unmarshal([]byte(`"nope"`), &d))
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    TimeOfDay
		wantErr bool
	}{
		{raw: "00:00", want: TimeOfDay{0, 0}},
		{raw: "23:59", want: TimeOfDay{23, 59}},
		{raw: "7:05", want: TimeOfDay{7, 5}},
		{raw: "12", want: TimeOfDay{12, 0}},
		{raw: "14:30:15", want: TimeOfDay{14, 30}},
		{raw: "24:00", wantErr: true},
		{raw: "10:60", wantErr: true},
		{raw: "ab:cd", wantErr: true},
		{raw: "", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTimeOfDay(tc.raw)
			if tc.wantErr {
				assert.True(t, IsValidationError(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseGender(t *testing.T) {
	t.Parallel()

	for raw, want := range map[string]Gender{
		"":        "",
		"male":    GenderMale,
		"Female":  GenderFemale,
		" other ": GenderOther,
	} {
		got, err := ParseGender(raw)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseGender("robot")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestBirthRecordValidate(t *testing.T) {
	t.Parallel()

	assert.NoError(t, BirthRecord{BirthDate: MustParseDate("1990-05-15")}.Validate())
	assert.ErrorIs(t, BirthRecord{Name: "Taro"}.Validate(), ErrValidation)
	assert.False(t, BirthRecord{}.HasTime())
	assert.True(t, BirthRecord{BirthTime: &TimeOfDay{Hour: 3}}.HasTime())
}

func TestNewStoredResult(t *testing.T) {
	t.Parallel()

	profile := json.RawMessage(`{"destinyNumber":3}`)

	result, err := NewStoredResult(SystemNumerology, profile, " owner-1 ")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, result.ID)
	assert.Equal(t, "owner-1", result.OwnerID)
	assert.False(t, result.CreatedAt.IsZero())

	var decoded struct {
		DestinyNumber int `json:"destinyNumber"`
	}
	require.NoError(t, result.DecodeProfile(&decoded))
	assert.Equal(t, 3, decoded.DestinyNumber)

	_, err = NewStoredResult("tarot", profile, "")
	assert.ErrorIs(t, err, ErrUnsupportedSystem)

	_, err = NewStoredResult(SystemMBTI, nil, "")
	assert.ErrorIs(t, err, ErrResultProfileEmpty)

	_, err = NewStoredResult(SystemMBTI, json.RawMessage(`[1,2]`), "")
	assert.ErrorIs(t, err, ErrResultProfileInvalid)
}

func TestValidationErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := NewValidationError("name", "is required", nil)
	assert.Equal(t, "name is required", err.Error())
	assert.True(t, errors.Is(err, ErrValidation))

	wrapped := NewValidationError("id", "is malformed", ErrInvalidID)
	assert.True(t, errors.Is(wrapped, ErrInvalidID))
	assert.True(t, IsValidationError(wrapped))
	assert.False(t, IsValidationError(errors.New("boom")))
}
