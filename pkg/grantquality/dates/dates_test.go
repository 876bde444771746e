package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/grantquality-go/pkg/grantquality/jsonvalue"
)

func TestParse(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		errKind ErrorKind
		wantErr bool
	}{
		{input: "2024-02-29", want: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{input: "2024-07-15T15:00:00Z", want: time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)},
		{input: "2024-1-5", want: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{input: "2024-02-30", wantErr: true, errKind: OutOfRange},
		{input: "2023-02-29", wantErr: true, errKind: OutOfRange},
		{input: "0000-01-01", wantErr: true, errKind: OutOfRange},
		{input: "2024/02/30", wantErr: true, errKind: FormatMismatch},
		{input: "13-03-2015", wantErr: true, errKind: FormatMismatch},
		{input: "2024-13-01", wantErr: true, errKind: FormatMismatch},
		{input: "2024-02-301", wantErr: true, errKind: UnconvertedData},
		{input: "2024-02-01 10:00", wantErr: true, errKind: UnconvertedData},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input, time.UTC)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
				return
			}
			require.Error(t, err)
			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, tt.errKind, parseErr.Kind)
		})
	}
}

func TestParseErrorMessages(t *testing.T) {
	_, err := Parse("2024/02/30", time.UTC)
	assert.Contains(t, err.Error(), "does not match format '%Y-%m-%d'")

	_, err = Parse("2024-02-011", time.UTC)
	assert.Equal(t, "unconverted data remains: 1", err.Error())
}

func TestAddYears(t *testing.T) {
	leap := time.Date(2024, 2, 29, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2036, 2, 29, 10, 30, 0, 0, time.UTC), AddYears(leap, 12))
	assert.Equal(t, time.Date(2029, 2, 28, 10, 30, 0, 0, time.UTC), AddYears(leap, 5))
	assert.Equal(t, time.Date(1999, 2, 28, 10, 30, 0, 0, time.UTC), AddYears(leap, -25))
}

func TestExtract(t *testing.T) {
	grant := jsonvalue.MustParse(`{
		"id": "g-1",
		"awardDate": "2024-02-30",
		"plannedDates": [{"startDate": "2024-01-01", "endDate": ""}],
		"actualDates": []
	}`)

	gd := Extract(grant, time.UTC)

	assert.True(t, gd.Present(AwardDate))
	_, ok := gd.Date(AwardDate)
	assert.False(t, ok)
	require.NotNil(t, gd.Error(AwardDate))
	assert.True(t, gd.Error(AwardDate).Impossible())

	start, ok := gd.Date(PlannedStartDate)
	require.True(t, ok)
	assert.Equal(t, 2024, start.Year())

	assert.False(t, gd.Present(PlannedEndDate))
	assert.False(t, gd.Present(ActualStartDate))
	assert.Nil(t, gd.Error(ActualEndDate))
}

func TestCacheRevalidatesDuplicateIDs(t *testing.T) {
	cache := NewCache(time.UTC)
	first := jsonvalue.MustParse(`{"id": "dup", "awardDate": "2020-01-01"}`)
	second := jsonvalue.MustParse(`{"id": "dup", "awardDate": "2021-01-01"}`)

	a := cache.Get(first)
	assert.Same(t, a, cache.Get(first))

	b := cache.Get(second)
	d, ok := b.Date(AwardDate)
	require.True(t, ok)
	assert.Equal(t, 2021, d.Year())
	assert.Equal(t, 1, cache.Len())
}

func TestFieldLocations(t *testing.T) {
	assert.Equal(t, "/awardDate", AwardDate.JSONLocation())
	assert.Equal(t, "/actualDates/0/endDate", ActualEndDate.JSONLocation())
	assert.Equal(t, "planned_start_date", PlannedStartDate.String())
}
