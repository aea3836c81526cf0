package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"tags and spaces", "<b>Senior</b>   Go  dev", "Senior Go dev"},
		{"first closing bracket ends the tag", "<p class='x'>a</p> > b", "a > b"},
		{"only markup", "<br/><hr>", ""},
		{"trim ends", "  \tplain text \r", "plain text"},
		{"unclosed tag is kept", "a < b", "a < b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClearString(tt.in))
		})
	}
}

func TestSanitizeField_Single(t *testing.T) {
	v := SanitizeField("  <i>Moscow</i> ")
	assert.False(t, v.IsMulti())
	assert.Equal(t, "Moscow", v.Text())
	assert.Equal(t, []string{"Moscow"}, v.Parts())
}

func TestSanitizeField_Multi(t *testing.T) {
	v := SanitizeField("Go\n<i>SQL</i>\n  Docker ")
	require.True(t, v.IsMulti())
	assert.Equal(t, []string{"Go", "SQL", "Docker"}, v.Parts())
}

func TestSanitizeField_TagSpanningLineBreakIsRemovedFirst(t *testing.T) {
	v := SanitizeField("Go<br\n/>SQL")
	assert.False(t, v.IsMulti())
	assert.Equal(t, "GoSQL", v.Text())
}

func TestSanitizeField_KeepsEmptyLines(t *testing.T) {
	v := SanitizeField("a\n\nb")
	assert.Equal(t, []string{"a", "", "b"}, v.Parts())
}

func TestSanitizeRow(t *testing.T) {
	out := SanitizeRow([]string{"<b>x</b>", "y\nz"})
	require.Len(t, out, 2)
	assert.Equal(t, "x", out[0].Text())
	assert.Equal(t, []string{"y", "z"}, out[1].Parts())
}

func TestParsePublished(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2022-05-31T17:32:31+0300", time.Date(2022, 5, 31, 20, 32, 31, 0, time.UTC)},
		{"2022-05-31T17:32:31-0130", time.Date(2022, 5, 31, 16, 2, 31, 0, time.UTC)},
		{"2021-12-31T23:00:00+0300", time.Date(2022, 1, 1, 2, 0, 0, 0, time.UTC)},
		{"2020-01-02T03:04:05", time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePublished(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestParsePublished_Invalid(t *testing.T) {
	for _, in := range []string{"", "2022-05-31", "2022-05-31T17:32:31Z", "2022-13-31T17:32:31+0300", "2022-05-31T17:32:31+03xx"} {
		_, err := ParsePublished(in)
		assert.Error(t, err, in)
	}
}

func TestFormatDisplayDate(t *testing.T) {
	assert.Equal(t, "31.05.2022", FormatDisplayDate("2022-05-31T17:32:31+0300"))
	assert.Equal(t, "2022", FormatDisplayDate("2022"))
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "10 000", FormatThousands("10000"))
	assert.Equal(t, "999", FormatThousands("999.9"))
	assert.Equal(t, "1 234 567", FormatThousands("1234567,0"))
	assert.Equal(t, "n/a", FormatThousands("n/a"))
}

func TestFormatSalary(t *testing.T) {
	assert.Equal(t, "120,000 ₽", FormatSalary(120000))
}

func TestParseAmount(t *testing.T) {
	v, err := ParseAmount(" 60,66 ")
	require.NoError(t, err)
	assert.InDelta(t, 60.66, v, 1e-9)

	_, err = ParseAmount("")
	assert.Error(t, err)
	_, err = ParseAmount("abc")
	assert.Error(t, err)
}

func TestMatchesTitle(t *testing.T) {
	assert.True(t, MatchesTitle("Senior Programmer", "Programmer"))
	assert.False(t, MatchesTitle("senior programmer", "Programmer"))
	assert.True(t, MatchesTitle("anything", ""))
}
