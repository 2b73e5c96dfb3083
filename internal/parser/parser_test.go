package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		in   string
		want *float64
	}{
		{"152,4", ptr(152.4)},
		{"150", ptr(150)},
		{" 98,0 ", ptr(98)},
		{"", nil},
		{"fast", nil},
		{"1.234,5", nil},
	}
	for _, c := range cases {
		got := ParseNumber(c.in)
		if c.want == nil {
			assert.Nil(t, got, "input %q", c.in)
			continue
		}
		require.NotNil(t, got, "input %q", c.in)
		assert.InDelta(t, *c.want, *got, 1e-9, "input %q", c.in)
	}
}

func TestParseShots_NormalizesHeaderAndValues(t *testing.T) {
	in := "\ufeff Player ;STROKE; Result ;Speed (KM/H)\n" +
		"A;Serve;IN;150,5\n" +
		"A;Forehand;Out;\n" +
		"B;backhand;let;99\n"

	shots, err := ParseShots(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, shots, 3)

	assert.Equal(t, "A", shots[0].Player)
	assert.Equal(t, "serve", shots[0].Stroke)
	assert.Equal(t, "in", shots[0].Result)
	require.NotNil(t, shots[0].Speed)
	assert.InDelta(t, 150.5, *shots[0].Speed, 1e-9)

	assert.Nil(t, shots[1].Speed, "empty speed cell should be nil")
	assert.Equal(t, "let", shots[2].Result, "parser keeps unknown results; aggregator filters them")
}

func TestParseShots_MissingColumns(t *testing.T) {
	_, err := ParseShots(strings.NewReader("player;stroke;result\nA;serve;in\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumns)
	assert.Contains(t, err.Error(), "speed (km/h)")
}

func TestParseShots_Unreadable(t *testing.T) {
	_, err := ParseShots(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnreadable)

	_, err = ParseShotsFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestParseShots_SkipsBlankRows(t *testing.T) {
	in := "player;stroke;result;speed (km/h)\nA;serve;in;100\n;;;\nA;serve;out;110\n"
	shots, err := ParseShots(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, shots, 2)
}

func TestParsePoints_SeparatorOnlyRowsCount(t *testing.T) {
	in := "point winner;detail\nhost;x\nguest;Unforced Error\nhost;y\n;\n   \n"
	pt, err := ParsePoints(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, pt.Records, 4)
	assert.Equal(t, "", pt.Records[3].Winner)
	assert.False(t, pt.Records[3].IsUnforcedError())
}

func TestParsePoints(t *testing.T) {
	in := "Point Winner;Detail;Game;Host Game Score;Guest Game Score\n" +
		" Host ;Winner;1;15;0\n" +
		"guest;Unforced Error backhand;1;15;15\n" +
		"HOST;ace;1;x;15\n"

	pt, err := ParsePoints(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, pt.Records, 3)
	assert.True(t, pt.HasGameScores)

	assert.Equal(t, "host", pt.Records[0].Winner)
	assert.Equal(t, "guest", pt.Records[1].Winner)
	assert.True(t, pt.Records[1].IsUnforcedError())
	assert.False(t, pt.Records[0].IsUnforcedError())
	assert.Equal(t, "1", pt.Records[2].Game)
	assert.Nil(t, pt.Records[2].HostGameScore, "non-numeric score should be nil")
	require.NotNil(t, pt.Records[2].GuestGameScore)
	assert.Equal(t, 15.0, *pt.Records[2].GuestGameScore)
}

func TestParsePoints_OptionalColumnsAbsent(t *testing.T) {
	pt, err := ParsePoints(strings.NewReader("point winner;detail\nhost;ok\n"))
	require.NoError(t, err)
	assert.False(t, pt.HasGameScores)
	assert.Equal(t, "", pt.Records[0].Game)
	assert.Nil(t, pt.Records[0].HostGameScore)
}

func TestParsePoints_SoftFailures(t *testing.T) {
	_, err := ParsePoints(strings.NewReader("winner;detail\nhost;x\n"))
	assert.ErrorIs(t, err, ErrMissingColumns)

	_, err = ParsePoints(strings.NewReader("point winner;detail\n"))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestParsePointsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Points-Table 1.csv")
	require.NoError(t, os.WriteFile(path, []byte("point winner;detail\nguest;unforced error\n"), 0o644))

	pt, err := ParsePointsFile(path)
	require.NoError(t, err)
	require.Len(t, pt.Records, 1)
	assert.True(t, pt.Records[0].IsUnforcedError())
}

func ptr(f float64) *float64 { return &f }
