package tabular

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectRows(t *testing.T, rowCh <-chan []string, errCh <-chan error) ([][]string, error) {
	t.Helper()
	var rows [][]string
	for row := range rowCh {
		rows = append(rows, row)
	}
	for err := range errCh {
		if err != nil {
			return rows, err
		}
	}
	return rows, nil
}

func TestStreamCSV_Basic(t *testing.T) {
	input := "a,b,c\n1,2,3\n4,5,6\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a", "b", "c"}, rows[0])
	assert.Equal(t, []string{"4", "5", "6"}, rows[2])
}

func TestStreamCSV_WithHeader(t *testing.T) {
	input := "CrimeDate,CrimeTime\n11/12/2016,02:35:00\n"
	headerCh := make(chan []string, 1)

	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		HasHeader: true,
		HeaderCh:  headerCh,
	})

	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"11/12/2016", "02:35:00"}, rows[0])
	assert.Equal(t, []string{"CrimeDate", "CrimeTime"}, <-headerCh)
}

func TestStreamCSV_QuotedFieldWithComma(t *testing.T) {
	input := "Location 1\n\"(39.2924100000, -76.6140200000)\"\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{HasHeader: true})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"(39.2924100000, -76.6140200000)"}, rows[0])
}

func TestStreamCSV_Latin1(t *testing.T) {
	// 0xC9 is "É" in ISO-8859-1 and invalid as a lone UTF-8 byte.
	input := "desc\nCAF\xc9 STREET\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{
		HasHeader: true,
		Encoding:  "iso-8859-1",
	})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "CAFÉ STREET", rows[0][0])
}

func TestStreamCSV_UnknownEncoding(t *testing.T) {
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader("a\n1\n"), CSVOptions{Encoding: "klingon"})
	_, err := collectRows(t, rowCh, errCh)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported charset")
}

func TestStreamCSV_VariableFields(t *testing.T) {
	input := "a,b,c\n1,2\n3,4,5,6\n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{HasHeader: true})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Len(t, rows[0], 2)
	assert.Len(t, rows[1], 4)
}

func TestStreamCSV_TrimSpace(t *testing.T) {
	input := " a , b \n 1 , 2 \n"
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(input), CSVOptions{TrimSpace: true})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)
}

func TestStreamCSV_Empty(t *testing.T) {
	rowCh, errCh := StreamCSV(context.Background(), strings.NewReader(""), CSVOptions{})
	rows, err := collectRows(t, rowCh, errCh)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestStreamCSV_ContextCancellation(t *testing.T) {
	var sb strings.Builder
	for range 10000 {
		sb.WriteString("a,b,c\n")
	}

	ctx, cancel := context.WithCancel(context.Background())
	rowCh, errCh := StreamCSV(ctx, strings.NewReader(sb.String()), CSVOptions{})

	count := 0
	for range rowCh {
		count++
		if count >= 5 {
			cancel()
			break
		}
	}
	for range rowCh {
	}

	var gotErr error
	for err := range errCh {
		if err != nil {
			gotErr = err
		}
	}
	if gotErr != nil {
		assert.Contains(t, gotErr.Error(), "context cancelled")
	}
	cancel()
}

func TestDecode_EmptyCharsetPassthrough(t *testing.T) {
	r := strings.NewReader("x")
	got, err := Decode(r, "")
	require.NoError(t, err)
	assert.Same(t, r, got)
}
