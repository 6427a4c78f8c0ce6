package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Basic(t *testing.T) {
	path := writeFile(t, "trade.csv",
		"source,target,period,product,weight\n"+
			"ITA,FRA,2020M01,2204,100\n"+
			"FRA,DEU,2020M01,2204,55.5\n")

	ds, err := Load(path, LoadOptions{})
	require.NoError(t, err)

	assert.Len(t, ds.Records, 2)
	assert.NotEmpty(t, ds.ID)
	assert.False(t, ds.HasQuantity)
	assert.Equal(t, "ITA", ds.Records[0].Source)
	assert.Equal(t, 55.5, ds.Records[1].Weight)
	assert.Equal(t, []string{"2020M01"}, ds.Periods())
	assert.Equal(t, []string{"DEU", "FRA", "ITA"}, ds.Countries())
}

func TestLoad_ColumnRemapping(t *testing.T) {
	path := writeFile(t, "trade.csv",
		"reporter;partner;month;hs6;value\n"+
			"ITA;FRA;2020M01;220421;1000\n")

	ds, err := Load(path, LoadOptions{
		Separator: ';',
		Columns: map[string]string{
			ColSource:  "reporter",
			ColTarget:  "partner",
			ColPeriod:  "month",
			ColProduct: "hs6",
			ColWeight:  "value",
		},
	})
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "220421", ds.Records[0].Product)
	assert.Equal(t, 1000.0, ds.Records[0].Weight)
}

func TestLoad_ThousandsSeparators(t *testing.T) {
	path := writeFile(t, "trade.csv",
		"source,target,period,product,weight\n"+
			`ITA,FRA,2020M01,2204,"1,234,567.89"`+"\n")

	ds, err := Load(path, LoadOptions{})
	require.NoError(t, err)
	assert.InDelta(t, 1234567.89, ds.Records[0].Weight, 1e-9)
}

func TestLoad_FlowAndQuantityColumns(t *testing.T) {
	path := writeFile(t, "trade.csv",
		"source,target,period,product,weight,quantity,flow\n"+
			"ITA,FRA,2020M01,2204,100,50,E\n"+
			"FRA,ITA,2020M01,2204,90,45,I\n")

	ds, err := Load(path, LoadOptions{WithFlow: true, WithQuantity: true})
	require.NoError(t, err)

	assert.True(t, ds.HasQuantity)
	assert.Equal(t, "E", ds.Records[0].Flow)
	assert.Equal(t, 50.0, ds.Records[0].Quantity)
}

func TestLoad_MissingColumn(t *testing.T) {
	path := writeFile(t, "trade.csv",
		"source,target,period,weight\nITA,FRA,2020M01,100\n")

	_, err := Load(path, LoadOptions{})
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestLoad_DuplicateEdge(t *testing.T) {
	path := writeFile(t, "trade.csv",
		"source,target,period,product,weight\n"+
			"ITA,FRA,2020M01,2204,100\n"+
			"ITA,FRA,2020M01,2204,200\n")

	_, err := Load(path, LoadOptions{})
	require.ErrorIs(t, err, ErrDuplicateEdge)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 2, loadErr.Row)
}

func TestLoad_NonNumericWeight(t *testing.T) {
	path := writeFile(t, "trade.csv",
		"source,target,period,product,weight\nITA,FRA,2020M01,2204,n/a\n")

	_, err := Load(path, LoadOptions{})
	require.ErrorIs(t, err, ErrNonNumericValue)
}

func TestLoad_NegativeWeight(t *testing.T) {
	path := writeFile(t, "trade.csv",
		"source,target,period,product,weight\nITA,FRA,2020M01,2204,-5\n")

	_, err := Load(path, LoadOptions{})
	require.Error(t, err)
}

func TestLoad_SelfLoopRejected(t *testing.T) {
	path := writeFile(t, "trade.csv",
		"source,target,period,product,weight\nITA,ITA,2020M01,2204,5\n")

	_, err := Load(path, LoadOptions{})
	require.Error(t, err)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeFile(t, "trade.csv", "source,target,period,product,weight\n")

	_, err := Load(path, LoadOptions{})
	require.ErrorIs(t, err, ErrEmptyFile)
}

func TestLoad_Latin1Encoding(t *testing.T) {
	// "Côte d'Ivoire" with the ô encoded as Latin-1 0xF4
	raw := []byte("source,target,period,product,weight\nC\xf4te,FRA,2020M01,2204,10\n")
	path := filepath.Join(t.TempDir(), "latin1.csv")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	ds, err := Load(path, LoadOptions{Encoding: "latin-1"})
	require.NoError(t, err)
	assert.Equal(t, "Côte", ds.Records[0].Source)
}

func TestLoad_BadEncodingOption(t *testing.T) {
	path := writeFile(t, "trade.csv",
		"source,target,period,product,weight\nITA,FRA,2020M01,2204,10\n")

	_, err := Load(path, LoadOptions{Encoding: "koi8-r"})
	require.Error(t, err)
}
