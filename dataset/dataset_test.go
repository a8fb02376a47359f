package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `age,sex,bmi,children,smoker,region,charges
19,female,27.9,0,yes,southwest,16884.924
18,male,33.77,1,no,southeast,1725.5523
28,male,33.0,3,no,southeast,4449.462
33,male,22.705,0,no,northwest,21984.47061
32,male,28.88,0,no,northwest,3866.8552
31,female,25.74,0,no,southeast,3756.6216
46,female,33.44,1,no,southeast,8240.5896
37,female,27.74,3,no,northwest,7281.5056
37,male,29.83,2,no,northeast,6406.4107
60,female,25.84,0,no,northwest,28923.13692
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "insurance.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	records, err := Load(writeSample(t))
	require.NoError(t, err)
	require.Len(t, records, 10)
	assert.Equal(t, 19.0, records[0].Age)
	assert.Equal(t, "female", records[0].Sex)
	assert.Equal(t, "yes", records[0].Smoker)
	assert.InDelta(t, 16884.924, records[0].Charges, 1e-9)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestLoadSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("age,sex,bmi\n19,female,27.9\n"), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "missing column")
}

func TestLoadBadNumericCell(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	csv := "age,sex,bmi,children,smoker,region,charges\nabc,female,27.9,0,yes,southwest,100\n"
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))
	_, err := Load(path)
	require.ErrorContains(t, err, "row 2")
}

func TestEncodeWidthAndIndicators(t *testing.T) {
	records, err := Load(writeSample(t))
	require.NoError(t, err)
	x, y, names, err := Encode(records)
	require.NoError(t, err)
	require.Len(t, x, 10)
	require.Len(t, y, 10)

	// 3 numeric + sex(2) + smoker(2) + region(4) for the full insurance schema.
	assert.Len(t, names, 11)
	for _, row := range x {
		assert.Len(t, row, 11)
	}

	// First row: female smoker from the southwest.
	assert.Equal(t, []string{"age", "bmi", "children"}, names[:3])
	assert.Equal(t, "sex_female", names[3])
	assert.Equal(t, 1.0, x[0][3])
	assert.Equal(t, 0.0, x[0][4])

	// Exactly one indicator set per categorical group.
	for _, row := range x {
		assert.Equal(t, 1.0, row[3]+row[4], "sex group")
		assert.Equal(t, 1.0, row[5]+row[6], "smoker group")
		assert.Equal(t, 1.0, row[7]+row[8]+row[9]+row[10], "region group")
	}
	assert.InDelta(t, 16884.924, y[0], 1e-9)
}

func TestEncodeEmpty(t *testing.T) {
	_, _, _, err := Encode(nil)
	require.Error(t, err)
}

func TestScalerStandardizesTrainOnly(t *testing.T) {
	records, err := Load(writeSample(t))
	require.NoError(t, err)
	x, _, _, err := Encode(records)
	require.NoError(t, err)

	train := x[:8]
	test := x[8:]

	scaler := NewStandardScaler(NumericColumns...)
	scaledTrain, err := scaler.FitTransform(train)
	require.NoError(t, err)

	for _, c := range NumericColumns {
		var sum, sumSq float64
		for _, row := range scaledTrain {
			sum += row[c]
			sumSq += row[c] * row[c]
		}
		n := float64(len(scaledTrain))
		mean := sum / n
		variance := (sumSq - n*mean*mean) / (n - 1)
		assert.InDelta(t, 0, mean, 1e-9, "column %d mean", c)
		assert.InDelta(t, 1, variance, 1e-9, "column %d variance", c)
	}

	// Indicator columns stay untouched.
	assert.Equal(t, train[0][3], scaledTrain[0][3])

	// The test partition must be transformed with train statistics, not its own.
	scaledTest, err := scaler.Transform(test)
	require.NoError(t, err)
	wantAge := (test[0][0] - scaler.Mean()[0]) / scaler.Std()[0]
	assert.InDelta(t, wantAge, scaledTest[0][0], 1e-12)

	// Input left untouched.
	assert.Equal(t, 37.0, test[0][0])
}

func TestScalerRequiresFit(t *testing.T) {
	scaler := NewStandardScaler(0)
	_, err := scaler.Transform([][]float64{{1}})
	require.ErrorContains(t, err, "before Fit")
}

func TestScalerDeterministicCoefficients(t *testing.T) {
	records, err := Load(writeSample(t))
	require.NoError(t, err)
	x, _, _, err := Encode(records)
	require.NoError(t, err)

	a := NewStandardScaler(NumericColumns...)
	b := NewStandardScaler(NumericColumns...)
	require.NoError(t, a.Fit(x))
	require.NoError(t, b.Fit(x))
	assert.Equal(t, a.Mean(), b.Mean())
	assert.Equal(t, a.Std(), b.Std())
}

func TestTrainTestSplit(t *testing.T) {
	n := 100
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := range x {
		x[i] = []float64{float64(i)}
		y[i] = float64(i)
	}

	xTrain, xTest, yTrain, yTest, err := TrainTestSplit(x, y, 0.33, 42)
	require.NoError(t, err)
	assert.Len(t, xTest, 33)
	assert.Len(t, xTrain, 67)
	require.Equal(t, len(xTrain), len(yTrain))
	require.Equal(t, len(xTest), len(yTest))

	// Disjoint and complete.
	seen := map[float64]bool{}
	for _, v := range yTrain {
		seen[v] = true
	}
	for _, v := range yTest {
		require.False(t, seen[v], "row appears in both partitions")
		seen[v] = true
	}
	assert.Len(t, seen, n)

	// Same seed, same split.
	_, _, yTrain2, _, err := TrainTestSplit(x, y, 0.33, 42)
	require.NoError(t, err)
	assert.Equal(t, yTrain, yTrain2)

	// Different seed, different split (overwhelmingly likely for 100 rows).
	_, _, yTrain3, _, err := TrainTestSplit(x, y, 0.33, 43)
	require.NoError(t, err)
	assert.NotEqual(t, yTrain, yTrain3)
}

func TestTrainTestSplitValidation(t *testing.T) {
	x := [][]float64{{1}, {2}}
	y := []float64{1, 2}
	_, _, _, _, err := TrainTestSplit(x, y, 0, 1)
	require.Error(t, err)
	_, _, _, _, err = TrainTestSplit(x, y, 1, 1)
	require.Error(t, err)
	_, _, _, _, err = TrainTestSplit(x, y[:1], 0.5, 1)
	require.Error(t, err)
	_, _, _, _, err = TrainTestSplit(x[:1], y[:1], 0.5, 1)
	require.Error(t, err)

	// Tiny inputs still leave at least one row on each side.
	xTrain, xTest, _, _, err := TrainTestSplit(x, y, 0.9, 1)
	require.NoError(t, err)
	assert.NotEmpty(t, xTrain)
	assert.NotEmpty(t, xTest)
}
