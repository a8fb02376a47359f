package dataset

import "errors"

// Numeric feature positions in the encoded vector. The scaler is fit on
// exactly these columns; indicator columns stay untouched.
var NumericColumns = []int{0, 1, 2}

// Encode expands records into fixed-width feature vectors: the three numeric
// fields first, then one indicator column per observed category of sex,
// smoker and region, in first-occurrence order. For the standard insurance
// schema the width is 11. The target (charges) is returned separately.
func Encode(records []Record) (x [][]float64, y []float64, names []string, err error) {
	if len(records) == 0 {
		return nil, nil, nil, errors.New("no records to encode")
	}

	categorical := []struct {
		name  string
		value func(*Record) string
	}{
		{colSex, func(r *Record) string { return r.Sex }},
		{colSmoker, func(r *Record) string { return r.Smoker }},
		{colRegion, func(r *Record) string { return r.Region }},
	}

	// Category index per column, in first-occurrence order so the layout is
	// stable for a given file.
	levels := make([]map[string]int, len(categorical))
	order := make([][]string, len(categorical))
	for i := range categorical {
		levels[i] = map[string]int{}
	}
	for r := range records {
		for i, c := range categorical {
			v := c.value(&records[r])
			if _, ok := levels[i][v]; !ok {
				levels[i][v] = len(order[i])
				order[i] = append(order[i], v)
			}
		}
	}

	names = []string{colAge, colBMI, colChildren}
	offsets := make([]int, len(categorical))
	width := len(NumericColumns)
	for i, c := range categorical {
		offsets[i] = width
		for _, level := range order[i] {
			names = append(names, c.name+"_"+level)
		}
		width += len(order[i])
	}

	x = make([][]float64, len(records))
	y = make([]float64, len(records))
	for r := range records {
		row := make([]float64, width)
		row[0] = records[r].Age
		row[1] = records[r].BMI
		row[2] = records[r].Children
		for i, c := range categorical {
			row[offsets[i]+levels[i][c.value(&records[r])]] = 1
		}
		x[r] = row
		y[r] = records[r].Charges
	}
	return x, y, names, nil
}
