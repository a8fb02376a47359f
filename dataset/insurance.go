// Package dataset loads and encodes the medical-insurance cost table: three
// numeric features (age, bmi, children), three categorical ones (sex, smoker,
// region) and the charges target.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

const (
	colAge      = "age"
	colSex      = "sex"
	colBMI      = "bmi"
	colChildren = "children"
	colSmoker   = "smoker"
	colRegion   = "region"
	colCharges  = "charges"
)

var requiredColumns = []string{colAge, colSex, colBMI, colChildren, colSmoker, colRegion, colCharges}

// Record is one raw row. Immutable once read.
type Record struct {
	Age      float64
	Sex      string
	BMI      float64
	Children float64
	Smoker   string
	Region   string
	Charges  float64
}

// Load reads all records from a CSV file with a header row. Column order is
// free; a missing column or an unparsable cell is fatal.
func Load(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset %s has no data rows", path)
	}

	index := map[string]int{}
	for i, name := range rows[0] {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("dataset %s missing column %q", path, name)
		}
	}

	records := make([]Record, 0, len(rows)-1)
	for line, row := range rows[1:] {
		rec := Record{
			Sex:    strings.TrimSpace(row[index[colSex]]),
			Smoker: strings.TrimSpace(row[index[colSmoker]]),
			Region: strings.TrimSpace(row[index[colRegion]]),
		}
		numeric := []struct {
			name string
			dst  *float64
		}{
			{colAge, &rec.Age},
			{colBMI, &rec.BMI},
			{colChildren, &rec.Children},
			{colCharges, &rec.Charges},
		}
		for _, n := range numeric {
			v, err := strconv.ParseFloat(strings.TrimSpace(row[index[n.name]]), 64)
			if err != nil {
				return nil, fmt.Errorf("dataset %s row %d: bad %s value %q", path, line+2, n.name, row[index[n.name]])
			}
			*n.dst = v
		}
		records = append(records, rec)
	}
	return records, nil
}
