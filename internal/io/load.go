package io

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/op/go-logging"
	"github.com/paveg/salesreport/internal/dataframe"
	"github.com/paveg/salesreport/internal/errors"
)

var log = logging.MustGetLogger("io")

// Load reads the file at path into a DataFrame. Files ending in .parquet are
// read as Parquet, everything else as delimited text with the given options.
// Any failure is returned as a DataLoadError carrying the path.
func Load(path string, options CSVOptions, mem memory.Allocator) (*dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataLoadError("Load", path, err)
	}
	defer f.Close()

	var reader DataReader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		log.Debugf("reading %s as parquet", path)
		reader = NewParquetReader(f, mem)
	default:
		log.Debugf("reading %s as delimited text (delimiter %q)", path, options.Delimiter)
		reader = NewCSVReader(f, options, mem)
	}

	df, err := reader.Read()
	if err != nil {
		return nil, errors.NewDataLoadError("Load", path, err)
	}

	log.Infof("loaded %d rows x %d columns from %s", df.Len(), df.Width(), path)
	return df, nil
}
