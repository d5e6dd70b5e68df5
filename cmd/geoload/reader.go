// Streaming reader for place parquet files.
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/parquet-go/parquet-go"
)

// placeRow is one place record extracted from a parquet file.
type placeRow struct {
	ID        string
	Name      string
	Latitude  *float64
	Longitude *float64
	Locality  string
	Country   string
}

// parquetReader reads place parquet files from a directory.
type parquetReader struct {
	files []string
}

// newParquetReader scans dataDir for parquet files.
func newParquetReader(dataDir string) (*parquetReader, error) {
	pattern := filepath.Join(dataDir, "*.parquet")
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob parquet files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no parquet files found in %s", dataDir)
	}
	sort.Strings(files)
	log.Printf("found %d parquet files in %s", len(files), dataDir)
	return &parquetReader{files: files}, nil
}

// readCallback is invoked for each row. Returns false to stop reading.
type readCallback func(row *placeRow) bool

// ReadPlaces reads up to maxRows places (0 = unlimited) across all files.
func (r *parquetReader) ReadPlaces(maxRows int, cb readCallback) error {
	read := 0
	for _, path := range r.files {
		remaining := 0
		if maxRows > 0 {
			remaining = maxRows - read
			if remaining <= 0 {
				break
			}
		}

		n, err := r.readFile(path, remaining, cb)
		if err != nil {
			return fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		read += n
	}
	return nil
}

// placeColumns holds leaf-level column indexes resolved by name.
type placeColumns struct {
	id        int
	name      int
	latitude  int
	longitude int
	locality  int
	country   int
}

func resolvePlaceColumns(pf *parquet.File) placeColumns {
	cols := placeColumns{id: -1, name: -1, latitude: -1, longitude: -1, locality: -1, country: -1}
	for i, path := range pf.Schema().Columns() {
		if len(path) == 0 {
			continue
		}
		switch path[0] {
		case "id", "place_id":
			cols.id = i
		case "name":
			cols.name = i
		case "latitude":
			cols.latitude = i
		case "longitude":
			cols.longitude = i
		case "locality":
			cols.locality = i
		case "country":
			cols.country = i
		}
	}
	return cols
}

func (r *parquetReader) readFile(path string, maxRows int, cb readCallback) (int, error) {
	h, err := openParquet(path)
	if err != nil {
		return 0, err
	}
	defer h.Close()

	cols := resolvePlaceColumns(h.pf)
	if cols.id < 0 || cols.latitude < 0 || cols.longitude < 0 {
		return 0, fmt.Errorf("parquet schema missing id/latitude/longitude columns")
	}

	read := 0
	for _, rg := range h.pf.RowGroups() {
		rows := parquet.NewRowGroupReader(rg)
		buf := make([]parquet.Row, 1000)

		for {
			cnt, readErr := rows.ReadRows(buf)
			for i := 0; i < cnt; i++ {
				place := rowToPlace(buf[i], cols)
				if !cb(&place) {
					return read, nil
				}
				read++
				if maxRows > 0 && read >= maxRows {
					return read, nil
				}
			}

			if readErr != nil {
				if errors.Is(readErr, io.EOF) {
					break
				}
				return read, fmt.Errorf("read rows: %w", readErr)
			}
		}
	}

	return read, nil
}

// rowToPlace extracts a placeRow from a generic parquet row by column index.
func rowToPlace(row parquet.Row, cols placeColumns) placeRow {
	var p placeRow
	for _, v := range row {
		switch v.Column() {
		case cols.id:
			p.ID = v.String()
		case cols.name:
			if !v.IsNull() {
				p.Name = v.String()
			}
		case cols.latitude:
			if !v.IsNull() {
				f := v.Double()
				p.Latitude = &f
			}
		case cols.longitude:
			if !v.IsNull() {
				f := v.Double()
				p.Longitude = &f
			}
		case cols.locality:
			if !v.IsNull() {
				p.Locality = v.String()
			}
		case cols.country:
			if !v.IsNull() {
				p.Country = v.String()
			}
		}
	}
	return p
}

// parquetHandle wraps parquet.File + underlying os.File for proper cleanup.
type parquetHandle struct {
	pf   *parquet.File
	file *os.File
}

func (h *parquetHandle) Close() {
	_ = h.file.Close()
}

func openParquet(path string) (*parquetHandle, error) {
	cleanPath := filepath.Clean(path)
	f, err := os.Open(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat: %w", err)
	}

	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	return &parquetHandle{pf: pf, file: f}, nil
}
