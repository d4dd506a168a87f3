package load

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Stromjold/Sistem-Cesfam/internal/cache"
	"github.com/Stromjold/Sistem-Cesfam/internal/model"
	"github.com/Stromjold/Sistem-Cesfam/internal/resolve"
)

// SheetAll selects every sheet of a workbook, concatenated in order.
const SheetAll = "all"

// Options control how a single file is loaded.
type Options struct {
	Sheet     string // workbook sheet name, SheetAll, or "" for the first sheet
	HeaderRow int    // declared zero-based header row; -1 enables auto detection
}

// Loader parses delimited and spreadsheet files into normalized all-string
// datasets. It never panics past its boundary: every failure comes back as
// an error plus an empty dataset.
type Loader struct {
	cfg      model.LoadConfig
	cache    cache.Cache
	keywords map[string]struct{}
	verbose  bool
}

// NewLoader creates a loader. The cache may be nil to disable caching.
func NewLoader(cfg model.LoadConfig, c cache.Cache, verbose bool) *Loader {
	keywords := make(map[string]struct{})
	for _, k := range resolve.IdentifierKeywords() {
		keywords[strings.ToLower(strings.TrimSpace(k))] = struct{}{}
	}
	return &Loader{cfg: cfg, cache: c, keywords: keywords, verbose: verbose}
}

// Load reads the file at path into a Dataset. Supported inputs are
// delimited text (.csv, .tsv, .txt) and workbooks (.xlsx, .xlsm).
func (l *Loader) Load(path string, opts Options) (*model.Dataset, error) {
	empty := &model.Dataset{Name: datasetName(path), Path: path}

	info, err := os.Stat(path)
	if err != nil {
		return empty, fmt.Errorf("load %s: %w", datasetName(path), err)
	}

	cacheKey := cache.Key(path, opts.Sheet, info.Size(), info.ModTime().Unix())
	if l.cache != nil {
		if ds, ok := l.cache.Get(cacheKey); ok {
			if l.verbose {
				fmt.Fprintf(os.Stderr, "  using cached parse of %s\n", datasetName(path))
			}
			return cloneDataset(ds), nil
		}
	}

	var ds *model.Dataset
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv", ".tsv", ".txt":
		ds, err = l.loadDelimited(path, info.Size(), opts)
	case ".xlsx", ".xlsm":
		ds, err = l.loadWorkbook(path, opts)
	default:
		return empty, fmt.Errorf("load %s: unsupported file type %q", datasetName(path), ext)
	}
	if err != nil {
		return empty, fmt.Errorf("load %s: %w", datasetName(path), err)
	}

	if l.cache != nil {
		l.cache.Set(cacheKey, cloneDataset(ds))
	}
	return ds, nil
}

// loadDelimited reads a delimited text file. Inputs above the large-file
// threshold are read in bounded blocks appended in original order, so peak
// extra memory is bounded by the block size rather than the file size.
func (l *Loader) loadDelimited(path string, size int64, opts Options) (*model.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := bufio.NewReader(decodeReader(f))
	r := csv.NewReader(dec)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	if strings.ToLower(filepath.Ext(path)) == ".tsv" {
		r.Comma = '\t'
	} else {
		r.Comma = sniffDelimiter(dec)
	}

	blockRows := l.cfg.BlockRows
	if size > l.cfg.LargeFileBytes {
		blockRows = l.cfg.LargeBlockRows
		if l.verbose {
			fmt.Fprintf(os.Stderr, "  large input (%.2f MB), reading in blocks of %d rows\n",
				float64(size)/(1024*1024), blockRows)
		}
	}
	if blockRows <= 0 {
		blockRows = 50000
	}

	// The header scan window is buffered up front; everything after the
	// resolved header row streams through in blocks. The window bounds
	// auto-detection only: a declared header row extends the buffer to
	// reach it, however deep the preamble.
	scan := l.cfg.HeaderScanRows
	if scan <= 0 {
		scan = 20
	}
	buffer := scan
	if opts.HeaderRow >= 0 && opts.HeaderRow+1 > buffer {
		buffer = opts.HeaderRow + 1
	}
	head := make([][]string, 0, buffer)
	for len(head) < buffer {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		head = append(head, rec)
	}
	if len(head) == 0 {
		return nil, fmt.Errorf("empty input")
	}

	headerIdx := opts.HeaderRow
	if headerIdx < 0 {
		headerIdx = detectHeader(head, l.keywords, scan, l.cfg.DensityScanRows)
	}
	if headerIdx >= len(head) {
		return nil, fmt.Errorf("declared header row %d beyond input", headerIdx)
	}
	cols := headerColumns(head[headerIdx])

	ds := &model.Dataset{
		Name:      datasetName(path),
		Path:      path,
		HeaderRow: headerIdx,
		Columns:   cols,
	}
	for _, rec := range head[headerIdx+1:] {
		ds.Rows = append(ds.Rows, recordToRow(cols, rec))
	}

	block := make([]model.Row, 0, blockRows)
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse: %w", err)
		}
		block = append(block, recordToRow(cols, rec))
		if len(block) == blockRows {
			ds.Rows = append(ds.Rows, block...)
			block = make([]model.Row, 0, blockRows)
		}
	}
	ds.Rows = append(ds.Rows, block...)
	return ds, nil
}

// recordToRow maps a raw record onto the declared columns. Missing cells
// become empty strings, surplus cells are dropped.
func recordToRow(cols []string, rec []string) model.Row {
	row := make(model.Row, len(cols))
	for i, c := range cols {
		if i < len(rec) {
			row[c] = rec[i]
		} else {
			row[c] = ""
		}
	}
	return row
}

// sniffDelimiter inspects the first line of the input and picks the
// delimiter with the highest count. Registry exports labeled .csv
// frequently use semicolons, so comma is only the tie-break default.
func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(4096)
	if i := bytes.IndexByte(peek, '\n'); i >= 0 {
		peek = peek[:i]
	}
	best, bestCount := ',', bytes.Count(peek, []byte{','})
	for _, cand := range []byte{';', '\t'} {
		if n := bytes.Count(peek, []byte{cand}); n > bestCount {
			best, bestCount = rune(cand), n
		}
	}
	return best
}

func datasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// cloneDataset deep-copies rows so cached parses stay pristine when the
// caller later assigns identity keys.
func cloneDataset(ds *model.Dataset) *model.Dataset {
	out := &model.Dataset{
		Name:      ds.Name,
		Path:      ds.Path,
		Sheet:     ds.Sheet,
		HeaderRow: ds.HeaderRow,
		Columns:   append([]string(nil), ds.Columns...),
		Rows:      make([]model.Row, len(ds.Rows)),
	}
	for i, r := range ds.Rows {
		cp := make(model.Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out.Rows[i] = cp
	}
	return out
}
