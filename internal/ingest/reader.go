package ingest

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/snappy"
	"github.com/rzbill/crlpart/internal/partition"
)

// maxLineBytes bounds a single input line. Longer lines are skipped.
const maxLineBytes = 1 << 20

// Stats describes one ingestion pass.
type Stats struct {
	Lines   int
	Records int
	Skipped int
}

// Read parses "timestamp, n, r" lines. Commas are removed and the line is
// split on whitespace; the first three fields must parse as uint64. Any
// other line (blank, comment, short, non-numeric, longer than
// maxLineBytes) is skipped and counted.
func Read(r io.Reader) ([]partition.Record, Stats, error) {
	var (
		records []partition.Record
		stats   Stats
	)
	br := bufio.NewReaderSize(r, maxLineBytes)
	for {
		line, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			stats.Lines++
			stats.Skipped++
			for errors.Is(err, bufio.ErrBufferFull) {
				_, err = br.ReadSlice('\n')
			}
		} else if len(line) > 0 {
			stats.Lines++
			if rec, ok := ParseLine(string(line)); ok {
				records = append(records, rec)
			} else {
				stats.Skipped++
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, err
		}
	}
	stats.Records = len(records)
	return records, stats, nil
}

// ParseLine parses a single record line.
func ParseLine(line string) (partition.Record, bool) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", ""))
	if len(fields) < 3 {
		return partition.Record{}, false
	}
	var vals [3]uint64
	for i := range vals {
		v, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			return partition.Record{}, false
		}
		vals[i] = v
	}
	return partition.Record{Time: vals[0], N: vals[1], R: vals[2]}, true
}

// Open opens path for reading. "-" is stdin; a ".sz" suffix is decoded as
// a snappy framed stream.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if strings.HasSuffix(path, ".sz") {
		return &snappyFile{Reader: snappy.NewReader(f), f: f}, nil
	}
	return f, nil
}

type snappyFile struct {
	*snappy.Reader
	f *os.File
}

func (s *snappyFile) Close() error { return s.f.Close() }

// ReadFile is Open followed by Read.
func ReadFile(path string) ([]partition.Record, Stats, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, Stats{}, err
	}
	defer rc.Close()
	return Read(rc)
}
