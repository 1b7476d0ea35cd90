// Package export writes labeled intervals as CSV inside a zip archive and
// reads such archives back.
package export

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kdimtricp/vlabel/internal/annotation"
)

const (
	DefaultBaseName = "behavior_labels"
	recordType      = "interval"
)

var Header = []string{"type", "start_time", "end_time", "start_frame", "end_frame", "behavior"}

type Record struct {
	Type       string
	StartTime  string
	EndTime    string
	StartFrame int
	EndFrame   int
	Behavior   string
}

func (r Record) fields() []string {
	return []string{
		r.Type,
		r.StartTime,
		r.EndTime,
		strconv.Itoa(r.StartFrame),
		strconv.Itoa(r.EndFrame),
		r.Behavior,
	}
}

func NewRecord(iv annotation.Interval) Record {
	return Record{
		Type:       recordType,
		StartTime:  strconv.FormatFloat(iv.StartTime, 'f', 2, 64),
		EndTime:    strconv.FormatFloat(iv.EndTime, 'f', 2, 64),
		StartFrame: iv.Start,
		EndFrame:   iv.End,
		Behavior:   string(iv.Behavior),
	}
}

// WriteCSV writes the header and one row per interval, in the order given.
func WriteCSV(w io.Writer, intervals []annotation.Interval) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for _, iv := range intervals {
		if err := cw.Write(NewRecord(iv).fields()); err != nil {
			return fmt.Errorf("writing interval %d-%d: %w", iv.Start, iv.End, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func ReadCSV(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	head, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	for i, name := range Header {
		if strings.TrimSpace(head[i]) != name {
			return nil, fmt.Errorf("unexpected column %q, want %q", head[i], name)
		}
	}

	var records []Record
	for line := 2; ; line++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		startFrame, err := strconv.Atoi(fields[3])
		if err != nil {
			return nil, fmt.Errorf("line %d: start_frame: %w", line, err)
		}
		endFrame, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("line %d: end_frame: %w", line, err)
		}
		records = append(records, Record{
			Type:       fields[0],
			StartTime:  fields[1],
			EndTime:    fields[2],
			StartFrame: startFrame,
			EndFrame:   endFrame,
			Behavior:   fields[5],
		})
	}
	return records, nil
}

// Intervals converts records back into intervals. Times are left for the
// session to derive from its own frame rate.
func Intervals(records []Record) ([]annotation.Interval, error) {
	out := make([]annotation.Interval, 0, len(records))
	for i, rec := range records {
		if rec.Type != recordType {
			return nil, fmt.Errorf("row %d: unsupported record type %q", i+1, rec.Type)
		}
		b, err := annotation.ParseBehavior(rec.Behavior)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		out = append(out, annotation.Interval{
			Start:    rec.StartFrame,
			End:      rec.EndFrame,
			Behavior: b,
		})
	}
	return out, nil
}

// Bundle is a finished archive ready to be saved by the caller.
type Bundle struct {
	ArchiveName string
	CSVName     string
	Data        []byte
}

func Names(base string) (archiveName, csvName string) {
	if base == "" {
		base = DefaultBaseName
	}
	return base + "_behavior_labels.zip", base + "_intervals.csv"
}

// Archive packages the intervals as <base>_intervals.csv inside
// <base>_behavior_labels.zip.
func Archive(intervals []annotation.Interval, base string) (*Bundle, error) {
	archiveName, csvName := Names(base)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create(csvName)
	if err != nil {
		return nil, fmt.Errorf("creating archive entry: %w", err)
	}
	if err := WriteCSV(f, intervals); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}

	return &Bundle{
		ArchiveName: archiveName,
		CSVName:     csvName,
		Data:        buf.Bytes(),
	}, nil
}

// ReadArchive reads the first *_intervals.csv entry of an exported archive.
func ReadArchive(r io.ReaderAt, size int64) ([]Record, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	for _, f := range zr.File {
		if !strings.HasSuffix(f.Name, "_intervals.csv") {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("opening %s: %w", f.Name, err)
		}
		defer rc.Close()
		return ReadCSV(rc)
	}
	return nil, fmt.Errorf("archive has no intervals csv")
}
