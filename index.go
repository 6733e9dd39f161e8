package sc13dg

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// MasterIndexURL returns the URL of EDGAR's quarterly master index.
func MasterIndexURL(year, quarter int) string {
	return fmt.Sprintf("%sedgar/full-index/%d/QTR%d/master.idx", ArchivesURL, year, quarter)
}

// ParseMasterIndex reads a master.idx listing and returns the rows whose
// form matches formType ("13" for every Schedule 13D/13G form).
//
// Rows look like:
//
//	1000045|NICHOLAS FINANCIAL INC|SC 13G/A|2023-02-14|edgar/data/1000045/0001104659-23-018361.txt
func ParseMasterIndex(r io.Reader, formType string) ([]FilingRef, error) {
	var refs []FilingRef
	inRows := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !inRows {
			inRows = strings.HasPrefix(line, "-----")
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) != 5 {
			continue
		}
		if !matchesFormType(fields[2], formType) {
			continue
		}
		refs = append(refs, FilingRef{
			CIK:         strings.TrimSpace(fields[0]),
			CompanyName: strings.TrimSpace(fields[1]),
			FormType:    strings.TrimSpace(fields[2]),
			DateFiled:   strings.TrimSpace(fields[3]),
			FileName:    strings.TrimSpace(fields[4]),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read master index: %w", err)
	}
	return refs, nil
}

// FetchMasterIndex downloads and parses one quarter's master index.
func FetchMasterIndex(ctx context.Context, f *Fetcher, year, quarter int, formType string) ([]FilingRef, error) {
	if quarter < 1 || quarter > 4 {
		return nil, fmt.Errorf("invalid quarter %d", quarter)
	}
	body, err := f.Get(ctx, MasterIndexURL(year, quarter))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch master index: %w", err)
	}
	return ParseMasterIndex(strings.NewReader(string(body)), formType)
}
