package antivirus

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the scanning daemon cannot be reached
var ErrUnavailable = errors.New("antivirus: scanner unavailable")

// ScanResult contains the result of a malware scan
type ScanResult struct {
	Infected    bool   // True if malware was detected
	ThreatName  string // Name of detected threat (empty if clean)
	ScannerName string // Name of scanner that produced this result
	Error       error  // Any error that occurred during scanning
}

// Rejected reports whether the document must be refused. Scan errors fail closed.
func (r ScanResult) Rejected() bool {
	return r.Infected || r.Error != nil
}

// Scanner checks applicant documents before they are attached to a form
type Scanner interface {
	Scan(ctx context.Context, filename string, data []byte) ScanResult
	Name() string
	Ping(ctx context.Context) error
}

// NoOpScanner accepts everything; used when no daemon is configured
type NoOpScanner struct{}

var _ Scanner = NoOpScanner{}

func (NoOpScanner) Scan(context.Context, string, []byte) ScanResult {
	return ScanResult{ScannerName: "noop"}
}

func (NoOpScanner) Name() string { return "noop" }

func (NoOpScanner) Ping(context.Context) error { return nil }

// New returns a clamd scanner for address, or a NoOpScanner when address is empty
func New(address string) Scanner {
	if address == "" {
		return NoOpScanner{}
	}
	return NewClamAVScanner(address, 0)
}
