package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	suffixRe = regexp.MustCompile(`-(\d+)\s*$`)
	digitsRe = regexp.MustCompile(`(\d+)`)
)

// DocumentKind is the two-letter prefix of a human-readable document number.
type DocumentKind string

const (
	JobCard        DocumentKind = "JC"
	StockReference DocumentKind = "SR"
	PackingList    DocumentKind = "PL"
	DeliveryNote   DocumentKind = "DN"
)

// SequenceWidth is the zero-padded width of every per-prefix sequence.
const SequenceWidth = 3

// DocumentPrefix returns the date-scoped prefix for kind, e.g. "JC-20250112-".
// The date is taken in UTC.
func DocumentPrefix(kind DocumentKind, at time.Time) string {
	return fmt.Sprintf("%s-%s-", kind, at.UTC().Format("20060102"))
}

// FormatSequence appends seq to prefix, zero-padded to SequenceWidth.
func FormatSequence(prefix string, seq int) string {
	return fmt.Sprintf("%s%0*d", prefix, SequenceWidth, seq)
}

// Suffix extracts the trailing "-NNN" sequence of a number.
func Suffix(number string) (int, bool) {
	m := suffixRe.FindStringSubmatch(number)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// JobSequence returns the trailing sequence of a job card number, zero-padded to width.
// Numbers without a sequence count as job 1.
func JobSequence(jobCardNumber string, width int) string {
	m := suffixRe.FindStringSubmatch(jobCardNumber)
	seq := "1"
	if m != nil {
		seq = m[1]
	}
	if len(seq) >= width {
		return seq
	}
	return strings.Repeat("0", width-len(seq)) + seq
}

// MachinePrefix turns a machine label such as "Machine 8" into "800".
// Labels without digits yield "000".
func MachinePrefix(machineNumber string) string {
	m := digitsRe.FindString(machineNumber)
	if m == "" {
		return "000"
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return "000"
	}
	return strconv.Itoa(n * 100)
}

// BulkPiecePrefix is the piece-number prefix used for batch entry: machine*100, the job
// sequence padded to four digits, then a dash.
func BulkPiecePrefix(machineNumber, jobCardNumber string) string {
	return MachinePrefix(machineNumber) + JobSequence(jobCardNumber, 4) + "-"
}

// SinglePieceNumber formats a piece recorded on its own: two-digit year, job sequence padded
// to five digits, then the piece's position within the job card.
func SinglePieceNumber(at time.Time, jobCardNumber string, seq int) string {
	return FormatSequence(SinglePiecePrefix(at, jobCardNumber), seq)
}

// SinglePiecePrefix is the prefix of SinglePieceNumber: two-digit year and job sequence.
func SinglePiecePrefix(at time.Time, jobCardNumber string) string {
	return fmt.Sprintf("%02d%s-", at.UTC().Year()%100, JobSequence(jobCardNumber, 5))
}

// ProductionTime combines a calendar date with an "HH:mm" clock reading.
// It returns nil when either part is missing or malformed.
func ProductionTime(date time.Time, clock string) *time.Time {
	clock = strings.TrimSpace(clock)
	if clock == "" || date.IsZero() {
		return nil
	}
	t, err := time.Parse("15:04", clock)
	if err != nil {
		return nil
	}
	y, mo, d := date.Date()
	combined := time.Date(y, mo, d, t.Hour(), t.Minute(), 0, 0, date.Location())
	return &combined
}
