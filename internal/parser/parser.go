package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/Ai-Vonie/ZodiacBuddy/internal/types"
)

// Parser compiles and applies regex patterns to log lines to emit normalized
// Events. Patterns target the companion log records emitted by the capture
// layer: zone transitions, duty commencement, quest toasts and session
// boundaries.

type Parser struct {
	zone     *regexp.Regexp
	duty     *regexp.Regexp
	toast    *regexp.Regexp
	login    *regexp.Regexp
	logout   *regexp.Regexp
	tsPrefix *regexp.Regexp // captures timestamp components
}

func New() *Parser {
	// Flexible prefix: one to three bracketed segments followed by the
	// client channel marker.
	prefix := `(?:\[.*?\]){1,3}\s*ChatLog: Display: \[Client\]\s*`

	zone := regexp.MustCompile(prefix + `ZoneChange: TerritoryType = (\d+)`)
	duty := regexp.MustCompile(prefix + `DutyCommenced: TerritoryType = (\d+)`)
	toast := regexp.MustCompile(prefix + `QuestToast: (.+)$`)
	login := regexp.MustCompile(prefix + `Login: ContentId = 0x([0-9A-Fa-f]+)\s+HomeWorld = (\d+)\s+Datacenter = (\d+)`)
	logout := regexp.MustCompile(prefix + `Logout`)

	// Timestamp prefix: [YYYY.MM.DD-HH.MM.SS:ms][...]
	tsPrefix := regexp.MustCompile(`^\[(\d{4})\.(\d{2})\.(\d{2})-(\d{2})\.(\d{2})\.(\d{2}):(\d{3})\]`)

	return &Parser{zone: zone, duty: duty, toast: toast, login: login, logout: logout, tsPrefix: tsPrefix}
}

// Parse attempts to parse a line into an Event. Returns nil if unrecognized.
func (p *Parser) Parse(line string) *types.Event {
	line = strings.TrimRight(line, "\r\n")
	ts := p.parseTimestamp(line)
	if m := p.zone.FindStringSubmatch(line); m != nil {
		return &types.Event{Kind: types.EventZoneChange, Time: ts, Line: line, Territory: uint16(atoi(m[1]))}
	}
	if m := p.duty.FindStringSubmatch(line); m != nil {
		return &types.Event{Kind: types.EventDutyStart, Time: ts, Line: line, Territory: uint16(atoi(m[1]))}
	}
	if m := p.toast.FindStringSubmatch(line); m != nil {
		return &types.Event{Kind: types.EventToast, Time: ts, Line: line, Toast: strings.TrimSpace(m[1])}
	}
	if m := p.login.FindStringSubmatch(line); m != nil {
		return &types.Event{Kind: types.EventLogin, Time: ts, Line: line, Login: &types.LoginEvent{
			ContentID:  hextoi(m[1]),
			HomeWorld:  uint32(atoi(m[2])),
			Datacenter: uint32(atoi(m[3])),
		}}
	}
	if p.logout.MatchString(line) {
		return &types.Event{Kind: types.EventLogout, Time: ts, Line: line}
	}
	return nil
}

func (p *Parser) parseTimestamp(line string) time.Time {
	m := p.tsPrefix.FindStringSubmatch(line)
	if m == nil {
		return time.Now().UTC()
	}
	y := atoi(m[1])
	mon := atoi(m[2])
	d := atoi(m[3])
	h := atoi(m[4])
	min := atoi(m[5])
	s := atoi(m[6])
	ms := atoi(m[7])
	// The capture layer writes UTC timestamps.
	return time.Date(y, time.Month(mon), d, h, min, s, ms*1e6, time.UTC)
}

func atoi(s string) int {
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			continue
		}
		n = n*10 + int(c-'0')
	}
	return n
}

func hextoi(s string) uint64 {
	var n uint64
	for _, c := range s {
		switch {
		case c >= '0' && c <= '9':
			n = n<<4 | uint64(c-'0')
		case c >= 'a' && c <= 'f':
			n = n<<4 | uint64(c-'a'+10)
		case c >= 'A' && c <= 'F':
			n = n<<4 | uint64(c-'A'+10)
		}
	}
	return n
}
