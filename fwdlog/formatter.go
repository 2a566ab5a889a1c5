package fwdlog

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/skycoin/portfwd"
)

// DefaultTimestampFormat is an RFC 3339 UTC timestamp with milliseconds.
const DefaultTimestampFormat = "2006-01-02T15:04:05.000Z"

// Formatter renders entries as single human readable lines:
//
//	<time> [<session>] <level:> <message> <client> >>> <target> - <n> bytes key=value...
//
// Session ids are colored by id so that lines of one session can be followed by eye.
type Formatter struct {
	DisableColors   bool
	TimestampFormat string
}

// Format implements logrus.Formatter.
func (f *Formatter) Format(e *logrus.Entry) ([]byte, error) {
	data := make(logrus.Fields, len(e.Data))
	for k, v := range e.Data {
		data[k] = v
	}

	tsFormat := f.TimestampFormat
	if tsFormat == "" {
		tsFormat = DefaultTimestampFormat
	}

	b := new(bytes.Buffer)
	b.WriteString(f.paint(e.Time.UTC().Format(tsFormat), color.Faint))

	id, hasID := sessionID(data)
	if hasID {
		delete(data, portfwd.FieldSession)
		b.WriteByte(' ')
		b.WriteString(f.paint(fmt.Sprintf("[%d]", id), idColor(id)))
	}

	switch {
	case e.Level <= logrus.ErrorLevel:
		b.WriteByte(' ')
		b.WriteString(f.paint("error:", color.FgRed, color.Bold))
	case e.Level == logrus.WarnLevel:
		b.WriteByte(' ')
		b.WriteString(f.paint("warning:", color.FgYellow, color.Bold))
	}

	if e.Message != "" {
		b.WriteByte(' ')
		b.WriteString(e.Message)
	}

	if pair, ok := f.addrPair(id, data); ok {
		b.WriteByte(' ')
		b.WriteString(pair)
	}

	keys := make([]string, 0, len(data))
	for k := range data {
		if strings.HasPrefix(k, "_") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(f.paint(k+"=", color.Faint))
		b.WriteString(fmt.Sprint(data[k]))
	}

	b.WriteByte('\n')
	return b.Bytes(), nil
}

// addrPair renders "client >>> target - n bytes" for chunk events and consumes the fields
// it renders.
func (f *Formatter) addrPair(id uint64, data logrus.Fields) (string, bool) {
	dir, ok := data[portfwd.FieldDir].(portfwd.Direction)
	if !ok {
		return "", false
	}
	n, ok := data[portfwd.FieldBytes]
	if !ok {
		return "", false
	}
	client, cOK := data[portfwd.FieldClient].(string)
	target, tOK := data[portfwd.FieldTarget].(string)
	if !cOK || !tOK {
		return "", false
	}
	for _, k := range []string{portfwd.FieldDir, portfwd.FieldBytes, portfwd.FieldClient, portfwd.FieldTarget} {
		delete(data, k)
	}

	if client == portfwd.UnknownAddr {
		client = f.paint(client, color.FgRed, color.Bold)
	} else {
		client = f.paint(client, idColor(id), color.Bold)
	}
	if target == portfwd.UnknownAddr {
		target = f.paint(target, color.FgRed, color.Faint, color.Bold)
	} else {
		target = f.paint(target, color.FgHiBlack, color.Bold)
	}

	arrow := f.paint(dir.Arrow(), color.FgBlue)
	if dir == portfwd.Downstream {
		arrow = f.paint(dir.Arrow(), color.FgCyan)
	}
	return fmt.Sprintf("%s %s %s - %s", client, arrow, target, f.paint(fmt.Sprintf("%v bytes", n), color.FgHiBlack)), true
}

func (f *Formatter) paint(s string, attrs ...color.Attribute) string {
	if f.DisableColors {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

func sessionID(data logrus.Fields) (uint64, bool) {
	switch v := data[portfwd.FieldSession].(type) {
	case uint64:
		return v, true
	case int:
		return uint64(v), true
	case uint32:
		return uint64(v), true
	default:
		return 0, false
	}
}

// idColor cycles six colors over session ids.
func idColor(id uint64) color.Attribute {
	switch id % 6 {
	case 0:
		return color.FgBlue
	case 1:
		return color.FgGreen
	case 2:
		return color.FgYellow
	case 3:
		return color.FgMagenta
	case 4:
		return color.FgCyan
	default:
		return color.FgWhite
	}
}

var _ logrus.Formatter = (*Formatter)(nil)
