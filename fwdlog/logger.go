// Package fwdlog builds the process logger of the forwarder.
package fwdlog

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/writer"
	"github.com/skycoin/skycoin/src/util/logging"
)

// Config configures the process logger.
type Config struct {
	Level   string
	Output  io.Writer
	NoColor bool

	// ErrOutput receives warnings and errors when set. Output then only receives
	// info and below.
	ErrOutput io.Writer

	// Tag names the process towards syslog and discord.
	Tag string

	// SyslogAddr enables a syslog hook dialing this address over UDP.
	SyslogAddr string

	// DiscordWebhook enables a discord hook for error entries.
	DiscordWebhook string
	DiscordLimit   time.Duration
}

// New builds a master logger from conf. Package loggers are obtained from it with
// PackageLogger and injected where needed.
func New(conf Config) (*logging.MasterLogger, error) {
	lvl := conf.Level
	if lvl == "" {
		lvl = "info"
	}
	level, err := logging.LevelFromString(lvl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse log level %q: %w", conf.Level, err)
	}

	out := conf.Output
	if out == nil {
		out = os.Stdout
	}

	mLog := logging.NewMasterLogger()
	mLog.SetOutput(out)
	mLog.SetLevel(level)
	mLog.SetFormatter(&Formatter{
		DisableColors: conf.NoColor || color.NoColor,
	})

	if conf.ErrOutput != nil {
		mx := new(sync.Mutex)
		mLog.SetOutput(io.Discard)
		mLog.AddHook(&writer.Hook{
			Writer:    &lockedWriter{mx: mx, w: out},
			LogLevels: []logrus.Level{logrus.InfoLevel, logrus.DebugLevel, logrus.TraceLevel},
		})
		mLog.AddHook(&writer.Hook{
			Writer:    &lockedWriter{mx: mx, w: conf.ErrOutput},
			LogLevels: []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel},
		})
	}

	if conf.SyslogAddr != "" {
		hook, err := newSyslogHook(conf.SyslogAddr, conf.Tag)
		if err != nil {
			return nil, fmt.Errorf("unable to connect to syslog daemon on %s: %w", conf.SyslogAddr, err)
		}
		mLog.AddHook(hook)
	}

	if conf.DiscordWebhook != "" {
		mLog.AddHook(NewDiscordHook(conf.Tag, conf.DiscordWebhook, WithLimit(conf.DiscordLimit)))
	}

	return mLog, nil
}

// lockedWriter serializes writes shared by the split outputs.
type lockedWriter struct {
	mx *sync.Mutex
	w  io.Writer
}

func (w *lockedWriter) Write(p []byte) (int, error) {
	w.mx.Lock()
	defer w.mx.Unlock()
	return w.w.Write(p)
}
