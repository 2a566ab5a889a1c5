//go:build !windows

package fwdlog

import (
	"log/syslog"

	"github.com/sirupsen/logrus"
	logrussyslog "github.com/sirupsen/logrus/hooks/syslog"
)

func newSyslogHook(addr, tag string) (logrus.Hook, error) {
	return logrussyslog.NewSyslogHook("udp", addr, syslog.LOG_INFO, tag)
}
