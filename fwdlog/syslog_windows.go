//go:build windows

package fwdlog

import (
	"errors"

	"github.com/sirupsen/logrus"
)

func newSyslogHook(_, _ string) (logrus.Hook, error) {
	return nil, errors.New("syslog is not supported on windows")
}
