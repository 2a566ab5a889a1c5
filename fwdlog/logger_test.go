package fwdlog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycoin/portfwd"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	mLog, err := New(Config{Level: "warn", Output: &buf, NoColor: true, Tag: "portfwd"})
	require.NoError(t, err)

	log := mLog.PackageLogger("portfwd")
	log.WithField(portfwd.FieldSession, uint64(4)).Info("New connection.")
	assert.Zero(t, buf.Len())

	log.WithField(portfwd.FieldSession, uint64(4)).Warn("Failed to accept connection.")
	assert.Contains(t, buf.String(), "[4] warning: Failed to accept connection.")
	assert.NotContains(t, buf.String(), "_module")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNew_SplitOutput(t *testing.T) {
	var out, errOut bytes.Buffer
	mLog, err := New(Config{Level: "debug", Output: &out, ErrOutput: &errOut, NoColor: true})
	require.NoError(t, err)

	log := mLog.PackageLogger("portfwd")
	log.Debug("Served request.")
	log.WithField(portfwd.FieldSession, uint64(1)).Info("New connection.")
	log.Warn("Failed to accept connection.")
	log.WithField(portfwd.FieldSession, uint64(1)).Error("Failed to handle connection.")

	assert.Contains(t, out.String(), "Served request.")
	assert.Contains(t, out.String(), "[1] New connection.")
	assert.NotContains(t, out.String(), "Failed to")

	assert.Contains(t, errOut.String(), "warning: Failed to accept connection.")
	assert.Contains(t, errOut.String(), "[1] error: Failed to handle connection.")
	assert.NotContains(t, errOut.String(), "New connection.")
}
