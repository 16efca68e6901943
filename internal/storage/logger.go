package storage

import (
	"strings"

	"github.com/rs/zerolog/log"
)

// badgerLogger forwards badger's messages to zerolog. Info and debug
// output is demoted so that an idle database stays quiet.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...any) {
	log.Error().Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Warningf(format string, args ...any) {
	log.Warn().Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Infof(format string, args ...any) {
	log.Debug().Msgf(strings.TrimSpace(format), args...)
}

func (badgerLogger) Debugf(format string, args ...any) {
	log.Trace().Msgf(strings.TrimSpace(format), args...)
}
