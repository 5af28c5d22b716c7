package initialize

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func NewLogger() zerolog.Logger {
	cw := zerolog.ConsoleWriter{Out: os.Stdout}
	return log.Output(cw)
}
