package server

import (
	"fmt"

	"github.com/proctorkit/examclock/internal/countdown"
	"github.com/proctorkit/examclock/pkg/http"
	"github.com/proctorkit/examclock/pkg/logger"
)

type Config struct {
	Environment string
	Log         logger.Config
	Router      http.RouterConfig
	Server      http.ServerConfig
	Clock       countdown.Config
}

func (c Config) Str() string {
	return fmt.Sprintf("%+v", c)
}
