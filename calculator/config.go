package calculator

import (
	log "github.com/sirupsen/logrus"
	"gopkg.in/ini.v1"
)

var calCfg Config

type Config struct {
	GridResolution int
	PathSegments   int
	Workers        int

	FallbackConductivity float64
}

func init() {
	file, err := ini.Load("../conf/config.ini")
	if err != nil {
		log.Warn("config file not found, using defaults: ", err)
		file = ini.Empty()
	}

	loadCfg(file)
}

func loadCfg(file *ini.File) {
	calCfg = Config{
		GridResolution:       file.Section("calculator").Key("GridResolution").MustInt(40),
		PathSegments:         file.Section("calculator").Key("PathSegments").MustInt(100),
		Workers:              file.Section("calculator").Key("Workers").MustInt(4),
		FallbackConductivity: file.Section("calculator").Key("FallbackConductivity").MustFloat64(1.5),
	}
}
