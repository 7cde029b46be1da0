package config

import "os"

type Mode int

const (
	ModeDev Mode = iota
	ModeProd
)

func (m Mode) String() string {
	if m == ModeDev {
		return "dev"
	}
	return "prod"
}

// GetMode reads REACT_SSR_DEV; only "1" selects dev mode.
func GetMode() Mode {
	if os.Getenv(EnvPrefix+"_DEV") == "1" {
		return ModeDev
	}
	return ModeProd
}

func IsDev() bool {
	return GetMode() == ModeDev
}
