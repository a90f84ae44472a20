package config

import "os"

func IsDebug() bool {
	return os.Getenv("BARISTA_DEBUG") == "1"
}
