package log

import (
	"os"

	"github.com/sirupsen/logrus"
)

var Logger = logrus.New()

// Init sets up the shared logger, unknown levels fall back to info
func Init(level string) {
	Logger.SetOutput(os.Stdout)

	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
		ForceColors:   true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		Logger.SetLevel(logrus.InfoLevel)
		Logger.WithField("level", level).Warn("unknown log level, using info")
		return
	}
	Logger.SetLevel(lvl)

	// set to true if you want the location of log (debugging)
	Logger.SetReportCaller(lvl >= logrus.TraceLevel)
}
