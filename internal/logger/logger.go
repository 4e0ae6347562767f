package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

var L *logrus.Logger

func init() {
	L = logrus.New()
	L.SetFormatter(&logrus.JSONFormatter{})
	L.SetLevel(logrus.InfoLevel)
	L.SetOutput(os.Stdout)
}

// LogError - modül/fonksiyon bilgisiyle hata logla
func LogError(module string, funcName string, err error) {
	L.WithFields(logrus.Fields{
		"module":   module,
		"funcName": funcName,
	}).Error(err.Error())
}
