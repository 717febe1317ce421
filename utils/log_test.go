package utils

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestInitLogger(t *testing.T) {
	t.Cleanup(func() { InitLogger("development") })

	InitLogger("production")
	assert.IsType(t, &logrus.JSONFormatter{}, baseLogger.Formatter)
	assert.Equal(t, logrus.InfoLevel, baseLogger.GetLevel())
	assert.Equal(t, "cricanalyzer-api", Log.Data["service"])
	assert.Equal(t, false, Log.Data["is_development"])

	InitLogger("development")
	assert.IsType(t, &logrus.TextFormatter{}, baseLogger.Formatter)
	assert.Equal(t, true, Log.Data["is_development"])
}
