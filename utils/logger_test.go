/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package utils

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logrus.Level{
		"":        logrus.InfoLevel,
		"DEBUG":   logrus.DebugLevel,
		" warn ":  logrus.WarnLevel,
		"warning": logrus.WarnLevel,
		"error":   logrus.ErrorLevel,
		"loud":    logrus.InfoLevel,
	}
	for in, want := range tests {
		require.Equal(t, want, ParseLogLevel(in), in)
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("GEOPIN_TEST_STRING", "value")
	t.Setenv("GEOPIN_TEST_BOOL", "true")
	t.Setenv("GEOPIN_TEST_BAD_BOOL", "maybe")
	t.Setenv("GEOPIN_TEST_INT", " 42 ")
	t.Setenv("GEOPIN_TEST_DURATION", "250ms")
	t.Setenv("GEOPIN_TEST_SECONDS", "3")

	require.Equal(t, "value", EnvDefaultString("GEOPIN_TEST_STRING", "def"))
	require.Equal(t, "def", EnvDefaultString("GEOPIN_TEST_UNSET", "def"))
	require.True(t, EnvDefaultBool("GEOPIN_TEST_BOOL", false))
	require.True(t, EnvDefaultBool("GEOPIN_TEST_BAD_BOOL", true))
	require.Equal(t, 42, EnvDefaultInt("GEOPIN_TEST_INT", 1))
	require.Equal(t, 1, EnvDefaultInt("GEOPIN_TEST_STRING", 1))
	require.Equal(t, 250*time.Millisecond, EnvDefaultDuration("GEOPIN_TEST_DURATION", 0))
	require.Equal(t, 3*time.Second, EnvDefaultDuration("GEOPIN_TEST_SECONDS", 0))
	require.Equal(t, time.Minute, EnvDefaultDuration("GEOPIN_TEST_STRING", time.Minute))
}

func TestNamedLoggerLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stdout)
		ConfigureConsoleLogFormat("text")
		ConfigureLogLevel("info")
	})

	l := NewLogger("UTILTEST")
	require.Same(t, l, GetLogger("UTILTEST"))
	require.True(t, SetLoggerLevel("UTILTEST", "error"))
	require.False(t, SetLoggerLevel("NOSUCHLOGGER", "error"))

	l.Info("hidden")
	require.Zero(t, buf.Len())

	ConfigureConsoleLogFormat("json")
	l.WithField("phone", "+1 555").Error("stored")

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	require.Equal(t, "error", rec["level"])
	require.Equal(t, "UTILTEST", rec["model"])
	require.Equal(t, "stored", rec["message"])
	require.Equal(t, map[string]interface{}{"phone": "+1 555"}, rec["fields"])
}

func TestTextFormatter(t *testing.T) {
	f := &Log4jColorFormatter{LoggerName: "REPOSITORY", NameWidth: 4}
	out, err := f.Format(&logrus.Entry{Time: time.Now(), Level: logrus.WarnLevel, Message: "slow"})
	require.NoError(t, err)
	require.Contains(t, string(out), "REPO")
	require.Contains(t, string(out), "slow")
	require.NotContains(t, string(out), "REPOSITORY")
}
