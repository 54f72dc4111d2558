// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package logger

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    logrus.Level
		wantErr bool
	}{
		{"debug", logrus.DebugLevel, false},
		{"DEBUG", logrus.DebugLevel, false},
		{"", logrus.InfoLevel, false},
		{"info", logrus.InfoLevel, false},
		{"warning", logrus.WarnLevel, false},
		{" error ", logrus.ErrorLevel, false},
		{"verbose", logrus.InfoLevel, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInit_WritesToGivenWriter(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init("warn", &buf))
	t.Cleanup(func() { _ = Init("info", nil) })

	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	WithField("page", 3).Warn("with field")
	WithError(errors.New("disk full")).Warn("save failed")
	WithError(errors.New("quiet")).Debug("not at warn")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown 2")
	assert.Contains(t, out, "page=3")
	assert.Contains(t, out, `error="disk full"`)
	assert.NotContains(t, out, "quiet")
}

func TestInit_RejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Init("loud", nil))
}
