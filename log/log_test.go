// Copyright 2019 Radiation Detection and Imaging (RDI), LLC
// Use of this source code is governed by the BSD 3-clause
// license that can be found in the LICENSE file.

package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoggerBeforeInit(t *testing.T) {
	sugar = nil
	assert.NotNil(t, Logger())
	Logger().Infow("dropped", "k", 1)
}

func TestInitQuiet(t *testing.T) {
	require.NoError(t, Init(false, true))
	defer Sync()
	assert.False(t, Logger().Desugar().Core().Enabled(zap.InfoLevel))
	assert.True(t, Logger().Desugar().Core().Enabled(zap.ErrorLevel))

	require.NoError(t, Init(true, false))
	assert.True(t, Logger().Desugar().Core().Enabled(zap.DebugLevel))
}
