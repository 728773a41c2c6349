/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pbougue/utils/config"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name        string
		cfgDataType config.DataType
		cfgData     string
		expectedCfg func() *Config
		wantErr     string
	}{
		{
			name:        "default config",
			cfgDataType: config.DataTypeYAML,
			cfgData:     `memo: {}`,
			expectedCfg: NewDefaultConfig,
		},
		{
			name:        "yaml config",
			cfgDataType: config.DataTypeYAML,
			cfgData: `
log:
  level: warn
  format: text
  output: file
  file:
    path: lrumemo.log
    rotation:
      compress: true
      maxSize: 100M
      maxBackups: 42
  addCaller: true
  error:
    noVerbose: true
    verboseSuffix: test-suffix
`,
			expectedCfg: func() *Config {
				cfg := NewDefaultConfig()
				cfg.Level = LevelWarn
				cfg.Format = FormatText
				cfg.Output = OutputFile
				cfg.File.Path = "lrumemo.log"
				cfg.File.Rotation.MaxSize = 100 * 1024 * 1024
				cfg.File.Rotation.MaxBackups = 42
				cfg.File.Rotation.Compress = true
				cfg.AddCaller = true
				cfg.Error.NoVerbose = true
				cfg.Error.VerboseSuffix = "test-suffix"
				return cfg
			},
		},
		{
			name:        "json config, case-insensitive level",
			cfgDataType: config.DataTypeJSON,
			cfgData:     `{"log": {"level": "DEBUG", "output": "stderr"}}`,
			expectedCfg: func() *Config {
				cfg := NewDefaultConfig()
				cfg.Level = LevelDebug
				cfg.Output = OutputStderr
				return cfg
			},
		},
		{
			name:        "unknown level",
			cfgDataType: config.DataTypeYAML,
			cfgData:     "log:\n  level: verbose\n",
			wantErr:     `log.level: unknown value "verbose"`,
		},
		{
			name:        "file output without path",
			cfgDataType: config.DataTypeYAML,
			cfgData:     "log:\n  output: file\n",
			wantErr:     `log.file.path: cannot be empty when "file" output is used`,
		},
		{
			name:        "too small rotation size",
			cfgDataType: config.DataTypeYAML,
			cfgData:     "log:\n  file:\n    rotation:\n      maxSize: 1K\n",
			wantErr:     "log.file.rotation.maxSize: should be >= 1M",
		},
		{
			name:        "no rotation backups",
			cfgDataType: config.DataTypeJSON,
			cfgData:     `{"log": {"file": {"rotation": {"maxBackups": 0}}}}`,
			wantErr:     "log.file.rotation.maxBackups: should be >= 1",
		},
		{
			name:        "negative rotation age",
			cfgDataType: config.DataTypeJSON,
			cfgData:     `{"log": {"file": {"rotation": {"maxAgeDays": -1}}}}`,
			wantErr:     "log.file.rotation.maxAgeDays: should be >= 0",
		},
		{
			name:        "invalid bool",
			cfgDataType: config.DataTypeYAML,
			cfgData:     "log:\n  nocolor: sometimes\n",
			wantErr:     "log.nocolor: ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("")
			err := config.NewLoader(config.NewViperAdapter()).LoadFromReader(
				bytes.NewBufferString(tt.cfgData), tt.cfgDataType, cfg)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.expectedCfg(), cfg)
		})
	}
}
