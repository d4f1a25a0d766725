package cliconfig

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.DataDir != DefaultDataDir() {
		t.Errorf("DataDir = %v, want %v", cfg.DataDir, DefaultDataDir())
	}
	if cfg.Watch {
		t.Error("Watch should default to false")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name         string
		config       Config
		wantErr      bool
		wantBackup   string
		wantSettings string
		wantLevel    string
	}{
		{
			name:         "derives paths from data dir",
			config:       Config{DataDir: "/tmp/ws"},
			wantBackup:   filepath.Join("/tmp/ws", "Backups"),
			wantSettings: filepath.Join("/tmp/ws", "settings.toml"),
			wantLevel:    DefaultLogLevel,
		},
		{
			name: "keeps explicit paths",
			config: Config{
				DataDir:      "/tmp/ws",
				BackupDir:    "/elsewhere/backups",
				SettingsPath: "/etc/winsession.toml",
				LogLevel:     "debug",
			},
			wantBackup:   "/elsewhere/backups",
			wantSettings: "/etc/winsession.toml",
			wantLevel:    "debug",
		},
		{
			name:         "normalizes log level case",
			config:       Config{DataDir: "/tmp/ws", LogLevel: "WARN"},
			wantBackup:   filepath.Join("/tmp/ws", "Backups"),
			wantSettings: filepath.Join("/tmp/ws", "settings.toml"),
			wantLevel:    "warn",
		},
		{
			name:    "missing data dir",
			config:  Config{},
			wantErr: true,
		},
		{
			name:    "unknown log level",
			config:  Config{DataDir: "/tmp/ws", LogLevel: "loud"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.config
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if cfg.BackupDir != tt.wantBackup {
				t.Errorf("BackupDir = %v, want %v", cfg.BackupDir, tt.wantBackup)
			}
			if cfg.SettingsPath != tt.wantSettings {
				t.Errorf("SettingsPath = %v, want %v", cfg.SettingsPath, tt.wantSettings)
			}
			if cfg.LogLevel != tt.wantLevel {
				t.Errorf("LogLevel = %v, want %v", cfg.LogLevel, tt.wantLevel)
			}
		})
	}
}

func TestConfigSetter(t *testing.T) {
	trueVal := true
	s := newConfigSetter(map[string]bool{"data-dir": true, "watch": true})

	dir := "/flag"
	s.setString("data-dir", "/file", &dir)
	if dir != "/flag" {
		t.Errorf("changed flag overwritten: %v", dir)
	}

	level := "info"
	s.setString("log-level", "", &level)
	if level != "info" {
		t.Errorf("empty value applied: %v", level)
	}
	s.setString("log-level", "debug", &level)
	if level != "debug" {
		t.Errorf("level = %v, want debug", level)
	}

	watch := false
	s.setBool("watch", &trueVal, &watch)
	if watch {
		t.Error("changed bool flag overwritten")
	}
}

func TestLogger(t *testing.T) {
	if got := Logger("debug").GetLevel().String(); got != "debug" {
		t.Errorf("level = %v, want debug", got)
	}
	if got := Logger("nonsense").GetLevel().String(); got != "info" {
		t.Errorf("level = %v, want info", got)
	}
}
