package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestDefaultsAreValid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Defaults().Validate() = %v", err)
	}
	if cfg.Game.ExplosionFrames != 16 {
		t.Errorf("explosion frames = %d, want 16", cfg.Game.ExplosionFrames)
	}
	if cfg.Game.EnemyMax != 2 || cfg.Game.FormationMembersMax != 2 {
		t.Errorf("enemy max/formation = %d/%d, want 2/2", cfg.Game.EnemyMax, cfg.Game.FormationMembersMax)
	}
}

func TestLoadTOMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "invaders.toml", `
[game]
tick = "10ms"
enemy_max = 5
explosion_frame_time = "40ms"

[game.play_area]
w = 800
h = 600

[logging]
format = "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.Tick != 10*time.Millisecond {
		t.Errorf("tick = %s, want 10ms", cfg.Game.Tick)
	}
	if cfg.Game.EnemyMax != 5 {
		t.Errorf("enemy_max = %d, want 5", cfg.Game.EnemyMax)
	}
	if cfg.Game.ExplosionFrameTime != 40*time.Millisecond {
		t.Errorf("explosion_frame_time = %s, want 40ms", cfg.Game.ExplosionFrameTime)
	}
	if cfg.Game.PlayArea != (Size{W: 800, H: 600}) {
		t.Errorf("play_area = %+v", cfg.Game.PlayArea)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("logging.format = %q, want json", cfg.Logging.Format)
	}
	// Untouched keys keep their defaults.
	if cfg.Game.BaseSpeed != 500 {
		t.Errorf("base_speed = %g, want default 500", cfg.Game.BaseSpeed)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "invaders.yaml", `
game:
  respawn_delay: 3s
  formation_members_max: 4
audio:
  enabled: true
scripting:
  policy_script: scripts/policy.lua
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Game.RespawnDelay != 3*time.Second {
		t.Errorf("respawn_delay = %s, want 3s", cfg.Game.RespawnDelay)
	}
	if cfg.Game.FormationMembersMax != 4 {
		t.Errorf("formation_members_max = %d, want 4", cfg.Game.FormationMembersMax)
	}
	if !cfg.Audio.Enabled {
		t.Error("audio.enabled = false, want true")
	}
	if cfg.Scripting.PolicyScript != "scripts/policy.lua" {
		t.Errorf("policy_script = %q", cfg.Scripting.PolicyScript)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"malformed toml", "bad.toml", "[game\n", "parse config"},
		{"malformed yaml", "bad.yml", "game: [", "parse config"},
		{"zero tick", "tick.toml", "[game]\ntick = \"0s\"\n", "game.tick"},
		{"zero formation", "form.toml", "[game]\nformation_members_max = 0\n", "formation_members_max"},
		{"negative speed", "speed.toml", "[game]\nbase_speed = -1.0\n", "base_speed"},
		{"bad fire chance", "fire.yaml", "game:\n  enemy_fire_chance: 2\n", "enemy_fire_chance"},
		{"bad log level", "level.toml", "[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"bad log format", "format.toml", "[logging]\nformat = \"xml\"\n", "logging.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err == nil || !strings.Contains(err.Error(), "read config") {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestResolve(t *testing.T) {
	t.Setenv(EnvConfigPath, "")
	cfg, err := Resolve("")
	if err != nil {
		t.Fatalf("Resolve defaults: %v", err)
	}
	if cfg.Game.EnemyMax != Defaults().Game.EnemyMax {
		t.Errorf("expected defaults")
	}

	path := writeFile(t, "env.toml", "[game]\nenemy_max = 7\n")
	t.Setenv(EnvConfigPath, path)
	cfg, err = Resolve("")
	if err != nil {
		t.Fatalf("Resolve env: %v", err)
	}
	if cfg.Game.EnemyMax != 7 {
		t.Errorf("enemy_max from env = %d, want 7", cfg.Game.EnemyMax)
	}

	flagPath := writeFile(t, "flag.toml", "[game]\nenemy_max = 9\n")
	cfg, err = Resolve(flagPath)
	if err != nil {
		t.Fatalf("Resolve flag: %v", err)
	}
	if cfg.Game.EnemyMax != 9 {
		t.Errorf("flag should win over env, got enemy_max = %d", cfg.Game.EnemyMax)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("INVADERS_TEST_KEY", "value")
	if got := GetEnv("INVADERS_TEST_KEY", "fallback"); got != "value" {
		t.Errorf("GetEnv = %q, want value", got)
	}
	if got := GetEnv("INVADERS_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv missing = %q, want fallback", got)
	}
}

func TestNewLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invaders.log")
	log, err := NewLogger(LoggingConfig{Level: "debug", Format: "json", File: path})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	log.Debug("hello")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Errorf("log file = %q", data)
	}
}

func TestBundledConfigs(t *testing.T) {
	toml, err := Load(filepath.Join("..", "..", "config", "invaders.toml"))
	if err != nil {
		t.Fatalf("load toml: %v", err)
	}
	def := Defaults()
	if toml.Game.EnemyMax != def.Game.EnemyMax || toml.Game.RespawnDelay != def.Game.RespawnDelay || toml.Game.PlayArea != def.Game.PlayArea {
		t.Errorf("sample toml drifted from defaults: %+v", toml.Game)
	}

	yml, err := Load(filepath.Join("..", "..", "config", "invaders.yaml"))
	if err != nil {
		t.Fatalf("load yaml: %v", err)
	}
	if yml.Game.EnemyMax != 4 || yml.Game.Invincibility != 5*time.Second || yml.Logging.Format != "json" {
		t.Errorf("yaml overrides not applied: %+v", yml)
	}
	if yml.Game.Tick != def.Game.Tick {
		t.Errorf("unset tick = %v, want default", yml.Game.Tick)
	}
}
