package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable consulted when no -config flag is given.
const EnvConfigPath = "INVADERS_CONFIG"

type Config struct {
	Game      GameConfig      `toml:"game" yaml:"game"`
	SSH       SSHConfig       `toml:"ssh" yaml:"ssh"`
	Web       WebConfig       `toml:"web" yaml:"web"`
	Logging   LoggingConfig   `toml:"logging" yaml:"logging"`
	Audio     AudioConfig     `toml:"audio" yaml:"audio"`
	Scripting ScriptingConfig `toml:"scripting" yaml:"scripting"`
}

// Size is a width/height pair in world units.
type Size struct {
	W float64 `toml:"w" yaml:"w"`
	H float64 `toml:"h" yaml:"h"`
}

type GameConfig struct {
	Tick        time.Duration `toml:"tick" yaml:"tick"`
	BaseSpeed   float64       `toml:"base_speed" yaml:"base_speed"`
	SpriteScale float64       `toml:"sprite_scale" yaml:"sprite_scale"`
	PlayArea    Size          `toml:"play_area" yaml:"play_area"`
	ReapMargin  float64       `toml:"reap_margin" yaml:"reap_margin"`

	PlayerSize      Size `toml:"player_size" yaml:"player_size"`
	PlayerLaserSize Size `toml:"player_laser_size" yaml:"player_laser_size"`
	EnemySize       Size `toml:"enemy_size" yaml:"enemy_size"`
	EnemyLaserSize  Size `toml:"enemy_laser_size" yaml:"enemy_laser_size"`

	RespawnDelay       time.Duration `toml:"respawn_delay" yaml:"respawn_delay"`
	Invincibility      time.Duration `toml:"invincibility" yaml:"invincibility"`
	PlayerFireCooldown time.Duration `toml:"player_fire_cooldown" yaml:"player_fire_cooldown"`

	EnemyMax            int     `toml:"enemy_max" yaml:"enemy_max"`
	FormationMembersMax int     `toml:"formation_members_max" yaml:"formation_members_max"`
	EnemyFireChance     float64 `toml:"enemy_fire_chance" yaml:"enemy_fire_chance"` // per tick (0.0-1.0)

	ExplosionFrameTime time.Duration `toml:"explosion_frame_time" yaml:"explosion_frame_time"`
	ExplosionFrames    int           `toml:"explosion_frames" yaml:"explosion_frames"`
}

type SSHConfig struct {
	Host            string        `toml:"host" yaml:"host"`
	Port            string        `toml:"port" yaml:"port"`
	HostKeyPath     string        `toml:"host_key_path" yaml:"host_key_path"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

type WebConfig struct {
	Port    string `toml:"port" yaml:"port"`
	SSHHost string `toml:"ssh_host" yaml:"ssh_host"` // Host shown in the connect instructions
}

type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"` // "json" or "console"
	File   string `toml:"file" yaml:"file"`     // Empty logs to stderr
}

type AudioConfig struct {
	Enabled    bool    `toml:"enabled" yaml:"enabled"`
	SampleRate int     `toml:"sample_rate" yaml:"sample_rate"`
	Volume     float64 `toml:"volume" yaml:"volume"` // 0.0-1.0
}

type ScriptingConfig struct {
	PolicyScript string `toml:"policy_script" yaml:"policy_script"` // empty = built-in policy
}

// Load reads a TOML or YAML file (by extension) over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		err = toml.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads the config named by flagPath, else by $INVADERS_CONFIG,
// else returns the defaults.
func Resolve(flagPath string) (*Config, error) {
	path := flagPath
	if path == "" {
		path = GetEnv(EnvConfigPath, "")
	}
	if path == "" {
		return Defaults(), nil
	}
	return Load(path)
}

// Defaults returns the stock arcade tuning.
func Defaults() *Config {
	return &Config{
		Game: GameConfig{
			Tick:        time.Second / 60,
			BaseSpeed:   500,
			SpriteScale: 0.5,
			PlayArea:    Size{W: 598, H: 676},
			ReapMargin:  200,

			PlayerSize:      Size{W: 144, H: 75},
			PlayerLaserSize: Size{W: 9, H: 54},
			EnemySize:       Size{W: 144, H: 75},
			EnemyLaserSize:  Size{W: 17, H: 55},

			RespawnDelay:       2 * time.Second,
			Invincibility:      10 * time.Second,
			PlayerFireCooldown: 250 * time.Millisecond,

			EnemyMax:            2,
			FormationMembersMax: 2,
			EnemyFireChance:     1.0 / 60.0,

			ExplosionFrameTime: 50 * time.Millisecond,
			ExplosionFrames:    16,
		},
		SSH: SSHConfig{
			Host:            "0.0.0.0",
			Port:            "23234",
			HostKeyPath:     ".ssh/id_ed25519",
			ShutdownTimeout: 30 * time.Second,
		},
		Web: WebConfig{
			Port:    "8080",
			SSHHost: "localhost",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Audio: AudioConfig{
			Enabled:    false,
			SampleRate: 44100,
			Volume:     0.5,
		},
	}
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	g := c.Game
	var errs []error
	if g.Tick <= 0 {
		errs = append(errs, fmt.Errorf("game.tick must be positive, got %s", g.Tick))
	}
	if g.BaseSpeed <= 0 {
		errs = append(errs, fmt.Errorf("game.base_speed must be positive, got %g", g.BaseSpeed))
	}
	if g.SpriteScale <= 0 {
		errs = append(errs, fmt.Errorf("game.sprite_scale must be positive, got %g", g.SpriteScale))
	}
	for name, s := range map[string]Size{
		"play_area":         g.PlayArea,
		"player_size":       g.PlayerSize,
		"player_laser_size": g.PlayerLaserSize,
		"enemy_size":        g.EnemySize,
		"enemy_laser_size":  g.EnemyLaserSize,
	} {
		if s.W <= 0 || s.H <= 0 {
			errs = append(errs, fmt.Errorf("game.%s must be positive, got %gx%g", name, s.W, s.H))
		}
	}
	if g.FormationMembersMax < 1 {
		errs = append(errs, fmt.Errorf("game.formation_members_max must be at least 1, got %d", g.FormationMembersMax))
	}
	if g.EnemyMax < 0 {
		errs = append(errs, fmt.Errorf("game.enemy_max must not be negative, got %d", g.EnemyMax))
	}
	if g.EnemyFireChance < 0 || g.EnemyFireChance > 1 {
		errs = append(errs, fmt.Errorf("game.enemy_fire_chance must be within [0,1], got %g", g.EnemyFireChance))
	}
	if g.ExplosionFrameTime <= 0 || g.ExplosionFrames < 1 {
		errs = append(errs, fmt.Errorf("game explosion timing must be positive, got %d frames of %s", g.ExplosionFrames, g.ExplosionFrameTime))
	}
	if g.RespawnDelay < 0 || g.Invincibility < 0 || g.PlayerFireCooldown < 0 {
		errs = append(errs, errors.New("game durations must not be negative"))
	}
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		errs = append(errs, fmt.Errorf("logging.level: %w", err))
	}
	if f := c.Logging.Format; f != "console" && f != "json" {
		errs = append(errs, fmt.Errorf("logging.format must be console or json, got %q", f))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be within [0,1], got %g", c.Audio.Volume))
	}
	return errors.Join(errs...)
}
