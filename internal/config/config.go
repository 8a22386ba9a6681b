// Package config loads the forex bot settings from defaults, an optional JSON
// file, an optional .env file and the process environment, using Viper.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/raykavin/fxbootstrap/internal/layout"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

const (
	DefaultConfigFile = "config.json"
	DefaultEnvFile    = ".env"

	EnvConfigFile    = "FOREX_BOT_CONFIG"
	EnvBotToken      = "TELEGRAM_BOT_TOKEN"
	EnvChatID        = "TELEGRAM_CHAT_ID"
	EnvTelegramOn    = "TELEGRAM_ENABLED"
	EnvDebug         = "FOREX_BOT_DEBUG"
	EnvCheckInterval = "FOREX_BOT_CHECK_INTERVAL"
	EnvPairs         = "FOREX_BOT_PAIRS"

	JournalFile = "journal.json"
	BalanceFile = "balance.json"
	LogFile     = "bot.log"
)

var (
	ErrInvalidConfig   = errors.New("invalid config file")
	ErrMissingToken    = errors.New(EnvBotToken + " is not set")
	ErrMissingChatID   = errors.New(EnvChatID + " is not set")
	ErrInvalidPair     = errors.New("invalid pair")
	ErrInvalidInterval = errors.New("invalid check interval")
)

// envKeys binds setting keys to the environment variables that override them.
var envKeys = map[string]string{
	"telegram.bot_token": EnvBotToken,
	"telegram.chat_id":   EnvChatID,
	"telegram.enabled":   EnvTelegramOn,
	"debug":              EnvDebug,
	"check_interval":     EnvCheckInterval,
	"pairs":              EnvPairs,
}

var strategyNames = []string{"trend", "support_resistance", "candles", "rsi"}

// credentialKeys are never written to the config file.
var credentialKeys = []string{"bot_token", "chat_id"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.enabled", true)

	v.SetDefault("pairs", []string{"EUR/USD", "GBP/USD", "USD/JPY", "AUD/USD", "USD/CAD", "EUR/GBP", "USD/CHF"})

	v.SetDefault("timeframe", "1h")
	v.SetDefault("ema_fast", 20)
	v.SetDefault("ema_slow", 50)
	v.SetDefault("ema_trend", 200)
	v.SetDefault("rsi_period", 14)
	v.SetDefault("rsi_oversold", 35)
	v.SetDefault("rsi_overbought", 65)

	for _, name := range strategyNames {
		v.SetDefault("strategies."+name, true)
	}

	v.SetDefault("check_interval", 300)
	v.SetDefault("initial_balance", 10000.0)
	v.SetDefault("lot_size", 0.01)
	v.SetDefault("debug", false)
}

// Telegram holds the notification credentials.
type Telegram struct {
	Enabled bool
	Token   string
	ChatID  string
}

func (t Telegram) IsEnabled() bool   { return t.Enabled }
func (t Telegram) GetToken() string  { return t.Token }
func (t Telegram) GetChatID() string { return t.ChatID }

// Indicators holds the analysis periods and RSI thresholds.
type Indicators struct {
	EMAFast       int
	EMASlow       int
	EMATrend      int
	RSIPeriod     int
	RSIOversold   int
	RSIOverbought int
}

// Paths are the runtime files and directories derived from the layout.
type Paths struct {
	Root    string
	Charts  string
	Data    string
	Journal string
	Balance string
	Log     string
}

// Settings is the resolved bot configuration.
type Settings struct {
	Telegram       Telegram
	Pairs          []string
	Timeframe      string
	Indicators     Indicators
	Strategies     map[string]bool
	CheckInterval  time.Duration
	InitialBalance float64
	LotSize        float64
	Debug          bool
	Paths          Paths

	file string
	root string
	v    *viper.Viper

	// persisted holds defaults, the config file and Set calls only, so
	// environment overrides never reach Save.
	persisted *viper.Viper
}

func (s *Settings) GetPairs() []string    { return s.Pairs }
func (s *Settings) GetTelegram() Telegram { return s.Telegram }

// File returns the config file path used for loading and saving.
func (s *Settings) File() string { return s.file }

type loader struct {
	root    string
	file    string
	envFile string
}

// Option configures Load.
type Option func(*loader)

// WithRoot sets the directory the bot runs from. Defaults to the working
// directory.
func WithRoot(dir string) Option {
	return func(l *loader) {
		l.root = dir
	}
}

// WithFile overrides the config file path, which otherwise comes from
// FOREX_BOT_CONFIG or defaults to config.json under the root.
func WithFile(path string) Option {
	return func(l *loader) {
		l.file = path
	}
}

// WithEnvFile overrides the .env path. An empty path disables it.
func WithEnvFile(path string) Option {
	return func(l *loader) {
		l.envFile = path
	}
}

// Load resolves the settings. Precedence, highest first: process
// environment, .env file, config file, defaults. Missing files are skipped.
func Load(options ...Option) (*Settings, error) {
	l := &loader{envFile: DefaultEnvFile}
	for _, option := range options {
		option(l)
	}

	if l.file == "" {
		l.file = os.Getenv(EnvConfigFile)
	}
	if l.file == "" {
		l.file = DefaultConfigFile
	}
	l.file = l.resolve(l.file)

	v := viper.New()
	setDefaults(v)
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if err := readFile(v, l.file); err != nil {
		return nil, err
	}

	persisted := viper.New()
	setDefaults(persisted)
	if err := readFile(persisted, l.file); err != nil {
		return nil, err
	}

	if l.envFile != "" {
		if err := applyEnvFile(v, l.resolve(l.envFile)); err != nil {
			return nil, err
		}
	}

	s := &Settings{file: l.file, root: l.root, v: v, persisted: persisted}
	if err := s.refresh(); err != nil {
		return nil, err
	}

	return s, nil
}

func (l *loader) resolve(path string) string {
	if filepath.IsAbs(path) || l.root == "" {
		return path
	}
	return filepath.Join(l.root, path)
}

func readFile(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w %s: %v", ErrInvalidConfig, path, err)
	}
	return nil
}

// applyEnvFile feeds .env values in at environment precedence without
// touching the process environment. Variables already set in the process win.
func applyEnvFile(v *viper.Viper, path string) error {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read env file %s: %w", path, err)
	}

	for key, env := range envKeys {
		value, ok := values[env]
		if !ok {
			continue
		}
		if _, set := os.LookupEnv(env); set {
			continue
		}
		v.Set(key, value)
	}
	return nil
}

func (s *Settings) refresh() error {
	v := s.v

	interval, err := parseInterval(v.GetString("check_interval"))
	if err != nil {
		return err
	}

	s.Telegram = Telegram{
		Enabled: v.GetBool("telegram.enabled"),
		Token:   strings.TrimSpace(v.GetString("telegram.bot_token")),
		ChatID:  strings.TrimSpace(v.GetString("telegram.chat_id")),
	}
	s.Pairs = parsePairs(v.Get("pairs"))
	s.Timeframe = v.GetString("timeframe")
	s.Indicators = Indicators{
		EMAFast:       v.GetInt("ema_fast"),
		EMASlow:       v.GetInt("ema_slow"),
		EMATrend:      v.GetInt("ema_trend"),
		RSIPeriod:     v.GetInt("rsi_period"),
		RSIOversold:   v.GetInt("rsi_oversold"),
		RSIOverbought: v.GetInt("rsi_overbought"),
	}
	s.Strategies = lo.SliceToMap(strategyNames, func(name string) (string, bool) {
		return name, v.GetBool("strategies." + name)
	})
	s.CheckInterval = interval
	s.InitialBalance = v.GetFloat64("initial_balance")
	s.LotSize = v.GetFloat64("lot_size")
	s.Debug = v.GetBool("debug")

	s.Paths = pathsFor(s.root)
	return nil
}

func pathsFor(root string) Paths {
	l := layout.Default(root)
	data := l.Dir(layout.DataDir)
	return Paths{
		Root:    root,
		Charts:  l.Dir(layout.ChartsDir),
		Data:    data,
		Journal: filepath.Join(data, JournalFile),
		Balance: filepath.Join(data, BalanceFile),
		Log:     l.Dir(LogFile),
	}
}

// parseInterval accepts whole seconds ("300") or a duration ("5m", "1h30m").
func parseInterval(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}

	d, err := str2duration.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidInterval, raw, err)
	}
	return d, nil
}

func parsePairs(raw any) []string {
	var items []string
	switch value := raw.(type) {
	case string:
		items = strings.Split(value, ",")
	case []string:
		items = value
	case []any:
		items = lo.Map(value, func(item any, _ int) string { return fmt.Sprint(item) })
	}

	items = lo.Map(items, func(item string, _ int) string {
		return strings.ToUpper(strings.TrimSpace(item))
	})
	return lo.Uniq(lo.Compact(items))
}

// EnabledStrategies returns the names of the enabled strategies, sorted.
func (s *Settings) EnabledStrategies() []string {
	names := lo.Keys(lo.PickBy(s.Strategies, func(_ string, enabled bool) bool {
		return enabled
	}))
	sort.Strings(names)
	return names
}

// Get looks up a setting by dot-separated key, e.g. "telegram.enabled".
// It returns nil for unknown keys.
func (s *Settings) Get(key string) any {
	return s.v.Get(key)
}

// Set overrides a setting for the lifetime of s and refreshes the typed
// fields. Call Save to persist it. A rejected value leaves s unchanged.
func (s *Settings) Set(key string, value any) error {
	prev := s.v.Get(key)
	s.v.Set(key, value)

	if err := s.refresh(); err != nil {
		s.v.Set(key, prev)
		if restoreErr := s.refresh(); restoreErr != nil {
			return errors.Join(err, restoreErr)
		}
		return err
	}

	s.persisted.Set(key, value)
	return nil
}

// Save writes defaults, the loaded config file and every Set value to the
// config file as indented JSON. Environment and .env overrides are not
// written, nor are Telegram credentials; they belong in the environment.
func (s *Settings) Save() error {
	all := s.persisted.AllSettings()
	if telegram, ok := all["telegram"].(map[string]any); ok {
		for _, key := range credentialKeys {
			delete(telegram, key)
		}
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if dir := filepath.Dir(s.file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("save config %s: %w", s.file, err)
		}
	}
	if err := os.WriteFile(s.file, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("save config %s: %w", s.file, err)
	}
	return nil
}

// Validate reports every problem that would stop the bot from running.
func (s *Settings) Validate() error {
	var errs []error

	if s.Telegram.Enabled {
		if s.Telegram.Token == "" {
			errs = append(errs, ErrMissingToken)
		}
		if s.Telegram.ChatID == "" {
			errs = append(errs, ErrMissingChatID)
		}
	}

	for _, pair := range s.Pairs {
		base, quote, ok := strings.Cut(pair, "/")
		if !ok || base == "" || quote == "" || strings.Contains(quote, "/") {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidPair, pair))
		}
	}

	if s.CheckInterval <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidInterval, s.CheckInterval))
	}

	return errors.Join(errs...)
}

// Mask hides all but the last four characters of a credential.
func Mask(secret string) string {
	if secret == "" {
		return ""
	}
	runes := []rune(secret)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-4:])
}
