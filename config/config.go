// config/config.go - 配置管理文件
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// defaults 默认配置，文件和环境变量都可以覆盖
var defaults = map[string]any{
	"server.host":  "",
	"server.port":  8081,
	"server.mode":  "release",
	"log.level":    "info",
	"log.format":   "json",
	"smtp.host":    "smtp.gmail.com",
	"smtp.port":    587,
	"smtp.tls":     true,
	"otp.length":   6,
	"otp.ttl":      10,
	"otp.expose":   true,
	"mail.app":     "rayChatApp",
	"mail.subject": "Your rayChatApp Verification Code",
}

// 兼容旧部署使用的环境变量名
const (
	legacyUserKey     = "gmail.user"
	legacyPasswordKey = "gmail.app_password"
)

// envPrefixes 只接受这些前缀的环境变量，避免 MAIL、PATH 之类的系统变量覆盖配置段
var envPrefixes = []string{"server_", "log_", "smtp_", "otp_", "mail_", "gmail_"}

// envKey SMTP_USERNAME -> smtp.username，SERVER_READ_TIMEOUT -> server.read_timeout，
// 不相关的变量返回空串被忽略
func envKey(s string) string {
	key := strings.ToLower(s)
	for _, prefix := range envPrefixes {
		if strings.HasPrefix(key, prefix) {
			return strings.Replace(key, "_", ".", 1)
		}
	}
	return ""
}

// Load 加载配置：默认值 -> 配置文件（可选）-> .env -> 环境变量
//
// SMTP 账号缺失不会导致加载失败，由调用方在每次请求时检查。
func Load(configPath string) (*AppConfig, error) {
	// 首先加载 .env 文件到环境变量
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("warning: load .env: %v", err)
	}

	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// 再加载配置文件，Lambda 环境下通常没有
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("stat config file: %w", err)
		}
	}

	// 最后加载环境变量（覆盖配置文件）
	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	conf := &AppConfig{}
	if err := k.Unmarshal("", conf); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if conf.Smtp.Username == "" {
		conf.Smtp.Username = k.String(legacyUserKey)
	}
	if conf.Smtp.Password == "" {
		conf.Smtp.Password = k.String(legacyPasswordKey)
	}

	if err := validator.New().Struct(conf); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return conf, nil
}

// MustLoad 加载配置，失败则退出
func MustLoad(configPath string) *AppConfig {
	conf, err := Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	return conf
}
