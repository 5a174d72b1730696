package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is built once at startup
// and passed by reference into component constructors; nothing mutates it
// afterwards.
type Config struct {
	Server ServerConfig
	Log    LogConfig
	Files  FilesConfig
	LLM    LLMConfig
	GLPI   GLPIConfig
	Email  EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// FilesConfig holds the filesystem access policy: which directories may be
// read, which extensions are accepted, and where processed files go.
// The Host* fields are the external-view counterparts used when callers see
// the filesystem under a different mount point than this process does.
type FilesConfig struct {
	AllowedRoots      []string `mapstructure:"allowed_roots"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
	FolderSuccess     string   `mapstructure:"folder_success"`
	FolderErrors      string   `mapstructure:"folder_errors"`
	HostAllowedRoots  []string `mapstructure:"host_allowed_roots"`
	HostFolderSuccess string   `mapstructure:"host_folder_success"`
	HostFolderErrors  string   `mapstructure:"host_folder_errors"`
}

// ProviderConfig holds settings for a single cloud LLM provider.
type ProviderConfig struct {
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
	Endpoint string `mapstructure:"endpoint"`
}

// OllamaConfig holds settings for the local inference server.
type OllamaConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
}

// LLMConfig holds LLM gateway settings.
type LLMConfig struct {
	Provider  string         `mapstructure:"provider"`
	Mock      bool           `mapstructure:"mock"`
	MaxChars  int            `mapstructure:"max_chars"`
	Timeout   time.Duration  `mapstructure:"timeout"`
	OpenAI    ProviderConfig `mapstructure:"openai"`
	Anthropic ProviderConfig `mapstructure:"anthropic"`
	Ollama    OllamaConfig   `mapstructure:"ollama"`
}

// GLPIConfig holds connection settings for the GLPI REST API.
type GLPIConfig struct {
	APIURL    string        `mapstructure:"api_url"`
	AppToken  string        `mapstructure:"app_token"`
	UserToken string        `mapstructure:"user_token"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// EmailConfig holds batch summary delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ToAddress   string `mapstructure:"to_address"`
}

// Load reads configuration from environment variables with the DOCBRIDGE_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCBRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Files defaults
	v.SetDefault("files.allowed_roots", "")
	v.SetDefault("files.allowed_extensions", "pdf,txt,doc,docx")
	v.SetDefault("files.folder_success", "")
	v.SetDefault("files.folder_errors", "")
	v.SetDefault("files.host_allowed_roots", "")
	v.SetDefault("files.host_folder_success", "")
	v.SetDefault("files.host_folder_errors", "")

	// LLM defaults
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.mock", false)
	v.SetDefault("llm.max_chars", 10000)
	v.SetDefault("llm.timeout", "60s")
	v.SetDefault("llm.openai.api_key", "")
	v.SetDefault("llm.openai.model", "gpt-4-turbo-preview")
	v.SetDefault("llm.openai.endpoint", "")
	v.SetDefault("llm.anthropic.api_key", "")
	v.SetDefault("llm.anthropic.model", "claude-3-sonnet-20240229")
	v.SetDefault("llm.anthropic.endpoint", "")
	v.SetDefault("llm.ollama.base_url", "http://localhost:11434")
	v.SetDefault("llm.ollama.model", "llama2")

	// GLPI defaults
	v.SetDefault("glpi.api_url", "")
	v.SetDefault("glpi.app_token", "")
	v.SetDefault("glpi.user_token", "")
	v.SetDefault("glpi.timeout", "30s")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "eu-west-1")
	v.SetDefault("email.from_address", "noreply@docbridge.local")
	v.SetDefault("email.from_name", "Docbridge")
	v.SetDefault("email.to_address", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "DOCBRIDGE_SERVER_PORT",
		"server.read_timeout":       "DOCBRIDGE_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "DOCBRIDGE_SERVER_WRITE_TIMEOUT",
		"server.environment":        "DOCBRIDGE_SERVER_ENVIRONMENT",
		"log.level":                 "DOCBRIDGE_LOG_LEVEL",
		"log.format":                "DOCBRIDGE_LOG_FORMAT",
		"files.allowed_roots":       "DOCBRIDGE_FILES_ALLOWED_ROOTS",
		"files.allowed_extensions":  "DOCBRIDGE_FILES_ALLOWED_EXTENSIONS",
		"files.folder_success":      "DOCBRIDGE_FILES_FOLDER_SUCCESS",
		"files.folder_errors":       "DOCBRIDGE_FILES_FOLDER_ERRORS",
		"files.host_allowed_roots":  "DOCBRIDGE_FILES_HOST_ALLOWED_ROOTS",
		"files.host_folder_success": "DOCBRIDGE_FILES_HOST_FOLDER_SUCCESS",
		"files.host_folder_errors":  "DOCBRIDGE_FILES_HOST_FOLDER_ERRORS",
		"llm.provider":              "DOCBRIDGE_LLM_PROVIDER",
		"llm.mock":                  "DOCBRIDGE_LLM_MOCK",
		"llm.max_chars":             "DOCBRIDGE_LLM_MAX_CHARS",
		"llm.timeout":               "DOCBRIDGE_LLM_TIMEOUT",
		"llm.openai.api_key":        "DOCBRIDGE_LLM_OPENAI_API_KEY",
		"llm.openai.model":          "DOCBRIDGE_LLM_OPENAI_MODEL",
		"llm.openai.endpoint":       "DOCBRIDGE_LLM_OPENAI_ENDPOINT",
		"llm.anthropic.api_key":     "DOCBRIDGE_LLM_ANTHROPIC_API_KEY",
		"llm.anthropic.model":       "DOCBRIDGE_LLM_ANTHROPIC_MODEL",
		"llm.anthropic.endpoint":    "DOCBRIDGE_LLM_ANTHROPIC_ENDPOINT",
		"llm.ollama.base_url":       "DOCBRIDGE_LLM_OLLAMA_BASE_URL",
		"llm.ollama.model":          "DOCBRIDGE_LLM_OLLAMA_MODEL",
		"glpi.api_url":              "DOCBRIDGE_GLPI_API_URL",
		"glpi.app_token":            "DOCBRIDGE_GLPI_APP_TOKEN",
		"glpi.user_token":           "DOCBRIDGE_GLPI_USER_TOKEN",
		"glpi.timeout":              "DOCBRIDGE_GLPI_TIMEOUT",
		"email.provider":            "DOCBRIDGE_EMAIL_PROVIDER",
		"email.region":              "DOCBRIDGE_EMAIL_REGION",
		"email.from_address":        "DOCBRIDGE_EMAIL_FROM_ADDRESS",
		"email.from_name":           "DOCBRIDGE_EMAIL_FROM_NAME",
		"email.to_address":          "DOCBRIDGE_EMAIL_TO_ADDRESS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	cfg.Server = ServerConfig{
		Port:         v.GetString("server.port"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Files = FilesConfig{
		AllowedRoots:      splitList(v.GetString("files.allowed_roots")),
		AllowedExtensions: normalizeExtensions(splitList(v.GetString("files.allowed_extensions"))),
		FolderSuccess:     v.GetString("files.folder_success"),
		FolderErrors:      v.GetString("files.folder_errors"),
		HostAllowedRoots:  splitList(v.GetString("files.host_allowed_roots")),
		HostFolderSuccess: v.GetString("files.host_folder_success"),
		HostFolderErrors:  v.GetString("files.host_folder_errors"),
	}
	cfg.LLM = LLMConfig{
		Provider: v.GetString("llm.provider"),
		Mock:     v.GetBool("llm.mock"),
		MaxChars: v.GetInt("llm.max_chars"),
		Timeout:  v.GetDuration("llm.timeout"),
		OpenAI: ProviderConfig{
			APIKey:   v.GetString("llm.openai.api_key"),
			Model:    v.GetString("llm.openai.model"),
			Endpoint: v.GetString("llm.openai.endpoint"),
		},
		Anthropic: ProviderConfig{
			APIKey:   v.GetString("llm.anthropic.api_key"),
			Model:    v.GetString("llm.anthropic.model"),
			Endpoint: v.GetString("llm.anthropic.endpoint"),
		},
		Ollama: OllamaConfig{
			BaseURL: v.GetString("llm.ollama.base_url"),
			Model:   v.GetString("llm.ollama.model"),
		},
	}
	cfg.GLPI = GLPIConfig{
		APIURL:    v.GetString("glpi.api_url"),
		AppToken:  v.GetString("glpi.app_token"),
		UserToken: v.GetString("glpi.user_token"),
		Timeout:   v.GetDuration("glpi.timeout"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		ToAddress:   v.GetString("email.to_address"),
	}

	if err := cfg.Files.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.LLM.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate fails fast on an unusable filesystem policy. Roots must be
// absolute and free of parent-traversal segments; host-view lists, when
// set, must pair one-to-one with the internal lists.
func (f *FilesConfig) Validate() error {
	for _, root := range f.AllowedRoots {
		if !filepath.IsAbs(root) {
			return fmt.Errorf("allowed root %q must be an absolute path", root)
		}
		if containsTraversal(root) {
			return fmt.Errorf("allowed root %q must not contain '..'", root)
		}
	}
	if len(f.HostAllowedRoots) > 0 && len(f.HostAllowedRoots) != len(f.AllowedRoots) {
		return fmt.Errorf("host_allowed_roots has %d entries, allowed_roots has %d",
			len(f.HostAllowedRoots), len(f.AllowedRoots))
	}
	for _, folder := range []string{f.FolderSuccess, f.FolderErrors} {
		if folder != "" && !filepath.IsAbs(folder) {
			return fmt.Errorf("relocation folder %q must be an absolute path", folder)
		}
	}
	return nil
}

// Validate checks the provider name. Credential checks happen when the
// gateway is constructed, so a default configuration still loads.
func (l *LLMConfig) Validate() error {
	if l.Mock {
		return nil
	}
	switch l.Provider {
	case "openai", "anthropic", "ollama":
		return nil
	default:
		return fmt.Errorf("unsupported LLM provider: %s", l.Provider)
	}
}

// HostRoots returns the external-view allowed roots, defaulting to the
// internal roots when no host view is configured.
func (f *FilesConfig) HostRoots() []string {
	if len(f.HostAllowedRoots) == len(f.AllowedRoots) && len(f.HostAllowedRoots) > 0 {
		return f.HostAllowedRoots
	}
	return f.AllowedRoots
}

// HostSuccess returns the external view of the success folder.
func (f *FilesConfig) HostSuccess() string {
	if f.HostFolderSuccess != "" {
		return f.HostFolderSuccess
	}
	return f.FolderSuccess
}

// HostErrors returns the external view of the errors folder.
func (f *FilesConfig) HostErrors() string {
	if f.HostFolderErrors != "" {
		return f.HostFolderErrors
	}
	return f.FolderErrors
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimPrefix(e, "."))
		if e != "" {
			out = append(out, e)
		}
	}
	return out
}

func containsTraversal(path string) bool {
	for _, seg := range strings.Split(filepath.ToSlash(path), "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
