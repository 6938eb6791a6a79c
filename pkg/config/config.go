// Package config loads and validates the scan options. Flags, an optional
// config file and WPVANE_* environment variables are merged with viper;
// flags set on the command line win.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/waftester/wpvane/pkg/defaults"
	"github.com/waftester/wpvane/pkg/duration"
	"github.com/waftester/wpvane/pkg/httpclient"
	"github.com/waftester/wpvane/pkg/regexcache"
)

// Options holds every scan setting.
type Options struct {
	URL          string `mapstructure:"url"`
	Enumerate    string `mapstructure:"enumerate"`
	WPContentDir string `mapstructure:"wp-content-dir"`
	WPPluginsDir string `mapstructure:"wp-plugins-dir"`

	Proxy     string `mapstructure:"proxy"`
	ProxyAuth string `mapstructure:"proxy-auth"`
	BasicAuth string `mapstructure:"basic-auth"`

	Wordlist string `mapstructure:"wordlist"`
	Username string `mapstructure:"username"`
	Threads  int    `mapstructure:"threads"`

	UserAgent         string        `mapstructure:"user-agent"`
	RandomAgent       bool          `mapstructure:"random-agent"`
	Timeout           time.Duration `mapstructure:"timeout"`
	Throttle          float64       `mapstructure:"throttle"`
	DisableTLSChecks  bool          `mapstructure:"disable-tls-checks"`
	FollowRedirection bool          `mapstructure:"follow-redirection"`
	Force             bool          `mapstructure:"force"`

	// ExcludeContent is a regexp; responses whose body matches it count
	// as absent during aggressive enumeration.
	ExcludeContent string `mapstructure:"exclude-content-based"`

	Verbose bool   `mapstructure:"verbose"`
	NoColor bool   `mapstructure:"no-color"`
	Format  string `mapstructure:"format"`
	Output  string `mapstructure:"output"`
	LogFile string `mapstructure:"log-file"`

	CorpusDir    string `mapstructure:"corpus-dir"`
	MetricsAddr  string `mapstructure:"metrics-addr"`
	OTLPEndpoint string `mapstructure:"otlp-endpoint"`
	ConfigFile   string `mapstructure:"config-file"`

	// Enumeration is ParseEnumerate(Enumerate), filled in by Validate.
	Enumeration Enumeration `mapstructure:"-"`
}

// RegisterFlags adds every option to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("url", "u", "", "The WordPress URL/domain to scan")
	fs.StringP("enumerate", "e", "", "Enumeration: u[range], p, vp, ap, t, vt, at, tt (comma separated); bare -e means "+DefaultEnumerate)
	fs.Lookup("enumerate").NoOptDefVal = DefaultEnumerate
	fs.String("wp-content-dir", "", "Custom wp-content directory, when not detected")
	fs.String("wp-plugins-dir", "", "Custom plugins directory (requires --wp-content-dir)")
	fs.String("proxy", "", "Proxy URL: [protocol://]host:port (http, https, socks5, socks5h)")
	fs.String("proxy-auth", "", "Proxy credentials as login:password")
	fs.String("basic-auth", "", "HTTP basic auth credentials as login:password")
	fs.StringP("wordlist", "w", "", "Password wordlist for brute forcing")
	fs.StringP("username", "U", "", "Only brute force these usernames (comma separated)")
	fs.IntP("threads", "t", defaults.Threads, "Maximum number of concurrent requests")
	fs.StringP("user-agent", "a", "", "User-Agent header")
	fs.BoolP("random-agent", "r", false, "Use a browser User-Agent")
	fs.Duration("timeout", duration.HTTPScanning, "Per-request timeout")
	fs.Float64("throttle", 0, "Maximum requests per second (0 = unlimited)")
	fs.Bool("disable-tls-checks", false, "Skip TLS certificate verification")
	fs.Bool("follow-redirection", false, "Follow a redirect on the homepage")
	fs.Bool("force", false, "Scan even if the target does not look like WordPress")
	fs.String("exclude-content-based", "", "Regexp (case insensitive); enumerated pages whose body matches it are treated as absent")
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.Bool("no-color", false, "Disable colored output")
	fs.StringP("format", "f", "text", "Report format: text or json")
	fs.StringP("output", "o", "", "Write the report to a file instead of stdout")
	fs.String("log-file", "", "Also write logs to this file (rotated)")
	fs.String("corpus-dir", "data", "Directory holding the reference data files")
	fs.String("metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	fs.String("otlp-endpoint", "", "Export traces to this OTLP gRPC endpoint")
	fs.StringP("config-file", "c", "", "YAML or JSON file with default option values")
}

// AttachEnumerateValue hands the first positional argument to a bare
// -e/--enumerate, so "-e vp" means what it says while a lone "-e" keeps
// DefaultEnumerate. It returns the arguments left over.
func AttachEnumerateValue(fs *pflag.FlagSet, args []string) ([]string, error) {
	f := fs.Lookup("enumerate")
	if f == nil || !f.Changed || f.Value.String() != f.NoOptDefVal || len(args) == 0 {
		return args, nil
	}
	if err := fs.Set("enumerate", args[0]); err != nil {
		return args, err
	}
	return args[1:], nil
}

// Load merges fs with the config file and environment, then validates.
func Load(fs *pflag.FlagSet) (*Options, error) {
	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(defaults.ToolName))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: bind flags: %w", err)
	}

	if path := v.GetString("config-file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %w", ErrInvalidConfig, path, err)
		}
	}

	var opts Options
	if err := v.Unmarshal(&opts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &opts, nil
}

// Validate checks option combinations. It never touches the network.
func (o *Options) Validate() error {
	if strings.TrimSpace(o.URL) == "" {
		return fmt.Errorf("%w: url", ErrMissingRequired)
	}
	if o.Threads < 1 {
		return invalid("threads must be at least 1, got %d", o.Threads)
	}
	if o.Threads > defaults.ThreadsMax {
		return invalid("threads must be at most %d, got %d", defaults.ThreadsMax, o.Threads)
	}
	if o.Timeout <= 0 {
		return invalid("timeout must be positive")
	}
	if o.Throttle < 0 {
		return invalid("throttle must not be negative")
	}

	if o.Wordlist != "" {
		info, err := os.Stat(o.Wordlist)
		if err != nil {
			return invalid("the wordlist %s does not exist", o.Wordlist)
		}
		if info.IsDir() {
			return invalid("the wordlist %s is a directory", o.Wordlist)
		}
	}
	if o.Username != "" && o.Wordlist == "" {
		return invalid("--username requires --wordlist")
	}

	if o.Proxy != "" {
		if _, err := httpclient.ParseProxyURL(o.Proxy); err != nil {
			return invalid("proxy: %v", err)
		}
	}
	if o.ProxyAuth != "" {
		if o.Proxy == "" {
			return invalid("--proxy-auth requires --proxy")
		}
		if _, _, ok := httpclient.SplitCredentials(o.ProxyAuth); !ok {
			return invalid("invalid proxy auth format, login:password expected")
		}
	}
	if o.BasicAuth != "" {
		if _, _, ok := httpclient.SplitCredentials(o.BasicAuth); !ok {
			return invalid("invalid basic auth format, login:password expected")
		}
	}
	if o.WPPluginsDir != "" && o.WPContentDir == "" {
		return invalid("--wp-plugins-dir requires --wp-content-dir")
	}

	switch strings.ToLower(o.Format) {
	case "", "text", "json":
	default:
		return invalid("unknown format %q", o.Format)
	}

	if _, err := o.ExcludePattern(); err != nil {
		return invalid("invalid --exclude-content-based pattern: %v", err)
	}

	e, err := ParseEnumerate(o.Enumerate)
	if err != nil {
		return err
	}
	o.Enumeration = e
	return nil
}

// ExcludePattern compiles ExcludeContent, case-insensitively. It returns
// nil when no pattern is set.
func (o *Options) ExcludePattern() (*regexp.Regexp, error) {
	if o.ExcludeContent == "" {
		return nil, nil
	}
	return regexcache.Get("(?i)" + o.ExcludeContent)
}

// Usernames returns the --username list.
func (o *Options) Usernames() []string {
	var out []string
	for _, u := range strings.Split(o.Username, ",") {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// EffectiveUserAgent resolves the User-Agent to send.
func (o *Options) EffectiveUserAgent() string {
	switch {
	case o.UserAgent != "":
		return o.UserAgent
	case o.RandomAgent:
		return defaults.RandomUserAgent()
	default:
		return defaults.UserAgent()
	}
}

// HTTPConfig builds the access port configuration.
func (o *Options) HTTPConfig() httpclient.Config {
	cfg := httpclient.DefaultConfig()
	cfg.Timeout = o.Timeout
	cfg.InsecureSkipVerify = o.DisableTLSChecks
	cfg.Proxy = o.Proxy
	cfg.ProxyAuth = o.ProxyAuth
	cfg.BasicAuth = o.BasicAuth
	cfg.UserAgent = o.EffectiveUserAgent()
	cfg.Throttle = o.Throttle
	cfg.MaxConnsPerHost = o.Threads
	return cfg
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
