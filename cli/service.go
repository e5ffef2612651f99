package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/viant/scy"
	"github.com/viant/scy/cred"
	"github.com/viant/tenantadmin"
	"github.com/viant/tenantadmin/admin"
	"github.com/viant/tenantadmin/client/request"
	"github.com/viant/tenantadmin/client/session"
	"github.com/viant/tenantadmin/config"
	"github.com/viant/tenantadmin/internal/logging"
)

// Service executes tenantctl commands against one configured client.
type Service struct {
	options *Options
	client  *tenantadmin.Client
	stdout  io.Writer
}

// New loads the configuration, applies the flag overrides and opens the client.
func New(ctx context.Context, options *Options, stdout io.Writer) (*Service, error) {
	cfg, err := config.Load(options.EnvFile)
	if err != nil {
		return nil, err
	}
	options.apply(cfg)
	if cfg.SessionURL == "" && cfg.RedisAddr == "" {
		cfg.SessionURL = defaultSessionURL()
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogPretty)
	client, err := tenantadmin.New(ctx, cfg, tenantadmin.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return &Service{options: options, client: client, stdout: stdout}, nil
}

func (o *Options) apply(cfg *config.Config) {
	if o.URL != "" {
		cfg.BaseURL = o.URL
	}
	if o.Session != "" {
		cfg.SessionURL = o.Session
	}
	if o.Redis != "" {
		cfg.RedisAddr = o.Redis
	}
	if o.CookieJar != "" {
		cfg.CookieJar = o.CookieJar
	}
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.Pretty {
		cfg.LogPretty = true
	}
}

func defaultSessionURL() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "tenantadmin", "session.json")
}

// Close releases the client.
func (s *Service) Close() error {
	return s.client.Close()
}

// Execute runs the named command.
func (s *Service) Execute(ctx context.Context, command string) error {
	switch command {
	case "login":
		return s.login(ctx)
	case "logout":
		return s.client.Auth.Logout(ctx)
	case "whoami":
		return s.whoami(ctx)
	case "get":
		return s.get(ctx)
	case "tenants":
		return s.tenants(ctx)
	}
	return fmt.Errorf("unsupported command: %v", command)
}

func (s *Service) login(ctx context.Context) error {
	options := s.options.Login
	if options.Credentials != "" {
		basic, err := loadCredentials(ctx, options.Credentials, options.Key)
		if err != nil {
			return err
		}
		if options.Email == "" {
			options.Email = basic.Username
		}
		if options.Password == "" {
			options.Password = basic.Password
		}
	}
	if options.Email == "" || options.Password == "" {
		return fmt.Errorf("email and password are required")
	}
	state, err := s.client.Auth.Login(ctx, &admin.Credentials{Email: options.Email, Password: options.Password, Tenant: options.Tenant})
	if err != nil {
		return err
	}
	return s.print(map[string]any{
		"tenant":    state.TenantSlug,
		"expiresAt": state.ExpiresAt,
		"user":      state.User,
	})
}

func loadCredentials(ctx context.Context, URL, key string) (*cred.Basic, error) {
	secret, err := scy.New().Load(ctx, scy.NewResource(&cred.Basic{}, URL, key))
	if err != nil {
		return nil, fmt.Errorf("failed to load credentials %v: %w", URL, err)
	}
	basic, ok := secret.Target.(*cred.Basic)
	if !ok {
		return nil, fmt.Errorf("unexpected credentials type: %T", secret.Target)
	}
	return basic, nil
}

func (s *Service) whoami(ctx context.Context) error {
	state := s.client.Session.State()
	if !state.Authenticated() {
		return session.ErrNotAuthenticated
	}
	user, err := s.client.Auth.Me(ctx)
	if err != nil {
		return err
	}
	return s.print(user)
}

func (s *Service) get(ctx context.Context) error {
	query := url.Values{}
	for _, item := range s.options.Get.Query {
		name, value, ok := strings.Cut(item, "=")
		if !ok || name == "" {
			return fmt.Errorf("invalid query parameter %q, expected name=value", item)
		}
		query.Add(name, value)
	}
	result, err := s.client.API.Get(ctx, s.options.Get.Args.Path, request.WithQuery(query))
	if err != nil {
		return err
	}
	return s.print(result.Data)
}

func (s *Service) tenants(ctx context.Context) error {
	var query url.Values
	if search := s.options.Tenants.Search; search != "" {
		query = url.Values{"search": {search}}
	}
	tenants, err := s.client.Tenants.List(ctx, query)
	if err != nil {
		return err
	}
	return s.print(tenants)
}

func (s *Service) print(value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.stdout, string(data))
	return err
}
