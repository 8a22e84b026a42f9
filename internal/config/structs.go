package config

import (
	"time"

	"github.com/authcore/authcore/internal/logger"
)

const (
	// DefaultSessionMaxAge is the lifetime of an issued session token and its cookie (90 days).
	DefaultSessionMaxAge = 90 * 24 * time.Hour

	// MinSessionMaxAge is the shortest accepted session lifetime.
	MinSessionMaxAge = time.Minute

	// DefaultSignInPath is the route unauthenticated callers are sent to.
	DefaultSignInPath = "/user-auth"

	// DefaultCookieName is the name of the cookie holding the session token.
	DefaultCookieName = "authcore.session-token"

	// DefaultSessionIssuer is the iss claim written into session tokens.
	DefaultSessionIssuer = "authcore"

	// DefaultStateTTL is how long an OAuth state value stays redeemable.
	DefaultStateTTL = 10 * time.Minute
)

// Config overall data structure.
type Config struct {
	DevMode    bool // enable dev mode for development
	DB         DB
	Log        logger.Log
	Title      string
	Webserver  Webserver
	Auth       Auth
	Session    Session
	StateStore StateStore
}

// DB holds the database configuration settings.
type DB struct {
	Extras     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	GormEngine string `validate:"omitempty,oneof=sqlite mysql postgres"` // sqlite (default), mysql or postgres
	Path       string // sqlite database file, ":memory:" allowed
}

// Webserver implement webserver settings.
type Webserver struct {
	Domain       string // domain name for the webserver
	Port         int    // listening port for the webserver
	ShutDownTime int    // wait time for shutdown
	URL          string // base url for the webserver, used to build OAuth redirect urls
}

// Auth holds the identity provider credentials and sign-in routing.
type Auth struct {
	// SignInPath is the sign-in entry route, e.g. /user-auth.
	SignInPath string
	// CallbackURL is where a successful sign-in lands when the caller gave none.
	CallbackURL string
	GitHub      Provider
	Google      Provider
}

// Provider holds one OAuth client registration. The values are passed through unvalidated.
type Provider struct {
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Enabled reports whether both client id and secret are present.
func (p Provider) Enabled() bool {
	return p.ClientID != "" && p.ClientSecret != ""
}

// Session settings for issued session tokens.
type Session struct {
	MaxAge     time.Duration
	Secret     string // HMAC signing secret; generated and stored in the db when empty
	Issuer     string
	CookieName string
}

// StateStore selects where OAuth state values live between redirect and callback.
type StateStore struct {
	Backend string // memory, redis or database
	TTL     time.Duration
	Redis   Redis
}

// Redis connection settings for the redis state backend.
type Redis struct {
	Addr     string
	Password string
	DB       int
}
