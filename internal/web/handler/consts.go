package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath is the prefix of the auth API routes.
	APIPath = "/api/auth"

	// ProvidersPath lists the configured providers.
	ProvidersPath = APIPath + "/providers"

	// SignInPath starts the flow of a provider.
	SignInPath = APIPath + "/signin/:provider"

	// CallbackPath is where providers redirect back to.
	CallbackPath = APIPath + "/callback/:provider"

	// SessionPath returns the current session.
	SessionPath = APIPath + "/session"

	// SignOutPath clears the session.
	SignOutPath = APIPath + "/signout"

	// ErrNilFatalLogMsg is used if app, cfg or a dependency pointer is nil.
	ErrNilFatalLogMsg = "app, cfg or dependencies are nil"
)

// Sign-in error codes passed to the sign-in page as ?error=.
const (
	ErrCodeAccessDenied  = "AccessDenied"
	ErrCodeOAuthCallback = "OAuthCallback"
	ErrCodeOAuthSignin   = "OAuthSignin"
	ErrCodeEmailRequired = "EmailRequired"
	ErrCodeCallback      = "Callback"
)
