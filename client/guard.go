package client

// Paths reachable without a session
var publicPaths = map[string]bool{
	"/":              true,
	"/auth/login":    true,
	"/auth/register": true,
}

// LoginPath is where unauthenticated visitors of protected pages are sent
const LoginPath = "/auth/login"

// HomePath is where authenticated visitors of public pages are sent
const HomePath = "/dashboard"

// GuardDecision is the access guard's verdict for one path
type GuardDecision struct {
	// Allow means the page renders
	Allow bool
	// Checking means the session is still being restored; render a
	// placeholder, never the protected content
	Checking bool
	// RedirectTo, when set, is where to navigate instead
	RedirectTo string
}

// Decide is the access guard. It is a pure function of the requested path
// and the session snapshot: it never mutates state, so callers decide how
// to act on the verdict (navigation is a separate effect).
func Decide(path string, session SessionSnapshot) GuardDecision {
	// Until the bootstrapper finishes, nothing is known about the
	// session; protected content must not flash
	if !session.IsInitialized || session.IsLoading {
		return GuardDecision{Checking: true}
	}

	if publicPaths[path] {
		// Only the landing page bounces a signed-in user to the dashboard;
		// the auth pages still render for them
		if session.IsAuthenticated && path == "/" {
			return GuardDecision{RedirectTo: HomePath}
		}
		return GuardDecision{Allow: true}
	}

	if !session.IsAuthenticated {
		return GuardDecision{RedirectTo: LoginPath}
	}

	return GuardDecision{Allow: true}
}

// IsPublicPath reports whether a path is reachable without a session
func IsPublicPath(path string) bool {
	return publicPaths[path]
}
