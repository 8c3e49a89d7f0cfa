// Package routes defines the application's screens and the navigation guard
// that keeps anonymous users on the auth screens.
package routes

import (
	"strings"
	"sync"
)

// Name identifies a route.
type Name string

// Route names.
const (
	Root       Name = "root"
	Add        Name = "add"
	Interviews Name = "interviews"
	Interview  Name = "interview"
	Statistics Name = "statistics"
	Auth       Name = "auth"
	Login      Name = "login"
	Register   Name = "register"
	NotFound   Name = "not-found"
)

// Route paths.
const (
	PathRoot       = "/"
	PathAdd        = "/add"
	PathInterviews = "/interviews"
	PathInterview  = "/interview/:id"
	PathStatistics = "/statistics"
	PathAuth       = "/auth"
	PathLogin      = "/auth/login"
	PathRegister   = "/auth/register"
)

// Route is one entry of the routing table.
type Route struct {
	Name         Name
	Path         string
	Redirect     string
	RequiresAuth bool
}

// Table is the routing table, in match order. Anything unmatched is NotFound.
var Table = []Route{
	{Name: Root, Path: PathRoot, Redirect: PathInterviews, RequiresAuth: true},
	{Name: Add, Path: PathAdd, RequiresAuth: true},
	{Name: Interviews, Path: PathInterviews, RequiresAuth: true},
	{Name: Interview, Path: PathInterview, RequiresAuth: true},
	{Name: Statistics, Path: PathStatistics, RequiresAuth: true},
	{Name: Auth, Path: PathAuth, Redirect: PathLogin},
	{Name: Login, Path: PathLogin},
	{Name: Register, Path: PathRegister},
}

// Location is a resolved navigation target.
type Location struct {
	Name   Name
	Path   string
	Params map[string]string
}

// AuthChecker tells the guard whether a session exists.
type AuthChecker interface {
	IsLoggedIn() bool
}

// Router tracks the current location and applies the auth guard.
type Router struct {
	auth AuthChecker

	mu      sync.RWMutex
	current Location
	history []Location
}

// NewRouter creates a router guarded by auth.
func NewRouter(auth AuthChecker) *Router {
	return &Router{auth: auth}
}

// SetAuth replaces the guard's session source. The user store and router
// reference each other, so one of them is wired after construction.
func (r *Router) SetAuth(auth AuthChecker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.auth = auth
}

// Resolve matches path against the table following redirects, without
// applying the guard.
func Resolve(path string) (Route, Location) {
	for i := 0; i < len(Table); i++ { // redirects never chain more than the table size
		path = normalize(path)
		route, params, ok := match(path)
		if !ok {
			return Route{Name: NotFound, Path: path}, Location{Name: NotFound, Path: path}
		}
		if route.Redirect == "" {
			return route, Location{Name: route.Name, Path: path, Params: params}
		}
		path = route.Redirect
	}
	return Route{Name: NotFound, Path: path}, Location{Name: NotFound, Path: path}
}

func match(path string) (Route, map[string]string, bool) {
	for _, route := range Table {
		if params, ok := matchPattern(route.Path, path); ok {
			return route, params, true
		}
	}
	return Route{}, nil, false
}

func matchPattern(pattern, path string) (map[string]string, bool) {
	if pattern == path {
		return nil, true
	}
	pp := strings.Split(strings.Trim(pattern, "/"), "/")
	sp := strings.Split(strings.Trim(path, "/"), "/")
	if len(pp) != len(sp) {
		return nil, false
	}

	var params map[string]string
	for i := range pp {
		if strings.HasPrefix(pp[i], ":") {
			if sp[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[pp[i][1:]] = sp[i]
			continue
		}
		if pp[i] != sp[i] {
			return nil, false
		}
	}
	return params, true
}

func normalize(path string) string {
	if path == "" {
		return PathRoot
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}
	return path
}

// Navigate resolves path, applies the guard and makes the result current.
// Guarded routes send anonymous users to the login screen.
func (r *Router) Navigate(path string) Location {
	route, loc := Resolve(path)

	r.mu.Lock()
	defer r.mu.Unlock()

	if route.RequiresAuth && (r.auth == nil || !r.auth.IsLoggedIn()) {
		_, loc = Resolve(PathLogin)
	}

	r.current = loc
	r.history = append(r.history, loc)
	return loc
}

// PathFor builds the concrete path of an Interview route.
func PathFor(id string) string {
	return strings.Replace(PathInterview, ":id", id, 1)
}

// Current returns the current location.
func (r *Router) Current() Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// History returns every location navigated to, oldest first.
func (r *Router) History() []Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Location, len(r.history))
	copy(out, r.history)
	return out
}
