package untappd

import (
	"fmt"
	"slices"
)

// EndpointSpec declares one API endpoint and the actions it exposes.
type EndpointSpec struct {
	// Name is the accessor name, e.g. "beer".
	Name string
	// Path is the URL segment under the base URL.
	Path string
	// GetActions are sub-paths invoked with GET.
	GetActions []string
	// PostActions are sub-paths invoked with POST.
	PostActions []string
	// Callable endpoints may be invoked directly as <path>/<id>.
	Callable bool
	// Searchable endpoints expose search/<path>.
	Searchable bool
	// SearchOptions whitelists the option keys forwarded by Search.
	SearchOptions []string
}

// Method returns the HTTP method for action and whether the action exists.
func (s EndpointSpec) Method(action string) (string, bool) {
	if slices.Contains(s.PostActions, action) {
		return "POST", true
	}

	if slices.Contains(s.GetActions, action) {
		return "GET", true
	}

	return "", false
}

// Actions returns every action, GET actions first.
func (s EndpointSpec) Actions() []string {
	actions := make([]string, 0, len(s.GetActions)+len(s.PostActions))
	actions = append(actions, s.GetActions...)

	return append(actions, s.PostActions...)
}

// Validate checks that the spec is internally consistent.
func (s EndpointSpec) Validate() error {
	if s.Name == "" || s.Path == "" {
		return fmt.Errorf("%w: endpoint name and path are required", ErrConfiguration)
	}

	for _, action := range s.PostActions {
		if slices.Contains(s.GetActions, action) {
			return fmt.Errorf("%w: endpoint %s declares %q as both GET and POST", ErrConfiguration, s.Name, action)
		}
	}

	if !s.Searchable && len(s.SearchOptions) > 0 {
		return fmt.Errorf("%w: endpoint %s has search options but is not searchable", ErrConfiguration, s.Name)
	}

	return nil
}

// DefaultEndpoints returns the Untappd v4 endpoint table.
func DefaultEndpoints() []EndpointSpec {
	return []EndpointSpec{
		{
			Name:          "beer",
			Path:          "beer",
			GetActions:    []string{"info", "checkins"},
			Searchable:    true,
			SearchOptions: []string{"offset", "limit", "sort"},
		},
		{
			Name:          "brewery",
			Path:          "brewery",
			GetActions:    []string{"info", "checkins"},
			Searchable:    true,
			SearchOptions: []string{"offset", "limit"},
		},
		{
			Name:        "checkin",
			Path:        "checkin",
			GetActions:  []string{"recent"},
			PostActions: []string{"add", "toast", "addcomment", "deletecomment"},
		},
		{
			Name:       "friend",
			Path:       "friend",
			GetActions: []string{"request", "remove", "accept", "reject"},
		},
		{
			Name:     "notifications",
			Path:     "notifications",
			Callable: true,
		},
		{
			Name:       "search",
			Path:       "search",
			GetActions: []string{"beer", "brewery"},
		},
		{
			Name:       "thepub",
			Path:       "thepub",
			GetActions: []string{"local"},
		},
		{
			Name: "user",
			Path: "user",
			GetActions: []string{
				"checkins",
				"info",
				"wishlist",
				"friends",
				"badges",
				"beers",
				"pending",
				"wishlist/add",
				"wishlist/delete",
			},
		},
		{
			Name:       "venue",
			Path:       "venue",
			GetActions: []string{"info", "checkins", "foursquare_lookup"},
		},
	}
}
