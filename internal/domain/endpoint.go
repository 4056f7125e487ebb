package domain

// RouteMatch is one route declaration found in a file's text.
type RouteMatch struct {
	// Path is the literal captured string, with no normalization.
	Path string
	// Line is the 1-based line the declaration starts on.
	Line int
}

// EndpointRecord is an endpoint path discovered in source code.
type EndpointRecord struct {
	// Location is the file the path was found in.
	Location string `json:"location"`
	// Path is the literal route string as written in the declaration.
	Path string `json:"path"`
	// Line is informational and never part of a finding's message.
	Line int `json:"line,omitempty"`
}
