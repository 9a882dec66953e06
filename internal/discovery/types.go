package discovery

// Project is a git checkout found under one of the configured roots
type Project struct {
	Name string // Last path segment before /.git/
	Path string // Directory containing .git
}

// RescanEvent asks the host to run discovery again
type RescanEvent struct {
	Root   string // Root whose tree changed
	Reason string // Path that triggered the event
}
