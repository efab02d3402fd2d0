package domain

// FileHistory is the snapshot record kept for a file under the history root.
// The JSON field names are shared with other readers of the sandbox.
type FileHistory struct {
	OriginalContent string          `json:"originalContent" yaml:"originalContent"`
	LastModified    int64           `json:"lastModified" yaml:"lastModified"`
	Changes         []HistoryChange `json:"changes" yaml:"changes"`
	Versions        []FileVersion   `json:"versions" yaml:"versions"`
	ChangeSource    ChangeSource    `json:"changeSource,omitempty" yaml:"changeSource,omitempty"`
}

// HistoryChange is one chunk of a line diff.
type HistoryChange struct {
	Value   string `json:"value" yaml:"value"`
	Count   int    `json:"count,omitempty" yaml:"count,omitempty"`
	Added   bool   `json:"added,omitempty" yaml:"added,omitempty"`
	Removed bool   `json:"removed,omitempty" yaml:"removed,omitempty"`
}

// FileVersion is a full copy of a file at a point in time (unix millis).
type FileVersion struct {
	Timestamp int64  `json:"timestamp" yaml:"timestamp"`
	Content   string `json:"content" yaml:"content"`
}

// BuildOutput describes a successful build, retained for a later deploy.
type BuildOutput struct {
	Path     string
	ExitCode int
	Output   string
}
