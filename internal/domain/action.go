package domain

// Kind identifies the variant of an Action.
type Kind string

// Action kinds as delivered by the producer.
const (
	KindShell    Kind = "shell"
	KindFile     Kind = "file"
	KindBuild    Kind = "build"
	KindStart    Kind = "start"
	KindDatabase Kind = "database-operation"
)

// Action is one unit of producer-requested work. The concrete types below
// are the only implementations; a type switch over them is exhaustive.
type Action interface {
	Kind() Kind
	isAction()
}

// ChangeSource records who produced a file's content.
type ChangeSource string

const (
	ChangeSourceUser     ChangeSource = "user"
	ChangeSourceAutoSave ChangeSource = "auto-save"
	ChangeSourceExternal ChangeSource = "external"
	ChangeSourceDatabase ChangeSource = "supabase"
)

// ShellAction runs a command line on the shared shell.
type ShellAction struct {
	Content string `json:"content"`
}

// StartAction launches a long-lived process (typically a dev server) on the
// shared shell without blocking later actions.
type StartAction struct {
	Content string `json:"content"`
}

// FileAction writes the full content of a file. Content is never a diff.
type FileAction struct {
	// FilePath is relative to the sandbox root or absolute inside it.
	FilePath     string       `json:"filePath"`
	Content      string       `json:"content"`
	ChangeSource ChangeSource `json:"changeSource,omitempty"`

	// History, when set, is persisted next to the sandbox filesystem after
	// the file has been written.
	History *FileHistory `json:"history,omitempty"`
}

// BuildAction runs the configured build command. It has no payload.
type BuildAction struct{}

// DatabaseOperation selects what a DatabaseAction does.
type DatabaseOperation string

const (
	OperationMigration DatabaseOperation = "migration"
	OperationQuery     DatabaseOperation = "query"
)

// DatabaseAction either records a migration file or asks an external party
// to run a query.
type DatabaseAction struct {
	Operation DatabaseOperation `json:"operation"`
	Content   string            `json:"content"`

	// FilePath is required for migrations.
	FilePath  string `json:"filePath,omitempty"`
	ProjectID string `json:"projectId,omitempty"`
}

func (ShellAction) Kind() Kind    { return KindShell }
func (StartAction) Kind() Kind    { return KindStart }
func (FileAction) Kind() Kind     { return KindFile }
func (BuildAction) Kind() Kind    { return KindBuild }
func (DatabaseAction) Kind() Kind { return KindDatabase }

func (ShellAction) isAction()    {}
func (StartAction) isAction()    {}
func (FileAction) isAction()     {}
func (BuildAction) isAction()    {}
func (DatabaseAction) isAction() {}

// ActionData is a producer-delivered action together with its stable
// identifier, unique for the lifetime of a conversation.
type ActionData struct {
	ID     string
	Action Action
}
